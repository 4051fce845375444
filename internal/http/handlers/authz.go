package handlers

import (
	"strings"

	"crm/internal/domain"
	applog "crm/internal/log"
	"crm/internal/services"

	"github.com/gofiber/fiber/v2"
)

const localIdentity = "identity"

// bearer pulls the credential out of the Authorization header. Both
// "Bearer <token>" and a bare token are accepted.
func bearer(c *fiber.Ctx) string {
	h := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return h
}

// RequireUser rejects requests without a valid credential and stores the
// caller's identity in Locals for the handlers behind it.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := bearer(c)
		if tok == "" {
			applog.Security(c, "auth.missing", nil)
			return domain.ErrUnauthenticated
		}
		id, err := auth.CurrentUser(tok)
		if err != nil {
			applog.Security(c, "auth.rejected", nil)
			return domain.ErrUnauthenticated
		}
		c.Locals(localIdentity, id)
		c.Locals(applog.LocalUserID, id.ID)
		return c.Next()
	}
}

func identity(c *fiber.Ctx) domain.Identity {
	id, _ := c.Locals(localIdentity).(domain.Identity)
	return id
}

func parse(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"reason": "malformed_body"})
		return domain.Invalid("malformed request body")
	}
	return nil
}
