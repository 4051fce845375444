package handlers

import (
	"errors"

	"crm/internal/domain"
	"crm/internal/log"
	"crm/internal/services"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := parse(c, &in); err != nil {
		return err
	}
	u, err := h.Auth.Register(c.UserContext(), in)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			log.Security(c, "auth.register.duplicate", map[string]any{"email": in.Email})
		}
		return err
	}
	log.Audit(c, "auth.register", map[string]any{"user_id": u.ID})
	return c.Status(fiber.StatusCreated).JSON(u)
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in loginReq
	if err := parse(c, &in); err != nil {
		return err
	}
	tok, err := h.Auth.Authenticate(c.UserContext(), in.Email, in.Password)
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"email": in.Email, "reason": err.Error()})
		return err
	}
	log.Audit(c, "auth.login.success", map[string]any{"email": in.Email})
	return c.JSON(fiber.Map{"token": tok})
}

// Me returns the identity carried by the bearer credential.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(identity(c))
}

type verifyReq struct {
	Token string `json:"token"`
}

func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	var in verifyReq
	if err := parse(c, &in); err != nil {
		return err
	}
	id, err := h.Auth.CurrentUser(in.Token)
	if err != nil {
		return err
	}
	return c.JSON(id)
}
