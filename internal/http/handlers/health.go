package handlers

import (
	"context"
	"time"

	applog "crm/internal/log"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
)

type HealthHandler struct {
	DB      *sqlx.DB
	Timeout time.Duration
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	d := h.Timeout
	if d <= 0 {
		d = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(c.UserContext(), d)
	defer cancel()
	if err := h.DB.PingContext(ctx); err != nil {
		applog.Error(c, "health.db", err, nil)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ok": false})
	}
	return c.JSON(fiber.Map{"ok": true})
}
