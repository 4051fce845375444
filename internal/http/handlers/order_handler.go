package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"crm/internal/domain"
	applog "crm/internal/log"
	"crm/internal/services"
)

type OrderHandler struct {
	Orders *services.OrderService
}

func (h *OrderHandler) List(c *fiber.Ctx) error {
	list, err := h.Orders.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// Mine lists the orders placed by the caller.
func (h *OrderHandler) Mine(c *fiber.Ctx) error {
	list, err := h.Orders.ListMine(c.UserContext(), identity(c))
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *OrderHandler) Get(c *fiber.Ctx) error {
	o, err := h.Orders.Get(c.UserContext(), c.Params("id"), identity(c))
	if err != nil {
		return denied(c, "access.denied.order", err)
	}
	return c.JSON(o)
}

func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in services.OrderInput
	if err := parse(c, &in); err != nil {
		return err
	}
	o, err := h.Orders.Create(c.UserContext(), in, identity(c))
	if err != nil {
		return h.rejected(c, "order.create.fail", err)
	}
	applog.Audit(c, "order.create", map[string]any{
		"order_id":  o.ID,
		"client_id": o.ClientID,
		"items":     len(o.Items),
		"total":     o.Total,
	})
	return c.Status(fiber.StatusCreated).JSON(o)
}

func (h *OrderHandler) Update(c *fiber.Ctx) error {
	var in services.OrderInput
	if err := parse(c, &in); err != nil {
		return err
	}
	o, err := h.Orders.Amend(c.UserContext(), c.Params("id"), in, identity(c))
	if err != nil {
		return h.rejected(c, "order.amend.fail", err)
	}
	applog.Audit(c, "order.amend", map[string]any{
		"order_id": o.ID,
		"status":   o.Status,
		"items":    len(o.Items),
	})
	return c.JSON(o)
}

func (h *OrderHandler) rejected(c *fiber.Ctx, action string, err error) error {
	var se *domain.StockError
	switch {
	case errors.As(err, &se):
		applog.Info(c, action, map[string]any{"product_id": se.ProductID, "requested": se.Requested, "available": se.Available})
	case errors.Is(err, domain.ErrForbidden):
		applog.Security(c, "access.denied.order", map[string]any{"id": c.Params("id")})
	}
	return err
}
