package handlers

import (
	"errors"

	"crm/internal/domain"
	applog "crm/internal/log"
	"crm/internal/services"

	"github.com/gofiber/fiber/v2"
)

type ClientHandler struct {
	Clients *services.ClientService
}

func denied(c *fiber.Ctx, action string, err error) error {
	if errors.Is(err, domain.ErrForbidden) {
		applog.Security(c, action, map[string]any{"id": c.Params("id")})
	}
	return err
}

func (h *ClientHandler) List(c *fiber.Ctx) error {
	cs, err := h.Clients.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(cs)
}

func (h *ClientHandler) Mine(c *fiber.Ctx) error {
	cs, err := h.Clients.ListMine(c.UserContext(), identity(c))
	if err != nil {
		return err
	}
	return c.JSON(cs)
}

func (h *ClientHandler) Get(c *fiber.Ctx) error {
	cl, err := h.Clients.Get(c.UserContext(), c.Params("id"), identity(c))
	if err != nil {
		return denied(c, "access.denied.client", err)
	}
	return c.JSON(cl)
}

func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var in services.ClientInput
	if err := parse(c, &in); err != nil {
		return err
	}
	cl, err := h.Clients.Create(c.UserContext(), in, identity(c))
	if err != nil {
		return err
	}
	applog.Audit(c, "client.create", map[string]any{"client_id": cl.ID})
	return c.Status(fiber.StatusCreated).JSON(cl)
}

func (h *ClientHandler) Update(c *fiber.Ctx) error {
	var in services.ClientInput
	if err := parse(c, &in); err != nil {
		return err
	}
	cl, err := h.Clients.Update(c.UserContext(), c.Params("id"), in, identity(c))
	if err != nil {
		return denied(c, "access.denied.client", err)
	}
	applog.Audit(c, "client.update", map[string]any{"client_id": cl.ID})
	return c.JSON(cl)
}

func (h *ClientHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Clients.Delete(c.UserContext(), id, identity(c)); err != nil {
		return denied(c, "access.denied.client", err)
	}
	applog.Audit(c, "client.delete", map[string]any{"client_id": id})
	return c.JSON(fiber.Map{"message": "client deleted"})
}
