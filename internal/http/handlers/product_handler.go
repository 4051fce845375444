package handlers

import (
	applog "crm/internal/log"
	"crm/internal/services"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Catalog *services.CatalogService
	Ledger  *services.InventoryService
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	ps, err := h.Catalog.ListProducts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(ps)
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	p, err := h.Catalog.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// Availability reports the ledger's current stock for one product.
func (h *ProductHandler) Availability(c *fiber.Ctx) error {
	a, err := h.Ledger.Availability(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(a)
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := parse(c, &in); err != nil {
		return err
	}
	p, err := h.Catalog.CreateProduct(c.UserContext(), in)
	if err != nil {
		return err
	}
	applog.Audit(c, "product.create", map[string]any{"product_id": p.ID, "stock": p.Stock})
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := parse(c, &in); err != nil {
		return err
	}
	p, err := h.Catalog.UpdateProduct(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	applog.Audit(c, "product.update", map[string]any{"product_id": p.ID, "stock": p.Stock})
	return c.JSON(p)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Catalog.DeleteProduct(c.UserContext(), id); err != nil {
		return err
	}
	applog.Audit(c, "product.delete", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"message": "product deleted"})
}
