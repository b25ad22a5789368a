package handler

import (
	"go-facility-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ItemHandler struct {
	itemService     service.ItemService
	supplierService service.SupplierService
}

func NewItemHandler(itemService service.ItemService, supplierService service.SupplierService) *ItemHandler {
	return &ItemHandler{itemService: itemService, supplierService: supplierService}
}

// CreateItem registers a new item in the current site's catalog
// POST /api/v1/items
func (h *ItemHandler) CreateItem(c *fiber.Ctx) error {
	tc, ok := requireTenant(c)
	if !ok {
		return respondMissingSite(c)
	}

	var req service.ItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	item, err := h.itemService.CreateItem(tc, &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Item created", "data": item})
}

// GetItems lists the items visible to the current site
// GET /api/v1/items
func (h *ItemHandler) GetItems(c *fiber.Ctx) error {
	tc, ok := requireTenant(c)
	if !ok {
		return respondMissingSite(c)
	}

	items, err := h.itemService.GetItems(tc)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	return c.JSON(items)
}

// GetItem fetches one item with its projected stock
// GET /api/v1/items/:id
func (h *ItemHandler) GetItem(c *fiber.Ctx) error {
	tc, ok := requireTenant(c)
	if !ok {
		return respondMissingSite(c)
	}

	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	item, err := h.itemService.GetItemByID(tc, id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(item)
}

// UpdateItem updates descriptive fields of an item
// PUT /api/v1/items/:id
func (h *ItemHandler) UpdateItem(c *fiber.Ctx) error {
	tc, ok := requireTenant(c)
	if !ok {
		return respondMissingSite(c)
	}

	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	var req service.ItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	item, err := h.itemService.UpdateItem(tc, id, &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Item updated", "data": item})
}

// DeleteItem soft-deletes an item without movements
// DELETE /api/v1/items/:id
func (h *ItemHandler) DeleteItem(c *fiber.Ctx) error {
	tc, ok := requireTenant(c)
	if !ok {
		return respondMissingSite(c)
	}

	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	if err := h.itemService.DeleteItem(tc, id, getUserID(c)); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Item deleted"})
}

// CreateMaterial registers a consumable material
// POST /api/v1/materials
func (h *ItemHandler) CreateMaterial(c *fiber.Ctx) error {
	tc, ok := requireTenant(c)
	if !ok {
		return respondMissingSite(c)
	}

	var req service.MaterialRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	material, err := h.supplierService.CreateMaterial(tc, &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Material created", "data": material})
}

// GetMaterials lists materials for the current site
// GET /api/v1/materials
func (h *ItemHandler) GetMaterials(c *fiber.Ctx) error {
	tc, ok := requireTenant(c)
	if !ok {
		return respondMissingSite(c)
	}

	materials, err := h.supplierService.GetMaterials(tc)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	return c.JSON(materials)
}
