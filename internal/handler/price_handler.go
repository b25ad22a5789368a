package handler

import (
	"time"

	"go-facility-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PriceHandler struct {
	priceService service.PriceService
}

func NewPriceHandler(priceService service.PriceService) *PriceHandler {
	return &PriceHandler{priceService: priceService}
}

func parseSupplierQuery(c *fiber.Ctx) (*uuid.UUID, error) {
	raw := c.Query("supplier_id")
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// RecordPricePoint appends a price point to an item's history
// POST /api/v1/prices
func (h *PriceHandler) RecordPricePoint(c *fiber.Ctx) error {
	tc, ok := requireTenant(c)
	if !ok {
		return respondMissingSite(c)
	}

	var req service.PricePointRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	point, err := h.priceService.RecordPricePoint(tc, &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Price recorded", "data": point})
}

// GetCurrentPrice returns the price in effect today
// GET /api/v1/items/:id/price?supplier_id=<uuid>
func (h *PriceHandler) GetCurrentPrice(c *fiber.Ctx) error {
	tc, ok := requireTenant(c)
	if !ok {
		return respondMissingSite(c)
	}

	itemID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	supplierID, err := parseSupplierQuery(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid supplier_id"})
	}

	point, err := h.priceService.CurrentPrice(tc, itemID, supplierID)
	if err != nil {
		return respondError(c, err)
	}
	if point == nil {
		return c.Status(404).JSON(fiber.Map{"error": "No price recorded for this item"})
	}

	return c.JSON(point)
}

// GetPriceAt returns the price in effect on a given date
// GET /api/v1/items/:id/price-at?date=YYYY-MM-DD&supplier_id=<uuid>
func (h *PriceHandler) GetPriceAt(c *fiber.Ctx) error {
	tc, ok := requireTenant(c)
	if !ok {
		return respondMissingSite(c)
	}

	itemID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	at, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date. Use YYYY-MM-DD"})
	}

	supplierID, err := parseSupplierQuery(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid supplier_id"})
	}

	point, err := h.priceService.PriceAt(tc, itemID, at, supplierID)
	if err != nil {
		return respondError(c, err)
	}
	if point == nil {
		return c.Status(404).JSON(fiber.Map{"error": "No price recorded on or before this date"})
	}

	return c.JSON(point)
}

// GetPriceVariation reports the price delta over a period
// GET /api/v1/items/:id/price-variation?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *PriceHandler) GetPriceVariation(c *fiber.Ctx) error {
	tc, ok := requireTenant(c)
	if !ok {
		return respondMissingSite(c)
	}

	itemID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid start date. Use YYYY-MM-DD"})
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid end date. Use YYYY-MM-DD"})
	}

	variation, err := h.priceService.PriceVariation(tc, itemID, start, end)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(variation)
}

// GetPriceHistory returns the full history with aggregate stats
// GET /api/v1/items/:id/price-history
func (h *PriceHandler) GetPriceHistory(c *fiber.Ctx) error {
	tc, ok := requireTenant(c)
	if !ok {
		return respondMissingSite(c)
	}

	itemID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	history, err := h.priceService.History(tc, itemID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(history)
}
