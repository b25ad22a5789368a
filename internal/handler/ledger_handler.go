package handler

import (
	"go-facility-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type LedgerHandler struct {
	ledgerService    service.LedgerService
	valuationService service.ValuationService
}

func NewLedgerHandler(ledgerService service.LedgerService, valuationService service.ValuationService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService, valuationService: valuationService}
}

// RecordEntry handles stock entries
// POST /api/v1/movements/entry
func (h *LedgerHandler) RecordEntry(c *fiber.Ctx) error {
	tc, ok := requireTenant(c)
	if !ok {
		return respondMissingSite(c)
	}

	var req service.EntryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	movement, err := h.ledgerService.RecordEntry(tc, &req, getUserID(c), getUserName(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Entry recorded", "data": movement})
}

// RecordExit handles stock exits
// POST /api/v1/movements/exit
func (h *LedgerHandler) RecordExit(c *fiber.Ctx) error {
	tc, ok := requireTenant(c)
	if !ok {
		return respondMissingSite(c)
	}

	var req service.ExitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	movement, err := h.ledgerService.RecordExit(tc, &req, getUserID(c), getUserName(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Exit recorded", "data": movement})
}

// GetMovements lists movements, optionally filtered by item
// GET /api/v1/movements?item_id=<uuid>
func (h *LedgerHandler) GetMovements(c *fiber.Ctx) error {
	tc, ok := requireTenant(c)
	if !ok {
		return respondMissingSite(c)
	}

	var itemID *uuid.UUID
	if raw := c.Query("item_id"); raw != "" {
		id, err := parseUUID(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid item_id"})
		}
		itemID = &id
	}

	movements, err := h.ledgerService.GetMovements(tc, itemID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	return c.JSON(movements)
}

// GetMovement fetches a single movement
// GET /api/v1/movements/:id
func (h *LedgerHandler) GetMovement(c *fiber.Ctx) error {
	tc, ok := requireTenant(c)
	if !ok {
		return respondMissingSite(c)
	}

	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid movement ID"})
	}

	movement, err := h.ledgerService.GetMovementByID(tc, id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(movement)
}

// DeleteMovement removes a movement and reverses its effect on the counters
// DELETE /api/v1/movements/:id
func (h *LedgerHandler) DeleteMovement(c *fiber.Ctx) error {
	tc, ok := requireTenant(c)
	if !ok {
		return respondMissingSite(c)
	}

	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid movement ID"})
	}

	if err := h.ledgerService.DeleteMovement(tc, id, getUserID(c), getUserName(c)); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Movement deleted"})
}

// ValuateItem computes the stock value of an item
// GET /api/v1/items/:id/valuation?method=current|fifo|weighted_average
func (h *LedgerHandler) ValuateItem(c *fiber.Ctx) error {
	tc, ok := requireTenant(c)
	if !ok {
		return respondMissingSite(c)
	}

	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	method := service.ValuationMethod(c.Query("method", string(service.ValuationCurrent)))

	value, err := h.valuationService.Valuate(tc, id, method)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"item_id": id,
		"method":  method,
		"value":   value,
	})
}
