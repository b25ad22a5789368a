package handler

import (
	"go-facility-api/internal/model"
	"go-facility-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type MaintenanceHandler struct {
	maintenanceService service.MaintenanceService
}

func NewMaintenanceHandler(maintenanceService service.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{maintenanceService: maintenanceService}
}

// CreateMaintenance schedules a maintenance operation
// POST /api/v1/maintenances
func (h *MaintenanceHandler) CreateMaintenance(c *fiber.Ctx) error {
	tc, ok := requireTenant(c)
	if !ok {
		return respondMissingSite(c)
	}

	var req service.MaintenanceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	maintenance, err := h.maintenanceService.CreateMaintenance(tc, &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Maintenance scheduled", "data": maintenance})
}

// GetMaintenances lists maintenance operations for the current site
// GET /api/v1/maintenances
func (h *MaintenanceHandler) GetMaintenances(c *fiber.Ctx) error {
	tc, ok := requireTenant(c)
	if !ok {
		return respondMissingSite(c)
	}

	maintenances, err := h.maintenanceService.GetMaintenances(tc)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(maintenances)
}

// GetMaintenance fetches a single maintenance operation
// GET /api/v1/maintenances/:id
func (h *MaintenanceHandler) GetMaintenance(c *fiber.Ctx) error {
	tc, ok := requireTenant(c)
	if !ok {
		return respondMissingSite(c)
	}

	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid maintenance ID"})
	}

	maintenance, err := h.maintenanceService.GetMaintenanceByID(tc, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(maintenance)
}

// UpdateStatusRequest represents the status transition body
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus moves a maintenance operation through its lifecycle
// PATCH /api/v1/maintenances/:id/status
func (h *MaintenanceHandler) UpdateStatus(c *fiber.Ctx) error {
	tc, ok := requireTenant(c)
	if !ok {
		return respondMissingSite(c)
	}

	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid maintenance ID"})
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	maintenance, err := h.maintenanceService.UpdateStatus(tc, id, model.MaintenanceStatus(req.Status), getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Status updated", "data": maintenance})
}

// ConsumePartsRequest represents the parts consumed during maintenance
type ConsumePartsRequest struct {
	Parts []service.PartConsumption `json:"parts"`
}

// ConsumeParts records stock exits for parts used by a maintenance operation
// POST /api/v1/maintenances/:id/consume
func (h *MaintenanceHandler) ConsumeParts(c *fiber.Ctx) error {
	tc, ok := requireTenant(c)
	if !ok {
		return respondMissingSite(c)
	}

	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid maintenance ID"})
	}

	var req ConsumePartsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if len(req.Parts) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "At least one part is required"})
	}

	recorded, err := h.maintenanceService.ConsumeParts(tc, id, req.Parts, getUserID(c), getUserName(c))
	if err != nil {
		// Some exits may have been recorded before the failure; report both.
		return c.Status(422).JSON(fiber.Map{"error": err.Error(), "recorded": recorded})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Parts consumed", "data": recorded})
}
