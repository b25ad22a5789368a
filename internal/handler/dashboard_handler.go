package handler

import (
	"strconv"

	"go-facility-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetStats returns headline counters for the current site
// GET /api/v1/dashboard/stats
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	tc, ok := requireTenant(c)
	if !ok {
		return respondMissingSite(c)
	}

	stats, err := h.dashboardService.GetDashboardStats(tc)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	return c.JSON(stats)
}

// GetStockMovement returns daily inbound/outbound quantities
// GET /api/v1/dashboard/stock-movement?days=7
func (h *DashboardHandler) GetStockMovement(c *fiber.Ctx) error {
	tc, ok := requireTenant(c)
	if !ok {
		return respondMissingSite(c)
	}

	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 90 {
			return c.Status(400).JSON(fiber.Map{"error": "days must be between 1 and 90"})
		}
		days = parsed
	}

	series, err := h.dashboardService.GetStockMovement(tc, days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	return c.JSON(series)
}
