package handler

import (
	"fmt"
	"time"

	"go-facility-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) parseReportQuery(c *fiber.Ctx) (*uuid.UUID, time.Time, time.Time, error) {
	var itemID *uuid.UUID
	if raw := c.Query("item_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, time.Time{}, time.Time{}, fmt.Errorf("invalid item_id")
		}
		itemID = &id
	}

	// Default period: last 30 days
	end := time.Now()
	start := end.AddDate(0, 0, -30)

	if raw := c.Query("start"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, time.Time{}, time.Time{}, fmt.Errorf("invalid start date, use YYYY-MM-DD")
		}
		start = parsed
	}
	if raw := c.Query("end"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, time.Time{}, time.Time{}, fmt.Errorf("invalid end date, use YYYY-MM-DD")
		}
		// Include the whole end day
		end = parsed.AddDate(0, 0, 1).Add(-time.Second)
	}

	return itemID, start, end, nil
}

// GetMovementReport aggregates entries and exits over a period
// GET /api/v1/reports/movements?item_id=<uuid>&start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *ReportHandler) GetMovementReport(c *fiber.Ctx) error {
	tc, ok := requireTenant(c)
	if !ok {
		return respondMissingSite(c)
	}

	itemID, start, end, err := h.parseReportQuery(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	report, err := h.reportService.MovementReport(tc, itemID, start, end)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	return c.JSON(report)
}

// ExportMovementReport downloads the movement report as an Excel workbook
// GET /api/v1/reports/movements/export?item_id=<uuid>&start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *ReportHandler) ExportMovementReport(c *fiber.Ctx) error {
	tc, ok := requireTenant(c)
	if !ok {
		return respondMissingSite(c)
	}

	itemID, start, end, err := h.parseReportQuery(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	data, err := h.reportService.ExportMovementReport(tc, itemID, start, end)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to generate report"})
	}

	filename := fmt.Sprintf("movement-report-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
