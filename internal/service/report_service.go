package service

import (
	"fmt"
	"time"

	"go-facility-api/internal/repository"
	"go-facility-api/internal/tenant"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// ReportService aggregates the ledger into period reports. Read-only.
type ReportService interface {
	MovementReport(tc tenant.Context, itemID *uuid.UUID, start, end time.Time) (*repository.MovementReport, error)
	ExportMovementReport(tc tenant.Context, itemID *uuid.UUID, start, end time.Time) ([]byte, error)
}

type reportService struct {
	movementRepo repository.MovementRepository
}

func NewReportService(movementRepo repository.MovementRepository) ReportService {
	return &reportService{movementRepo: movementRepo}
}

func (s *reportService) MovementReport(tc tenant.Context, itemID *uuid.UUID, start, end time.Time) (*repository.MovementReport, error) {
	return s.movementRepo.MovementReport(tc, itemID, start, end)
}

// ExportMovementReport renders the period report plus the movement lines
// as an xlsx workbook.
func (s *reportService) ExportMovementReport(tc tenant.Context, itemID *uuid.UUID, start, end time.Time) ([]byte, error) {
	report, err := s.movementRepo.MovementReport(tc, itemID, start, end)
	if err != nil {
		return nil, err
	}
	movements, err := s.movementRepo.FindAll(tc, itemID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Movement Report"
	f.SetSheetName("Sheet1", sheet)

	f.SetCellValue(sheet, "A1", "Period")
	f.SetCellValue(sheet, "B1", fmt.Sprintf("%s - %s", start.Format("2006-01-02"), end.Format("2006-01-02")))

	f.SetCellValue(sheet, "A3", "")
	f.SetCellValue(sheet, "B3", "Count")
	f.SetCellValue(sheet, "C3", "Quantity")
	f.SetCellValue(sheet, "D3", "Total Value")
	f.SetCellValue(sheet, "A4", "Entries")
	f.SetCellValue(sheet, "B4", report.Entries.Count)
	f.SetCellValue(sheet, "C4", report.Entries.Quantity)
	f.SetCellValue(sheet, "D4", report.Entries.TotalValue.String())
	f.SetCellValue(sheet, "A5", "Exits")
	f.SetCellValue(sheet, "B5", report.Exits.Count)
	f.SetCellValue(sheet, "C5", report.Exits.Quantity)
	f.SetCellValue(sheet, "D5", report.Exits.TotalValue.String())
	f.SetCellValue(sheet, "A6", "Net")
	f.SetCellValue(sheet, "C6", report.NetMovement.Quantity)
	f.SetCellValue(sheet, "D6", report.NetMovement.Value.String())

	headerRow := 8
	headers := []string{"Date", "Type", "Item", "Quantity", "Unit Price", "Total Price", "Notes"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		f.SetCellValue(sheet, cell, header)
	}

	row := headerRow + 1
	for _, m := range movements {
		if m.MovementDate.Before(start) || m.MovementDate.After(end) {
			continue
		}
		itemName := ""
		if m.Item != nil {
			itemName = m.Item.Name
		}
		values := []interface{}{
			m.MovementDate.Format("2006-01-02"),
			string(m.Type),
			itemName,
			m.Quantity,
			m.UnitPrice.String(),
			m.TotalPrice.String(),
			m.Notes,
		}
		for i, value := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheet, cell, value)
		}
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
