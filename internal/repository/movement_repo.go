package repository

import (
	"time"

	"go-facility-api/internal/model"
	"go-facility-api/internal/tenant"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MovementRepository interface {
	Create(tx *gorm.DB, movement *model.Movement) error
	FindAll(tc tenant.Context, itemID *uuid.UUID) ([]model.Movement, error)
	FindByID(tc tenant.Context, id uuid.UUID) (*model.Movement, error)
	Delete(tx *gorm.DB, id uuid.UUID, deletedBy string) error

	CountByItem(itemID uuid.UUID) (int64, error)
	CountBySupplier(supplierID uuid.UUID) (int64, error)

	// EntriesOldestFirst feeds the FIFO valuation walk.
	EntriesOldestFirst(itemID uuid.UUID) ([]model.Movement, error)
	// EntryTotals returns sum(total_price) and sum(quantity) of entries.
	EntryTotals(itemID uuid.UUID) (decimal.Decimal, int, error)
	// LedgerSums re-aggregates the ledger for one item; the counter
	// consistency check compares its result against the item counters.
	LedgerSums(itemID uuid.UUID) (*LedgerSums, error)

	MovementReport(tc tenant.Context, itemID *uuid.UUID, start, end time.Time) (*MovementReport, error)
	StockMovementSeries(tc tenant.Context, start, end time.Time) ([]StockMovementData, error)
}

// LedgerSums is the full re-aggregation of one item's non-deleted ledger.
type LedgerSums struct {
	EntryTotal int
	ExitTotal  int
	EntryCount int
	ExitCount  int
}

// MovementSummary aggregates one side of the ledger over a period.
type MovementSummary struct {
	Count      int64           `json:"count"`
	Quantity   int             `json:"quantity"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// MovementReport is the period report shape returned to the API.
type MovementReport struct {
	Period struct {
		Start time.Time `json:"start"`
		End   time.Time `json:"end"`
	} `json:"period"`
	Entries     MovementSummary `json:"entries"`
	Exits       MovementSummary `json:"exits"`
	NetMovement struct {
		Quantity int             `json:"quantity"`
		Value    decimal.Decimal `json:"value"`
	} `json:"net_movement"`
}

// StockMovementData is one day of the movement chart.
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

type movementRepo struct {
	db *gorm.DB
}

func NewMovementRepo(db *gorm.DB) MovementRepository {
	return &movementRepo{db}
}

func (r *movementRepo) Create(tx *gorm.DB, movement *model.Movement) error {
	return tx.Create(movement).Error
}

func (r *movementRepo) FindAll(tc tenant.Context, itemID *uuid.UUID) ([]model.Movement, error) {
	var movements []model.Movement
	q := tc.Scope(r.db).Preload("Item").Preload("Supplier")
	if itemID != nil {
		q = q.Where("item_id = ?", *itemID)
	}
	err := q.Order("movement_date DESC, created_at DESC").Find(&movements).Error
	return movements, err
}

func (r *movementRepo) FindByID(tc tenant.Context, id uuid.UUID) (*model.Movement, error) {
	var movement model.Movement
	err := tc.Scope(r.db).Preload("Item").Preload("Supplier").First(&movement, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &movement, nil
}

func (r *movementRepo) Delete(tx *gorm.DB, id uuid.UUID, deletedBy string) error {
	if err := tx.Model(&model.Movement{}).Where("id = ?", id).Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Movement{}, "id = ?", id).Error
}

func (r *movementRepo) CountByItem(itemID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Movement{}).Where("item_id = ?", itemID).Count(&count).Error
	return count, err
}

func (r *movementRepo) CountBySupplier(supplierID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Movement{}).Where("supplier_id = ?", supplierID).Count(&count).Error
	return count, err
}

func (r *movementRepo) EntriesOldestFirst(itemID uuid.UUID) ([]model.Movement, error) {
	var entries []model.Movement
	err := r.db.
		Where("item_id = ? AND type = ?", itemID, model.MovementEntry).
		Order("movement_date ASC, created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *movementRepo) EntryTotals(itemID uuid.UUID) (decimal.Decimal, int, error) {
	var row struct {
		Total    decimal.Decimal
		Quantity int
	}
	err := r.db.Model(&model.Movement{}).
		Select("COALESCE(SUM(total_price), 0) as total, COALESCE(SUM(quantity), 0) as quantity").
		Where("item_id = ? AND type = ?", itemID, model.MovementEntry).
		Scan(&row).Error
	return row.Total, row.Quantity, err
}

func (r *movementRepo) LedgerSums(itemID uuid.UUID) (*LedgerSums, error) {
	var row struct {
		EntryTotal int
		ExitTotal  int
		EntryCount int
		ExitCount  int
	}
	err := r.db.Model(&model.Movement{}).
		Select(`
			COALESCE(SUM(CASE WHEN type = 'entry' THEN quantity ELSE 0 END), 0) as entry_total,
			COALESCE(SUM(CASE WHEN type = 'exit' THEN quantity ELSE 0 END), 0) as exit_total,
			COALESCE(SUM(CASE WHEN type = 'entry' THEN 1 ELSE 0 END), 0) as entry_count,
			COALESCE(SUM(CASE WHEN type = 'exit' THEN 1 ELSE 0 END), 0) as exit_count
		`).
		Where("item_id = ?", itemID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &LedgerSums{
		EntryTotal: row.EntryTotal,
		ExitTotal:  row.ExitTotal,
		EntryCount: row.EntryCount,
		ExitCount:  row.ExitCount,
	}, nil
}

func (r *movementRepo) MovementReport(tc tenant.Context, itemID *uuid.UUID, start, end time.Time) (*MovementReport, error) {
	report := &MovementReport{}
	report.Period.Start = start
	report.Period.End = end

	for _, side := range []model.MovementType{model.MovementEntry, model.MovementExit} {
		var row struct {
			Count    int64
			Quantity int
			Total    decimal.Decimal
		}
		q := tc.Scope(r.db.Model(&model.Movement{})).
			Select("COUNT(*) as count, COALESCE(SUM(quantity), 0) as quantity, COALESCE(SUM(total_price), 0) as total").
			Where("type = ? AND movement_date BETWEEN ? AND ?", side, start, end)
		if itemID != nil {
			q = q.Where("item_id = ?", *itemID)
		}
		if err := q.Scan(&row).Error; err != nil {
			return nil, err
		}
		summary := MovementSummary{Count: row.Count, Quantity: row.Quantity, TotalValue: row.Total}
		if side == model.MovementEntry {
			report.Entries = summary
		} else {
			report.Exits = summary
		}
	}

	report.NetMovement.Quantity = report.Entries.Quantity - report.Exits.Quantity
	report.NetMovement.Value = report.Entries.TotalValue.Sub(report.Exits.TotalValue)
	return report, nil
}

func (r *movementRepo) StockMovementSeries(tc tenant.Context, start, end time.Time) ([]StockMovementData, error) {
	var results []StockMovementData

	rows, err := tc.Scope(r.db.Model(&model.Movement{})).
		Select(`
			DATE(movement_date) as date,
			COALESCE(SUM(CASE WHEN type = 'entry' THEN quantity ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN type = 'exit' THEN quantity ELSE 0 END), 0) as outbound
		`).
		Where("movement_date BETWEEN ? AND ?", start, end).
		Group("DATE(movement_date)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data StockMovementData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}
