package repository

import (
	"go-facility-api/internal/model"
	"go-facility-api/internal/tenant"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ItemRepository interface {
	Create(item *model.Item) error
	FindAll(tc tenant.Context) ([]model.Item, error)
	FindByID(tc tenant.Context, id uuid.UUID) (*model.Item, error)
	FindByReference(tc tenant.Context, reference string) (*model.Item, error)
	Update(item *model.Item) error
	Delete(id uuid.UUID, deletedBy string) error

	// Ledger counter maintenance. These run inside the ledger service's
	// transaction; nothing else may touch the counters.
	LockByID(tx *gorm.DB, tc tenant.Context, id uuid.UUID) (*model.Item, error)
	ApplyEntry(tx *gorm.DB, id uuid.UUID, quantity int, updatedBy string) error
	ApplyExit(tx *gorm.DB, id uuid.UUID, quantity int, updatedBy string) error
	RevertEntry(tx *gorm.DB, id uuid.UUID, quantity int, updatedBy string) error
	RevertExit(tx *gorm.DB, id uuid.UUID, quantity int, updatedBy string) error

	CountAll(tc tenant.Context) (int64, error)
	CountLowStock(tc tenant.Context) (int64, error)
	TotalStockValue(tc tenant.Context) (decimal.Decimal, error)
}

type itemRepo struct {
	db *gorm.DB
}

func NewItemRepo(db *gorm.DB) ItemRepository {
	return &itemRepo{db}
}

func (r *itemRepo) Create(item *model.Item) error {
	return r.db.Create(item).Error
}

func (r *itemRepo) FindAll(tc tenant.Context) ([]model.Item, error) {
	var items []model.Item
	err := tc.Scope(r.db).Preload("Site").Order("name ASC").Find(&items).Error
	return items, err
}

func (r *itemRepo) FindByID(tc tenant.Context, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	err := tc.Scope(r.db).Preload("Site").First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) FindByReference(tc tenant.Context, reference string) (*model.Item, error) {
	var item model.Item
	err := tc.Scope(r.db).First(&item, "reference = ?", reference).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) Update(item *model.Item) error {
	return r.db.Save(item).Error
}

func (r *itemRepo) Delete(id uuid.UUID, deletedBy string) error {
	if err := r.db.Model(&model.Item{}).Where("id = ?", id).Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return r.db.Delete(&model.Item{}, "id = ?", id).Error
}

// LockByID loads the item inside tx holding a row lock, so concurrent
// exits cannot race past the stock-sufficiency check. sqlite (used in
// tests) has no row locks; its writes serialize anyway.
func (r *itemRepo) LockByID(tx *gorm.DB, tc tenant.Context, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	q := tc.Scope(tx)
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) ApplyEntry(tx *gorm.DB, id uuid.UUID, quantity int, updatedBy string) error {
	return tx.Model(&model.Item{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"entry_total": gorm.Expr("entry_total + ?", quantity),
			"entry_count": gorm.Expr("entry_count + 1"),
			"updated_by":  updatedBy,
		}).Error
}

func (r *itemRepo) ApplyExit(tx *gorm.DB, id uuid.UUID, quantity int, updatedBy string) error {
	return tx.Model(&model.Item{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"exit_total": gorm.Expr("exit_total + ?", quantity),
			"exit_count": gorm.Expr("exit_count + 1"),
			"updated_by": updatedBy,
		}).Error
}

func (r *itemRepo) RevertEntry(tx *gorm.DB, id uuid.UUID, quantity int, updatedBy string) error {
	return tx.Model(&model.Item{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"entry_total": gorm.Expr("entry_total - ?", quantity),
			"entry_count": gorm.Expr("entry_count - 1"),
			"updated_by":  updatedBy,
		}).Error
}

func (r *itemRepo) RevertExit(tx *gorm.DB, id uuid.UUID, quantity int, updatedBy string) error {
	return tx.Model(&model.Item{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"exit_total": gorm.Expr("exit_total - ?", quantity),
			"exit_count": gorm.Expr("exit_count - 1"),
			"updated_by": updatedBy,
		}).Error
}

func (r *itemRepo) CountAll(tc tenant.Context) (int64, error) {
	var count int64
	err := tc.Scope(r.db.Model(&model.Item{})).Count(&count).Error
	return count, err
}

// TotalStockValue values all visible stock at base purchase price (the
// dashboard figure; per-item costing methods live in the valuation
// service).
func (r *itemRepo) TotalStockValue(tc tenant.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := tc.Scope(r.db.Model(&model.Item{})).
		Select("COALESCE(SUM((entry_total - exit_total) * purchase_price), 0)").
		Scan(&total).Error
	return total, err
}

// CountLowStock counts items sitting at or below an enabled warning or
// critical threshold.
func (r *itemRepo) CountLowStock(tc tenant.Context) (int64, error) {
	var count int64
	err := tc.Scope(r.db.Model(&model.Item{})).
		Where("(warning_enabled AND entry_total - exit_total <= warning_qty) OR (critical_enabled AND entry_total - exit_total <= critical_qty)").
		Count(&count).Error
	return count, err
}
