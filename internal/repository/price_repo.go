package repository

import (
	"errors"
	"time"

	"go-facility-api/internal/model"
	"go-facility-api/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PriceRepository interface {
	Create(tx *gorm.DB, point *model.PricePoint) error
	// EffectiveAt resolves the price in force at a given instant: the
	// point with the latest effective_date <= at, ties broken by most
	// recent creation. Returns nil (no error) when no point matches.
	EffectiveAt(tx *gorm.DB, itemID uuid.UUID, supplierID *uuid.UUID, at time.Time) (*model.PricePoint, error)
	History(tc tenant.Context, itemID uuid.UUID) ([]model.PricePoint, error)
	CountBySupplier(supplierID uuid.UUID) (int64, error)
}

type priceRepo struct {
	db *gorm.DB
}

func NewPriceRepo(db *gorm.DB) PriceRepository {
	return &priceRepo{db}
}

func (r *priceRepo) Create(tx *gorm.DB, point *model.PricePoint) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(point).Error
}

func (r *priceRepo) EffectiveAt(tx *gorm.DB, itemID uuid.UUID, supplierID *uuid.UUID, at time.Time) (*model.PricePoint, error) {
	if tx == nil {
		tx = r.db
	}
	q := tx.Where("item_id = ? AND effective_date <= ?", itemID, at)
	if supplierID != nil {
		q = q.Where("supplier_id = ?", *supplierID)
	}

	var point model.PricePoint
	err := q.Order("effective_date DESC, created_at DESC").First(&point).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &point, nil
}

func (r *priceRepo) History(tc tenant.Context, itemID uuid.UUID) ([]model.PricePoint, error) {
	var points []model.PricePoint
	err := tc.Scope(r.db).
		Preload("Supplier").
		Where("item_id = ?", itemID).
		Order("effective_date DESC, created_at DESC").
		Find(&points).Error
	return points, err
}

func (r *priceRepo) CountBySupplier(supplierID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.PricePoint{}).Where("supplier_id = ?", supplierID).Count(&count).Error
	return count, err
}
