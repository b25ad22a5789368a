package repository

import (
	"go-facility-api/internal/model"
	"go-facility-api/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MaterialRepository interface {
	Create(material *model.Material) error
	FindAll(tc tenant.Context) ([]model.Material, error)
	// IncrementUsage runs inside the ledger transaction when an exit
	// names this material as its counterpart; DecrementUsage reverses it
	// when that exit is deleted.
	IncrementUsage(tx *gorm.DB, id uuid.UUID) error
	DecrementUsage(tx *gorm.DB, id uuid.UUID) error
}

type materialRepo struct {
	db *gorm.DB
}

func NewMaterialRepo(db *gorm.DB) MaterialRepository {
	return &materialRepo{db}
}

func (r *materialRepo) Create(material *model.Material) error {
	return r.db.Create(material).Error
}

func (r *materialRepo) FindAll(tc tenant.Context) ([]model.Material, error) {
	var materials []model.Material
	err := tc.Scope(r.db).Order("name ASC").Find(&materials).Error
	return materials, err
}

func (r *materialRepo) IncrementUsage(tx *gorm.DB, id uuid.UUID) error {
	return tx.Model(&model.Material{}).
		Where("id = ?", id).
		Update("usage_count", gorm.Expr("usage_count + 1")).Error
}

func (r *materialRepo) DecrementUsage(tx *gorm.DB, id uuid.UUID) error {
	return tx.Model(&model.Material{}).
		Where("id = ?", id).
		Update("usage_count", gorm.Expr("usage_count - 1")).Error
}
