package repository

import (
	"go-facility-api/internal/model"
	"go-facility-api/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MaintenanceRepository interface {
	Create(maintenance *model.Maintenance) error
	FindAll(tc tenant.Context) ([]model.Maintenance, error)
	FindByID(tc tenant.Context, id uuid.UUID) (*model.Maintenance, error)
	Update(maintenance *model.Maintenance) error
}

type maintenanceRepo struct {
	db *gorm.DB
}

func NewMaintenanceRepo(db *gorm.DB) MaintenanceRepository {
	return &maintenanceRepo{db}
}

func (r *maintenanceRepo) Create(maintenance *model.Maintenance) error {
	return r.db.Create(maintenance).Error
}

func (r *maintenanceRepo) FindAll(tc tenant.Context) ([]model.Maintenance, error) {
	var maintenances []model.Maintenance
	err := tc.Scope(r.db).
		Preload("Zone").
		Preload("AssignedTo").
		Order("scheduled_date DESC, created_at DESC").
		Find(&maintenances).Error
	return maintenances, err
}

func (r *maintenanceRepo) FindByID(tc tenant.Context, id uuid.UUID) (*model.Maintenance, error) {
	var maintenance model.Maintenance
	err := tc.Scope(r.db).Preload("Zone").Preload("AssignedTo").First(&maintenance, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &maintenance, nil
}

func (r *maintenanceRepo) Update(maintenance *model.Maintenance) error {
	return r.db.Save(maintenance).Error
}
