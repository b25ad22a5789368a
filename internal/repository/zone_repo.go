package repository

import (
	"go-facility-api/internal/model"
	"go-facility-api/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ZoneRepository interface {
	Create(zone *model.Zone) error
	FindAll(tc tenant.Context) ([]model.Zone, error)
	FindByID(tc tenant.Context, id uuid.UUID) (*model.Zone, error)
	Update(zone *model.Zone) error
	Delete(id uuid.UUID, deletedBy string) error
}

type zoneRepo struct {
	db *gorm.DB
}

func NewZoneRepo(db *gorm.DB) ZoneRepository {
	return &zoneRepo{db}
}

func (r *zoneRepo) Create(zone *model.Zone) error {
	return r.db.Create(zone).Error
}

func (r *zoneRepo) FindAll(tc tenant.Context) ([]model.Zone, error) {
	var zones []model.Zone
	err := tc.Scope(r.db).Order("name ASC").Find(&zones).Error
	return zones, err
}

func (r *zoneRepo) FindByID(tc tenant.Context, id uuid.UUID) (*model.Zone, error) {
	var zone model.Zone
	if err := tc.Scope(r.db).First(&zone, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &zone, nil
}

func (r *zoneRepo) Update(zone *model.Zone) error {
	return r.db.Save(zone).Error
}

func (r *zoneRepo) Delete(id uuid.UUID, deletedBy string) error {
	if err := r.db.Model(&model.Zone{}).Where("id = ?", id).Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return r.db.Delete(&model.Zone{}, "id = ?", id).Error
}
