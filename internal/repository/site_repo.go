package repository

import (
	"go-facility-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SiteRepository interface {
	Create(site *model.Site) error
	FindAll() ([]model.Site, error)
	FindByID(id uuid.UUID) (*model.Site, error)
	FindByCode(code string) (*model.Site, error)
	FindHeadquarters() (*model.Site, error)
	Update(site *model.Site) error
	Delete(id uuid.UUID, deletedBy string) error
	CountZones(siteID uuid.UUID) (int64, error)
}

type siteRepo struct {
	db *gorm.DB
}

func NewSiteRepo(db *gorm.DB) SiteRepository {
	return &siteRepo{db}
}

func (r *siteRepo) Create(site *model.Site) error {
	return r.db.Create(site).Error
}

func (r *siteRepo) FindAll() ([]model.Site, error) {
	var sites []model.Site
	err := r.db.Order("name ASC").Find(&sites).Error
	return sites, err
}

func (r *siteRepo) FindByID(id uuid.UUID) (*model.Site, error) {
	var site model.Site
	if err := r.db.First(&site, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *siteRepo) FindByCode(code string) (*model.Site, error) {
	var site model.Site
	if err := r.db.First(&site, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *siteRepo) FindHeadquarters() (*model.Site, error) {
	var site model.Site
	if err := r.db.First(&site, "is_headquarters = ?", true).Error; err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *siteRepo) Update(site *model.Site) error {
	return r.db.Save(site).Error
}

func (r *siteRepo) Delete(id uuid.UUID, deletedBy string) error {
	if err := r.db.Model(&model.Site{}).Where("id = ?", id).Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return r.db.Delete(&model.Site{}, "id = ?", id).Error
}

func (r *siteRepo) CountZones(siteID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Zone{}).Where("site_id = ?", siteID).Count(&count).Error
	return count, err
}
