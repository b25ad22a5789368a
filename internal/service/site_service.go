package service

import (
	"errors"
	"fmt"

	"go-facility-api/internal/apperr"
	"go-facility-api/internal/model"
	"go-facility-api/internal/repository"
	"go-facility-api/internal/tenant"
	"go-facility-api/pkg/validator"

	"github.com/google/uuid"
)

var (
	ErrSiteNotFound = errors.New("site not found")
	ErrZoneNotFound = errors.New("zone not found")
	ErrCodeExists   = errors.New("site code already exists")
)

// SiteService manages sites (global administration, not tenant-scoped)
// and zones (tenant-scoped areas inside a site).
type SiteService interface {
	CreateSite(req *SiteRequest, userID string) (*model.Site, error)
	UpdateSite(id uuid.UUID, req *SiteRequest, userID string) (*model.Site, error)
	DeleteSite(id uuid.UUID, userID string) error
	GetSites() ([]model.Site, error)
	GetSiteByID(id uuid.UUID) (*model.Site, error)

	CreateZone(tc tenant.Context, req *ZoneRequest, userID string) (*model.Zone, error)
	DeleteZone(tc tenant.Context, id uuid.UUID, userID string) error
	GetZones(tc tenant.Context) ([]model.Zone, error)
}

type SiteRequest struct {
	Code           string `json:"code" validate:"required"`
	Name           string `json:"name" validate:"required"`
	Address        string `json:"address"`
	IsHeadquarters bool   `json:"is_headquarters"`
}

type ZoneRequest struct {
	Name  string `json:"name" validate:"required"`
	Floor string `json:"floor"`
}

type siteService struct {
	siteRepo repository.SiteRepository
	zoneRepo repository.ZoneRepository
}

func NewSiteService(siteRepo repository.SiteRepository, zoneRepo repository.ZoneRepository) SiteService {
	return &siteService{siteRepo: siteRepo, zoneRepo: zoneRepo}
}

func (s *siteService) CreateSite(req *SiteRequest, userID string) (*model.Site, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	existing, _ := s.siteRepo.FindByCode(req.Code)
	if existing != nil {
		return nil, ErrCodeExists
	}

	// At most one site may hold the headquarters flag
	if req.IsHeadquarters {
		if hq, _ := s.siteRepo.FindHeadquarters(); hq != nil {
			return nil, apperr.NewIntegrity(fmt.Sprintf("headquarters already designated: %s", hq.Name))
		}
	}

	site := &model.Site{
		Code:           req.Code,
		Name:           req.Name,
		Address:        req.Address,
		IsHeadquarters: req.IsHeadquarters,
	}
	site.CreatedBy = userID
	site.UpdatedBy = userID

	if err := s.siteRepo.Create(site); err != nil {
		return nil, err
	}
	return site, nil
}

func (s *siteService) UpdateSite(id uuid.UUID, req *SiteRequest, userID string) (*model.Site, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	site, err := s.siteRepo.FindByID(id)
	if err != nil {
		return nil, ErrSiteNotFound
	}

	if req.IsHeadquarters && !site.IsHeadquarters {
		if hq, _ := s.siteRepo.FindHeadquarters(); hq != nil && hq.ID != site.ID {
			return nil, apperr.NewIntegrity(fmt.Sprintf("headquarters already designated: %s", hq.Name))
		}
	}

	site.Code = req.Code
	site.Name = req.Name
	site.Address = req.Address
	site.IsHeadquarters = req.IsHeadquarters
	site.UpdatedBy = userID

	if err := s.siteRepo.Update(site); err != nil {
		return nil, err
	}
	return site, nil
}

func (s *siteService) DeleteSite(id uuid.UUID, userID string) error {
	site, err := s.siteRepo.FindByID(id)
	if err != nil {
		return ErrSiteNotFound
	}

	zones, err := s.siteRepo.CountZones(site.ID)
	if err != nil {
		return err
	}
	if zones > 0 {
		return apperr.NewIntegrity(fmt.Sprintf("site %q still owns %d zones", site.Name, zones))
	}

	return s.siteRepo.Delete(site.ID, userID)
}

func (s *siteService) GetSites() ([]model.Site, error) {
	return s.siteRepo.FindAll()
}

func (s *siteService) GetSiteByID(id uuid.UUID) (*model.Site, error) {
	site, err := s.siteRepo.FindByID(id)
	if err != nil {
		return nil, ErrSiteNotFound
	}
	return site, nil
}

func (s *siteService) CreateZone(tc tenant.Context, req *ZoneRequest, userID string) (*model.Zone, error) {
	if !tc.CanMutate() {
		return nil, apperr.ErrHeadquartersReadOnly
	}

	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	zone := &model.Zone{
		SiteID: tc.SiteID,
		Name:   req.Name,
		Floor:  req.Floor,
	}
	zone.CreatedBy = userID
	zone.UpdatedBy = userID

	if err := s.zoneRepo.Create(zone); err != nil {
		return nil, err
	}
	return zone, nil
}

func (s *siteService) DeleteZone(tc tenant.Context, id uuid.UUID, userID string) error {
	if !tc.CanMutate() {
		return apperr.ErrHeadquartersReadOnly
	}

	zone, err := s.zoneRepo.FindByID(tc, id)
	if err != nil {
		return ErrZoneNotFound
	}
	return s.zoneRepo.Delete(zone.ID, userID)
}

func (s *siteService) GetZones(tc tenant.Context) ([]model.Zone, error) {
	return s.zoneRepo.FindAll(tc)
}
