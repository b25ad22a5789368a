package service

import (
	"errors"
	"fmt"
	"time"

	"go-facility-api/internal/apperr"
	"go-facility-api/internal/model"
	"go-facility-api/internal/repository"
	"go-facility-api/internal/tenant"
	"go-facility-api/pkg/validator"

	"github.com/google/uuid"
)

var ErrMaintenanceNotFound = errors.New("maintenance not found")

// MaintenanceService manages site-scoped work records. Spare parts used
// during a maintenance flow through the ledger as exits carrying a
// reference back to the record.
type MaintenanceService interface {
	CreateMaintenance(tc tenant.Context, req *MaintenanceRequest, userID string) (*model.Maintenance, error)
	UpdateStatus(tc tenant.Context, id uuid.UUID, status model.MaintenanceStatus, userID string) (*model.Maintenance, error)
	ConsumeParts(tc tenant.Context, id uuid.UUID, parts []PartConsumption, userID, userName string) ([]model.Movement, error)
	GetMaintenances(tc tenant.Context) ([]model.Maintenance, error)
	GetMaintenanceByID(tc tenant.Context, id uuid.UUID) (*model.Maintenance, error)
}

type MaintenanceRequest struct {
	Title         string     `json:"title" validate:"required"`
	Description   string     `json:"description"`
	ZoneID        *uuid.UUID `json:"zone_id,omitempty"`
	ScheduledDate *string    `json:"scheduled_date,omitempty" validate:"omitempty,datefmt"`
	AssignedToID  *uuid.UUID `json:"assigned_to_id,omitempty"`
}

type PartConsumption struct {
	ItemID   uuid.UUID `json:"item_id" validate:"uuid_required"`
	Quantity int       `json:"quantity" validate:"required,gt=0"`
}

type maintenanceService struct {
	maintenanceRepo repository.MaintenanceRepository
	zoneRepo        repository.ZoneRepository
	ledger          LedgerService
}

func NewMaintenanceService(maintenanceRepo repository.MaintenanceRepository, zoneRepo repository.ZoneRepository, ledger LedgerService) MaintenanceService {
	return &maintenanceService{
		maintenanceRepo: maintenanceRepo,
		zoneRepo:        zoneRepo,
		ledger:          ledger,
	}
}

func (s *maintenanceService) CreateMaintenance(tc tenant.Context, req *MaintenanceRequest, userID string) (*model.Maintenance, error) {
	if !tc.CanMutate() {
		return nil, apperr.ErrHeadquartersReadOnly
	}

	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	if req.ZoneID != nil {
		if _, err := s.zoneRepo.FindByID(tc, *req.ZoneID); err != nil {
			return nil, ErrZoneNotFound
		}
	}

	var scheduledDate *time.Time
	if req.ScheduledDate != nil && *req.ScheduledDate != "" {
		parsed, err := time.Parse("2006-01-02", *req.ScheduledDate)
		if err != nil {
			return nil, errors.New("invalid scheduled_date format, use YYYY-MM-DD")
		}
		scheduledDate = &parsed
	}

	maintenance := &model.Maintenance{
		SiteID:        tc.SiteID,
		ZoneID:        req.ZoneID,
		Title:         req.Title,
		Description:   req.Description,
		Status:        model.MaintenancePlanned,
		ScheduledDate: scheduledDate,
		AssignedToID:  req.AssignedToID,
	}
	maintenance.CreatedBy = userID
	maintenance.UpdatedBy = userID

	if err := s.maintenanceRepo.Create(maintenance); err != nil {
		return nil, err
	}
	return maintenance, nil
}

func (s *maintenanceService) UpdateStatus(tc tenant.Context, id uuid.UUID, status model.MaintenanceStatus, userID string) (*model.Maintenance, error) {
	if !tc.CanMutate() {
		return nil, apperr.ErrHeadquartersReadOnly
	}

	switch status {
	case model.MaintenancePlanned, model.MaintenanceInProgress, model.MaintenanceDone:
	default:
		return nil, fmt.Errorf("unknown maintenance status %q", status)
	}

	maintenance, err := s.maintenanceRepo.FindByID(tc, id)
	if err != nil {
		return nil, ErrMaintenanceNotFound
	}

	maintenance.Status = status
	if status == model.MaintenanceDone && maintenance.CompletedDate == nil {
		now := time.Now()
		maintenance.CompletedDate = &now
	}
	maintenance.UpdatedBy = userID

	if err := s.maintenanceRepo.Update(maintenance); err != nil {
		return nil, err
	}
	return maintenance, nil
}

// ConsumeParts records one ledger exit per part, each tagged with a
// reference back to this maintenance. Parts are consumed one by one;
// an insufficient-stock failure stops the walk and reports which exits
// already went through via the returned slice.
func (s *maintenanceService) ConsumeParts(tc tenant.Context, id uuid.UUID, parts []PartConsumption, userID, userName string) ([]model.Movement, error) {
	if !tc.CanMutate() {
		return nil, apperr.ErrHeadquartersReadOnly
	}

	maintenance, err := s.maintenanceRepo.FindByID(tc, id)
	if err != nil {
		return nil, ErrMaintenanceNotFound
	}

	recorded := make([]model.Movement, 0, len(parts))
	for _, part := range parts {
		maintenanceID := maintenance.ID
		movement, err := s.ledger.RecordExit(tc, &ExitRequest{
			ItemID:        part.ItemID,
			Quantity:      part.Quantity,
			MaintenanceID: &maintenanceID,
			Notes:         fmt.Sprintf("consumed by maintenance %q", maintenance.Title),
		}, userID, userName)
		if err != nil {
			return recorded, err
		}
		recorded = append(recorded, *movement)
	}
	return recorded, nil
}

func (s *maintenanceService) GetMaintenances(tc tenant.Context) ([]model.Maintenance, error) {
	return s.maintenanceRepo.FindAll(tc)
}

func (s *maintenanceService) GetMaintenanceByID(tc tenant.Context, id uuid.UUID) (*model.Maintenance, error) {
	return s.maintenanceRepo.FindByID(tc, id)
}
