package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-facility-api/internal/apperr"
	"go-facility-api/internal/metrics"
	"go-facility-api/internal/model"
	"go-facility-api/internal/repository"
	"go-facility-api/internal/tenant"
	"go-facility-api/internal/ws"
	"go-facility-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrItemNotFound     = errors.New("item not found")
	ErrMovementNotFound = errors.New("movement not found")
	ErrNegativePrice    = errors.New("unit price cannot be negative")
)

// LedgerService owns the append-only movement ledger. Every write runs in
// one database transaction covering the movement row, the item counters
// and (for entries) the price history, with the item row locked for the
// duration. Nothing else in the codebase mutates the counters.
type LedgerService interface {
	RecordEntry(tc tenant.Context, req *EntryRequest, userID, userName string) (*model.Movement, error)
	RecordExit(tc tenant.Context, req *ExitRequest, userID, userName string) (*model.Movement, error)
	DeleteMovement(tc tenant.Context, id uuid.UUID, userID, userName string) error
	GetMovements(tc tenant.Context, itemID *uuid.UUID) ([]model.Movement, error)
	GetMovementByID(tc tenant.Context, id uuid.UUID) (*model.Movement, error)
}

type EntryRequest struct {
	ItemID        uuid.UUID       `json:"item_id" validate:"uuid_required"`
	Quantity      int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	SupplierID    *uuid.UUID      `json:"supplier_id,omitempty"`
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceDate   *string         `json:"invoice_date,omitempty" validate:"omitempty,datefmt"`
	MovementDate  *string         `json:"movement_date,omitempty" validate:"omitempty,datefmt"` // defaults to today
	Notes         string          `json:"notes"`
}

type ExitRequest struct {
	ItemID        uuid.UUID  `json:"item_id" validate:"uuid_required"`
	Quantity      int        `json:"quantity" validate:"required,gt=0"`
	MaterialID    *uuid.UUID `json:"material_id,omitempty"`
	MaintenanceID *uuid.UUID `json:"maintenance_id,omitempty"`
	MovementDate  *string    `json:"movement_date,omitempty" validate:"omitempty,datefmt"` // defaults to today
	Notes         string     `json:"notes"`
}

type ledgerService struct {
	itemRepo     repository.ItemRepository
	movementRepo repository.MovementRepository
	priceRepo    repository.PriceRepository
	materialRepo repository.MaterialRepository
	db           *gorm.DB
	wsHub        *ws.Hub
}

func NewLedgerService(
	itemRepo repository.ItemRepository,
	movementRepo repository.MovementRepository,
	priceRepo repository.PriceRepository,
	materialRepo repository.MaterialRepository,
	db *gorm.DB,
	hub *ws.Hub,
) LedgerService {
	return &ledgerService{
		itemRepo:     itemRepo,
		movementRepo: movementRepo,
		priceRepo:    priceRepo,
		materialRepo: materialRepo,
		db:           db,
		wsHub:        hub,
	}
}

// parseMovementDate resolves the optional business date, defaulting to now.
func parseMovementDate(raw *string) (time.Time, error) {
	if raw == nil || *raw == "" {
		return time.Now(), nil
	}
	parsed, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		return time.Time{}, errors.New("invalid movement_date format, use YYYY-MM-DD")
	}
	return parsed, nil
}

func (s *ledgerService) RecordEntry(tc tenant.Context, req *EntryRequest, userID, userName string) (*model.Movement, error) {
	if !tc.CanMutate() {
		metrics.MovementsRejected.WithLabelValues("headquarters").Inc()
		return nil, apperr.ErrHeadquartersReadOnly
	}

	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if req.UnitPrice.IsNegative() {
		return nil, ErrNegativePrice
	}

	movementDate, err := parseMovementDate(req.MovementDate)
	if err != nil {
		return nil, err
	}

	var invoiceDate *time.Time
	if req.InvoiceDate != nil && *req.InvoiceDate != "" {
		parsed, err := time.Parse("2006-01-02", *req.InvoiceDate)
		if err != nil {
			return nil, errors.New("invalid invoice_date format, use YYYY-MM-DD")
		}
		invoiceDate = &parsed
	}

	var movement *model.Movement
	var item *model.Item
	pricePointCreated := false

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		item, err = s.itemRepo.LockByID(tx, tc, req.ItemID)
		if err != nil {
			return ErrItemNotFound
		}

		totalPrice := req.UnitPrice.Mul(decimal.NewFromInt(int64(req.Quantity)))

		movement = &model.Movement{
			SiteID:        item.SiteID,
			ItemID:        item.ID,
			Type:          model.MovementEntry,
			Quantity:      req.Quantity,
			UnitPrice:     req.UnitPrice,
			TotalPrice:    totalPrice,
			MovementDate:  movementDate,
			SupplierID:    req.SupplierID,
			InvoiceNumber: req.InvoiceNumber,
			InvoiceDate:   invoiceDate,
			Notes:         req.Notes,
		}
		movement.CreatedBy = userID
		movement.UpdatedBy = userID

		if err := s.movementRepo.Create(tx, movement); err != nil {
			return err
		}

		if err := s.itemRepo.ApplyEntry(tx, item.ID, req.Quantity, userID); err != nil {
			return err
		}

		// Append a price point when the incoming unit price differs from
		// the one currently in force for this item/supplier combination.
		current, err := s.priceRepo.EffectiveAt(tx, item.ID, req.SupplierID, movementDate)
		if err != nil {
			return err
		}
		if current == nil || !current.Price.Equal(req.UnitPrice) {
			point := &model.PricePoint{
				SiteID:        item.SiteID,
				ItemID:        item.ID,
				SupplierID:    req.SupplierID,
				Price:         req.UnitPrice,
				EffectiveDate: movementDate,
			}
			point.CreatedBy = userID
			point.UpdatedBy = userID
			if err := s.priceRepo.Create(tx, point); err != nil {
				return err
			}
			pricePointCreated = true
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.MovementsRecorded.WithLabelValues(string(model.MovementEntry)).Inc()
	if pricePointCreated {
		metrics.PricePointsRecorded.Inc()
	}
	s.broadcastMovement("entry_recorded", movement, item, item.CurrentStock()+req.Quantity, userID, userName)

	return movement, nil
}

func (s *ledgerService) RecordExit(tc tenant.Context, req *ExitRequest, userID, userName string) (*model.Movement, error) {
	if !tc.CanMutate() {
		metrics.MovementsRejected.WithLabelValues("headquarters").Inc()
		return nil, apperr.ErrHeadquartersReadOnly
	}

	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	movementDate, err := parseMovementDate(req.MovementDate)
	if err != nil {
		return nil, err
	}

	var movement *model.Movement
	var item *model.Item

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		item, err = s.itemRepo.LockByID(tx, tc, req.ItemID)
		if err != nil {
			return ErrItemNotFound
		}

		available := item.CurrentStock()
		if req.Quantity > available {
			metrics.MovementsRejected.WithLabelValues("insufficient_stock").Inc()
			return &apperr.InsufficientStockError{
				ItemName:  item.Name,
				Requested: req.Quantity,
				Available: available,
			}
		}

		// The material must be visible inside this transaction before
		// anything is written.
		if req.MaterialID != nil {
			var material model.Material
			if err := tc.Scope(tx).First(&material, "id = ?", *req.MaterialID).Error; err != nil {
				return errors.New("material not found")
			}
		}

		// Exit price snapshot: effective price if history exists,
		// otherwise the item's base purchase price.
		unitPrice := item.PurchasePrice
		current, err := s.priceRepo.EffectiveAt(tx, item.ID, nil, movementDate)
		if err != nil {
			return err
		}
		if current != nil {
			unitPrice = current.Price
		}

		movement = &model.Movement{
			SiteID:       item.SiteID,
			ItemID:       item.ID,
			Type:         model.MovementExit,
			Quantity:     req.Quantity,
			UnitPrice:    unitPrice,
			TotalPrice:   unitPrice.Mul(decimal.NewFromInt(int64(req.Quantity))),
			MovementDate: movementDate,
			MaterialID:   req.MaterialID,
			Notes:        req.Notes,
		}
		if req.MaintenanceID != nil {
			movement.SetRelated(model.MaintenanceRef(*req.MaintenanceID))
		}
		movement.CreatedBy = userID
		movement.UpdatedBy = userID

		if err := s.movementRepo.Create(tx, movement); err != nil {
			return err
		}

		if err := s.itemRepo.ApplyExit(tx, item.ID, req.Quantity, userID); err != nil {
			return err
		}

		if req.MaterialID != nil {
			if err := s.materialRepo.IncrementUsage(tx, *req.MaterialID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.MovementsRecorded.WithLabelValues(string(model.MovementExit)).Inc()
	s.broadcastMovement("exit_recorded", movement, item, item.CurrentStock()-req.Quantity, userID, userName)

	return movement, nil
}

func (s *ledgerService) DeleteMovement(tc tenant.Context, id uuid.UUID, userID, userName string) error {
	if !tc.CanMutate() {
		metrics.MovementsRejected.WithLabelValues("headquarters").Inc()
		return apperr.ErrHeadquartersReadOnly
	}

	var item *model.Item
	var movement model.Movement

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tc.Scope(tx).First(&movement, "id = ?", id).Error; err != nil {
			return ErrMovementNotFound
		}

		var err error
		item, err = s.itemRepo.LockByID(tx, tc, movement.ItemID)
		if err != nil {
			return ErrItemNotFound
		}

		// Re-read once the item lock is held: a concurrent delete of the
		// same movement must not reverse the counters twice.
		if err := tc.Scope(tx).First(&movement, "id = ?", id).Error; err != nil {
			return ErrMovementNotFound
		}

		switch movement.Type {
		case model.MovementEntry:
			// Reversing an entry whose stock has since been consumed
			// would drive the projection negative.
			if item.CurrentStock()-movement.Quantity < 0 {
				return apperr.NewIntegrity(fmt.Sprintf("deleting this entry would overdraw stock for %q", item.Name))
			}
			if err := s.itemRepo.RevertEntry(tx, item.ID, movement.Quantity, userID); err != nil {
				return err
			}
		case model.MovementExit:
			if err := s.itemRepo.RevertExit(tx, item.ID, movement.Quantity, userID); err != nil {
				return err
			}
			if movement.MaterialID != nil {
				if err := s.materialRepo.DecrementUsage(tx, *movement.MaterialID); err != nil {
					return err
				}
			}
		}

		return s.movementRepo.Delete(tx, movement.ID, userID)
	})
	if err != nil {
		return err
	}

	metrics.MovementsDeleted.Inc()

	delta := movement.Quantity
	if movement.Type == model.MovementEntry {
		delta = -movement.Quantity
	}
	s.broadcastMovement("movement_deleted", &movement, item, item.CurrentStock()+delta, userID, userName)

	return nil
}

func (s *ledgerService) GetMovements(tc tenant.Context, itemID *uuid.UUID) ([]model.Movement, error) {
	return s.movementRepo.FindAll(tc, itemID)
}

func (s *ledgerService) GetMovementByID(tc tenant.Context, id uuid.UUID) (*model.Movement, error) {
	return s.movementRepo.FindByID(tc, id)
}

// broadcastMovement pushes a stock update to connected clients, with a
// low-stock alert level when the new stock crosses an enabled threshold.
func (s *ledgerService) broadcastMovement(action string, movement *model.Movement, item *model.Item, newStock int, userID, userName string) {
	if s.wsHub == nil {
		return
	}

	go func() {
		payload := map[string]interface{}{
			"type":   "stock_update",
			"action": action,
			"movement": map[string]interface{}{
				"id":       movement.ID,
				"type":     movement.Type,
				"quantity": movement.Quantity,
			},
			"item": map[string]interface{}{
				"id":          item.ID,
				"reference":   item.Reference,
				"name":        item.Name,
				"new_stock":   newStock,
				"stock_level": item.StockLevelAt(newStock),
			},
			"user": map[string]interface{}{
				"id":   userID,
				"name": userName,
			},
			"message": fmt.Sprintf("%s: %s %d x '%s'", userName, action, movement.Quantity, item.Name),
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()
}
