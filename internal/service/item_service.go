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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrReferenceExists = errors.New("reference already exists on this site")

type ItemService interface {
	CreateItem(tc tenant.Context, req *ItemRequest, userID string) (*model.Item, error)
	UpdateItem(tc tenant.Context, id uuid.UUID, req *ItemRequest, userID string) (*model.Item, error)
	DeleteItem(tc tenant.Context, id uuid.UUID, userID string) error
	GetItems(tc tenant.Context) ([]ItemView, error)
	GetItemByID(tc tenant.Context, id uuid.UUID) (*ItemView, error)
}

type ItemRequest struct {
	Reference       string          `json:"reference" validate:"required"`
	Name            string          `json:"name" validate:"required"`
	Unit            string          `json:"unit"`
	WarningEnabled  bool            `json:"warning_enabled"`
	WarningQty      int             `json:"warning_qty" validate:"gte=0"`
	CriticalEnabled bool            `json:"critical_enabled"`
	CriticalQty     int             `json:"critical_qty" validate:"gte=0"`
	PurchasePrice   decimal.Decimal `json:"purchase_price"`
	Currency        string          `json:"currency" validate:"omitempty,len=3"`
}

// ItemView decorates an item with its derived stock fields for responses.
type ItemView struct {
	model.Item
	CurrentStock int    `json:"current_stock"`
	StockStatus  string `json:"stock_status"`
}

func newItemView(item model.Item) ItemView {
	return ItemView{
		Item:         item,
		CurrentStock: item.CurrentStock(),
		StockStatus:  item.StockLevel(),
	}
}

type itemService struct {
	itemRepo     repository.ItemRepository
	movementRepo repository.MovementRepository
	db           *gorm.DB
}

func NewItemService(itemRepo repository.ItemRepository, movementRepo repository.MovementRepository, db *gorm.DB) ItemService {
	return &itemService{itemRepo: itemRepo, movementRepo: movementRepo, db: db}
}

func (s *itemService) CreateItem(tc tenant.Context, req *ItemRequest, userID string) (*model.Item, error) {
	if !tc.CanMutate() {
		return nil, apperr.ErrHeadquartersReadOnly
	}

	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if req.PurchasePrice.IsNegative() {
		return nil, ErrNegativePrice
	}

	// Reference is unique per site
	existing, _ := s.itemRepo.FindByReference(tc, req.Reference)
	if existing != nil && existing.ID != uuid.Nil {
		return nil, ErrReferenceExists
	}

	item := &model.Item{
		SiteID:          tc.SiteID,
		Reference:       req.Reference,
		Name:            req.Name,
		Unit:            req.Unit,
		WarningEnabled:  req.WarningEnabled,
		WarningQty:      req.WarningQty,
		CriticalEnabled: req.CriticalEnabled,
		CriticalQty:     req.CriticalQty,
		PurchasePrice:   req.PurchasePrice,
	}
	if req.Currency != "" {
		item.Currency = req.Currency
	}
	item.CreatedBy = userID
	item.UpdatedBy = userID

	if err := s.itemRepo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem edits descriptive fields only. The ledger counters are a
// materialized view of the movement ledger and have no update path here.
func (s *itemService) UpdateItem(tc tenant.Context, id uuid.UUID, req *ItemRequest, userID string) (*model.Item, error) {
	if !tc.CanMutate() {
		return nil, apperr.ErrHeadquartersReadOnly
	}

	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if req.PurchasePrice.IsNegative() {
		return nil, ErrNegativePrice
	}

	var updated *model.Item
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.itemRepo.LockByID(tx, tc, id)
		if err != nil {
			return ErrItemNotFound
		}

		if req.Reference != existing.Reference {
			other, _ := s.itemRepo.FindByReference(tc, req.Reference)
			if other != nil && other.ID != existing.ID {
				return ErrReferenceExists
			}
		}

		existing.Reference = req.Reference
		existing.Name = req.Name
		existing.Unit = req.Unit
		existing.WarningEnabled = req.WarningEnabled
		existing.WarningQty = req.WarningQty
		existing.CriticalEnabled = req.CriticalEnabled
		existing.CriticalQty = req.CriticalQty
		existing.PurchasePrice = req.PurchasePrice
		if req.Currency != "" {
			existing.Currency = req.Currency
		}
		existing.UpdatedBy = userID

		if err := tx.Save(existing).Error; err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *itemService) DeleteItem(tc tenant.Context, id uuid.UUID, userID string) error {
	if !tc.CanMutate() {
		return apperr.ErrHeadquartersReadOnly
	}

	item, err := s.itemRepo.FindByID(tc, id)
	if err != nil {
		return ErrItemNotFound
	}

	// Deletion is blocked while the ledger references the item, checked
	// here rather than left to a foreign key error.
	count, err := s.movementRepo.CountByItem(item.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.NewIntegrity(fmt.Sprintf("item %q still has %d ledger movements", item.Name, count))
	}

	return s.itemRepo.Delete(item.ID, userID)
}

func (s *itemService) GetItems(tc tenant.Context) ([]ItemView, error) {
	items, err := s.itemRepo.FindAll(tc)
	if err != nil {
		return nil, err
	}
	views := make([]ItemView, len(items))
	for i, item := range items {
		views[i] = newItemView(item)
	}
	return views, nil
}

func (s *itemService) GetItemByID(tc tenant.Context, id uuid.UUID) (*ItemView, error) {
	item, err := s.itemRepo.FindByID(tc, id)
	if err != nil {
		return nil, ErrItemNotFound
	}
	view := newItemView(*item)
	return &view, nil
}
