package service

import (
	"errors"
	"fmt"
	"time"

	"go-facility-api/internal/apperr"
	"go-facility-api/internal/metrics"
	"go-facility-api/internal/model"
	"go-facility-api/internal/repository"
	"go-facility-api/internal/tenant"
	"go-facility-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceService answers "what price applies now / on date X" against the
// append-mostly price history, and accepts direct price-management
// appends. Reads never mutate anything.
type PriceService interface {
	CurrentPrice(tc tenant.Context, itemID uuid.UUID, supplierID *uuid.UUID) (*model.PricePoint, error)
	PriceAt(tc tenant.Context, itemID uuid.UUID, at time.Time, supplierID *uuid.UUID) (*model.PricePoint, error)
	PriceVariation(tc tenant.Context, itemID uuid.UUID, start, end time.Time) (*PriceVariation, error)
	History(tc tenant.Context, itemID uuid.UUID) (*PriceHistory, error)
	RecordPricePoint(tc tenant.Context, req *PricePointRequest, userID string) (*model.PricePoint, error)
}

type PriceVariation struct {
	StartPrice   decimal.Decimal `json:"start_price"`
	EndPrice     decimal.Decimal `json:"end_price"`
	Delta        decimal.Decimal `json:"delta"`
	DeltaPercent decimal.Decimal `json:"delta_percent"`
}

type PriceStats struct {
	CurrentPrice       decimal.Decimal `json:"current_price"`
	AveragePrice       decimal.Decimal `json:"average_price"`
	MinPrice           decimal.Decimal `json:"min_price"`
	MaxPrice           decimal.Decimal `json:"max_price"`
	PriceChange        decimal.Decimal `json:"price_change"`
	PriceChangePercent decimal.Decimal `json:"price_change_percent"`
	TotalEntries       int             `json:"total_entries"`
}

type PriceHistory struct {
	History []model.PricePoint `json:"history"`
	Stats   PriceStats         `json:"stats"`
}

type PricePointRequest struct {
	ItemID        uuid.UUID       `json:"item_id" validate:"uuid_required"`
	SupplierID    *uuid.UUID      `json:"supplier_id,omitempty"`
	Price         decimal.Decimal `json:"price"`
	EffectiveDate *string         `json:"effective_date,omitempty" validate:"omitempty,datefmt"` // defaults to today
	Notes         string          `json:"notes"`
}

type priceService struct {
	itemRepo  repository.ItemRepository
	priceRepo repository.PriceRepository
}

func NewPriceService(itemRepo repository.ItemRepository, priceRepo repository.PriceRepository) PriceService {
	return &priceService{itemRepo: itemRepo, priceRepo: priceRepo}
}

func (s *priceService) CurrentPrice(tc tenant.Context, itemID uuid.UUID, supplierID *uuid.UUID) (*model.PricePoint, error) {
	return s.PriceAt(tc, itemID, time.Now(), supplierID)
}

func (s *priceService) PriceAt(tc tenant.Context, itemID uuid.UUID, at time.Time, supplierID *uuid.UUID) (*model.PricePoint, error) {
	// Scoped item fetch doubles as the tenant visibility check.
	if _, err := s.itemRepo.FindByID(tc, itemID); err != nil {
		return nil, ErrItemNotFound
	}
	return s.priceRepo.EffectiveAt(nil, itemID, supplierID, at)
}

func (s *priceService) PriceVariation(tc tenant.Context, itemID uuid.UUID, start, end time.Time) (*PriceVariation, error) {
	startPoint, err := s.PriceAt(tc, itemID, start, nil)
	if err != nil {
		return nil, err
	}
	endPoint, err := s.PriceAt(tc, itemID, end, nil)
	if err != nil {
		return nil, err
	}

	variation := &PriceVariation{}
	if startPoint != nil {
		variation.StartPrice = startPoint.Price
	}
	if endPoint != nil {
		variation.EndPrice = endPoint.Price
	}
	variation.Delta = variation.EndPrice.Sub(variation.StartPrice)
	if variation.StartPrice.IsPositive() {
		variation.DeltaPercent = variation.Delta.
			Div(variation.StartPrice).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	return variation, nil
}

func (s *priceService) History(tc tenant.Context, itemID uuid.UUID) (*PriceHistory, error) {
	if _, err := s.itemRepo.FindByID(tc, itemID); err != nil {
		return nil, ErrItemNotFound
	}

	points, err := s.priceRepo.History(tc, itemID)
	if err != nil {
		return nil, err
	}

	history := &PriceHistory{History: points}
	history.Stats.TotalEntries = len(points)
	if len(points) == 0 {
		return history, nil
	}

	// Points come newest-first; the oldest one anchors the change stats.
	// The current price is the one in force today, not the newest row:
	// future-dated points sit in the history without applying yet.
	newest := points[0]
	oldest := points[len(points)-1]
	current, err := s.priceRepo.EffectiveAt(nil, itemID, nil, time.Now())
	if err != nil {
		return nil, err
	}

	sum := decimal.Zero
	min := points[0].Price
	max := points[0].Price
	for _, p := range points {
		sum = sum.Add(p.Price)
		if p.Price.LessThan(min) {
			min = p.Price
		}
		if p.Price.GreaterThan(max) {
			max = p.Price
		}
	}

	if current != nil {
		history.Stats.CurrentPrice = current.Price
	}
	history.Stats.AveragePrice = sum.Div(decimal.NewFromInt(int64(len(points)))).Round(2)
	history.Stats.MinPrice = min
	history.Stats.MaxPrice = max
	history.Stats.PriceChange = newest.Price.Sub(oldest.Price)
	if oldest.Price.IsPositive() {
		history.Stats.PriceChangePercent = history.Stats.PriceChange.
			Div(oldest.Price).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}

	return history, nil
}

func (s *priceService) RecordPricePoint(tc tenant.Context, req *PricePointRequest, userID string) (*model.PricePoint, error) {
	if !tc.CanMutate() {
		return nil, apperr.ErrHeadquartersReadOnly
	}

	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if req.Price.IsNegative() {
		return nil, ErrNegativePrice
	}

	item, err := s.itemRepo.FindByID(tc, req.ItemID)
	if err != nil {
		return nil, ErrItemNotFound
	}

	effectiveDate := time.Now()
	if req.EffectiveDate != nil && *req.EffectiveDate != "" {
		parsed, err := time.Parse("2006-01-02", *req.EffectiveDate)
		if err != nil {
			return nil, errors.New("invalid effective_date format, use YYYY-MM-DD")
		}
		effectiveDate = parsed
	}

	point := &model.PricePoint{
		SiteID:        item.SiteID,
		ItemID:        item.ID,
		SupplierID:    req.SupplierID,
		Price:         req.Price,
		EffectiveDate: effectiveDate,
		Notes:         req.Notes,
	}
	point.CreatedBy = userID
	point.UpdatedBy = userID

	if err := s.priceRepo.Create(nil, point); err != nil {
		return nil, err
	}

	metrics.PricePointsRecorded.Inc()
	return point, nil
}
