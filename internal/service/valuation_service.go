package service

import (
	"go-facility-api/internal/repository"
	"go-facility-api/internal/tenant"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ValuationMethod string

const (
	ValuationCurrent         ValuationMethod = "current"
	ValuationFIFO            ValuationMethod = "fifo"
	ValuationWeightedAverage ValuationMethod = "weighted_average"
)

// ValuationService computes the monetary value of on-hand stock under a
// chosen costing method. Strictly read-only: it replays the ledger and
// price history, never writes.
type ValuationService interface {
	Valuate(tc tenant.Context, itemID uuid.UUID, method ValuationMethod) (decimal.Decimal, error)
}

type valuationService struct {
	itemRepo     repository.ItemRepository
	movementRepo repository.MovementRepository
	priceService PriceService
}

func NewValuationService(itemRepo repository.ItemRepository, movementRepo repository.MovementRepository, priceService PriceService) ValuationService {
	return &valuationService{
		itemRepo:     itemRepo,
		movementRepo: movementRepo,
		priceService: priceService,
	}
}

func (s *valuationService) Valuate(tc tenant.Context, itemID uuid.UUID, method ValuationMethod) (decimal.Decimal, error) {
	item, err := s.itemRepo.FindByID(tc, itemID)
	if err != nil {
		return decimal.Zero, ErrItemNotFound
	}
	stock := item.CurrentStock()

	switch method {
	case ValuationCurrent:
		point, err := s.priceService.CurrentPrice(tc, itemID, nil)
		if err != nil {
			return decimal.Zero, err
		}
		if point == nil {
			return decimal.Zero, nil
		}
		return point.Price.Mul(decimal.NewFromInt(int64(stock))).Round(2), nil

	case ValuationFIFO:
		entries, err := s.movementRepo.EntriesOldestFirst(itemID)
		if err != nil {
			return decimal.Zero, err
		}
		// Consume the remaining stock quantity against entries oldest
		// first. When entries cannot cover the counters (manual edits
		// bypassing the ledger), the walk stops at exhaustion and the
		// result under-represents true stock.
		remaining := stock
		value := decimal.Zero
		for _, entry := range entries {
			if remaining <= 0 {
				break
			}
			take := entry.Quantity
			if take > remaining {
				take = remaining
			}
			value = value.Add(entry.UnitPrice.Mul(decimal.NewFromInt(int64(take))))
			remaining -= take
		}
		return value.Round(2), nil

	case ValuationWeightedAverage:
		total, quantity, err := s.movementRepo.EntryTotals(itemID)
		if err != nil {
			return decimal.Zero, err
		}
		if quantity == 0 {
			return decimal.Zero, nil
		}
		// stock * (sum(total) / sum(qty)), multiplied before dividing to
		// keep exact results for exact inputs.
		return total.
			Mul(decimal.NewFromInt(int64(stock))).
			Div(decimal.NewFromInt(int64(quantity))).
			Round(2), nil
	}

	// Unknown methods value to zero rather than failing.
	return decimal.Zero, nil
}
