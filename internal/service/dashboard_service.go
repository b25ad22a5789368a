package service

import (
	"time"

	"go-facility-api/internal/repository"
	"go-facility-api/internal/tenant"

	"github.com/shopspring/decimal"
)

type DashboardStats struct {
	TotalItems      int64           `json:"total_items"`
	LowStockCount   int64           `json:"low_stock_count"`
	TotalStockValue decimal.Decimal `json:"total_stock_value"`
}

type DashboardService interface {
	GetStockMovement(tc tenant.Context, days int) ([]repository.StockMovementData, error)
	GetDashboardStats(tc tenant.Context) (*DashboardStats, error)
}

type dashboardService struct {
	itemRepo     repository.ItemRepository
	movementRepo repository.MovementRepository
}

func NewDashboardService(itemRepo repository.ItemRepository, movementRepo repository.MovementRepository) DashboardService {
	return &dashboardService{itemRepo: itemRepo, movementRepo: movementRepo}
}

func (s *dashboardService) GetStockMovement(tc tenant.Context, days int) ([]repository.StockMovementData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.movementRepo.StockMovementSeries(tc, startDate, endDate)
}

func (s *dashboardService) GetDashboardStats(tc tenant.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	if stats.TotalItems, err = s.itemRepo.CountAll(tc); err != nil {
		return nil, err
	}
	if stats.LowStockCount, err = s.itemRepo.CountLowStock(tc); err != nil {
		return nil, err
	}
	if stats.TotalStockValue, err = s.itemRepo.TotalStockValue(tc); err != nil {
		return nil, err
	}

	return stats, nil
}
