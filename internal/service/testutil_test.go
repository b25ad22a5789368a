package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-facility-api/internal/model"
	"go-facility-api/internal/repository"
	"go-facility-api/internal/tenant"
)

// newTestDB opens a fresh in-memory database per test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Site{}, &model.Zone{},
		&model.Supplier{}, &model.Material{},
		&model.Item{}, &model.Movement{}, &model.PricePoint{},
		&model.Maintenance{},
		&model.User{}, &model.Privilege{}, &model.Role{},
	))

	return db
}

func seedSite(t *testing.T, db *gorm.DB, code string, headquarters bool) *model.Site {
	t.Helper()

	site := &model.Site{
		Code:           code,
		Name:           "Site " + code,
		IsHeadquarters: headquarters,
	}
	require.NoError(t, db.Create(site).Error)
	return site
}

func seedItem(t *testing.T, db *gorm.DB, site *model.Site, reference string, purchasePrice string) *model.Item {
	t.Helper()

	item := &model.Item{
		SiteID:        site.ID,
		Reference:     reference,
		Name:          "Item " + reference,
		Unit:          "piece",
		PurchasePrice: decimal.RequireFromString(purchasePrice),
		Currency:      "EUR",
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

// ledgerFixture wires the ledger stack against a fresh database with one
// regular site and the headquarters site.
type ledgerFixture struct {
	db        *gorm.DB
	site      *model.Site
	hq        *model.Site
	tc        tenant.Context
	hqTC      tenant.Context
	items     repository.ItemRepository
	movements repository.MovementRepository
	prices    repository.PriceRepository
	materials repository.MaterialRepository
	ledger    LedgerService
	priceSvc  PriceService
	valuation ValuationService
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()

	db := newTestDB(t)
	site := seedSite(t, db, "LYON", false)
	hq := seedSite(t, db, "HQ", true)

	itemRepo := repository.NewItemRepo(db)
	movementRepo := repository.NewMovementRepo(db)
	priceRepo := repository.NewPriceRepo(db)
	materialRepo := repository.NewMaterialRepo(db)

	priceSvc := NewPriceService(itemRepo, priceRepo)

	return &ledgerFixture{
		db:        db,
		site:      site,
		hq:        hq,
		tc:        tenant.ForSite(site.ID),
		hqTC:      tenant.ForHeadquarters(hq.ID),
		items:     itemRepo,
		movements: movementRepo,
		prices:    priceRepo,
		materials: materialRepo,
		ledger:    NewLedgerService(itemRepo, movementRepo, priceRepo, materialRepo, db, nil),
		priceSvc:  priceSvc,
		valuation: NewValuationService(itemRepo, movementRepo, priceSvc),
	}
}

func tenantFor(site *model.Site) tenant.Context {
	return tenant.ForSite(site.ID)
}

func strptr(s string) *string {
	return &s
}
