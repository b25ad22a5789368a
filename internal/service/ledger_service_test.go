package service

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-facility-api/internal/apperr"
	"go-facility-api/internal/model"
)

func TestRecordEntryUpdatesCounters(t *testing.T) {
	f := newLedgerFixture(t)
	item := seedItem(t, f.db, f.site, "BOLT-M8", "0.00")

	movement, err := f.ledger.RecordEntry(f.tc, &EntryRequest{
		ItemID:    item.ID,
		Quantity:  100,
		UnitPrice: decimal.RequireFromString("10.00"),
	}, "user-1", "Alice")
	require.NoError(t, err)
	require.NotNil(t, movement)
	assert.Equal(t, model.MovementEntry, movement.Type)
	assert.Equal(t, "1000", movement.TotalPrice.String())

	got, err := f.items.FindByID(f.tc, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.EntryTotal)
	assert.Equal(t, 1, got.EntryCount)
	assert.Equal(t, 0, got.ExitTotal)
	assert.Equal(t, 100, got.CurrentStock())
}

func TestCountersMatchLedgerAfterMixedMovements(t *testing.T) {
	f := newLedgerFixture(t)
	item := seedItem(t, f.db, f.site, "BOLT-M8", "0.00")

	_, err := f.ledger.RecordEntry(f.tc, &EntryRequest{
		ItemID: item.ID, Quantity: 100, UnitPrice: decimal.RequireFromString("10.00"),
	}, "u", "U")
	require.NoError(t, err)
	_, err = f.ledger.RecordEntry(f.tc, &EntryRequest{
		ItemID: item.ID, Quantity: 50, UnitPrice: decimal.RequireFromString("12.00"),
	}, "u", "U")
	require.NoError(t, err)
	_, err = f.ledger.RecordExit(f.tc, &ExitRequest{
		ItemID: item.ID, Quantity: 30,
	}, "u", "U")
	require.NoError(t, err)

	got, err := f.items.FindByID(f.tc, item.ID)
	require.NoError(t, err)

	sums, err := f.movements.LedgerSums(item.ID)
	require.NoError(t, err)

	assert.Equal(t, sums.EntryTotal, got.EntryTotal)
	assert.Equal(t, sums.ExitTotal, got.ExitTotal)
	assert.Equal(t, sums.EntryCount, got.EntryCount)
	assert.Equal(t, sums.ExitCount, got.ExitCount)
	assert.Equal(t, 120, got.CurrentStock())
}

func TestCountersMatchLedgerAfterRandomReplay(t *testing.T) {
	f := newLedgerFixture(t)
	item := seedItem(t, f.db, f.site, "BOLT-M8", "1.00")
	rng := rand.New(rand.NewSource(42))

	var recorded []*model.Movement
	for i := 0; i < 200; i++ {
		switch rng.Intn(4) {
		case 0, 1:
			m, err := f.ledger.RecordEntry(f.tc, &EntryRequest{
				ItemID: item.ID, Quantity: 1 + rng.Intn(50),
				UnitPrice: decimal.NewFromInt(int64(1 + rng.Intn(20))),
			}, "u", "U")
			require.NoError(t, err)
			recorded = append(recorded, m)
		case 2:
			m, err := f.ledger.RecordExit(f.tc, &ExitRequest{
				ItemID: item.ID, Quantity: 1 + rng.Intn(50),
			}, "u", "U")
			if err != nil {
				require.True(t, apperr.IsInsufficientStock(err))
				continue
			}
			recorded = append(recorded, m)
		case 3:
			if len(recorded) == 0 {
				continue
			}
			idx := rng.Intn(len(recorded))
			if err := f.ledger.DeleteMovement(f.tc, recorded[idx].ID, "u", "U"); err != nil {
				// Entry deletions that would overdraw consumed stock
				// are refused and leave the ledger untouched.
				require.True(t, apperr.IsIntegrity(err))
				continue
			}
			recorded = append(recorded[:idx], recorded[idx+1:]...)
		}
	}

	got, err := f.items.FindByID(f.tc, item.ID)
	require.NoError(t, err)

	sums, err := f.movements.LedgerSums(item.ID)
	require.NoError(t, err)

	assert.Equal(t, sums.EntryTotal, got.EntryTotal)
	assert.Equal(t, sums.ExitTotal, got.ExitTotal)
	assert.Equal(t, sums.EntryCount, got.EntryCount)
	assert.Equal(t, sums.ExitCount, got.ExitCount)
	assert.Equal(t, sums.EntryTotal-sums.ExitTotal, got.CurrentStock())
	assert.GreaterOrEqual(t, got.CurrentStock(), 0)
}

func TestRecordEntryAppendsPricePointOnChange(t *testing.T) {
	f := newLedgerFixture(t)
	item := seedItem(t, f.db, f.site, "BOLT-M8", "0.00")

	// First entry always creates a point.
	_, err := f.ledger.RecordEntry(f.tc, &EntryRequest{
		ItemID: item.ID, Quantity: 10, UnitPrice: decimal.RequireFromString("10.00"),
		MovementDate: strptr("2024-01-01"),
	}, "u", "U")
	require.NoError(t, err)

	// Same price again: no new point.
	_, err = f.ledger.RecordEntry(f.tc, &EntryRequest{
		ItemID: item.ID, Quantity: 10, UnitPrice: decimal.RequireFromString("10.00"),
		MovementDate: strptr("2024-02-01"),
	}, "u", "U")
	require.NoError(t, err)

	// Changed price: second point.
	_, err = f.ledger.RecordEntry(f.tc, &EntryRequest{
		ItemID: item.ID, Quantity: 10, UnitPrice: decimal.RequireFromString("11.50"),
		MovementDate: strptr("2024-03-01"),
	}, "u", "U")
	require.NoError(t, err)

	var count int64
	require.NoError(t, f.db.Model(&model.PricePoint{}).Where("item_id = ?", item.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestRecordExitInsufficientStockLeavesStateUntouched(t *testing.T) {
	f := newLedgerFixture(t)
	item := seedItem(t, f.db, f.site, "BOLT-M8", "2.00")

	_, err := f.ledger.RecordEntry(f.tc, &EntryRequest{
		ItemID: item.ID, Quantity: 5, UnitPrice: decimal.RequireFromString("2.00"),
	}, "u", "U")
	require.NoError(t, err)

	_, err = f.ledger.RecordExit(f.tc, &ExitRequest{ItemID: item.ID, Quantity: 10}, "u", "U")
	require.Error(t, err)
	assert.True(t, apperr.IsInsufficientStock(err))
	assert.Contains(t, err.Error(), "requested 10, available 5")

	// Counters and ledger are unchanged by the rejected exit.
	got, err := f.items.FindByID(f.tc, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.CurrentStock())
	assert.Equal(t, 0, got.ExitCount)

	movements, err := f.ledger.GetMovements(f.tc, &item.ID)
	require.NoError(t, err)
	assert.Len(t, movements, 1)
}

func TestRecordExitUsesEffectivePrice(t *testing.T) {
	f := newLedgerFixture(t)
	item := seedItem(t, f.db, f.site, "BOLT-M8", "2.00")

	// No history yet: exit is valued at the item's purchase price.
	_, err := f.ledger.RecordEntry(f.tc, &EntryRequest{
		ItemID: item.ID, Quantity: 20, UnitPrice: decimal.RequireFromString("2.00"),
		MovementDate: strptr("2024-01-01"),
	}, "u", "U")
	require.NoError(t, err)

	exit, err := f.ledger.RecordExit(f.tc, &ExitRequest{
		ItemID: item.ID, Quantity: 5, MovementDate: strptr("2024-01-15"),
	}, "u", "U")
	require.NoError(t, err)
	assert.Equal(t, "2", exit.UnitPrice.String())

	// A newer price point takes over for later exits.
	_, err = f.priceSvc.RecordPricePoint(f.tc, &PricePointRequest{
		ItemID: item.ID, Price: decimal.RequireFromString("3.50"),
		EffectiveDate: strptr("2024-02-01"),
	}, "u")
	require.NoError(t, err)

	exit, err = f.ledger.RecordExit(f.tc, &ExitRequest{
		ItemID: item.ID, Quantity: 5, MovementDate: strptr("2024-02-10"),
	}, "u", "U")
	require.NoError(t, err)
	assert.Equal(t, "3.5", exit.UnitPrice.String())
}

func TestDeleteMovementReversesCounters(t *testing.T) {
	f := newLedgerFixture(t)
	item := seedItem(t, f.db, f.site, "BOLT-M8", "0.00")

	entry, err := f.ledger.RecordEntry(f.tc, &EntryRequest{
		ItemID: item.ID, Quantity: 20, UnitPrice: decimal.RequireFromString("4.00"),
	}, "u", "U")
	require.NoError(t, err)

	_, err = f.ledger.RecordEntry(f.tc, &EntryRequest{
		ItemID: item.ID, Quantity: 30, UnitPrice: decimal.RequireFromString("4.00"),
	}, "u", "U")
	require.NoError(t, err)

	require.NoError(t, f.ledger.DeleteMovement(f.tc, entry.ID, "u", "U"))

	got, err := f.items.FindByID(f.tc, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, got.EntryTotal)
	assert.Equal(t, 1, got.EntryCount)

	// The deleted entry no longer appears in the ledger.
	movements, err := f.ledger.GetMovements(f.tc, &item.ID)
	require.NoError(t, err)
	assert.Len(t, movements, 1)

	// And deleting it again is a not-found, not a double reversal.
	err = f.ledger.DeleteMovement(f.tc, entry.ID, "u", "U")
	assert.ErrorIs(t, err, ErrMovementNotFound)
}

func TestDeleteExitReversesExitCounters(t *testing.T) {
	f := newLedgerFixture(t)
	item := seedItem(t, f.db, f.site, "BOLT-M8", "1.00")

	_, err := f.ledger.RecordEntry(f.tc, &EntryRequest{
		ItemID: item.ID, Quantity: 50, UnitPrice: decimal.RequireFromString("1.00"),
	}, "u", "U")
	require.NoError(t, err)

	exit, err := f.ledger.RecordExit(f.tc, &ExitRequest{ItemID: item.ID, Quantity: 15}, "u", "U")
	require.NoError(t, err)

	require.NoError(t, f.ledger.DeleteMovement(f.tc, exit.ID, "u", "U"))

	got, err := f.items.FindByID(f.tc, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.ExitTotal)
	assert.Equal(t, 0, got.ExitCount)
	assert.Equal(t, 50, got.CurrentStock())
}

func TestHeadquartersIsReadOnly(t *testing.T) {
	f := newLedgerFixture(t)
	item := seedItem(t, f.db, f.site, "BOLT-M8", "0.00")

	_, err := f.ledger.RecordEntry(f.hqTC, &EntryRequest{
		ItemID: item.ID, Quantity: 10, UnitPrice: decimal.RequireFromString("1.00"),
	}, "u", "U")
	assert.True(t, apperr.IsAuthorization(err))

	_, err = f.ledger.RecordExit(f.hqTC, &ExitRequest{ItemID: item.ID, Quantity: 1}, "u", "U")
	assert.True(t, apperr.IsAuthorization(err))

	err = f.ledger.DeleteMovement(f.hqTC, item.ID, "u", "U")
	assert.True(t, apperr.IsAuthorization(err))
}

func TestHeadquartersSeesEverySite(t *testing.T) {
	f := newLedgerFixture(t)
	other := seedSite(t, f.db, "NICE", false)

	itemA := seedItem(t, f.db, f.site, "BOLT-M8", "0.00")
	itemB := seedItem(t, f.db, other, "NUT-M8", "0.00")

	_, err := f.ledger.RecordEntry(f.tc, &EntryRequest{
		ItemID: itemA.ID, Quantity: 10, UnitPrice: decimal.RequireFromString("1.00"),
	}, "u", "U")
	require.NoError(t, err)

	otherTC := tenantFor(other)
	_, err = f.ledger.RecordEntry(otherTC, &EntryRequest{
		ItemID: itemB.ID, Quantity: 20, UnitPrice: decimal.RequireFromString("1.00"),
	}, "u", "U")
	require.NoError(t, err)

	// Each site only sees its own ledger.
	ours, err := f.ledger.GetMovements(f.tc, nil)
	require.NoError(t, err)
	assert.Len(t, ours, 1)

	// Headquarters sees both.
	all, err := f.ledger.GetMovements(f.hqTC, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// A site cannot reach another site's item.
	_, err = f.ledger.RecordEntry(f.tc, &EntryRequest{
		ItemID: itemB.ID, Quantity: 1, UnitPrice: decimal.RequireFromString("1.00"),
	}, "u", "U")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestRecordEntryRejectsBadInput(t *testing.T) {
	f := newLedgerFixture(t)
	item := seedItem(t, f.db, f.site, "BOLT-M8", "0.00")

	_, err := f.ledger.RecordEntry(f.tc, &EntryRequest{
		ItemID: item.ID, Quantity: 0, UnitPrice: decimal.RequireFromString("1.00"),
	}, "u", "U")
	assert.Error(t, err)

	_, err = f.ledger.RecordEntry(f.tc, &EntryRequest{
		ItemID: item.ID, Quantity: 5, UnitPrice: decimal.RequireFromString("-1.00"),
	}, "u", "U")
	assert.ErrorIs(t, err, ErrNegativePrice)

	_, err = f.ledger.RecordEntry(f.tc, &EntryRequest{
		ItemID: item.ID, Quantity: 5, UnitPrice: decimal.RequireFromString("1.00"),
		MovementDate: strptr("01/02/2024"),
	}, "u", "U")
	assert.Error(t, err)
}

func TestRecordExitUnknownMaterialWritesNothing(t *testing.T) {
	f := newLedgerFixture(t)
	item := seedItem(t, f.db, f.site, "BOLT-M8", "1.00")

	_, err := f.ledger.RecordEntry(f.tc, &EntryRequest{
		ItemID: item.ID, Quantity: 10, UnitPrice: decimal.RequireFromString("1.00"),
	}, "u", "U")
	require.NoError(t, err)

	// A material from another site is as invisible as a missing one.
	other := seedSite(t, f.db, "NICE", false)
	foreign := &model.Material{SiteID: other.ID, Name: "Solvent"}
	require.NoError(t, f.db.Create(foreign).Error)

	_, err = f.ledger.RecordExit(f.tc, &ExitRequest{
		ItemID: item.ID, Quantity: 2, MaterialID: &foreign.ID,
	}, "u", "U")
	require.EqualError(t, err, "material not found")

	missing := uuid.New()
	_, err = f.ledger.RecordExit(f.tc, &ExitRequest{
		ItemID: item.ID, Quantity: 2, MaterialID: &missing,
	}, "u", "U")
	require.EqualError(t, err, "material not found")

	// The rejected exits left no movement and no counter change behind.
	got, err := f.items.FindByID(f.tc, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.CurrentStock())
	assert.Equal(t, 0, got.ExitCount)

	movements, err := f.ledger.GetMovements(f.tc, &item.ID)
	require.NoError(t, err)
	assert.Len(t, movements, 1)
}

func TestDeleteEntryRefusedWhenStockConsumed(t *testing.T) {
	f := newLedgerFixture(t)
	item := seedItem(t, f.db, f.site, "BOLT-M8", "1.00")

	entry, err := f.ledger.RecordEntry(f.tc, &EntryRequest{
		ItemID: item.ID, Quantity: 50, UnitPrice: decimal.RequireFromString("1.00"),
	}, "u", "U")
	require.NoError(t, err)

	_, err = f.ledger.RecordExit(f.tc, &ExitRequest{ItemID: item.ID, Quantity: 40}, "u", "U")
	require.NoError(t, err)

	// 10 on hand: reversing the 50-unit entry would overdraw.
	err = f.ledger.DeleteMovement(f.tc, entry.ID, "u", "U")
	require.Error(t, err)
	assert.True(t, apperr.IsIntegrity(err))

	got, err := f.items.FindByID(f.tc, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, got.EntryTotal)
	assert.Equal(t, 10, got.CurrentStock())

	// The entry is still in the ledger.
	movements, err := f.ledger.GetMovements(f.tc, &item.ID)
	require.NoError(t, err)
	assert.Len(t, movements, 2)
}

func TestExitConsumingMaterialTracksUsage(t *testing.T) {
	f := newLedgerFixture(t)
	item := seedItem(t, f.db, f.site, "BOLT-M8", "1.00")

	material := &model.Material{SiteID: f.site.ID, Name: "Grease"}
	require.NoError(t, f.db.Create(material).Error)

	_, err := f.ledger.RecordEntry(f.tc, &EntryRequest{
		ItemID: item.ID, Quantity: 10, UnitPrice: decimal.RequireFromString("1.00"),
	}, "u", "U")
	require.NoError(t, err)

	exit, err := f.ledger.RecordExit(f.tc, &ExitRequest{
		ItemID: item.ID, Quantity: 2, MaterialID: &material.ID,
	}, "u", "U")
	require.NoError(t, err)

	var got model.Material
	require.NoError(t, f.db.First(&got, "id = ?", material.ID).Error)
	assert.Equal(t, 1, got.UsageCount)

	// Deleting the exit rolls the usage back.
	require.NoError(t, f.ledger.DeleteMovement(f.tc, exit.ID, "u", "U"))
	require.NoError(t, f.db.First(&got, "id = ?", material.ID).Error)
	assert.Equal(t, 0, got.UsageCount)
}
