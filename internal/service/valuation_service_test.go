package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-facility-api/internal/model"
)

// Two entries at different prices: 100 @ 10.00 then 50 @ 12.00.
func seedValuationLedger(t *testing.T, f *ledgerFixture) *model.Item {
	t.Helper()
	item := seedItem(t, f.db, f.site, "CABLE-3G", "0.00")

	_, err := f.ledger.RecordEntry(f.tc, &EntryRequest{
		ItemID: item.ID, Quantity: 100, UnitPrice: decimal.RequireFromString("10.00"),
		MovementDate: strptr("2024-01-01"),
	}, "u", "U")
	require.NoError(t, err)
	_, err = f.ledger.RecordEntry(f.tc, &EntryRequest{
		ItemID: item.ID, Quantity: 50, UnitPrice: decimal.RequireFromString("12.00"),
		MovementDate: strptr("2024-02-01"),
	}, "u", "U")
	require.NoError(t, err)

	return item
}

func TestValuateCurrent(t *testing.T) {
	f := newLedgerFixture(t)
	item := seedValuationLedger(t, f)

	// 150 on hand at the latest price of 12.00.
	value, err := f.valuation.Valuate(f.tc, item.ID, ValuationCurrent)
	require.NoError(t, err)
	assert.Equal(t, "1800.00", value.StringFixed(2))
}

func TestValuateWeightedAverage(t *testing.T) {
	f := newLedgerFixture(t)
	item := seedValuationLedger(t, f)

	// (100*10 + 50*12) / 150 = 10.666..; * 150 on hand = exactly 1600.
	value, err := f.valuation.Valuate(f.tc, item.ID, ValuationWeightedAverage)
	require.NoError(t, err)
	assert.Equal(t, "1600.00", value.StringFixed(2))
}

func TestValuateFIFO(t *testing.T) {
	f := newLedgerFixture(t)
	item := seedValuationLedger(t, f)

	// Full stock covers both entry batches.
	value, err := f.valuation.Valuate(f.tc, item.ID, ValuationFIFO)
	require.NoError(t, err)
	assert.Equal(t, "1600.00", value.StringFixed(2))

	// The walk consumes the on-hand quantity against entries oldest
	// first: with 30 left, all 30 are priced from the first batch.
	_, err = f.ledger.RecordExit(f.tc, &ExitRequest{ItemID: item.ID, Quantity: 120}, "u", "U")
	require.NoError(t, err)

	value, err = f.valuation.Valuate(f.tc, item.ID, ValuationFIFO)
	require.NoError(t, err)
	assert.Equal(t, "300.00", value.StringFixed(2))
}

func TestValuateNoHistory(t *testing.T) {
	f := newLedgerFixture(t)
	item := seedItem(t, f.db, f.site, "CABLE-3G", "5.00")

	value, err := f.valuation.Valuate(f.tc, item.ID, ValuationCurrent)
	require.NoError(t, err)
	assert.True(t, value.IsZero())

	value, err = f.valuation.Valuate(f.tc, item.ID, ValuationWeightedAverage)
	require.NoError(t, err)
	assert.True(t, value.IsZero())
}

func TestValuateUnknownMethod(t *testing.T) {
	f := newLedgerFixture(t)
	item := seedValuationLedger(t, f)

	value, err := f.valuation.Valuate(f.tc, item.ID, ValuationMethod("lifo"))
	require.NoError(t, err)
	assert.True(t, value.IsZero())
}

func TestValuateUnknownItem(t *testing.T) {
	f := newLedgerFixture(t)
	item := seedValuationLedger(t, f)

	other := seedSite(t, f.db, "NICE", false)
	_, err := f.valuation.Valuate(tenantFor(other), item.ID, ValuationCurrent)
	assert.ErrorIs(t, err, ErrItemNotFound)
}
