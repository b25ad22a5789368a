package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, raw string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", raw)
	require.NoError(t, err)
	return parsed
}

func TestPriceAtReturnsEffectivePrice(t *testing.T) {
	f := newLedgerFixture(t)
	item := seedItem(t, f.db, f.site, "PAINT-5L", "0.00")

	_, err := f.priceSvc.RecordPricePoint(f.tc, &PricePointRequest{
		ItemID: item.ID, Price: decimal.RequireFromString("10.00"),
		EffectiveDate: strptr("2024-01-01"),
	}, "u")
	require.NoError(t, err)
	_, err = f.priceSvc.RecordPricePoint(f.tc, &PricePointRequest{
		ItemID: item.ID, Price: decimal.RequireFromString("15.00"),
		EffectiveDate: strptr("2024-06-01"),
	}, "u")
	require.NoError(t, err)

	// Between the two points the older one is in force.
	point, err := f.priceSvc.PriceAt(f.tc, item.ID, mustDate(t, "2024-03-15"), nil)
	require.NoError(t, err)
	require.NotNil(t, point)
	assert.Equal(t, "10", point.Price.String())

	// On and after the second effective date the newer one wins.
	point, err = f.priceSvc.PriceAt(f.tc, item.ID, mustDate(t, "2024-06-01"), nil)
	require.NoError(t, err)
	require.NotNil(t, point)
	assert.Equal(t, "15", point.Price.String())

	// Before any point existed there is no price.
	point, err = f.priceSvc.PriceAt(f.tc, item.ID, mustDate(t, "2023-12-31"), nil)
	require.NoError(t, err)
	assert.Nil(t, point)
}

func TestPriceAtUnknownItem(t *testing.T) {
	f := newLedgerFixture(t)
	item := seedItem(t, f.db, f.site, "PAINT-5L", "0.00")

	// Another site cannot read this item's prices.
	other := seedSite(t, f.db, "NICE", false)
	_, err := f.priceSvc.PriceAt(tenantFor(other), item.ID, time.Now(), nil)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestPriceVariation(t *testing.T) {
	f := newLedgerFixture(t)
	item := seedItem(t, f.db, f.site, "PAINT-5L", "0.00")

	_, err := f.priceSvc.RecordPricePoint(f.tc, &PricePointRequest{
		ItemID: item.ID, Price: decimal.RequireFromString("10.00"),
		EffectiveDate: strptr("2024-01-01"),
	}, "u")
	require.NoError(t, err)
	_, err = f.priceSvc.RecordPricePoint(f.tc, &PricePointRequest{
		ItemID: item.ID, Price: decimal.RequireFromString("15.00"),
		EffectiveDate: strptr("2024-06-01"),
	}, "u")
	require.NoError(t, err)

	variation, err := f.priceSvc.PriceVariation(f.tc, item.ID, mustDate(t, "2024-01-01"), mustDate(t, "2024-12-31"))
	require.NoError(t, err)
	assert.Equal(t, "10", variation.StartPrice.String())
	assert.Equal(t, "15", variation.EndPrice.String())
	assert.Equal(t, "5", variation.Delta.String())
	assert.Equal(t, "50", variation.DeltaPercent.String())
}

func TestPriceVariationWithoutStartPrice(t *testing.T) {
	f := newLedgerFixture(t)
	item := seedItem(t, f.db, f.site, "PAINT-5L", "0.00")

	_, err := f.priceSvc.RecordPricePoint(f.tc, &PricePointRequest{
		ItemID: item.ID, Price: decimal.RequireFromString("15.00"),
		EffectiveDate: strptr("2024-06-01"),
	}, "u")
	require.NoError(t, err)

	// No price in force at the start of the window: percent stays zero.
	variation, err := f.priceSvc.PriceVariation(f.tc, item.ID, mustDate(t, "2024-01-01"), mustDate(t, "2024-12-31"))
	require.NoError(t, err)
	assert.True(t, variation.StartPrice.IsZero())
	assert.Equal(t, "15", variation.Delta.String())
	assert.True(t, variation.DeltaPercent.IsZero())
}

func TestPriceHistoryStats(t *testing.T) {
	f := newLedgerFixture(t)
	item := seedItem(t, f.db, f.site, "PAINT-5L", "0.00")

	for _, p := range []struct{ price, date string }{
		{"10.00", "2024-01-01"},
		{"12.00", "2024-03-01"},
		{"11.00", "2024-06-01"},
	} {
		_, err := f.priceSvc.RecordPricePoint(f.tc, &PricePointRequest{
			ItemID: item.ID, Price: decimal.RequireFromString(p.price),
			EffectiveDate: strptr(p.date),
		}, "u")
		require.NoError(t, err)
	}

	history, err := f.priceSvc.History(f.tc, item.ID)
	require.NoError(t, err)
	assert.Len(t, history.History, 3)
	assert.Equal(t, 3, history.Stats.TotalEntries)
	assert.Equal(t, "11", history.Stats.CurrentPrice.String())
	assert.Equal(t, "10", history.Stats.MinPrice.String())
	assert.Equal(t, "12", history.Stats.MaxPrice.String())
	assert.Equal(t, "1", history.Stats.PriceChange.String())
	assert.Equal(t, "10", history.Stats.PriceChangePercent.String())
	assert.Equal(t, "11", history.Stats.AveragePrice.String())
}

func TestPriceHistoryCurrentIgnoresFutureDatedPoints(t *testing.T) {
	f := newLedgerFixture(t)
	item := seedItem(t, f.db, f.site, "PAINT-5L", "0.00")

	past := time.Now().AddDate(0, -1, 0).Format("2006-01-02")
	future := time.Now().AddDate(0, 1, 0).Format("2006-01-02")

	_, err := f.priceSvc.RecordPricePoint(f.tc, &PricePointRequest{
		ItemID: item.ID, Price: decimal.RequireFromString("10.00"),
		EffectiveDate: &past,
	}, "u")
	require.NoError(t, err)
	_, err = f.priceSvc.RecordPricePoint(f.tc, &PricePointRequest{
		ItemID: item.ID, Price: decimal.RequireFromString("99.00"),
		EffectiveDate: &future,
	}, "u")
	require.NoError(t, err)

	// The announced price sits in the history but is not in force yet.
	point, err := f.priceSvc.CurrentPrice(f.tc, item.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, point)
	assert.Equal(t, "10", point.Price.String())

	history, err := f.priceSvc.History(f.tc, item.ID)
	require.NoError(t, err)
	assert.Len(t, history.History, 2)
	assert.Equal(t, "10", history.Stats.CurrentPrice.String())
	assert.Equal(t, "99", history.Stats.MaxPrice.String())
}

func TestRecordPricePointRejectsHeadquartersAndBadInput(t *testing.T) {
	f := newLedgerFixture(t)
	item := seedItem(t, f.db, f.site, "PAINT-5L", "0.00")

	_, err := f.priceSvc.RecordPricePoint(f.hqTC, &PricePointRequest{
		ItemID: item.ID, Price: decimal.RequireFromString("10.00"),
	}, "u")
	assert.Error(t, err)

	_, err = f.priceSvc.RecordPricePoint(f.tc, &PricePointRequest{
		ItemID: item.ID, Price: decimal.RequireFromString("-1.00"),
	}, "u")
	assert.ErrorIs(t, err, ErrNegativePrice)
}
