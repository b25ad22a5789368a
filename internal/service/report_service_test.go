package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedReportLedger(t *testing.T, f *ledgerFixture) {
	t.Helper()
	item := seedItem(t, f.db, f.site, "GLOVE-L", "3.00")

	_, err := f.ledger.RecordEntry(f.tc, &EntryRequest{
		ItemID: item.ID, Quantity: 100, UnitPrice: decimal.RequireFromString("3.00"),
		MovementDate: strptr("2026-08-01"),
	}, "u", "U")
	require.NoError(t, err)
	_, err = f.ledger.RecordEntry(f.tc, &EntryRequest{
		ItemID: item.ID, Quantity: 40, UnitPrice: decimal.RequireFromString("3.00"),
		MovementDate: strptr("2026-08-10"),
	}, "u", "U")
	require.NoError(t, err)
	_, err = f.ledger.RecordExit(f.tc, &ExitRequest{
		ItemID: item.ID, Quantity: 25, MovementDate: strptr("2026-08-15"),
	}, "u", "U")
	require.NoError(t, err)
}

func TestMovementReportAggregates(t *testing.T) {
	f := newLedgerFixture(t)
	seedReportLedger(t, f)
	svc := NewReportService(f.movements)

	start, _ := time.Parse("2006-01-02", "2026-08-01")
	end, _ := time.Parse("2006-01-02", "2026-08-31")

	report, err := svc.MovementReport(f.tc, nil, start, end)
	require.NoError(t, err)

	assert.EqualValues(t, 2, report.Entries.Count)
	assert.Equal(t, 140, report.Entries.Quantity)
	assert.Equal(t, "420.00", report.Entries.TotalValue.StringFixed(2))

	assert.EqualValues(t, 1, report.Exits.Count)
	assert.Equal(t, 25, report.Exits.Quantity)
	assert.Equal(t, "75.00", report.Exits.TotalValue.StringFixed(2))

	assert.Equal(t, 115, report.NetMovement.Quantity)
	assert.Equal(t, "345.00", report.NetMovement.Value.StringFixed(2))
}

func TestMovementReportHonorsPeriod(t *testing.T) {
	f := newLedgerFixture(t)
	seedReportLedger(t, f)
	svc := NewReportService(f.movements)

	// A window covering only the first entry.
	start, _ := time.Parse("2006-01-02", "2026-08-01")
	end, _ := time.Parse("2006-01-02", "2026-08-05")

	report, err := svc.MovementReport(f.tc, nil, start, end)
	require.NoError(t, err)
	assert.EqualValues(t, 1, report.Entries.Count)
	assert.Equal(t, 100, report.Entries.Quantity)
	assert.EqualValues(t, 0, report.Exits.Count)
}

func TestExportMovementReportProducesWorkbook(t *testing.T) {
	f := newLedgerFixture(t)
	seedReportLedger(t, f)
	svc := NewReportService(f.movements)

	start, _ := time.Parse("2006-01-02", "2026-08-01")
	end, _ := time.Parse("2006-01-02", "2026-08-31")

	data, err := svc.ExportMovementReport(f.tc, nil, start, end)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	// xlsx files are zip archives.
	assert.Equal(t, byte('P'), data[0])
	assert.Equal(t, byte('K'), data[1])
}

func TestStockMovementSeries(t *testing.T) {
	f := newLedgerFixture(t)
	seedReportLedger(t, f)

	start, _ := time.Parse("2006-01-02", "2026-08-01")
	end, _ := time.Parse("2006-01-02", "2026-08-31")

	series, err := f.movements.StockMovementSeries(f.tc, start, end)
	require.NoError(t, err)
	require.Len(t, series, 3)

	assert.Equal(t, 100, series[0].Inbound)
	assert.Equal(t, 0, series[0].Outbound)
	assert.Equal(t, 40, series[1].Inbound)
	assert.Equal(t, 25, series[2].Outbound)
}
