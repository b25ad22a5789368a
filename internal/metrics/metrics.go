// Package metrics exposes the ledger's operational counters on the
// default prometheus registry; main serves them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MovementsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "facility_movements_recorded_total",
		Help: "Ledger movements recorded, by type (entry/exit).",
	}, []string{"type"})

	MovementsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "facility_movements_rejected_total",
		Help: "Ledger movements rejected before any write, by reason.",
	}, []string{"reason"})

	MovementsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "facility_movements_deleted_total",
		Help: "Ledger movements deleted (counters reversed).",
	})

	PricePointsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "facility_price_points_total",
		Help: "Price points appended to the history.",
	})
)
