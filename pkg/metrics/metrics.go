package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LedgerOpDuration tracks the latency of redemption ledger operations.
	LedgerOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "ledger_operation_duration_seconds",
			Help: "Duration of redemption ledger operations in seconds",
			Buckets: []float64{
				0.001, 0.005, 0.01, 0.025, 0.05,
				0.1, 0.25, 0.5, 1.0, 2.5, 5.0,
			},
		},
		[]string{"operation", "status"},
	)

	// OffersSweptTotal counts offers deactivated by the expiry sweep.
	OffersSweptTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "offers_swept_total",
			Help: "Total number of offers deactivated by the expiry sweep",
		},
	)

	// RedemptionsTotal counts verify-and-redeem outcomes by result.
	RedemptionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redemptions_total",
			Help: "Total verify-and-redeem calls by outcome",
		},
		[]string{"result"},
	)
)

// RecordLedgerOp records one ledger operation's duration and status.
func RecordLedgerOp(operation, status string, seconds float64) {
	LedgerOpDuration.WithLabelValues(operation, status).Observe(seconds)
}

// RecordSweep adds the number of offers deactivated in one sweep run.
func RecordSweep(deactivated int64) {
	OffersSweptTotal.Add(float64(deactivated))
}
