package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Obligation metrics
	ObligationsCreated prometheus.Counter

	// Movement metrics
	MovementsRecorded prometheus.Counter
	MovementsVoided   prometheus.Counter

	// Liquidation metrics
	LiquidationsCreated prometheus.Counter
	LiquidationsVoided  prometheus.Counter
	VoidDuration        prometheus.Histogram

	// Balance metrics
	BalanceQueries prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	TxRetries prometheus.Counter

	// Authentication metrics
	AuthFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Obligation metrics
		ObligationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "henola_obligations_created_total",
			Help: "Total number of obligations registered",
		}),

		// Movement metrics
		MovementsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "henola_movements_recorded_total",
			Help: "Total number of ledger movements recorded",
		}),
		MovementsVoided: promauto.NewCounter(prometheus.CounterOpts{
			Name: "henola_movements_voided_total",
			Help: "Total number of movements voided",
		}),

		// Liquidation metrics
		LiquidationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "henola_liquidations_created_total",
			Help: "Total number of liquidation batches created",
		}),
		LiquidationsVoided: promauto.NewCounter(prometheus.CounterOpts{
			Name: "henola_liquidations_voided_total",
			Help: "Total number of liquidation batches voided",
		}),
		VoidDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "henola_liquidation_void_duration_seconds",
			Help:    "Duration of liquidation void reversals",
			Buckets: prometheus.DefBuckets,
		}),

		// Balance metrics
		BalanceQueries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "henola_balance_queries_total",
			Help: "Total number of balance computations",
		}),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "henola_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "henola_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		TxRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "henola_tx_retries_total",
			Help: "Total number of retried serializable transactions",
		}),

		// Authentication metrics
		AuthFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "henola_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),

		// Rate limiting metrics
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "henola_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}
