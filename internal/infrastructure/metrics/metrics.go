package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transfer saga metrics
	TransfersInitiated prometheus.Counter
	TransfersCompleted prometheus.Counter
	TransfersRejected  prometheus.Counter
	TransfersFailed    prometheus.Counter
	TransferAmount     prometheus.Histogram

	// Fraud metrics
	FraudChecks *prometheus.CounterVec
	FraudScore  prometheus.Histogram

	// Event bus metrics
	EventsPublished *prometheus.CounterVec
	EventsConsumed  *prometheus.CounterVec
	EventsAcked     *prometheus.CounterVec
	PollErrors      *prometheus.CounterVec

	// Lock metrics
	LockAcquisitions prometheus.Counter
	LockTimeouts     prometheus.Counter
	LockWaitDuration prometheus.Histogram

	// Database metrics
	DBQueries  *prometheus.CounterVec
	DBDuration *prometheus.HistogramVec
	DBErrors   *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		TransfersInitiated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "minibank_transfers_initiated_total",
			Help: "Total number of transfers initiated",
		}),
		TransfersCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "minibank_transfers_completed_total",
			Help: "Total number of transfers settled as COMPLETED",
		}),
		TransfersRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "minibank_transfers_rejected_total",
			Help: "Total number of transfers rejected by fraud screening",
		}),
		TransfersFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "minibank_transfers_failed_total",
			Help: "Total number of transfers failed at settlement",
		}),
		TransferAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "minibank_transfer_amount",
			Help:    "Transfer amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000, 10000000, 100000000},
		}),

		FraudChecks: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minibank_fraud_checks_total",
				Help: "Total fraud checks by resulting risk level",
			},
			[]string{"risk_level"},
		),
		FraudScore: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "minibank_fraud_score",
			Help:    "Fraud risk scores",
			Buckets: []float64{0, 15, 20, 30, 40, 55, 70, 85, 105},
		}),

		EventsPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minibank_events_published_total",
				Help: "Total events published per stream",
			},
			[]string{"stream"},
		),
		EventsConsumed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minibank_events_consumed_total",
				Help: "Total events consumed per stream",
			},
			[]string{"stream"},
		),
		EventsAcked: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minibank_events_acked_total",
				Help: "Total events acknowledged per stream",
			},
			[]string{"stream"},
		),
		PollErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minibank_poll_errors_total",
				Help: "Total poll cycle errors per stream",
			},
			[]string{"stream"},
		),

		LockAcquisitions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "minibank_lock_acquisitions_total",
			Help: "Total account locks acquired",
		}),
		LockTimeouts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "minibank_lock_timeouts_total",
			Help: "Total lock acquisitions that timed out",
		}),
		LockWaitDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "minibank_lock_wait_duration_seconds",
			Help:    "Time spent waiting for account locks",
			Buckets: []float64{.001, .01, .05, .1, .25, .5, 1, 2.5, 5},
		}),

		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minibank_db_queries_total",
				Help: "Total database queries by operation",
			},
			[]string{"operation"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "minibank_db_duration_seconds",
				Help:    "Database query duration by operation",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minibank_db_errors_total",
				Help: "Total database errors by operation",
			},
			[]string{"operation"},
		),

		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minibank_redis_operations_total",
				Help: "Total Redis operations by type",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minibank_redis_errors_total",
				Help: "Total Redis errors by operation",
			},
			[]string{"operation"},
		),
	}
}
