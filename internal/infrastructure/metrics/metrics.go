package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transfer metrics
	TransfersCompleted prometheus.Counter
	TransferDuration   prometheus.Histogram
	TransferAmount     prometheus.Histogram
	TransferErrors     *prometheus.CounterVec

	// Wallet metrics
	WalletCacheHits   prometheus.Counter
	WalletCacheMisses prometheus.Counter

	// External service metrics
	AuthorizationRequests *prometheus.CounterVec
	NotificationsSent     prometheus.Counter
	NotificationsFailed   prometheus.Counter
	NotificationRetries   prometheus.Counter

	// Database metrics
	DBConnections prometheus.Gauge
	LockTimeouts  prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Transfer metrics
		TransfersCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_transfers_completed_total",
			Help: "Total number of transfers committed",
		}),
		TransferDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "gowallet_transfer_duration_seconds",
			Help:    "Duration of transfer operations",
			Buckets: prometheus.DefBuckets,
		}),
		TransferAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "gowallet_transfer_amount",
			Help:    "Transfer amounts in currency units",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		TransferErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_transfer_errors_total",
				Help: "Total number of transfer errors by code",
			},
			[]string{"code"},
		),

		// Wallet metrics
		WalletCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_wallet_cache_hits_total",
			Help: "Total wallet cache hits",
		}),
		WalletCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_wallet_cache_misses_total",
			Help: "Total wallet cache misses",
		}),

		// External service metrics
		AuthorizationRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_authorization_requests_total",
				Help: "Total authorization requests by outcome",
			},
			[]string{"outcome"},
		),
		NotificationsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_notifications_sent_total",
			Help: "Total notifications delivered",
		}),
		NotificationsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_notifications_failed_total",
			Help: "Total notifications abandoned after exhausting attempts",
		}),
		NotificationRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_notification_retries_total",
			Help: "Total notification delivery retries",
		}),

		// Database metrics
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "gowallet_db_connections",
			Help: "Current number of database connections",
		}),
		LockTimeouts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_lock_timeouts_total",
			Help: "Total wallet lock acquisitions that timed out",
		}),
	}
}
