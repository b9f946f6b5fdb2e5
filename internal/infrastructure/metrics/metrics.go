package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

const namespace = "fundledger"

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transfer metrics
	TransfersCompleted  prometheus.Counter
	TransfersRolledBack prometheus.Counter
	TransferDuration    prometheus.Histogram
	TransferAmount      prometheus.Histogram
	TransferErrors      *prometheus.CounterVec

	// Notification metrics
	NotificationsSent    *prometheus.CounterVec
	NotificationFailures prometheus.Counter

	// API metrics
	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	HTTPInFlight  prometheus.Gauge
	RateLimitHits prometheus.Counter
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Transfer metrics
		TransfersCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfers_completed_total",
			Help:      "Total number of completed transfers",
		}),
		TransfersRolledBack: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfers_rolled_back_total",
			Help:      "Total number of transfers whose withdrawal was compensated",
		}),
		TransferDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transfer_duration_seconds",
			Help:      "Duration of transfer operations",
			Buckets:   prometheus.DefBuckets,
		}),
		TransferAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transfer_amount",
			Help:      "Transfer amounts",
			Buckets:   []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		TransferErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transfer_errors_total",
				Help:      "Total number of transfer errors by type",
			},
			[]string{"error_type"},
		),

		// Notification metrics
		NotificationsSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_sent_total",
				Help:      "Total notifications delivered by sink",
			},
			[]string{"sink"},
		),
		NotificationFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_failures_total",
			Help:      "Total notifications that could not be delivered",
		}),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		}),
		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_hits_total",
			Help:      "Total requests rejected by the rate limiter",
		}),
	}
}

// TransferCompleted records a committed transfer.
func (m *Metrics) TransferCompleted(amount decimal.Decimal, duration time.Duration) {
	m.TransfersCompleted.Inc()
	m.TransferDuration.Observe(duration.Seconds())
	m.TransferAmount.Observe(amount.InexactFloat64())
}

// TransferFailed records a rejected or failed transfer.
func (m *Metrics) TransferFailed(errorType string) {
	m.TransferErrors.WithLabelValues(errorType).Inc()
}

// TransferRolledBack records a compensated withdrawal.
func (m *Metrics) TransferRolledBack() {
	m.TransfersRolledBack.Inc()
}

// NotificationFailed records a notification the sink did not accept.
func (m *Metrics) NotificationFailed() {
	m.NotificationFailures.Inc()
}

// NotificationSent records a delivered notification.
func (m *Metrics) NotificationSent(sink string) {
	m.NotificationsSent.WithLabelValues(sink).Inc()
}
