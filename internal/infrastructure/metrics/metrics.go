package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Ledger metrics
	LedgerCommits    *prometheus.CounterVec
	LedgerRejections *prometheus.CounterVec
	CommitDuration   *prometheus.HistogramVec

	// Account metrics
	AccountsOpened prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Outbox metrics
	OutboxPublished prometheus.Counter
	OutboxErrors    prometheus.Counter

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		LedgerCommits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankledger_ledger_commits_total",
				Help: "Total committed ledger transactions by kind",
			},
			[]string{"kind"},
		),
		LedgerRejections: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankledger_ledger_rejections_total",
				Help: "Total rejected ledger operations by kind and reason",
			},
			[]string{"kind", "reason"},
		),
		CommitDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bankledger_ledger_commit_duration_seconds",
				Help:    "Duration of ledger commits",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		AccountsOpened: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_accounts_opened_total",
			Help: "Total number of accounts opened",
		}),
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bankledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		OutboxPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_outbox_published_total",
			Help: "Total outbox events published",
		}),
		OutboxErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_outbox_errors_total",
			Help: "Total outbox publishing errors",
		}),
		RateLimitHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_rate_limit_hits_total",
			Help: "Total requests rejected by the rate limiter",
		}),
	}
}

// ObserveCommit records a successful ledger commit.
func (m *Metrics) ObserveCommit(kind string, duration time.Duration) {
	m.LedgerCommits.WithLabelValues(kind).Inc()
	m.CommitDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// CountRejection records a rejected ledger operation.
func (m *Metrics) CountRejection(kind string, reason string) {
	m.LedgerRejections.WithLabelValues(kind, reason).Inc()
}

// AccountOpened records a newly opened account.
func (m *Metrics) AccountOpened() {
	m.AccountsOpened.Inc()
}

// EventPublished records a successfully published outbox event.
func (m *Metrics) EventPublished() {
	m.OutboxPublished.Inc()
}

// EventFailed records a failed outbox publish attempt.
func (m *Metrics) EventFailed() {
	m.OutboxErrors.Inc()
}

// RecordRequest records one completed HTTP request.
func (m *Metrics) RecordRequest(method, path, status string) {
	m.HTTPRequests.WithLabelValues(method, path, status).Inc()
}

// ObserveRequest records the duration of one HTTP request.
func (m *Metrics) ObserveRequest(method, path string, duration time.Duration) {
	m.HTTPDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RateLimitHit records a request rejected by the rate limiter.
func (m *Metrics) RateLimitHit() {
	m.RateLimitHits.Inc()
}
