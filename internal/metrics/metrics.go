// Package metrics provides Prometheus metrics for the staffing API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Reconciliation outcomes
const (
	OutcomeRequestCreated   = "request_created"
	OutcomeRequestNotNeeded = "request_not_needed"
	OutcomeSavedChanged     = "saved_changed"
	OutcomeSavedUnchanged   = "saved_unchanged"
	OutcomeSavedUpdated     = "saved_updated"
	OutcomeConflict         = "conflict"
)

// Report run results
const (
	ReportSuccess = "success"
	ReportFailure = "failure"
)

// Manager owns the Prometheus collectors of the service.
// A nil *Manager is valid and records nothing.
type Manager struct {
	namespace string
	registry  *prometheus.Registry

	estimatesComputed   *prometheus.CounterVec
	estimateDuration    *prometheus.HistogramVec
	estimateErrors      *prometheus.CounterVec
	reconciliations     *prometheus.CounterVec
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	reportRuns          *prometheus.CounterVec
	reportGapPositions  prometheus.Gauge
}

// Option applies a configuration option to the Manager
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithGoCollectors adds Go runtime and process collectors to the registry
func WithGoCollectors() Option {
	return func(m *Manager) {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
}

// NewManager creates a manager with its own registry
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "staffing",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.estimatesComputed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "labor_estimate",
		Name:      "computed_total",
		Help:      "Number of labor estimates computed by kind",
	}, []string{"kind"})

	m.estimateDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "labor_estimate",
		Name:      "duration_seconds",
		Help:      "Time spent computing labor estimates, including storage reads",
		Buckets:   prometheus.DefBuckets,
	}, []string{"kind"})

	m.estimateErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "labor_estimate",
		Name:      "errors_total",
		Help:      "Number of failed labor estimate computations by kind",
	}, []string{"kind"})

	m.reconciliations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "labor_estimate",
		Name:      "reconciliations_total",
		Help:      "Reconciliation actions by outcome",
	}, []string{"outcome"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route, method and status code",
	}, []string{"route", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request duration by route and method",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	m.reportRuns = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "report",
		Name:      "runs_total",
		Help:      "Funding gap report runs by result",
	}, []string{"result"})

	m.reportGapPositions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "report",
		Name:      "gap_positions",
		Help:      "Module positions with unrequested workers in the last report",
	})
}

// ObserveEstimate records a successful estimate computation
func (m *Manager) ObserveEstimate(kind string, duration time.Duration) {
	if m == nil {
		return
	}
	m.estimatesComputed.WithLabelValues(kind).Inc()
	m.estimateDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordEstimateError records a failed estimate computation
func (m *Manager) RecordEstimateError(kind string) {
	if m == nil {
		return
	}
	m.estimateErrors.WithLabelValues(kind).Inc()
}

// RecordReconciliation records the outcome of a reconciliation action
func (m *Manager) RecordReconciliation(outcome string) {
	if m == nil {
		return
	}
	m.reconciliations.WithLabelValues(outcome).Inc()
}

// ObserveHTTPRequest records a served HTTP request
func (m *Manager) ObserveHTTPRequest(route, method string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(statusCode)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordReportRun records a funding gap report run
func (m *Manager) RecordReportRun(result string, gapPositions int) {
	if m == nil {
		return
	}
	m.reportRuns.WithLabelValues(result).Inc()
	if result == ReportSuccess {
		m.reportGapPositions.Set(float64(gapPositions))
	}
}

// Registry returns the registry the collectors are registered on
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
