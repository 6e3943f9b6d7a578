package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricPrefix = "property_billing_"

	resultSuccess = "success"
	resultError   = "error"
)

// Metrics holds the billing engine's Prometheus collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	runsTotal         *prometheus.CounterVec
	runLatency        *prometheus.HistogramVec
	unitsBilled       prometheus.Counter
	unitsFailed       *prometheus.CounterVec
	invoicesSubmitted *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

// NewMetrics creates and registers the billing collectors plus the Go runtime collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "runs_total",
				Help: "Total billing runs by operation and result",
			},
			[]string{"operation", "result"},
		),
		runLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "run_latency_seconds",
				Help:    "Billing run latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		unitsBilled: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "units_billed_total",
				Help: "Total unit billing records produced",
			},
		),
		unitsFailed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "units_failed_total",
				Help: "Total units that could not be billed, by error code",
			},
			[]string{"code"},
		),
		invoicesSubmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "invoices_submitted_total",
				Help: "Total invoice submissions by result",
			},
			[]string{"result"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.runsTotal,
		m.runLatency,
		m.unitsBilled,
		m.unitsFailed,
		m.invoicesSubmitted,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// ObserveRun records one billing run
func (m *Metrics) ObserveRun(operation string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(operation, resultLabel(err)).Inc()
	m.runLatency.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// UnitsBilled adds n produced billing records
func (m *Metrics) UnitsBilled(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.unitsBilled.Add(float64(n))
}

// UnitFailed records a unit that was skipped with the given error code
func (m *Metrics) UnitFailed(code string) {
	if m == nil {
		return
	}
	if code == "" {
		code = "UNKNOWN"
	}
	m.unitsFailed.WithLabelValues(code).Inc()
}

// InvoiceSubmitted records the outcome of one invoice submission
func (m *Metrics) InvoiceSubmitted(err error) {
	if m == nil {
		return
	}
	m.invoicesSubmitted.WithLabelValues(resultLabel(err)).Inc()
}

// ObserveHTTP records one served request. route is the matched pattern, never the raw path.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func resultLabel(err error) string {
	if err != nil {
		return resultError
	}
	return resultSuccess
}
