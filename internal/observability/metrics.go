package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for dependency calls and status seeding.
const (
	OutcomeOK          = "ok"
	OutcomeNotFound    = "not_found"
	OutcomeRejected    = "rejected"
	OutcomeUnavailable = "unavailable"
	OutcomeCacheHit    = "cache_hit"
)

// Metrics holds the Prometheus collectors of one service. Every method is safe on a
// nil receiver so components can run without metrics.
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errors          *prometheus.CounterVec
	dependencyCalls *prometheus.HistogramVec
	statusSeeds     *prometheus.CounterVec
	statusEvents    *prometheus.CounterVec
}

// NewMetrics registers the helpdesk collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "helpdesk_http_requests_total",
			Help: "HTTP requests by route, method and status code",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "helpdesk_http_request_duration_seconds",
			Help:    "HTTP request latency by route and method",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "method"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "helpdesk_http_errors_total",
			Help: "HTTP error responses by route, method and error code",
		}, []string{"route", "method", "code"}),
		dependencyCalls: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "helpdesk_dependency_call_duration_seconds",
			Help:    "Outbound calls to peer services by operation and outcome",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"dependency", "operation", "outcome"}),
		statusSeeds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "helpdesk_initial_status_seeds_total",
			Help: "Initial OPEN status notifications by outcome",
		}, []string{"outcome"}),
		statusEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "helpdesk_status_events_recorded_total",
			Help: "Status events appended to the history by status",
		}, []string{"status"}),
	}
	reg.MustRegister(m.requests, m.requestDuration, m.errors, m.dependencyCalls, m.statusSeeds, m.statusEvents)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordRequest counts a served request.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError counts an error response.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(route, method, code).Inc()
}

// ObserveDependencyCall records an outbound call started at start.
func (m *Metrics) ObserveDependencyCall(dependency, operation, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.dependencyCalls.WithLabelValues(dependency, operation, outcome).Observe(time.Since(start).Seconds())
}

// RecordStatusSeed counts one initial status notification attempt.
func (m *Metrics) RecordStatusSeed(outcome string) {
	if m == nil {
		return
	}
	m.statusSeeds.WithLabelValues(outcome).Inc()
}

// RecordStatusEvent counts one appended status event.
func (m *Metrics) RecordStatusEvent(status string) {
	if m == nil {
		return
	}
	m.statusEvents.WithLabelValues(status).Inc()
}
