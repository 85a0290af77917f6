// Package metrics holds the Prometheus collectors of the service.
// All recording methods are safe to call on a nil *Metrics, which is how
// metrics are disabled.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups every collector exported by the service.
type Metrics struct {
	service string

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	dbQueryDuration     *prometheus.HistogramVec
	dbConnections       *prometheus.GaugeVec
	backendCalls        *prometheus.CounterVec
	backendDuration     *prometheus.HistogramVec
	calendarCache       *prometheus.CounterVec
	batchSubmissions    *prometheus.CounterVec
}

// New registers the collectors in the default Prometheus registry.
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the collectors in reg.
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		service: serviceName,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"service", "method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "route"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "operation"}),
		dbConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_connections",
			Help: "Database connection pool state.",
		}, []string{"service", "state"}),
		backendCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "slot_backend_calls_total",
			Help: "Calls to the slot backend by operation and outcome.",
		}, []string{"service", "operation", "outcome"}),
		backendDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "slot_backend_call_duration_seconds",
			Help:    "Slot backend call latency, retries included.",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "operation"}),
		calendarCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "calendar_cache_events_total",
			Help: "Last-known-good calendar cache events (store, stale_serve, miss, discard).",
		}, []string{"service", "event"}),
		batchSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "slot_batch_submissions_total",
			Help: "Whole-day slot batch submissions by feature and outcome.",
		}, []string{"service", "feature", "outcome"}),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.dbQueryDuration,
		m.dbConnections,
		m.backendCalls,
		m.backendDuration,
		m.calendarCache,
		m.batchSubmissions,
	)

	return m
}

// ObserveHTTPRequest records one served request.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(m.service, method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(m.service, method, route).Observe(duration.Seconds())
}

// ObserveDBQuery records one database round trip.
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(m.service, operation).Observe(duration.Seconds())
}

// SetDBConnections publishes connection pool gauges.
func (m *Metrics) SetDBConnections(open, inUse, idle int) {
	if m == nil {
		return
	}
	m.dbConnections.WithLabelValues(m.service, "open").Set(float64(open))
	m.dbConnections.WithLabelValues(m.service, "in_use").Set(float64(inUse))
	m.dbConnections.WithLabelValues(m.service, "idle").Set(float64(idle))
}

// ObserveBackendCall records a slot backend call.
func (m *Metrics) ObserveBackendCall(operation string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.backendCalls.WithLabelValues(m.service, operation, outcome).Inc()
	m.backendDuration.WithLabelValues(m.service, operation).Observe(duration.Seconds())
}

// CalendarCacheEvent counts a cache event.
func (m *Metrics) CalendarCacheEvent(event string) {
	if m == nil {
		return
	}
	m.calendarCache.WithLabelValues(m.service, event).Inc()
}

// BatchSubmitted counts a day batch submission outcome.
func (m *Metrics) BatchSubmitted(feature, outcome string) {
	if m == nil {
		return
	}
	m.batchSubmissions.WithLabelValues(m.service, feature, outcome).Inc()
}
