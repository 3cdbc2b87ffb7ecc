// Package metrics provides Prometheus metrics for the fixturepick service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Catalog
	catalogLoads        *prometheus.CounterVec
	catalogLoadDuration prometheus.Histogram
	catalogLeagues      prometheus.Gauge
	catalogCountries    prometheus.Gauge

	// Selection
	selectionChanges *prometheus.CounterVec

	// Sessions
	sessionsCreated prometheus.Counter
	sessionsClosed  prometheus.Counter
	sessionsActive  prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	errorsByType        *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton used by the package-level helpers

// customRegistry keeps the default Go collectors out of /metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // shared registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "fixturepick",
		subsystem:        "picker",
		histogramBuckets: []float64{0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.catalogLoads = auto.NewCounterVec(
		m.counterOpts("catalog_loads_total", "Catalog load attempts by result"),
		[]string{"result"},
	)
	m.catalogLoadDuration = auto.NewHistogram(
		m.histogramOpts("catalog_load_duration_milliseconds", "Catalog read and parse duration in milliseconds", m.histogramBuckets),
	)
	m.catalogLeagues = auto.NewGauge(m.gaugeOpts("catalog_leagues", "League records in the loaded catalog"))
	m.catalogCountries = auto.NewGauge(m.gaugeOpts("catalog_countries", "Distinct countries in the loaded catalog"))

	m.selectionChanges = auto.NewCounterVec(
		m.counterOpts("selection_changes_total", "Selection field changes by field and result"),
		[]string{"field", "result"},
	)

	m.sessionsCreated = auto.NewCounter(m.counterOpts("sessions_created_total", "Picker sessions created"))
	m.sessionsClosed = auto.NewCounter(m.counterOpts("sessions_closed_total", "Picker sessions removed by discard, TTL or capacity"))
	m.sessionsActive = auto.NewGauge(m.gaugeOpts("sessions_active", "Picker sessions currently held"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorsByEndpoint = auto.NewCounterVec(
		m.counterOpts("http_errors_total", "HTTP error responses by endpoint, method and error type"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorsByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "HTTP error responses by error type and severity"),
		[]string{"error_type", "severity"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "Average GC pause in milliseconds", []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100}),
	)
}

// RecordCatalogLoad counts a load attempt; result is "ok" or "error".
func RecordCatalogLoad(result string) {
	globalManager.catalogLoads.WithLabelValues(result).Inc()
}

// RecordCatalogLoadDuration observes a load duration in milliseconds.
func RecordCatalogLoadDuration(durationMs float64) {
	globalManager.catalogLoadDuration.Observe(durationMs)
}

// UpdateCatalogSize sets the catalog gauges.
func UpdateCatalogSize(leagues, countries int) {
	globalManager.catalogLeagues.Set(float64(leagues))
	globalManager.catalogCountries.Set(float64(countries))
}

// RecordSelectionChange counts an ApplyChange call.
func RecordSelectionChange(field, result string) {
	globalManager.selectionChanges.WithLabelValues(field, result).Inc()
}

// RecordSessionCreated counts a new session.
func RecordSessionCreated() {
	globalManager.sessionsCreated.Inc()
}

// RecordSessionClosed counts a session leaving the store for any reason.
func RecordSessionClosed() {
	globalManager.sessionsClosed.Inc()
}

// UpdateSessionsActive sets the number of live sessions.
func UpdateSessionsActive(count int) {
	globalManager.sessionsActive.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint records an error response.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType counts an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorsByType.WithLabelValues(errorType, severity).Inc()
}

// UpdateSystemMemoryUsage sets the heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry served on /metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
