// Package metrics provides Prometheus metrics for the draftrank service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Ranking
	rankingPasses  *prometheus.CounterVec
	rankingLatency *prometheus.HistogramVec
	samplesDrawn   *prometheus.CounterVec
	totalItems     prometheus.Gauge

	// Saves
	saves          prometheus.Counter
	savesDuplicate prometheus.Counter
	saveErrors     prometheus.Counter

	// Store
	storeLatency *prometheus.HistogramVec
	storeErrors  *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "draftrank",
		subsystem:        "service",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		registry:         prometheus.NewRegistry(),
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
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: buckets}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.rankingPasses = auto.NewCounterVec(
		m.counterOpts("ranking_passes_total", "Ranking pipeline runs by pipeline"),
		[]string{"pipeline"},
	)
	m.rankingLatency = auto.NewHistogramVec(
		m.histogramOpts("ranking_latency_milliseconds", "Ranking pipeline latency in milliseconds", m.histogramBuckets),
		[]string{"pipeline"},
	)
	m.samplesDrawn = auto.NewCounterVec(
		m.counterOpts("samples_drawn_total", "Items drawn by the quintile sampler by team"),
		[]string{"team"},
	)
	m.totalItems = auto.NewGauge(m.gaugeOpts("items_total", "Number of items in the last loaded set"))

	m.saves = auto.NewCounter(m.counterOpts("saves_total", "Saves applied"))
	m.savesDuplicate = auto.NewCounter(m.counterOpts("saves_duplicate_total", "Saves skipped because the idempotency key was already used"))
	m.saveErrors = auto.NewCounter(m.counterOpts("save_errors_total", "Saves that failed"))

	m.storeLatency = auto.NewHistogramVec(
		m.histogramOpts("store_latency_milliseconds", "Store operation latency in milliseconds", m.histogramBuckets),
		[]string{"backend", "op"},
	)
	m.storeErrors = auto.NewCounterVec(
		m.counterOpts("store_errors_total", "Store operation errors"),
		[]string{"backend", "op"},
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "HTTP errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "HTTP errors by type and severity"),
		[]string{"error_type", "severity"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	))
}

// RecordRankingPass records one ranking pipeline run.
func RecordRankingPass(pipeline string, latencyMs float64) {
	globalManager.rankingPasses.WithLabelValues(pipeline).Inc()
	globalManager.rankingLatency.WithLabelValues(pipeline).Observe(latencyMs)
}

// RecordSamplesDrawn adds n picks for team.
func RecordSamplesDrawn(team string, n int) {
	globalManager.samplesDrawn.WithLabelValues(team).Add(float64(n))
}

// UpdateTotalItems sets the item count.
func UpdateTotalItems(count int) {
	globalManager.totalItems.Set(float64(count))
}

// RecordSave increments the applied saves counter.
func RecordSave() {
	globalManager.saves.Inc()
}

// RecordSaveDuplicate increments the duplicate saves counter.
func RecordSaveDuplicate() {
	globalManager.savesDuplicate.Inc()
}

// RecordSaveError increments the failed saves counter.
func RecordSaveError() {
	globalManager.saveErrors.Inc()
}

// RecordStoreOp records a store call and, when failed, its error.
func RecordStoreOp(backend, op string, latencyMs float64, failed bool) {
	globalManager.storeLatency.WithLabelValues(backend, op).Observe(latencyMs)
	if failed {
		globalManager.storeErrors.WithLabelValues(backend, op).Inc()
	}
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
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

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
