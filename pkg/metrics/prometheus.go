// Package metrics provides Prometheus metrics for the medals service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Question answering
	questionsTotal   *prometheus.CounterVec
	resolveLatency   prometheus.Histogram
	strategyOutcomes *prometheus.CounterVec
	strategyErrors   *prometheus.CounterVec

	// LLM
	llmLatency prometheus.Histogram
	llmErrors  prometheus.Counter

	// Dataset and index
	datasetRecords     prometheus.Gauge
	datasetYears       prometheus.Gauge
	datasetVersion     prometheus.Gauge
	datasetSkippedRows prometheus.Counter
	indexedDocuments   prometheus.Gauge

	// Reloads
	reloadsTotal        *prometheus.CounterVec
	reloadDuration      prometheus.Histogram
	reloadQueueSize     prometheus.Gauge
	reloadQueueCapacity prometheus.Gauge
	reloadQueueRejected prometheus.Counter

	// Scraper
	scrapeRequests *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "medals",
		subsystem:        "qa",
		histogramBuckets: prometheus.DefBuckets,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.questionsTotal = auto.NewCounterVec(
		m.counterOpts("questions_total", "Questions handled by the deterministic resolver by intent and outcome"),
		[]string{"intent", "outcome"},
	)
	m.resolveLatency = auto.NewHistogram(
		m.histogramOpts("resolve_latency_milliseconds", "Resolver latency in milliseconds",
			[]float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25}),
	)
	m.strategyOutcomes = auto.NewCounterVec(
		m.counterOpts("strategy_outcomes_total", "Results returned by each fallback strategy"),
		[]string{"strategy", "outcome"},
	)
	m.strategyErrors = auto.NewCounterVec(
		m.counterOpts("strategy_errors_total", "Errors raised by fallback strategies"),
		[]string{"strategy"},
	)

	m.llmLatency = auto.NewHistogram(
		m.histogramOpts("llm_latency_milliseconds", "LLM generation latency in milliseconds",
			[]float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000}),
	)
	m.llmErrors = auto.NewCounter(m.counterOpts("llm_errors_total", "Failed LLM generations"))

	m.datasetRecords = auto.NewGauge(m.gaugeOpts("dataset_records", "Medal records in the published snapshot"))
	m.datasetYears = auto.NewGauge(m.gaugeOpts("dataset_years", "Distinct Olympic years in the published snapshot"))
	m.datasetVersion = auto.NewGauge(m.gaugeOpts("dataset_version", "Version of the published snapshot"))
	m.datasetSkippedRows = auto.NewCounter(m.counterOpts("dataset_skipped_rows_total", "Rows dropped by the loader"))
	m.indexedDocuments = auto.NewGauge(m.gaugeOpts("indexed_documents", "Documents in the semantic store"))

	m.reloadsTotal = auto.NewCounterVec(
		m.counterOpts("reloads_total", "Dataset reloads by status"),
		[]string{"status"},
	)
	m.reloadDuration = auto.NewHistogram(
		m.histogramOpts("reload_duration_milliseconds", "Dataset reload duration in milliseconds", m.histogramBuckets),
	)
	m.reloadQueueSize = auto.NewGauge(m.gaugeOpts("reload_queue_size", "Pending reload requests"))
	m.reloadQueueCapacity = auto.NewGauge(m.gaugeOpts("reload_queue_capacity", "Reload queue capacity"))
	m.reloadQueueRejected = auto.NewCounter(m.counterOpts("reload_queue_rejected_total", "Reload requests rejected by backpressure"))

	m.scrapeRequests = auto.NewCounterVec(
		m.counterOpts("scrape_requests_total", "Medal table page fetches by status"),
		[]string{"status"},
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Total number of errors by type"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorLatency = auto.NewHistogramVec(
		m.histogramOpts("error_latency_milliseconds", "Latency of operations that resulted in errors", m.histogramBuckets),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}),
	)
}

// RecordQuestion counts a resolver result.
func RecordQuestion(intent, outcome string) {
	globalManager.questionsTotal.WithLabelValues(intent, outcome).Inc()
}

// RecordResolveLatency records resolver latency in milliseconds.
func RecordResolveLatency(latencyMs float64) {
	globalManager.resolveLatency.Observe(latencyMs)
}

// RecordStrategyOutcome counts a result produced by a fallback strategy.
func RecordStrategyOutcome(strategy, outcome string) {
	globalManager.strategyOutcomes.WithLabelValues(strategy, outcome).Inc()
}

// RecordStrategyError counts a failed fallback strategy.
func RecordStrategyError(strategy string) {
	globalManager.strategyErrors.WithLabelValues(strategy).Inc()
}

// RecordLLMLatency records LLM generation latency in milliseconds.
func RecordLLMLatency(latencyMs float64) {
	globalManager.llmLatency.Observe(latencyMs)
}

// RecordLLMError increments the LLM error counter.
func RecordLLMError() {
	globalManager.llmErrors.Inc()
}

// UpdateDataset publishes the shape of the current snapshot.
func UpdateDataset(records, years int, version uint64) {
	globalManager.datasetRecords.Set(float64(records))
	globalManager.datasetYears.Set(float64(years))
	globalManager.datasetVersion.Set(float64(version))
}

// RecordSkippedRows adds rows dropped by the loader.
func RecordSkippedRows(n int) {
	if n > 0 {
		globalManager.datasetSkippedRows.Add(float64(n))
	}
}

// UpdateIndexedDocuments sets the semantic store size.
func UpdateIndexedDocuments(n int) {
	globalManager.indexedDocuments.Set(float64(n))
}

// RecordReload counts a finished reload and its duration.
func RecordReload(status string, durationMs float64) {
	globalManager.reloadsTotal.WithLabelValues(status).Inc()
	globalManager.reloadDuration.Observe(durationMs)
}

// UpdateReloadQueue sets the pending size and capacity of the reload queue.
func UpdateReloadQueue(size, capacity int) {
	globalManager.reloadQueueSize.Set(float64(size))
	globalManager.reloadQueueCapacity.Set(float64(capacity))
}

// RecordReloadRejected increments the reload backpressure counter.
func RecordReloadRejected() {
	globalManager.reloadQueueRejected.Inc()
}

// RecordScrapeRequest counts a medal table page fetch.
func RecordScrapeRequest(status string) {
	globalManager.scrapeRequests.WithLabelValues(status).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
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

// RefreshInterval reports how often gauges should be refreshed by callers.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}
