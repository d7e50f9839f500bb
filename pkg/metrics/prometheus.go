// Package metrics provides Prometheus metrics for the PsiGuard monitor service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the PsiGuard service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Control Loop Metrics - one sample and one classification per tick
	ticksTotal      prometheus.Counter
	degradedSamples prometheus.Counter
	samplerErrors   prometheus.Counter
	tickDuration    prometheus.Histogram
	tierChanges     *prometheus.CounterVec
	directives      *prometheus.CounterVec

	// Readout Gauges - the latest classified reading
	consumptionWatts prometheus.Gauge
	ceilingWatts     prometheus.Gauge
	consumptionRatio prometheus.Gauge
	psiScore         prometheus.Gauge
	psiPerWatt       prometheus.Gauge
	tierCode         prometheus.Gauge

	// History Metrics - ring buffer and snapshot publishing
	historySize         prometheus.Gauge
	historyCapacity     prometheus.Gauge
	snapshotsPublished  prometheus.Counter
	snapshotLastUnix    prometheus.Gauge
	snapshotDurationMs  prometheus.Gauge

	// Stream Metrics - subscriber fan-out
	subscriberCount prometheus.Gauge
	streamDelivered prometheus.Counter
	streamDropped   prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	errorsByType        *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "psiguard",
		subsystem:        "monitor",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Control Loop Metrics
	m.ticksTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ticks_total",
		Help:      "Total number of completed polling ticks",
	})

	m.degradedSamples = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "degraded_samples_total",
		Help:      "Total number of degraded (invalid) samples recorded",
	})

	m.samplerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sampler_errors_total",
		Help:      "Total number of sampler failures (timeouts and source errors)",
	})

	m.tickDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tick_duration_milliseconds",
		Help:      "Duration of one sample-classify-publish tick in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.tierChanges = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "tier_changes_total",
			Help:      "Total number of tier transitions, labeled by the tier entered",
		},
		[]string{"tier"},
	)

	m.directives = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "directives_total",
			Help:      "Total number of control directives emitted, labeled by action",
		},
		[]string{"action"},
	)

	// Readout Gauges
	m.consumptionWatts = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "consumption_watts",
		Help:      "Current resource consumption C from the latest sample",
	})

	m.ceilingWatts = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ceiling_watts",
		Help:      "Configured consumption ceiling C_max",
	})

	m.consumptionRatio = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "consumption_ratio",
		Help:      "Current C / C_max ratio driving tier classification",
	})

	m.psiScore = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "psi_score",
		Help:      "Combined efficiency score from the three components",
	})

	m.psiPerWatt = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "psi_per_watt",
		Help:      "Efficiency-per-consumption ratio (0 when consumption is 0)",
	})

	m.tierCode = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tier_code",
		Help:      "Current control tier as a numeric code (0 nominal .. 3 emergency, -1 degraded)",
	})

	// History Metrics
	m.historySize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "history_size",
		Help:      "Number of readings currently retained in the history buffer",
	})

	m.historyCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "history_capacity",
		Help:      "Configured capacity of the history buffer",
	})

	m.snapshotsPublished = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "history_snapshots_total",
		Help:      "Total number of immutable history snapshots published",
	})

	m.snapshotLastUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "history_snapshot_last_unix",
		Help:      "Unix timestamp of the last published history snapshot",
	})

	m.snapshotDurationMs = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "history_snapshot_last_duration_milliseconds",
		Help:      "Last history snapshot rebuild duration in milliseconds",
	})

	// Stream Metrics
	m.subscriberCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stream_subscribers",
		Help:      "Current number of reading-stream subscribers",
	})

	m.streamDelivered = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stream_delivered_total",
		Help:      "Total readings delivered to subscribers",
	})

	m.streamDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stream_dropped_total",
		Help:      "Total readings dropped because a subscriber buffer was full",
	})

	// HTTP Performance Metrics
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of errors by endpoint",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.errorsByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_type_total",
			Help:      "Total number of errors by type",
		},
		[]string{"error_type", "severity"},
	)

	m.errorLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "error_latency_milliseconds",
			Help:      "Latency of operations that resulted in errors",
			Buckets:   m.histogramBuckets,
		},
		[]string{"component", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordTick increments the completed tick counter.
func RecordTick() {
	globalManager.ticksTotal.Inc()
}

// RecordDegradedSample increments the degraded sample counter.
func RecordDegradedSample() {
	globalManager.degradedSamples.Inc()
}

// RecordSamplerError increments the sampler failure counter.
func RecordSamplerError() {
	globalManager.samplerErrors.Inc()
}

// RecordTickDuration records the duration of one tick in milliseconds.
func RecordTickDuration(durationMs float64) {
	globalManager.tickDuration.Observe(durationMs)
}

// RecordTierChange increments the transition counter for the tier entered.
func RecordTierChange(tier string) {
	globalManager.tierChanges.WithLabelValues(tier).Inc()
}

// RecordDirective increments the directive counter for the emitted action.
func RecordDirective(action string) {
	globalManager.directives.WithLabelValues(action).Inc()
}

// UpdateConsumption sets the current consumption gauge.
func UpdateConsumption(watts float64) {
	globalManager.consumptionWatts.Set(watts)
}

// UpdateCeiling sets the configured ceiling gauge.
func UpdateCeiling(watts float64) {
	globalManager.ceilingWatts.Set(watts)
}

// UpdateRatio sets the C/C_max ratio gauge.
func UpdateRatio(ratio float64) {
	globalManager.consumptionRatio.Set(ratio)
}

// UpdatePsi sets the combined efficiency score gauge.
func UpdatePsi(score float64) {
	globalManager.psiScore.Set(score)
}

// UpdatePsiPerWatt sets the efficiency-per-consumption gauge.
func UpdatePsiPerWatt(ratio float64) {
	globalManager.psiPerWatt.Set(ratio)
}

// UpdateTierCode sets the numeric tier gauge.
func UpdateTierCode(code int) {
	globalManager.tierCode.Set(float64(code))
}

// UpdateHistorySize sets the current history length gauge.
func UpdateHistorySize(size int) {
	globalManager.historySize.Set(float64(size))
}

// UpdateHistoryCapacity sets the configured history capacity gauge.
func UpdateHistoryCapacity(capacity int) {
	globalManager.historyCapacity.Set(float64(capacity))
}

// RecordSnapshotPublished records one snapshot publish with its rebuild duration.
func RecordSnapshotPublished(unixTime float64, durationMs float64) {
	globalManager.snapshotsPublished.Inc()
	globalManager.snapshotLastUnix.Set(unixTime)
	globalManager.snapshotDurationMs.Set(durationMs)
}

// UpdateSubscriberCount sets the stream subscriber gauge.
func UpdateSubscriberCount(count int) {
	globalManager.subscriberCount.Set(float64(count))
}

// RecordStreamDelivered increments the delivered-readings counter.
func RecordStreamDelivered() {
	globalManager.streamDelivered.Inc()
}

// RecordStreamDropped increments the dropped-readings counter.
func RecordStreamDropped() {
	globalManager.streamDropped.Inc()
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
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorsByType.WithLabelValues(errorType, severity).Inc()
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
