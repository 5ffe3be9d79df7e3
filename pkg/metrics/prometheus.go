// Package metrics provides Prometheus metrics for the Pêndulo SIR pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Pipeline metrics
	wavesComputed  prometheus.Counter
	wavesFailed    *prometheus.CounterVec
	cacheHits      prometheus.Counter
	buildsJoined   prometheus.Counter
	kernelDuration prometheus.Histogram
	kernelQueue    prometheus.Gauge
	parseErrors    prometheus.Counter
	artifactWrites *prometheus.CounterVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System metrics
	memoryUsage    prometheus.Gauge
	goroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pendulo",
		subsystem:        "sir",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.wavesComputed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "waves_computed_total",
		Help:      "Number of wave score computations that completed successfully.",
	})
	m.wavesFailed = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "waves_failed_total",
		Help:      "Number of wave score computations that failed, by reason.",
	}, []string{"reason"})
	m.cacheHits = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "artifact_cache_hits_total",
		Help:      "Number of requests served from already persisted artifacts.",
	})
	m.buildsJoined = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "builds_joined_total",
		Help:      "Number of callers that joined an in-flight wave build instead of starting one.",
	})
	m.kernelDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "kernel_duration_ms",
		Help:      "Scoring kernel run duration in milliseconds.",
		Buckets:   m.histogramBuckets,
	})
	m.kernelQueue = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "kernel_queue_depth",
		Help:      "Number of scoring jobs waiting in the kernel pool queue.",
	})
	m.parseErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "input_parse_errors_total",
		Help:      "Number of raw input tables rejected as malformed.",
	})
	m.artifactWrites = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "artifact_writes_total",
		Help:      "Number of artifact files written, by kind.",
	}, []string{"kind"})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status code.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method"})

	m.memoryUsage = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "memory_usage_bytes",
		Help:      "Current heap allocation in bytes.",
	})
	m.goroutineCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "goroutines",
		Help:      "Current number of goroutines.",
	})
}

// GetRegistry returns the registry backing the global manager, for promhttp.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers delegating to the global manager.

func RecordWaveComputed() { globalManager.wavesComputed.Inc() }

func RecordWaveFailed(reason string) {
	globalManager.wavesFailed.WithLabelValues(reason).Inc()
}

func RecordCacheHit() { globalManager.cacheHits.Inc() }

func RecordBuildJoined() { globalManager.buildsJoined.Inc() }

func RecordParseError() { globalManager.parseErrors.Inc() }

func RecordKernelDuration(ms float64) { globalManager.kernelDuration.Observe(ms) }

func UpdateKernelQueueDepth(n int) { globalManager.kernelQueue.Set(float64(n)) }

func RecordArtifactWrite(kind string) {
	globalManager.artifactWrites.WithLabelValues(kind).Inc()
}

func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

func RecordHTTPRequestDuration(endpoint, method string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method).Observe(ms)
}

func UpdateSystemMemoryUsage(bytes uint64) { globalManager.memoryUsage.Set(float64(bytes)) }

func UpdateSystemGoroutineCount(n int) { globalManager.goroutineCount.Set(float64(n)) }
