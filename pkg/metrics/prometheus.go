package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Prediction outcome label values.
const (
	OutcomeOK               = "ok"
	OutcomeModelUnavailable = "model_unavailable"
	OutcomeSchemaMismatch   = "schema_mismatch"
	OutcomePredictionFailed = "prediction_failed"
)

// Manager manages all Prometheus metrics for the forecast service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Forecast metrics
	predictions       *prometheus.CounterVec
	predictionLatency prometheus.Histogram
	reports           *prometheus.CounterVec
	adviceRules       *prometheus.CounterVec

	// Model artifact
	modelLoaded       prometheus.Gauge
	modelLoadAttempts *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error tracking
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

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
		namespace:        "edumetrics",
		subsystem:        "forecast",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
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

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
		Buckets:     m.histogramBuckets,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.predictions = auto.NewCounterVec(
		m.counterOpts("predictions_total", "Pipeline calls by outcome"),
		[]string{"outcome"},
	)
	m.predictionLatency = auto.NewHistogram(
		m.histogramOpts("prediction_latency_milliseconds", "Pipeline call latency in milliseconds"),
	)
	m.reports = auto.NewCounterVec(
		m.counterOpts("reports_total", "Reports assembled by tier and degraded flag"),
		[]string{"tier", "degraded"},
	)
	m.adviceRules = auto.NewCounterVec(
		m.counterOpts("advice_rules_fired_total", "Advice items produced by rule"),
		[]string{"rule"},
	)

	m.modelLoaded = auto.NewGauge(
		m.gaugeOpts("model_loaded", "1 when the model artifact is loaded, 0 when serving fallback scores"),
	)
	m.modelLoadAttempts = auto.NewCounterVec(
		m.counterOpts("model_load_attempts_total", "Model artifact load attempts by result"),
		[]string{"result"},
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Errors by component and type"),
		[]string{"component", "error_type"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by endpoint, method and type"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(
		m.gaugeOpts("system_memory_usage_bytes", "Heap memory in use, in bytes"),
	)
	m.systemGoroutineCount = auto.NewGauge(
		m.gaugeOpts("system_goroutine_count", "Number of goroutines"),
	)
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_milliseconds", "Most recent GC pause in milliseconds"),
	)
}

// RefreshInterval is how often runtime gauges should be sampled.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

// RecordPrediction counts one pipeline call and its latency.
func (m *Manager) RecordPrediction(outcome string, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.predictions.WithLabelValues(outcome).Inc()
	m.predictionLatency.Observe(latencyMs)
}

// RecordReport counts one assembled report.
func (m *Manager) RecordReport(tier string, degraded bool) {
	if !m.enabled {
		return
	}
	m.reports.WithLabelValues(tier, strconv.FormatBool(degraded)).Inc()
}

// RecordAdviceRule counts one advice item produced by rule.
func (m *Manager) RecordAdviceRule(rule string) {
	if !m.enabled {
		return
	}
	m.adviceRules.WithLabelValues(rule).Inc()
}

// SetModelLoaded flags whether predictions come from the artifact.
func (m *Manager) SetModelLoaded(loaded bool) {
	if !m.enabled {
		return
	}
	if loaded {
		m.modelLoaded.Set(1)
		return
	}
	m.modelLoaded.Set(0)
}

// RecordModelLoadAttempt counts one artifact load attempt.
func (m *Manager) RecordModelLoadAttempt(err error) {
	if !m.enabled {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.modelLoadAttempts.WithLabelValues(result).Inc()
}

// RecordHTTPRequest records an HTTP request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByComponent records an error with component and type labels.
func (m *Manager) RecordErrorByComponent(component, errorType string) {
	if !m.enabled {
		return
	}
	m.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !m.enabled {
		return
	}
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystem records a runtime sample.
func (m *Manager) UpdateSystem(heapBytes uint64, goroutines int, gcPauseMs float64) {
	if !m.enabled {
		return
	}
	m.systemMemoryUsage.Set(float64(heapBytes))
	m.systemGoroutineCount.Set(float64(goroutines))
	m.systemGCPauseTime.Observe(gcPauseMs)
}

// Default returns the process-wide manager registered on GetRegistry.
func Default() *Manager { return globalManager }

// RecordPrediction counts one pipeline call on the global manager.
func RecordPrediction(outcome string, latencyMs float64) {
	globalManager.RecordPrediction(outcome, latencyMs)
}

// RecordReport counts one assembled report on the global manager.
func RecordReport(tier string, degraded bool) { globalManager.RecordReport(tier, degraded) }

// RecordAdviceRule counts one advice item on the global manager.
func RecordAdviceRule(rule string) { globalManager.RecordAdviceRule(rule) }

// SetModelLoaded sets the model gauge on the global manager.
func SetModelLoaded(loaded bool) { globalManager.SetModelLoaded(loaded) }

// RecordModelLoadAttempt counts a load attempt on the global manager.
func RecordModelLoadAttempt(err error) { globalManager.RecordModelLoadAttempt(err) }

// RecordHTTPRequest records an HTTP request on the global manager.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordErrorByComponent records a component error on the global manager.
func RecordErrorByComponent(component, errorType string) {
	globalManager.RecordErrorByComponent(component, errorType)
}

// RecordErrorByEndpoint records an endpoint error on the global manager.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.RecordErrorByEndpoint(endpoint, method, errorType)
}

// UpdateSystem records a runtime sample on the global manager.
func UpdateSystem(heapBytes uint64, goroutines int, gcPauseMs float64) {
	globalManager.UpdateSystem(heapBytes, goroutines, gcPauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
