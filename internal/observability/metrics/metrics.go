// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "speech_result_gateway"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Session metrics
	SessionsTotal   prometheus.Counter
	SessionsActive  prometheus.Gauge
	SessionsFailed  prometheus.Counter
	SessionDuration prometheus.Histogram

	// Record metrics
	RecordsTotal      *prometheus.CounterVec
	RecordFailures    *prometheus.CounterVec
	RecordDurationMs  prometheus.Histogram
	InterimLimitDrops prometheus.Counter

	// Engine metrics
	EngineErrors *prometheus.CounterVec

	// Publish metrics
	PublishTotal   *prometheus.CounterVec
	PublishErrors  *prometheus.CounterVec
	PublishLatency *prometheus.HistogramVec
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		SessionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Total number of recognition sessions started",
		}),
		SessionsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of currently active recognition sessions",
		}),
		SessionsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_failed_total",
			Help:      "Total number of sessions that ended in failure",
		}),
		SessionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "session_duration_seconds",
			Help:      "Duration of recognition sessions in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}),

		RecordsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Total number of result records shaped, by reason",
		}, []string{"reason"}),
		RecordFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "record_failures_total",
			Help:      "Total number of raw results rejected at construction",
		}, []string{"cause"}),
		RecordDurationMs: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "record_duration_milliseconds",
			Help:      "Recognized speech duration per final record in milliseconds",
			Buckets:   []float64{100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		}),
		InterimLimitDrops: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interim_limit_drops_total",
			Help:      "Total number of sessions dropped for exceeding the interim limit",
		}),

		EngineErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "engine_errors_total",
			Help:      "Total number of engine errors",
		}, []string{"provider"}),

		PublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_total",
			Help:      "Total number of result events published",
		}, []string{"topic", "event_type"}),
		PublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Total number of publish errors",
		}, []string{"topic", "event_type"}),
		PublishLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "publish_latency_seconds",
			Help:      "Publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),
	}
}

// RecordSessionStart records a new session starting.
func (m *Metrics) RecordSessionStart() {
	m.SessionsTotal.Inc()
	m.SessionsActive.Inc()
}

// RecordSessionEnd records a session ending.
func (m *Metrics) RecordSessionEnd(failed bool, durationSeconds float64) {
	m.SessionsActive.Dec()
	m.SessionDuration.Observe(durationSeconds)
	if failed {
		m.SessionsFailed.Inc()
	}
}

// RecordShaped records a successfully constructed record.
func (m *Metrics) RecordShaped(reason string) {
	m.RecordsTotal.WithLabelValues(reason).Inc()
}

// RecordRejected records a raw result rejected at construction.
func (m *Metrics) RecordRejected(cause string) {
	m.RecordFailures.WithLabelValues(cause).Inc()
}

// RecordFinalDuration records the speech duration of a final record.
func (m *Metrics) RecordFinalDuration(durationMs int64) {
	m.RecordDurationMs.Observe(float64(durationMs))
}

// RecordEngineError records an engine error.
func (m *Metrics) RecordEngineError(provider string) {
	m.EngineErrors.WithLabelValues(provider).Inc()
}

// RecordPublish records a publish attempt.
func (m *Metrics) RecordPublish(topic, eventType string, err error, latencySeconds float64) {
	m.PublishTotal.WithLabelValues(topic, eventType).Inc()
	m.PublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.PublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}
