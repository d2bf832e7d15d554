package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records what a run did. Implementations must be safe for
// concurrent use.
type Metrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)
	RecordResultsExtracted(ctx context.Context, stage string, count int)
	RecordPlayerPoints(ctx context.Context, player string, points int)
	RecordBracketReplacements(ctx context.Context, sheet string, count int)
}

// PrometheusMetrics keeps its own registry so a run can be dumped to a
// node-exporter textfile without touching the global registry.
type PrometheusMetrics struct {
	registry     *prometheus.Registry
	attempts     *prometheus.CounterVec
	successes    *prometheus.CounterVec
	failures     *prometheus.CounterVec
	durations    *prometheus.HistogramVec
	extracted    *prometheus.GaugeVec
	playerPoints *prometheus.GaugeVec
	replacements *prometheus.CounterVec
}

const namespace = "wallchart"

// NewPrometheusMetrics registers all collectors on a fresh registry.
func NewPrometheusMetrics() *PrometheusMetrics {
	m := &PrometheusMetrics{
		registry: prometheus.NewRegistry(),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_attempts_total",
			Help:      "Number of operations started.",
		}, []string{"operation"}),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_successes_total",
			Help:      "Number of operations that completed.",
		}, []string{"operation"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_failures_total",
			Help:      "Number of operations that failed.",
		}, []string{"operation"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		extracted: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "results_extracted",
			Help:      "Results read from the workbook in the last run, by stage.",
		}, []string{"stage"}),
		playerPoints: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "player_points",
			Help:      "Leaderboard points per player in the last run.",
		}, []string{"player"}),
		replacements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bracket_replacements_total",
			Help:      "Bracket placeholder cells replaced, by sheet.",
		}, []string{"sheet"}),
	}

	m.registry.MustRegister(
		m.attempts,
		m.successes,
		m.failures,
		m.durations,
		m.extracted,
		m.playerPoints,
		m.replacements,
	)
	return m
}

// Registry exposes the collectors, mainly for tests.
func (m *PrometheusMetrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *PrometheusMetrics) RecordOperationAttempt(_ context.Context, operation string) {
	m.attempts.WithLabelValues(operation).Inc()
}

func (m *PrometheusMetrics) RecordOperationSuccess(_ context.Context, operation string) {
	m.successes.WithLabelValues(operation).Inc()
}

func (m *PrometheusMetrics) RecordOperationFailure(_ context.Context, operation string) {
	m.failures.WithLabelValues(operation).Inc()
}

func (m *PrometheusMetrics) RecordOperationDuration(_ context.Context, operation string, duration time.Duration) {
	m.durations.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *PrometheusMetrics) RecordResultsExtracted(_ context.Context, stage string, count int) {
	m.extracted.WithLabelValues(stage).Set(float64(count))
}

func (m *PrometheusMetrics) RecordPlayerPoints(_ context.Context, player string, points int) {
	m.playerPoints.WithLabelValues(player).Set(float64(points))
}

func (m *PrometheusMetrics) RecordBracketReplacements(_ context.Context, sheet string, count int) {
	m.replacements.WithLabelValues(sheet).Add(float64(count))
}

// WriteTextfile dumps the registry in the text exposition format.
func (m *PrometheusMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

var _ Metrics = (*PrometheusMetrics)(nil)

// NoOpMetrics discards everything.
type NoOpMetrics struct{}

func (NoOpMetrics) RecordOperationAttempt(context.Context, string)                 {}
func (NoOpMetrics) RecordOperationSuccess(context.Context, string)                 {}
func (NoOpMetrics) RecordOperationFailure(context.Context, string)                 {}
func (NoOpMetrics) RecordOperationDuration(context.Context, string, time.Duration) {}
func (NoOpMetrics) RecordResultsExtracted(context.Context, string, int)            {}
func (NoOpMetrics) RecordPlayerPoints(context.Context, string, int)                {}
func (NoOpMetrics) RecordBracketReplacements(context.Context, string, int)         {}

var _ Metrics = NoOpMetrics{}
