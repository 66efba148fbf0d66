package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StandingsMetrics records service-level metrics for match and standings operations.
type StandingsMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation, division string)
	RecordOperationSuccess(ctx context.Context, operation, division string)
	RecordOperationFailure(ctx context.Context, operation, division string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)
	RecordFindings(ctx context.Context, division, kind string, count int)
	RecordRecomputeSkipped(ctx context.Context, division string)
}

type prometheusStandingsMetrics struct {
	attempts *prometheus.CounterVec
	success  *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
	findings *prometheus.GaugeVec
	skipped  *prometheus.CounterVec
}

// NewStandingsMetrics registers the standings collectors on reg.
func NewStandingsMetrics(reg prometheus.Registerer, namespace string) StandingsMetrics {
	m := &prometheusStandingsMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "standings",
			Name:      "operation_attempts_total",
			Help:      "Service operations started.",
		}, []string{"operation", "division"}),
		success: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "standings",
			Name:      "operation_success_total",
			Help:      "Service operations that completed.",
		}, []string{"operation", "division"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "standings",
			Name:      "operation_failures_total",
			Help:      "Service operations that returned an error or panicked.",
		}, []string{"operation", "division"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "standings",
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		findings: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "standings",
			Name:      "findings",
			Help:      "Data problems isolated during the last recompute of a division.",
		}, []string{"division", "kind"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "standings",
			Name:      "recompute_skipped_total",
			Help:      "Recomputes skipped because the input snapshot was unchanged.",
		}, []string{"division"}),
	}
	reg.MustRegister(m.attempts, m.success, m.failures, m.duration, m.findings, m.skipped)
	return m
}

func (m *prometheusStandingsMetrics) RecordOperationAttempt(_ context.Context, operation, division string) {
	m.attempts.WithLabelValues(operation, division).Inc()
}

func (m *prometheusStandingsMetrics) RecordOperationSuccess(_ context.Context, operation, division string) {
	m.success.WithLabelValues(operation, division).Inc()
}

func (m *prometheusStandingsMetrics) RecordOperationFailure(_ context.Context, operation, division string) {
	m.failures.WithLabelValues(operation, division).Inc()
}

func (m *prometheusStandingsMetrics) RecordOperationDuration(_ context.Context, operation string, duration time.Duration) {
	m.duration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *prometheusStandingsMetrics) RecordFindings(_ context.Context, division, kind string, count int) {
	m.findings.WithLabelValues(division, kind).Set(float64(count))
}

func (m *prometheusStandingsMetrics) RecordRecomputeSkipped(_ context.Context, division string) {
	m.skipped.WithLabelValues(division).Inc()
}

// NoopStandingsMetrics discards everything. Used in tests and offline commands.
type NoopStandingsMetrics struct{}

func (NoopStandingsMetrics) RecordOperationAttempt(context.Context, string, string)        {}
func (NoopStandingsMetrics) RecordOperationSuccess(context.Context, string, string)        {}
func (NoopStandingsMetrics) RecordOperationFailure(context.Context, string, string)        {}
func (NoopStandingsMetrics) RecordOperationDuration(context.Context, string, time.Duration) {}
func (NoopStandingsMetrics) RecordFindings(context.Context, string, string, int)           {}
func (NoopStandingsMetrics) RecordRecomputeSkipped(context.Context, string)                {}
