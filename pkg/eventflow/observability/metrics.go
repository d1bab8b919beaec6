package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records completion-protocol metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordSettlement records the first settlement of a response channel.
	// outcome is the terminal outcome kind ("empty", "value", "error").
	RecordSettlement(ctx context.Context, outcome string)

	// RecordDuplicateSettlement records an ignored settlement attempt.
	RecordDuplicateSettlement(ctx context.Context)

	// RecordCompletion records aggregate completion of a context with its
	// lifetime duration and child count.
	RecordCompletion(ctx context.Context, children int, duration time.Duration)

	// RecordRecovery records a recovery attempt and whether it recovered
	// the failure.
	RecordRecovery(ctx context.Context, recovered bool)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	settlements      metric.Int64Counter
	duplicates       metric.Int64Counter
	completions      metric.Int64Counter
	contextLifetime  metric.Float64Histogram
	childrenPerCtx   metric.Int64Histogram
	recoveryAttempts metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("eventflow")

	settlements, err := meter.Int64Counter("eventflow.response.settlements",
		metric.WithDescription("Number of response channel settlements"),
	)
	if err != nil {
		return nil, err
	}

	duplicates, err := meter.Int64Counter("eventflow.response.duplicates_ignored",
		metric.WithDescription("Number of ignored settlement attempts after the response settled"),
	)
	if err != nil {
		return nil, err
	}

	completions, err := meter.Int64Counter("eventflow.context.completions",
		metric.WithDescription("Number of contexts that reached aggregate completion"),
	)
	if err != nil {
		return nil, err
	}

	contextLifetime, err := meter.Float64Histogram("eventflow.context.lifetime_ms",
		metric.WithDescription("Context lifetime from creation to completion in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	childrenPerCtx, err := meter.Int64Histogram("eventflow.context.children",
		metric.WithDescription("Number of child contexts awaited at completion"),
	)
	if err != nil {
		return nil, err
	}

	recoveryAttempts, err := meter.Int64Counter("eventflow.recovery.attempts",
		metric.WithDescription("Number of recovery handler invocations"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		settlements:      settlements,
		duplicates:       duplicates,
		completions:      completions,
		contextLifetime:  contextLifetime,
		childrenPerCtx:   childrenPerCtx,
		recoveryAttempts: recoveryAttempts,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordSettlement records a response settlement.
func (m *otelMetrics) RecordSettlement(ctx context.Context, outcome string) {
	m.settlements.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

// RecordDuplicateSettlement records an ignored settlement attempt.
func (m *otelMetrics) RecordDuplicateSettlement(ctx context.Context) {
	m.duplicates.Add(ctx, 1)
}

// RecordCompletion records aggregate completion.
func (m *otelMetrics) RecordCompletion(ctx context.Context, children int, duration time.Duration) {
	m.completions.Add(ctx, 1)
	m.contextLifetime.Record(ctx, float64(duration.Milliseconds()))
	m.childrenPerCtx.Record(ctx, int64(children))
}

// RecordRecovery records a recovery attempt.
func (m *otelMetrics) RecordRecovery(ctx context.Context, recovered bool) {
	m.recoveryAttempts.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("recovered", recovered),
	))
}
