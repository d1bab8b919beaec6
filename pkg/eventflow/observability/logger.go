// Package observability provides structured logging, metrics, and
// distributed tracing for the eventflow completion protocol.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds unit-of-work context to a logger.
// Returns a new logger with context_id and correlation_id fields.
func EnrichLogger(logger *slog.Logger, contextID, correlationID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("context_id", contextID),
		slog.String("correlation_id", correlationID),
	)
}

// LogResponseSettled logs the first settlement of a response channel.
// outcome is the terminal outcome kind ("empty", "value", "error").
func LogResponseSettled(logger *slog.Logger, contextID, outcome string) {
	if logger == nil {
		return
	}
	logger.Debug("response settled",
		slog.String("context_id", contextID),
		slog.String("outcome", outcome),
	)
}

// LogDuplicateSettlement logs an ignored settlement attempt.
// Duplicate attempts are a benign race between completion triggers,
// not an error.
func LogDuplicateSettlement(logger *slog.Logger, contextID, attempted string) {
	if logger == nil {
		return
	}
	logger.Info("response already settled, ignoring",
		slog.String("context_id", contextID),
		slog.String("attempted", attempted),
	)
}

// LogCompletion logs aggregate completion of a context.
func LogCompletion(logger *slog.Logger, contextID string, children int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("execution completed",
		slog.String("context_id", contextID),
		slog.Int("children", children),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogChildAdded logs attachment of a child context.
func LogChildAdded(logger *slog.Logger, contextID, childID string, children int) {
	if logger == nil {
		return
	}
	logger.Debug("child context added",
		slog.String("context_id", contextID),
		slog.String("child_id", childID),
		slog.Int("children", children),
	)
}

// LogRecoveryAttempt logs invocation of a recovery handler.
func LogRecoveryAttempt(logger *slog.Logger, contextID string, failure error) {
	if logger == nil {
		return
	}
	logger.Debug("handling processing failure",
		slog.String("context_id", contextID),
		slog.String("error", failure.Error()),
	)
}

// LogRecoveryOutcome logs the result of a recovery attempt.
func LogRecoveryOutcome(logger *slog.Logger, contextID string, recovered int, err error) {
	if logger == nil {
		return
	}
	if err != nil {
		logger.Warn("recovery failed",
			slog.String("context_id", contextID),
			slog.String("error", err.Error()),
		)
		return
	}
	logger.Debug("recovery finished",
		slog.String("context_id", contextID),
		slog.Int("recovered", recovered),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in
// milliseconds.
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
