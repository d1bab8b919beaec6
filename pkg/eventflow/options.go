package eventflow

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/randalmurphal/eventflow/pkg/eventflow/config"
	"github.com/randalmurphal/eventflow/pkg/eventflow/journal"
	"github.com/randalmurphal/eventflow/pkg/eventflow/observability"
)

// contextConfig holds resolved configuration for an event context.
type contextConfig struct {
	correlationID string
	logger        *slog.Logger
	metrics       observability.MetricsRecorder
	journal       journal.Store
	recovery      RecoveryHandler
	external      <-chan struct{}
}

// defaultContextConfig returns the default context configuration:
// the default slog logger, no-op metrics, no journal, no recovery, and
// an already-settled external completion dependency.
func defaultContextConfig() contextConfig {
	return contextConfig{
		logger:   slog.Default(),
		metrics:  observability.NoopMetrics{},
		external: settledExternal,
	}
}

// childConfig derives a child's default configuration from the parent.
func (ec *EventContext) childConfig() contextConfig {
	return contextConfig{
		correlationID: ec.correlationID,
		logger:        ec.logger,
		metrics:       ec.metrics,
		journal:       ec.journal,
		recovery:      ec.recovery,
		external:      settledExternal,
	}
}

// ContextOption configures context creation.
type ContextOption func(*contextConfig)

// WithCorrelation sets the correlation ID used in logs and journal
// entries. Typically the admitted event's correlation ID.
func WithCorrelation(id string) ContextOption {
	return func(cfg *contextConfig) {
		cfg.correlationID = id
	}
}

// WithLogger sets the context's logger.
// Default: slog.Default().
func WithLogger(logger *slog.Logger) ContextOption {
	return func(cfg *contextConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithMetrics sets the context's metrics recorder.
// Default: no-op.
func WithMetrics(recorder observability.MetricsRecorder) ContextOption {
	return func(cfg *contextConfig) {
		if recorder != nil {
			cfg.metrics = recorder
		}
	}
}

// WithJournal sets the lifecycle journal store.
// Default: no journaling.
func WithJournal(store journal.Store) ContextOption {
	return func(cfg *contextConfig) {
		cfg.journal = store
	}
}

// WithRecoveryHandler sets the error recovery handler, fixed for the
// context's lifetime. Default: none - processing failures propagate
// as errors.
func WithRecoveryHandler(handler RecoveryHandler) ContextOption {
	return func(cfg *contextConfig) {
		cfg.recovery = handler
	}
}

// WithExternalCompletion sets an external completion dependency that
// must settle (the channel must close) before the context's aggregate
// completion can fire. Default: already settled.
func WithExternalCompletion(done <-chan struct{}) ContextOption {
	return func(cfg *contextConfig) {
		if done != nil {
			cfg.external = done
		}
	}
}

// OptionsFromConfig maps file-loaded settings to context options,
// constructing the configured journal store and observability
// recorders. The returned closer releases the journal store (a no-op
// close when journaling is disabled).
func OptionsFromConfig(settings config.Settings) (opts []ContextOption, closer func() error, err error) {
	if err := settings.Validate(); err != nil {
		return nil, nil, err
	}

	level, err := settings.LogLevel()
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	opts = append(opts, WithLogger(logger))

	if settings.Observability.Metrics {
		opts = append(opts, WithMetrics(observability.NewMetricsRecorder()))
	}

	closer = func() error { return nil }
	switch settings.Journal.Backend {
	case config.JournalMemory:
		store := journal.NewMemoryStore()
		opts = append(opts, WithJournal(store))
		closer = store.Close
	case config.JournalSQLite:
		store, err := journal.NewSQLiteStore(settings.Journal.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open journal: %w", err)
		}
		opts = append(opts, WithJournal(store))
		closer = store.Close
	}

	return opts, closer, nil
}

// RunOptionsFromConfig maps file-loaded settings to Run options:
// the tracing toggle becomes WithTracing.
func RunOptionsFromConfig(settings config.Settings) []RunOption {
	var opts []RunOption
	if settings.Observability.Tracing {
		opts = append(opts, WithTracing(true))
	}
	return opts
}
