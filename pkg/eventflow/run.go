package eventflow

import (
	"context"

	"github.com/randalmurphal/eventflow/pkg/eventflow/observability"
)

// Processor performs one unit of work over an event.
// Returning a nil event with a nil error is a valid empty result
// (e.g. a filtering step dropped the event).
type Processor func(ctx context.Context, evt *Event) (*Event, error)

// runConfig holds configuration for Run.
type runConfig struct {
	tracingEnabled bool
	spans          observability.SpanManager
}

// defaultRunConfig returns the default run configuration.
func defaultRunConfig() runConfig {
	return runConfig{
		spans: observability.NoopSpanManager{},
	}
}

// RunOption configures Run behavior.
type RunOption func(*runConfig)

// WithTracing enables OpenTelemetry tracing for the unit of work.
// The span covers the processor from admission to response settlement.
func WithTracing(enabled bool) RunOption {
	return func(cfg *runConfig) {
		cfg.tracingEnabled = enabled
		if enabled {
			cfg.spans = observability.NewSpanManager()
		}
	}
}

// WithSpanManager sets a specific span manager (implies tracing).
func WithSpanManager(spans observability.SpanManager) RunOption {
	return func(cfg *runConfig) {
		if spans != nil {
			cfg.tracingEnabled = true
			cfg.spans = spans
		}
	}
}

// Run executes proc over evt and settles ec from its outcome: a
// returned event becomes SuccessWith, a nil event Success, and an error
// is routed through ec.Error (so processing failures get the recovery
// path). Run returns once the routing decision has been applied to the
// response; aggregate completion may still be pending on children and
// the external dependency.
func Run(ctx context.Context, ec *EventContext, evt *Event, proc Processor, opts ...RunOption) {
	cfg := defaultRunConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	execCtx := ctx
	if cfg.tracingEnabled {
		spanCtx, workSpan := cfg.spans.StartUnitOfWorkSpan(ctx, ec.ID(), eventIDOf(evt))
		execCtx = spanCtx
		defer func() {
			out, _ := ec.Response().Outcome()
			cfg.spans.EndSpanWithError(workSpan, out.Err)
		}()
	}

	result, err := proc(execCtx, evt)
	if err != nil {
		// Wait for the recovery routing decision before returning.
		<-ec.Error(execCtx, err).Done()
		return
	}
	if result == nil {
		ec.Success()
		return
	}
	ec.SuccessWith(result)
}
