package tx

import (
	"context"
	"log/slog"

	"github.com/randalmurphal/eventflow/pkg/eventflow"
)

// ResolutionInterceptor resolves any pending transaction after the
// inner step returns.
//
// It must run outside the error-handling interceptor so a resolution
// failure still reaches the error handler. A resolution failure is
// raised as a *eventflow.ProcessingError attached to the inner step's
// result; when the result is nil (a filtering step short-circuited the
// chain) the failure is attached to the last event recorded on the
// ExecutionContext instead.
type ResolutionInterceptor struct {
	coordinator Coordinator
	logger      *slog.Logger
}

// Compile-time interface check.
var _ Interceptor = (*ResolutionInterceptor)(nil)

// NewResolutionInterceptor creates a resolution interceptor using the
// given coordinator.
func NewResolutionInterceptor(coordinator Coordinator) *ResolutionInterceptor {
	return &ResolutionInterceptor{
		coordinator: coordinator,
		logger:      slog.Default(),
	}
}

// WithLogger sets the interceptor's logger.
func (i *ResolutionInterceptor) WithLogger(logger *slog.Logger) *ResolutionInterceptor {
	if logger != nil {
		i.logger = logger
	}
	return i
}

// Execute implements Interceptor.
func (i *ResolutionInterceptor) Execute(ctx context.Context, execCtx *ExecutionContext, callback Callback) (*eventflow.Event, error) {
	result, err := callback(ctx)
	if err != nil {
		return result, err
	}
	execCtx.RecordEvent(result)

	if !execCtx.NeedsResolution {
		return result, nil
	}

	if resolveErr := i.coordinator.Resolve(ctx); resolveErr != nil {
		failed := result
		if failed == nil {
			failed = execCtx.LastEvent()
		}
		i.logger.Error("transaction resolution failed",
			slog.String("event_id", idOf(failed)),
			slog.String("error", resolveErr.Error()),
		)
		return nil, eventflow.NewProcessingError(failed, resolveErr)
	}

	return result, nil
}

// idOf returns the event ID, tolerating nil.
func idOf(evt *eventflow.Event) string {
	if evt == nil {
		return "<none>"
	}
	return evt.ID
}
