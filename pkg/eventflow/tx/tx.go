// Package tx provides transaction resolution around a unit of
// execution.
//
// An execution chain wraps a callback in interceptors; the
// ResolutionInterceptor resolves any pending transaction after the
// inner step returns, raising a processing failure attached to the last
// known event when resolution fails. The last event is threaded
// explicitly through the ExecutionContext rather than looked up from
// ambient process state, so a filtering step that short-circuits the
// chain still leaves a usable event to attach failures to.
package tx

import (
	"context"

	"github.com/randalmurphal/eventflow/pkg/eventflow"
)

// Coordinator resolves pending transactions.
type Coordinator interface {
	// Resolve commits or rolls back the pending transaction.
	Resolve(ctx context.Context) error
}

// CoordinatorFunc adapts a function to the Coordinator interface.
type CoordinatorFunc func(ctx context.Context) error

// Resolve implements Coordinator.
func (f CoordinatorFunc) Resolve(ctx context.Context) error { return f(ctx) }

// ExecutionContext carries per-execution transaction state through an
// interceptor chain. It is not safe for concurrent use; one execution
// owns it.
type ExecutionContext struct {
	// NeedsResolution indicates a transaction is pending and must be
	// resolved once the inner step returns.
	NeedsResolution bool

	// lastEvent is the most recent event observed by the chain.
	lastEvent *eventflow.Event
}

// RecordEvent notes the most recent event seen by the chain.
// Steps call this as events pass through, so a later failure can be
// attached to the last known event even when the chain's return value
// is nil (a filtering step short-circuited).
func (ec *ExecutionContext) RecordEvent(evt *eventflow.Event) {
	if evt != nil {
		ec.lastEvent = evt
	}
}

// LastEvent returns the most recent event recorded on the context,
// or nil if none was recorded.
func (ec *ExecutionContext) LastEvent() *eventflow.Event {
	return ec.lastEvent
}

// Callback is the inner unit of execution wrapped by interceptors.
// A nil event with a nil error is a valid empty result.
type Callback func(ctx context.Context) (*eventflow.Event, error)

// Interceptor wraps a unit of execution with cross-cutting behavior.
type Interceptor interface {
	// Execute runs the callback, adding the interceptor's behavior.
	Execute(ctx context.Context, execCtx *ExecutionContext, callback Callback) (*eventflow.Event, error)
}

// Chain composes interceptors around a callback, first interceptor
// outermost.
func Chain(callback Callback, execCtx *ExecutionContext, interceptors ...Interceptor) Callback {
	for i := len(interceptors) - 1; i >= 0; i-- {
		interceptor := interceptors[i]
		next := callback
		callback = func(ctx context.Context) (*eventflow.Event, error) {
			return interceptor.Execute(ctx, execCtx, next)
		}
	}
	return callback
}
