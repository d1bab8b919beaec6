package eventflow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/eventflow/pkg/eventflow/journal"
	"github.com/randalmurphal/eventflow/pkg/eventflow/observability"
	"github.com/randalmurphal/eventflow/pkg/eventflow/oneshot"
)

// settledExternal is the default external completion dependency:
// an already-settled signal.
var settledExternal = func() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// EventContext tracks the lifecycle of one unit of work from admission
// to a single completion signal.
//
// The owner settles the response exactly once logically via Success,
// SuccessWith, or Error; later attempts are ignored with a diagnostic
// log, so competing completion triggers (a timeout racing a normal
// result) are safe. Nested units of work attach via AddChild or
// NewChild; the context completes only after its own response, its
// external completion dependency, and every attached child's completion
// have all settled. An error response still completes normally.
//
// All methods are safe for concurrent use. AddChild must not be called
// after the context has completed; callers are expected to stop
// spawning children once completion fired.
type EventContext struct {
	id            string
	correlationID string
	parent        *EventContext
	createdAt     time.Time

	logger   *slog.Logger
	metrics  observability.MetricsRecorder
	journal  journal.Store
	recovery RecoveryHandler
	external <-chan struct{}

	beforeResponse *oneshot.Channel[*Event]
	response       *oneshot.Channel[*Event]
	completion     *oneshot.Channel[struct{}]

	// settleMu serializes settle decisions over the response pair, so
	// competing triggers always observe some serial order: a success
	// racing a recoverable error either preempts it entirely (no
	// recovery runs) or loses the raw outcome to it. Observers
	// subscribed to the pair run while settleMu is held and must not
	// settle the context.
	settleMu sync.Mutex

	// mu guards children and the active completion waiter. The waiter
	// version is the linearization point for AddChild vs completion:
	// a waiter re-checks its version and settles completion in one
	// critical section, so an attach either cancels the waiter or
	// observes completion already settled.
	mu          sync.Mutex
	children    []*EventContext
	waitVersion uint64
	cancelWait  chan struct{}
}

// NewContext creates a root event context.
func NewContext(opts ...ContextOption) *EventContext {
	cfg := defaultContextConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return newContext(nil, cfg)
}

// NewChild creates a child context attached to ec. The child inherits
// the parent's logger, metrics recorder, journal, and recovery handler
// unless options override them. The parent will not complete until the
// child completes.
func (ec *EventContext) NewChild(opts ...ContextOption) *EventContext {
	cfg := ec.childConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	child := newContext(ec, cfg)
	ec.AddChild(child)
	return child
}

// newContext builds a context from a resolved configuration and
// installs the initial completion waiter (response + external only).
func newContext(parent *EventContext, cfg contextConfig) *EventContext {
	ec := &EventContext{
		id:            uuid.New().String(),
		correlationID: cfg.correlationID,
		parent:        parent,
		createdAt:     time.Now(),
		metrics:       cfg.metrics,
		journal:       cfg.journal,
		recovery:      cfg.recovery,
		external:      cfg.external,

		beforeResponse: oneshot.New[*Event](),
		response:       oneshot.New[*Event](),
		completion:     oneshot.New[struct{}](),
	}
	ec.logger = observability.EnrichLogger(cfg.logger, ec.id, ec.correlationID)

	ec.record(journal.KindCreated, "", "")

	ec.mu.Lock()
	ec.installWaiter()
	ec.mu.Unlock()
	return ec
}

// ID returns the context's unique identifier.
// IDs are for diagnostics and equality only, never ordering.
func (ec *EventContext) ID() string { return ec.id }

// Parent returns the parent context, or nil for a root context.
// The back-reference is diagnostic; a parent never owns its children's
// lifetime beyond waiting on their completion.
func (ec *EventContext) Parent() *EventContext { return ec.parent }

// Children returns a snapshot of the currently attached child contexts.
func (ec *EventContext) Children() []*EventContext {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	snapshot := make([]*EventContext, len(ec.children))
	copy(snapshot, ec.children)
	return snapshot
}

// BeforeResponse returns the observation handle for the raw response:
// the outcome as first settled, before any error recovery rewrote it.
func (ec *EventContext) BeforeResponse() oneshot.Observable[*Event] {
	return ec.beforeResponse
}

// Response returns the observation handle for the final response,
// after possible error recovery.
func (ec *EventContext) Response() oneshot.Observable[*Event] {
	return ec.response
}

// Completion returns the observation handle for aggregate completion.
// It settles exactly once, after the response has settled, the external
// completion dependency has settled, and every attached child has
// completed.
func (ec *EventContext) Completion() oneshot.Observable[struct{}] {
	return ec.completion
}

// IsComplete reports whether aggregate completion has fired.
func (ec *EventContext) IsComplete() bool {
	return ec.completion.IsSettled()
}

// Success settles the response with no value.
// A no-op with a diagnostic log if the response already settled.
func (ec *EventContext) Success() {
	ec.settleMu.Lock()
	won := ec.response.Complete()
	if won {
		ec.beforeResponse.Complete()
	}
	ec.settleMu.Unlock()
	if !won {
		ec.ignoreDuplicate("success")
		return
	}
	ec.settled("empty", "")
}

// SuccessWith settles the response with an event.
// A no-op with a diagnostic log if the response already settled.
func (ec *EventContext) SuccessWith(evt *Event) {
	ec.settleMu.Lock()
	won := ec.response.Resolve(evt)
	if won {
		ec.beforeResponse.Resolve(evt)
	}
	ec.settleMu.Unlock()
	if !won {
		ec.ignoreDuplicate("success")
		return
	}
	ec.settled("value", eventIDOf(evt))
}

// Error settles the response with an error, routing processing failures
// through the recovery handler first.
//
// A *ProcessingError with a configured recovery handler is offered to
// the handler asynchronously: each recovered event is delivered as if
// SuccessWith were called (the first one wins), a handler error settles
// the response as a *RecoveryError, and an empty recovery propagates
// the original failure. Any other error settles the response directly.
//
// The returned signal settles once the routing decision has been
// applied to the response. If the response already settled, Error is a
// no-op returning an already-settled signal. ctx bounds the recovery
// handler's work.
func (ec *EventContext) Error(ctx context.Context, cause error) oneshot.Observable[struct{}] {
	ec.settleMu.Lock()
	if ec.response.IsSettled() {
		ec.settleMu.Unlock()
		ec.ignoreDuplicate("error")
		return oneshot.Completed[struct{}]()
	}

	procErr, recoverable := AsProcessingError(cause)
	if !recoverable || ec.recovery == nil {
		ec.response.Fail(cause)
		ec.beforeResponse.Fail(cause)
		ec.settleMu.Unlock()
		ec.settled("error", "")
		return oneshot.Completed[struct{}]()
	}

	// The raw outcome is recorded before recovery can rewrite it.
	ec.beforeResponse.Fail(cause)
	ec.settleMu.Unlock()

	observability.LogRecoveryAttempt(ec.logger, ec.id, cause)
	ec.record(journal.KindRecoveryAttempted, eventIDOf(procErr.Event), cause.Error())

	done := oneshot.New[struct{}]()
	go func() {
		defer done.Complete()
		ec.runRecovery(ctx, cause, procErr)
	}()
	return done
}

// runRecovery invokes the recovery handler and applies its decision to
// the response.
func (ec *EventContext) runRecovery(ctx context.Context, cause error, procErr *ProcessingError) {
	recovered, err := ec.recovery(ctx, procErr)
	observability.LogRecoveryOutcome(ec.logger, ec.id, len(recovered), err)

	switch {
	case err != nil:
		ec.metrics.RecordRecovery(ctx, false)
		ec.record(journal.KindRecoveryFailed, eventIDOf(procErr.Event), err.Error())
		ec.failResponse(&RecoveryError{Attempted: procErr, Err: err})
	case len(recovered) == 0:
		ec.metrics.RecordRecovery(ctx, false)
		ec.record(journal.KindRecoveryFailed, eventIDOf(procErr.Event), "no recovered events")
		ec.failResponse(cause)
	default:
		ec.metrics.RecordRecovery(ctx, true)
		ec.record(journal.KindRecovered, eventIDOf(procErr.Event), "")
		for _, evt := range recovered {
			ec.SuccessWith(evt)
		}
	}
}

// failResponse settles the response (and the raw channel, if still
// open) with an error.
func (ec *EventContext) failResponse(cause error) {
	ec.settleMu.Lock()
	won := ec.response.Fail(cause)
	if won {
		ec.beforeResponse.Fail(cause)
	}
	ec.settleMu.Unlock()
	if !won {
		ec.ignoreDuplicate("error")
		return
	}
	ec.settled("error", "")
}

// AddChild attaches a child context whose completion ec must await.
//
// The child set is append-only. Each attachment retires the active
// completion waiter and installs a fresh one covering the new child, so
// a child added concurrently with an in-flight completion evaluation is
// never excluded from the aggregate. Must not be called after ec has
// completed.
func (ec *EventContext) AddChild(child *EventContext) {
	ec.mu.Lock()
	ec.children = append(ec.children, child)
	count := len(ec.children)
	ec.installWaiter()
	ec.mu.Unlock()

	observability.LogChildAdded(ec.logger, ec.id, child.id, count)
	ec.record(journal.KindChildAdded, "", child.id)
}

// installWaiter retires the active waiter and starts a new one over the
// current wait-set snapshot. Callers must hold ec.mu.
func (ec *EventContext) installWaiter() {
	if ec.cancelWait != nil {
		close(ec.cancelWait)
	}
	cancel := make(chan struct{})
	ec.cancelWait = cancel
	ec.waitVersion++

	waits := make([]<-chan struct{}, 0, len(ec.children)+2)
	waits = append(waits, ec.response.Done(), ec.external)
	for _, child := range ec.children {
		waits = append(waits, child.completion.Done())
	}

	go ec.awaitConjunction(ec.waitVersion, cancel, waits)
}

// awaitConjunction waits for every member of a wait-set snapshot and
// then settles completion, unless the snapshot went stale (a child was
// added and a newer waiter installed) in the meantime.
func (ec *EventContext) awaitConjunction(version uint64, cancel <-chan struct{}, waits []<-chan struct{}) {
	for _, done := range waits {
		select {
		case <-done:
		case <-cancel:
			return
		}
	}

	// The version re-check and the settle are atomic with respect to
	// AddChild's critical section: an attach that lands before the
	// settle always bumps the version first, so a stale waiter can
	// never fire over a wait-set missing that child. Completion
	// observers run while mu is held and must not call back into the
	// context.
	ec.mu.Lock()
	if version != ec.waitVersion {
		ec.mu.Unlock()
		return
	}
	count := len(ec.children)
	won := ec.completion.Complete()
	ec.mu.Unlock()
	if !won {
		return
	}
	lifetime := time.Since(ec.createdAt)
	observability.LogCompletion(ec.logger, ec.id, count, float64(lifetime.Milliseconds()))
	ec.metrics.RecordCompletion(context.Background(), count, lifetime)
	ec.record(journal.KindCompleted, "", "")
}

// settled records the first settlement of the response.
func (ec *EventContext) settled(outcome, eventID string) {
	observability.LogResponseSettled(ec.logger, ec.id, outcome)
	ec.metrics.RecordSettlement(context.Background(), outcome)
	ec.record(journal.KindResponseSettled, eventID, outcome)
}

// ignoreDuplicate records a settlement attempt that lost the race.
// Deliberately not an error: competing completion triggers are benign.
func (ec *EventContext) ignoreDuplicate(attempted string) {
	observability.LogDuplicateSettlement(ec.logger, ec.id, attempted)
	ec.metrics.RecordDuplicateSettlement(context.Background())
	ec.record(journal.KindDuplicateIgnored, "", attempted)
}

// record journals a lifecycle transition, best effort.
func (ec *EventContext) record(kind journal.Kind, eventID, detail string) {
	if ec.journal == nil {
		return
	}
	entry := journal.Entry{
		ContextID: ec.id,
		EventID:   eventID,
		Kind:      kind,
		Detail:    detail,
	}
	if err := ec.journal.Append(context.Background(), entry); err != nil && ec.logger != nil {
		ec.logger.Warn("journal append failed",
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()),
		)
	}
}

// eventIDOf returns evt.ID, tolerating nil.
func eventIDOf(evt *Event) string {
	if evt == nil {
		return ""
	}
	return evt.ID
}
