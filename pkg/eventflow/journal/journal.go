// Package journal provides an append-only record of context lifecycle
// transitions for diagnostics.
//
// Every transition of an event context (creation, child attachment,
// response settlement, ignored duplicate attempts, recovery, aggregate
// completion) can be journaled to a Store. The journal is an audit
// trail, not a source of truth: the completion protocol never reads it
// back.
package journal

import (
	"context"
	"errors"
	"time"
)

// Kind identifies a lifecycle transition.
type Kind string

// Lifecycle transition kinds.
const (
	KindCreated           Kind = "created"
	KindChildAdded        Kind = "child_added"
	KindResponseSettled   Kind = "response_settled"
	KindDuplicateIgnored  Kind = "duplicate_ignored"
	KindRecoveryAttempted Kind = "recovery_attempted"
	KindRecovered         Kind = "recovered"
	KindRecoveryFailed    Kind = "recovery_failed"
	KindCompleted         Kind = "completed"
)

// Entry is one journaled lifecycle transition.
type Entry struct {
	// ContextID identifies the event context.
	ContextID string

	// EventID identifies the event being processed, when known.
	EventID string

	// Kind is the transition recorded.
	Kind Kind

	// Detail carries transition-specific information (outcome kind,
	// child ID, error text).
	Detail string

	// Timestamp is when the transition was recorded.
	// Filled by the store if zero.
	Timestamp time.Time

	// Sequence orders entries within a context. Assigned by the store.
	Sequence int
}

// Store persists lifecycle entries.
// Implementations must be safe for concurrent use.
type Store interface {
	// Append records an entry. The store assigns Sequence and fills
	// Timestamp if zero.
	Append(ctx context.Context, entry Entry) error

	// List returns all entries for a context, ordered by sequence.
	// Returns an empty slice (not an error) for an unknown context.
	List(ctx context.Context, contextID string) ([]Entry, error)

	// DeleteContext removes all entries for a context.
	// Returns nil if the context has no entries.
	DeleteContext(ctx context.Context, contextID string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Sentinel errors for journal operations.
var (
	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("journal store closed")
)
