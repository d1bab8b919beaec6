package eventflow

import (
	"errors"
	"fmt"

	"github.com/randalmurphal/eventflow/pkg/eventflow/errtype"
)

// ProcessingError is a failure raised while processing an event.
// It carries the event as it was when processing failed, and is the
// only error category eligible for recovery: a context's recovery
// handler is offered ProcessingErrors and nothing else. Any other
// error reaching EventContext.Error is a raw fault and settles the
// response directly.
type ProcessingError struct {
	// Event is the event at the point of failure.
	Event *Event

	// Type classifies the failure for matcher-based routing.
	// May be nil when the failure is unclassified.
	Type *errtype.Type

	// Err is the underlying cause.
	Err error
}

// NewProcessingError creates a processing error for an event.
func NewProcessingError(evt *Event, err error) *ProcessingError {
	return &ProcessingError{Event: evt, Err: err}
}

// WithType returns a copy of the error classified with t.
func (e *ProcessingError) WithType(t *errtype.Type) *ProcessingError {
	clone := *e
	clone.Type = t
	return &clone
}

// Error implements the error interface.
func (e *ProcessingError) Error() string {
	id := "<nil>"
	if e.Event != nil {
		id = e.Event.ID
	}
	if e.Type != nil {
		return fmt.Sprintf("processing event %s failed (%s): %v", id, e.Type, e.Err)
	}
	return fmt.Sprintf("processing event %s failed: %v", id, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// RecoveryError is raised when a recovery handler itself fails.
// It always propagates; recovery is never re-attempted for it.
type RecoveryError struct {
	// Attempted is the failure the handler was trying to recover.
	Attempted *ProcessingError

	// Err is the error the handler returned.
	Err error
}

// Error implements the error interface.
func (e *RecoveryError) Error() string {
	return fmt.Sprintf("recovery failed: %v (while recovering: %v)", e.Err, e.Attempted)
}

// Unwrap returns the handler's error.
func (e *RecoveryError) Unwrap() error {
	return e.Err
}

// AsProcessingError extracts a ProcessingError from err's chain.
// Returns nil, false for raw faults and recovery failures.
func AsProcessingError(err error) (*ProcessingError, bool) {
	var recErr *RecoveryError
	if errors.As(err, &recErr) {
		return nil, false
	}
	var procErr *ProcessingError
	if errors.As(err, &procErr) {
		return procErr, true
	}
	return nil, false
}
