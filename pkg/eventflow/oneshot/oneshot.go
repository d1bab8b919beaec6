// Package oneshot provides single-fire, multi-observer channels.
//
// A Channel is settled at most once with one of three terminal outcomes:
// empty (done with no value), a value, or an error. Settlement attempts
// after the first are no-ops. Any number of observers may attach before
// or after settlement; observers attaching after settlement see the
// already-settled outcome immediately.
//
// The await primitive is a closed channel, as in context.Context.Done(),
// so settlements compose with select.
package oneshot

import "sync"

// Kind identifies the terminal outcome of a settled channel.
type Kind int

// Terminal outcome kinds.
const (
	// Empty means the channel settled successfully with no value.
	Empty Kind = iota

	// Value means the channel settled successfully with a value.
	Value

	// Error means the channel settled with an error.
	Error
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Value:
		return "value"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Outcome is the terminal result of a settled channel.
// Value is the zero value unless Kind == Value; Err is nil unless
// Kind == Error.
type Outcome[T any] struct {
	Kind  Kind
	Value T
	Err   error
}

// Observable is the read-only face of a Channel, handed to consumers
// that observe but must not settle.
type Observable[T any] interface {
	// Done returns a channel closed at settlement.
	Done() <-chan struct{}

	// Outcome returns the terminal outcome and true once settled.
	Outcome() (Outcome[T], bool)

	// Subscribe registers an observer for the terminal outcome.
	// If the channel is already settled, fn runs immediately in the
	// calling goroutine; otherwise it runs in the settling goroutine.
	Subscribe(fn func(Outcome[T]))
}

// Channel is a write-once, read-many asynchronous value holder.
// The zero value is not usable; create channels with New or the
// pre-settled constructors.
//
// Exactly one settlement attempt wins. Complete, Resolve, and Fail
// report whether the caller's attempt was the winner. Once settled the
// outcome never changes.
type Channel[T any] struct {
	mu        sync.Mutex
	settled   bool
	outcome   Outcome[T]
	done      chan struct{}
	observers []func(Outcome[T])
}

// Compile-time interface check.
var _ Observable[int] = (*Channel[int])(nil)

// New creates an unsettled channel.
func New[T any]() *Channel[T] {
	return &Channel[T]{done: make(chan struct{})}
}

// Completed creates a channel already settled empty.
func Completed[T any]() *Channel[T] {
	ch := New[T]()
	ch.Complete()
	return ch
}

// Of creates a channel already settled with v.
func Of[T any](v T) *Channel[T] {
	ch := New[T]()
	ch.Resolve(v)
	return ch
}

// Failed creates a channel already settled with err.
func Failed[T any](err error) *Channel[T] {
	ch := New[T]()
	ch.Fail(err)
	return ch
}

// Complete settles the channel empty.
// Returns false if the channel was already settled.
func (c *Channel[T]) Complete() bool {
	return c.settle(Outcome[T]{Kind: Empty})
}

// Resolve settles the channel with a value.
// Returns false if the channel was already settled.
func (c *Channel[T]) Resolve(v T) bool {
	return c.settle(Outcome[T]{Kind: Value, Value: v})
}

// Fail settles the channel with an error.
// Returns false if the channel was already settled.
func (c *Channel[T]) Fail(err error) bool {
	return c.settle(Outcome[T]{Kind: Error, Err: err})
}

// settle installs the outcome, closes done, and drains observers.
// The observer list is captured under the lock and invoked outside it
// so callbacks may touch the channel without deadlocking.
func (c *Channel[T]) settle(out Outcome[T]) bool {
	c.mu.Lock()
	if c.settled {
		c.mu.Unlock()
		return false
	}
	c.settled = true
	c.outcome = out
	observers := c.observers
	c.observers = nil
	close(c.done)
	c.mu.Unlock()

	for _, fn := range observers {
		fn(out)
	}
	return true
}

// Done returns a channel closed at settlement.
func (c *Channel[T]) Done() <-chan struct{} {
	return c.done
}

// IsSettled reports whether the channel has settled.
func (c *Channel[T]) IsSettled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settled
}

// Outcome returns the terminal outcome and true once settled.
// Before settlement it returns the zero Outcome and false.
func (c *Channel[T]) Outcome() (Outcome[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome, c.settled
}

// Subscribe registers an observer for the terminal outcome.
// An observer registered after settlement runs immediately in the
// calling goroutine with the settled outcome.
func (c *Channel[T]) Subscribe(fn func(Outcome[T])) {
	c.mu.Lock()
	if c.settled {
		out := c.outcome
		c.mu.Unlock()
		fn(out)
		return
	}
	c.observers = append(c.observers, fn)
	c.mu.Unlock()
}

// Forward settles dst with this channel's terminal outcome. It is the
// building block for derived channels: a consumer can mirror a
// settlement it observes into a channel it owns, composing views over
// outcomes settled elsewhere. The destination settles independently,
// so later writes to dst (or to the source) do not affect the other; a
// destination that was already settled keeps its original outcome.
func (c *Channel[T]) Forward(dst *Channel[T]) {
	c.Subscribe(func(out Outcome[T]) {
		dst.settle(out)
	})
}
