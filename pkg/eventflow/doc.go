/*
Package eventflow tracks the lifecycle of events flowing through a
processing pipeline, from admission to a single, race-free completion
signal.

# Overview

Each unit of work gets an EventContext. Its response settles exactly
once - empty, with an event, or with an error - and later settlement
attempts are ignored, so competing triggers like a timeout racing a
normal result cannot double-signal. Nested units of work attach as
child contexts; the parent's completion fires only after its own
response, every attached child, and any external completion dependency
have all settled. Processing failures can be routed through a pluggable
recovery handler that turns them back into successful events.

# Basic Usage

Create a context, run the work, settle the response:

	ec := eventflow.NewContext()
	evt := eventflow.NewEvent("payload")

	go func() {
	    result, err := process(ctx, evt)
	    if err != nil {
	        ec.Error(ctx, err)
	        return
	    }
	    ec.SuccessWith(result)
	}()

	<-ec.Completion().Done()

Or let Run do the settling:

	eventflow.Run(ctx, ec, evt, process)

# Child Contexts

A pipeline that spawns nested units of work attaches them as children;
the parent completes only after they do:

	child := ec.NewChild()
	go func() {
	    child.Success()
	}()

Children may be attached at any time before the parent completes; a
child added concurrently with an in-flight completion evaluation is
still awaited.

# Error Recovery

A *ProcessingError offered to a context with a recovery handler can be
rewritten into a success:

	ec := eventflow.NewContext(
	    eventflow.WithRecoveryHandler(func(ctx context.Context, failure *eventflow.ProcessingError) ([]*eventflow.Event, error) {
	        return []*eventflow.Event{eventflow.NewChildEvent(failure.Event, "fallback")}, nil
	    }),
	)

Raw faults (any other error) and recovery failures bypass the handler
and settle the response as errors. The BeforeResponse channel always
carries the raw outcome, before recovery rewrote it.

# Observation

Three single-fire channels expose the lifecycle to any number of
observers: BeforeResponse (raw outcome), Response (final outcome, after
recovery), and Completion (aggregate done). Observers attaching after
settlement see the settled outcome immediately.

# Thread Safety

  - EventContext is safe for concurrent use; Success, SuccessWith,
    Error, and AddChild may race freely.
  - oneshot.Channel settlement is atomic with a single winner.
  - AddChild must not be called after the context completed; this is a
    documented precondition, not a guarded one.

# Subpackages

  - oneshot: single-fire, multi-observer channels
  - errtype: error classification types and matchers
  - tx: transaction resolution around a unit of execution
  - journal: lifecycle journaling (memory, SQLite)
  - observability: logging, metrics, and tracing helpers
  - config: file-loadable settings
*/
package eventflow
