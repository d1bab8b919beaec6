package eventflow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/eventflow/pkg/eventflow"
	"github.com/randalmurphal/eventflow/pkg/eventflow/config"
	"github.com/randalmurphal/eventflow/pkg/eventflow/oneshot"
)

func TestRun_SuccessfulProcessor(t *testing.T) {
	ec := eventflow.NewContext()
	evt := eventflow.NewEvent("in")

	eventflow.Run(context.Background(), ec, evt, func(_ context.Context, e *eventflow.Event) (*eventflow.Event, error) {
		return eventflow.NewChildEvent(e, "out"), nil
	})

	out, settled := ec.Response().Outcome()
	require.True(t, settled)
	assert.Equal(t, oneshot.Value, out.Kind)
	assert.Equal(t, "out", out.Value.Payload)
	waitDone(t, ec.Completion())
}

func TestRun_NilResultIsEmptySuccess(t *testing.T) {
	ec := eventflow.NewContext()

	eventflow.Run(context.Background(), ec, eventflow.NewEvent("in"), func(context.Context, *eventflow.Event) (*eventflow.Event, error) {
		return nil, nil
	})

	out, settled := ec.Response().Outcome()
	require.True(t, settled)
	assert.Equal(t, oneshot.Empty, out.Kind)
}

func TestRun_ErrorRoutedThroughRecovery(t *testing.T) {
	recovered := eventflow.NewEvent("recovered")
	ec := eventflow.NewContext(
		eventflow.WithRecoveryHandler(func(context.Context, *eventflow.ProcessingError) ([]*eventflow.Event, error) {
			return []*eventflow.Event{recovered}, nil
		}),
	)

	eventflow.Run(context.Background(), ec, eventflow.NewEvent("in"), func(_ context.Context, e *eventflow.Event) (*eventflow.Event, error) {
		return nil, eventflow.NewProcessingError(e, errors.New("step failed"))
	})

	// Run waits for the routing decision, so the response is settled
	// by the time it returns.
	out, settled := ec.Response().Outcome()
	require.True(t, settled)
	assert.Equal(t, recovered, out.Value)
}

func TestRun_RawFaultSettlesError(t *testing.T) {
	ec := eventflow.NewContext()
	cause := errors.New("raw fault")

	eventflow.Run(context.Background(), ec, eventflow.NewEvent("in"), func(context.Context, *eventflow.Event) (*eventflow.Event, error) {
		return nil, cause
	})

	out, settled := ec.Response().Outcome()
	require.True(t, settled)
	assert.Equal(t, oneshot.Error, out.Kind)
	assert.Equal(t, cause, out.Err)
}

func TestRunOptionsFromConfig(t *testing.T) {
	settings := config.Default()
	assert.Empty(t, eventflow.RunOptionsFromConfig(settings))

	settings.Observability.Tracing = true
	opts := eventflow.RunOptionsFromConfig(settings)
	require.Len(t, opts, 1)

	ec := eventflow.NewContext()
	eventflow.Run(context.Background(), ec, eventflow.NewEvent("in"), func(_ context.Context, e *eventflow.Event) (*eventflow.Event, error) {
		return e, nil
	}, opts...)

	out, settled := ec.Response().Outcome()
	require.True(t, settled)
	assert.Equal(t, oneshot.Value, out.Kind)
}

func TestRun_WithTracingDoesNotAlterOutcome(t *testing.T) {
	ec := eventflow.NewContext()

	eventflow.Run(context.Background(), ec, eventflow.NewEvent("in"), func(_ context.Context, e *eventflow.Event) (*eventflow.Event, error) {
		return e, nil
	}, eventflow.WithTracing(true))

	out, settled := ec.Response().Outcome()
	require.True(t, settled)
	assert.Equal(t, oneshot.Value, out.Kind)
}
