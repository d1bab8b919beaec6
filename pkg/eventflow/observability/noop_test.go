package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestNoopMetrics_DoesNotPanic(t *testing.T) {
	m := NoopMetrics{}

	t.Run("RecordSettlement", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordSettlement(context.Background(), "value")
			m.RecordSettlement(nil, "")
		})
	})

	t.Run("RecordDuplicateSettlement", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordDuplicateSettlement(context.Background())
			m.RecordDuplicateSettlement(nil)
		})
	})

	t.Run("RecordCompletion", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordCompletion(context.Background(), 3, 100*time.Millisecond)
			m.RecordCompletion(nil, -1, 0)
		})
	})

	t.Run("RecordRecovery", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordRecovery(context.Background(), true)
			m.RecordRecovery(nil, false)
		})
	})
}

func TestNoopSpanManager_StartUnitOfWorkSpan(t *testing.T) {
	sm := NoopSpanManager{}

	t.Run("returns same context", func(t *testing.T) {
		ctx := context.Background()
		newCtx, span := sm.StartUnitOfWorkSpan(ctx, "ctx-1", "evt-1")

		assert.Equal(t, ctx, newCtx, "Context should be unchanged")
		assert.NotNil(t, span, "Span should not be nil")
	})

	t.Run("span is valid noop span", func(t *testing.T) {
		_, span := sm.StartUnitOfWorkSpan(context.Background(), "ctx-1", "evt-1")
		assert.False(t, span.IsRecording())
	})

	t.Run("does not panic with empty args", func(t *testing.T) {
		assert.NotPanics(t, func() {
			sm.StartUnitOfWorkSpan(context.Background(), "", "")
		})
	})
}

func TestNoopSpanManager_StartChildSpan(t *testing.T) {
	sm := NoopSpanManager{}

	ctx := context.Background()
	newCtx, span := sm.StartChildSpan(ctx, "child-ctx")

	assert.Equal(t, ctx, newCtx, "Context should be unchanged")
	assert.NotNil(t, span)
	assert.False(t, span.IsRecording())
}

func TestNoopSpanManager_EndSpanWithError(t *testing.T) {
	sm := NoopSpanManager{}

	t.Run("does not panic with nil span", func(t *testing.T) {
		assert.NotPanics(t, func() {
			sm.EndSpanWithError(nil, nil)
		})
	})

	t.Run("does not panic with error", func(t *testing.T) {
		_, span := sm.StartUnitOfWorkSpan(context.Background(), "c", "e")
		assert.NotPanics(t, func() {
			sm.EndSpanWithError(span, errors.New("test error"))
		})
	})
}

func TestNoopSpanManager_AddSpanEvent(t *testing.T) {
	sm := NoopSpanManager{}

	assert.NotPanics(t, func() {
		sm.AddSpanEvent(context.Background(), "test_event", attribute.String("key", "value"))
		sm.AddSpanEvent(context.Background(), "")
		sm.AddSpanEvent(nil, "test_event")
	})
}

func TestNoopImplementations_NoSideEffects(t *testing.T) {
	// Exercise the noop pair the way the context would use them
	// when observability is disabled.
	metrics := NoopMetrics{}
	spans := NoopSpanManager{}

	ctx := context.Background()

	ctx, rootSpan := spans.StartUnitOfWorkSpan(ctx, "ctx-root", "evt-1")

	for i, childID := range []string{"ctx-a", "ctx-b"} {
		childCtx, childSpan := spans.StartChildSpan(ctx, childID)

		var err error
		if i == 1 {
			err = errors.New("simulated failure")
			metrics.RecordRecovery(childCtx, true)
		}

		metrics.RecordSettlement(childCtx, "value")
		metrics.RecordCompletion(childCtx, 0, time.Millisecond)
		spans.EndSpanWithError(childSpan, err)
	}

	metrics.RecordSettlement(ctx, "value")
	metrics.RecordDuplicateSettlement(ctx)
	metrics.RecordCompletion(ctx, 2, 5*time.Millisecond)
	spans.AddSpanEvent(ctx, "completed", attribute.Int("children", 2))
	spans.EndSpanWithError(rootSpan, nil)
}
