package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the eventflow tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("eventflow")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartUnitOfWorkSpan starts a span covering one unit of work from
	// admission to response settlement.
	StartUnitOfWorkSpan(ctx context.Context, contextID, eventID string) (context.Context, trace.Span)

	// StartChildSpan starts a span for a nested unit of work.
	// The child span should be a child of the unit-of-work span.
	StartChildSpan(ctx context.Context, childContextID string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the
// provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartUnitOfWorkSpan starts a span for one unit of work.
func (m *otelSpanManager) StartUnitOfWorkSpan(ctx context.Context, contextID, eventID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "eventflow.unit_of_work",
		trace.WithAttributes(
			attribute.String("context.id", contextID),
			attribute.String("event.id", eventID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartChildSpan starts a span for a nested unit of work.
func (m *otelSpanManager) StartChildSpan(ctx context.Context, childContextID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "eventflow.child",
		trace.WithAttributes(
			attribute.String("context.id", childContextID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
