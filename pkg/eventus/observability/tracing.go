package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the eventus tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("eventus")

// SpanManager handles trace span lifecycle for publish calls.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartPublishSpan starts a span for one synchronous dispatch.
	// Returns the context with span and the span itself.
	StartPublishSpan(ctx context.Context, eventType string) (context.Context, trace.Span)

	// EndSpanWithStatus completes a span, recording the dispatch status.
	// A lookup miss is recorded as a span error with the status name.
	EndSpanWithStatus(span trace.Span, status string, ok bool)
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

// StartPublishSpan starts a span for one synchronous dispatch.
func (m *otelSpanManager) StartPublishSpan(ctx context.Context, eventType string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "eventus.publish",
		trace.WithAttributes(
			attribute.String("event_type", eventType),
		),
	)
}

// EndSpanWithStatus completes a span with the dispatch status.
func (m *otelSpanManager) EndSpanWithStatus(span trace.Span, status string, ok bool) {
	span.SetAttributes(attribute.String("status", status))
	if !ok {
		span.SetStatus(codes.Error, status)
	}
	span.End()
}
