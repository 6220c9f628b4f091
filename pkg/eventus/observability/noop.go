package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics is a MetricsRecorder that does nothing.
// Use when metrics are disabled to avoid overhead.
type NoopMetrics struct{}

// Compile-time interface check.
var _ MetricsRecorder = NoopMetrics{}

// RecordPublish does nothing.
func (NoopMetrics) RecordPublish(_ context.Context, _ string, _ int, _ time.Duration, _ bool) {}

// RecordTaskEnqueued does nothing.
func (NoopMetrics) RecordTaskEnqueued(_ context.Context) {}

// RecordTaskDequeued does nothing.
func (NoopMetrics) RecordTaskDequeued(_ context.Context) {}

// RecordTaskPanic does nothing.
func (NoopMetrics) RecordTaskPanic(_ context.Context) {}

// NoopSpanManager is a SpanManager that does nothing.
// Use when tracing is disabled to avoid overhead.
type NoopSpanManager struct{}

// Compile-time interface check.
var _ SpanManager = NoopSpanManager{}

// noopSpan is a span that does nothing.
// We use the OTel noop package for a proper no-op span implementation.
var noopSpan = noop.Span{}

// StartPublishSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartPublishSpan(ctx context.Context, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// EndSpanWithStatus does nothing.
func (NoopSpanManager) EndSpanWithStatus(_ trace.Span, _ string, _ bool) {}
