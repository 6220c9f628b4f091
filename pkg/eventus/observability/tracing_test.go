package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// setupTracingTest creates a test tracer provider with an in-memory span recorder.
func setupTracingTest(t *testing.T) (*tracetest.InMemoryExporter, func()) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)

	originalProvider := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)

	// Update the package-level tracer
	tracer = otel.Tracer("eventus")

	cleanup := func() {
		otel.SetTracerProvider(originalProvider)
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down tracer provider: %v", err)
		}
	}
	return exporter, cleanup
}

func TestStartPublishSpan(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	m := NewSpanManager()

	t.Run("creates span with correct name and attributes", func(t *testing.T) {
		ctx := context.Background()
		_, span := m.StartPublishSpan(ctx, "clickEvent")
		require.NotNil(t, span)

		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)

		s := spans[0]
		assert.Equal(t, "eventus.publish", s.Name)

		var eventType string
		for _, attr := range s.Attributes {
			if attr.Key == "event_type" {
				eventType = attr.Value.AsString()
			}
		}
		assert.Equal(t, "clickEvent", eventType)
	})

	t.Run("returns context with span", func(t *testing.T) {
		exporter.Reset()

		ctx := context.Background()
		newCtx, span := m.StartPublishSpan(ctx, "tickEvent")
		require.NotNil(t, span)
		assert.Equal(t, span, trace.SpanFromContext(newCtx))
		span.End()
	})
}

func TestEndSpanWithStatus(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	m := NewSpanManager()

	t.Run("success leaves span unset", func(t *testing.T) {
		exporter.Reset()

		_, span := m.StartPublishSpan(context.Background(), "clickEvent")
		m.EndSpanWithStatus(span, "OK", true)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Unset, spans[0].Status.Code)

		var status string
		for _, attr := range spans[0].Attributes {
			if attr.Key == "status" {
				status = attr.Value.AsString()
			}
		}
		assert.Equal(t, "OK", status)
	})

	t.Run("lookup miss marks span as error", func(t *testing.T) {
		exporter.Reset()

		_, span := m.StartPublishSpan(context.Background(), "clickEvent")
		m.EndSpanWithStatus(span, "EVENT_TYPE_NOT_REGISTERED", false)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status.Code)
		assert.Equal(t, "EVENT_TYPE_NOT_REGISTERED", spans[0].Status.Description)
	})
}
