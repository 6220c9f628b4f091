package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records bus dispatch and worker pool metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordPublish records one synchronous dispatch: how many handlers were
	// invoked, how long the handler chain took, and whether subscribers were
	// found at all.
	RecordPublish(ctx context.Context, eventType string, handlers int, duration time.Duration, ok bool)

	// RecordTaskEnqueued records a task entering the worker pool queue.
	RecordTaskEnqueued(ctx context.Context)

	// RecordTaskDequeued records a task leaving the queue for execution.
	RecordTaskDequeued(ctx context.Context)

	// RecordTaskPanic records a panic recovered inside a pool task.
	RecordTaskPanic(ctx context.Context)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	publishes      metric.Int64Counter
	handlerInvokes metric.Int64Counter
	publishLatency metric.Float64Histogram
	queueDepth     metric.Int64UpDownCounter
	taskPanics     metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("eventus")

	publishes, err := meter.Int64Counter("eventus.publishes",
		metric.WithDescription("Number of synchronous publish calls"),
	)
	if err != nil {
		return nil, err
	}

	handlerInvokes, err := meter.Int64Counter("eventus.handler.invocations",
		metric.WithDescription("Number of handler invocations"),
	)
	if err != nil {
		return nil, err
	}

	publishLatency, err := meter.Float64Histogram("eventus.publish.latency_ms",
		metric.WithDescription("Synchronous dispatch latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	queueDepth, err := meter.Int64UpDownCounter("eventus.pool.queue_depth",
		metric.WithDescription("Worker pool queue depth"),
	)
	if err != nil {
		return nil, err
	}

	taskPanics, err := meter.Int64Counter("eventus.pool.task_panics",
		metric.WithDescription("Number of panics recovered in pool tasks"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		publishes:      publishes,
		handlerInvokes: handlerInvokes,
		publishLatency: publishLatency,
		queueDepth:     queueDepth,
		taskPanics:     taskPanics,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordPublish records one synchronous dispatch.
func (m *otelMetrics) RecordPublish(ctx context.Context, eventType string, handlers int, duration time.Duration, ok bool) {
	attrs := []attribute.KeyValue{
		attribute.String("event_type", eventType),
		attribute.Bool("ok", ok),
	}

	m.publishes.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.publishLatency.Record(ctx, float64(duration.Microseconds())/1000.0, metric.WithAttributes(attrs...))

	if handlers > 0 {
		m.handlerInvokes.Add(ctx, int64(handlers), metric.WithAttributes(
			attribute.String("event_type", eventType),
		))
	}
}

// RecordTaskEnqueued records a task entering the queue.
func (m *otelMetrics) RecordTaskEnqueued(ctx context.Context) {
	m.queueDepth.Add(ctx, 1)
}

// RecordTaskDequeued records a task leaving the queue.
func (m *otelMetrics) RecordTaskDequeued(ctx context.Context) {
	m.queueDepth.Add(ctx, -1)
}

// RecordTaskPanic records a recovered task panic.
func (m *otelMetrics) RecordTaskPanic(ctx context.Context) {
	m.taskPanics.Add(ctx, 1)
}
