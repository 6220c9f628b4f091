// Package observability provides structured logging, metrics, and tracing
// for the eventus bus.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in. A nil logger and the Noop implementations are
// safe to use and never change dispatch behavior.
package observability

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// LevelFatal marks records whose default sink policy is to terminate the
// process. The bus core never emits records at this level; it exists for
// application sinks built on top of the bus logger.
const LevelFatal = slog.Level(12)

// EnrichLogger returns a logger carrying the bus instance id.
// All bus log points go through the enriched logger, so every record can be
// attributed to one bus in processes running several.
func EnrichLogger(logger *slog.Logger, busID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("bus_id", busID))
}

// Fatal logs at LevelFatal and terminates the process.
// Termination is sink policy, not a bus-engine requirement; callers wanting
// different behavior log at LevelFatal through their own sink instead.
func Fatal(logger *slog.Logger, msg string, attrs ...slog.Attr) {
	if logger != nil {
		logger.LogAttrs(context.Background(), LevelFatal, msg, attrs...)
	}
	os.Exit(1)
}

// LogSubscribe logs a successful subscription.
func LogSubscribe(logger *slog.Logger, eventType string, id int64, priority int32) {
	if logger == nil {
		return
	}
	logger.Debug("subscriber registered",
		slog.String("event_type", eventType),
		slog.Int64("subscriber_id", id),
		slog.Int("priority", int(priority)),
	)
}

// LogUnsubscribe logs the outcome of an unsubscribe call.
func LogUnsubscribe(logger *slog.Logger, eventType string, id int64, status string, ok bool) {
	if logger == nil {
		return
	}
	if ok {
		logger.Debug("subscriber removed",
			slog.String("event_type", eventType),
			slog.Int64("subscriber_id", id),
		)
		return
	}
	logger.Warn("unsubscribe failed",
		slog.String("event_type", eventType),
		slog.Int64("subscriber_id", id),
		slog.String("status", status),
	)
}

// LogUnsubscribeEvent logs removal of an entire event-type entry.
func LogUnsubscribeEvent(logger *slog.Logger, eventType string, removed int) {
	if logger == nil {
		return
	}
	logger.Debug("event type unsubscribed",
		slog.String("event_type", eventType),
		slog.Int("subscribers_removed", removed),
	)
}

// LogPublish logs the outcome of a synchronous publish.
func LogPublish(logger *slog.Logger, eventType string, handlers int, status string, ok bool, durationMs float64) {
	if logger == nil {
		return
	}
	if ok {
		logger.Debug("event published",
			slog.String("event_type", eventType),
			slog.Int("handlers_invoked", handlers),
			slog.Float64("duration_ms", durationMs),
		)
		return
	}
	logger.Warn("publish found no subscribers",
		slog.String("event_type", eventType),
		slog.String("status", status),
	)
}

// LogGC logs removal of an empty registry entry.
func LogGC(logger *slog.Logger, eventType string) {
	if logger == nil {
		return
	}
	logger.Debug("empty event entry collected",
		slog.String("event_type", eventType),
	)
}

// LogTaskPanic logs a recovered panic inside a worker pool task.
func LogTaskPanic(logger *slog.Logger, recovered any) {
	if logger == nil {
		return
	}
	logger.Error("task panicked",
		slog.Any("panic", recovered),
	)
}

// LogTaskDropped logs a task rejected because the pool has begun stopping.
func LogTaskDropped(logger *slog.Logger, eventType string) {
	if logger == nil {
		return
	}
	logger.Warn("task dropped, worker pool stopped",
		slog.String("event_type", eventType),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000.0
	}
}
