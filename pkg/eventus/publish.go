package eventus

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/randalmurphal/eventus/pkg/eventus/observability"
)

// Publish dispatches value to every subscriber of T, in priority order, on
// the calling goroutine. Each handler receives a pointer to the same event
// instance and may mutate it; lower-priority handlers in the same dispatch
// observe the mutation. A handler returning false stops propagation to the
// remaining handlers.
//
// Publish returns StatusOK whether or not a handler stopped propagation
// early; the two outcomes are deliberately not distinguished.
func Publish[T any](b *Bus, value T) Status {
	return b.publish(KeyOf[T](), &value)
}

// PublishThreaded enqueues one task that performs the full synchronous
// publish algorithm for value on a single pool worker: all matching
// handlers run on that worker, in priority order, with the usual
// short-circuit rule. Returns StatusOK immediately; the dispatch outcome
// is not observable by the caller.
//
// On a bus with async disabled, dispatch happens synchronously on the
// calling goroutine instead.
func PublishThreaded[T any](b *Bus, value T) Status {
	return b.publishThreaded(KeyOf[T](), &value)
}

// PublishAsync fans each matching handler for value out to its own pool
// task. Handlers run concurrently with each other, not in priority order,
// and the short-circuit rule does not apply. With a single matching
// handler the event moves into its task exclusively; with more, all tasks
// share the same allocation and handlers must treat the payload as
// read-only.
//
// On a bus with async disabled, dispatch happens synchronously on the
// calling goroutine instead.
func PublishAsync[T any](b *Bus, value T) Status {
	return b.publishAsync(KeyOf[T](), &value)
}

// PublishValue dispatches a dynamically typed event value, deriving the
// registry key from the value's concrete type. Typed code should prefer
// the generic Publish function.
func (b *Bus) PublishValue(value any) Status {
	if value == nil {
		return StatusEventTypeNotRegistered
	}
	return b.publish(keyOfValue(value), pointerTo(value))
}

// PublishAll publishes each value independently via the synchronous
// algorithm and returns the status of the last publish performed. Earlier
// failures are not surfaced; a caller needing per-event status publishes
// individually.
func (b *Bus) PublishAll(values ...any) Status {
	status := StatusOK
	for _, v := range values {
		status = b.PublishValue(v)
	}
	return status
}

// PublishThreadedAll applies the threaded publish mode independently to
// each value; every event gets its own enqueued task.
func (b *Bus) PublishThreadedAll(values ...any) Status {
	for _, v := range values {
		if v == nil {
			continue
		}
		b.publishThreaded(keyOfValue(v), pointerTo(v))
	}
	return StatusOK
}

// PublishAsyncAll applies the async publish mode independently to each
// value and returns the status of the last one.
func (b *Bus) PublishAsyncAll(values ...any) Status {
	status := StatusOK
	for _, v := range values {
		if v == nil {
			status = StatusEventTypeNotRegistered
			continue
		}
		status = b.publishAsync(keyOfValue(v), pointerTo(v))
	}
	return status
}

// publish runs the synchronous dispatch algorithm. event is a pointer to
// the in-flight value, shared by reference across the ordered handler
// chain.
//
// The handler loop runs outside the registry lock against a snapshot of
// the entry, with a per-record liveness check immediately before each
// invocation. Handlers may therefore call subscribe, unsubscribe, or
// publish on the same bus without deadlocking, and a handler removed
// mid-dispatch does not run. A panic raised inside a handler propagates to
// the publisher's call site, leaving later handlers un-invoked.
func (b *Bus) publish(key Key, event any) Status {
	done := observability.TimedOperation()
	ctx, span := b.spans.StartPublishSpan(context.Background(), key.String())

	snapshot, status := b.snapshot(key)
	if status != StatusOK {
		b.finishPublish(ctx, span, key, 0, status, done())
		return status
	}

	invoked := 0
	for _, sub := range snapshot {
		if !b.alive(key, sub.id) {
			continue
		}
		invoked++
		if !sub.invoke(event) {
			break
		}
	}

	b.finishPublish(ctx, span, key, invoked, StatusOK, done())
	return StatusOK
}

// finishPublish emits the log record, metrics, and span for one dispatch.
func (b *Bus) finishPublish(ctx context.Context, span trace.Span, key Key, invoked int, status Status, durationMs float64) {
	ok := status == StatusOK
	observability.LogPublish(b.log(), key.String(), invoked, status.String(), ok, durationMs)
	b.metrics.RecordPublish(ctx, key.String(), invoked, time.Duration(durationMs*float64(time.Millisecond)), ok)
	b.spans.EndSpanWithStatus(span, status.String(), ok)
}

// publishThreaded enqueues the whole synchronous dispatch as one task.
func (b *Bus) publishThreaded(key Key, event any) Status {
	if b.pool == nil {
		return b.publish(key, event)
	}
	if !b.pool.enqueue(func() { b.publish(key, event) }) {
		observability.LogTaskDropped(b.log(), key.String())
	}
	return StatusOK
}

// publishAsync fans each matching handler out to its own task. The lookup
// statuses mirror the synchronous algorithm; enqueued handlers run with no
// ordering or short-circuiting between them.
func (b *Bus) publishAsync(key Key, event any) Status {
	if b.pool == nil {
		return b.publish(key, event)
	}

	snapshot, status := b.snapshot(key)
	if status != StatusOK {
		return status
	}

	// With one subscriber the event pointer moves into that task
	// exclusively; with more, every task captures the same allocation and
	// the payload must be treated as read-only by the handlers.
	for _, sub := range snapshot {
		task := func() {
			if b.alive(key, sub.id) {
				sub.invoke(event)
			}
		}
		if !b.pool.enqueue(task) {
			observability.LogTaskDropped(b.log(), key.String())
			break
		}
	}
	return StatusOK
}
