/*
Package eventus provides an in-process, typed publish/subscribe event bus.

# Overview

Handlers register against an event's static type and publishers hand the
bus plain values; the bus dispatches each value to the matching handlers
in a deterministic, priority-ordered sequence, optionally on a background
worker pool. All subscription bookkeeping (sorting, garbage collection)
happens on the subscribe path so publishing stays as cheap as possible.

The bus offers:
  - Type-safe generic subscribe/publish built on per-type registry keys
  - Priority-ordered synchronous dispatch with early termination
  - Threaded and fan-out asynchronous publish modes on a worker pool
  - Scope-bound subscription handles (unsubscribe on Close)
  - Optional structured logging via slog and OpenTelemetry metrics/tracing

# Basic Usage

	type UserAction struct {
	    Action string
	}

	bus := eventus.NewBus(eventus.DefaultConfig)
	defer bus.Close()

	id := eventus.Subscribe(bus, func(e *UserAction) bool {
	    fmt.Println("received:", e.Action)
	    return true // continue propagation
	}, 0)
	defer id.Unsubscribe()

	eventus.Publish(bus, UserAction{Action: "clicked"})

# Priorities and Propagation

Higher priorities run first; equal priorities run in registration order.
Handlers receive a pointer to the in-flight event and may mutate it —
lower-priority handlers observe the mutation, enabling pipeline-style
transformation. A handler returning false stops propagation to the
remaining handlers of that dispatch.

# Publish Modes

Publish runs the whole handler chain on the calling goroutine.
PublishThreaded moves that same ordered chain onto one pool worker and
returns immediately. PublishAsync gives each handler its own pool task:
no ordering, no short-circuiting, and a payload that is shared read-only
once more than one handler matches.

# Subscription Lifetime

Subscribe returns an ID that targets the subscription for removal.
ID.Scoped converts it into an OwnedID that unsubscribes on Close, which
pairs naturally with defer; Release disarms the handle and hands the plain
ID back for manual management.
*/
package eventus
