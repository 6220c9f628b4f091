package eventus

import (
	"cmp"
	"slices"
	"sync/atomic"

	"github.com/randalmurphal/eventus/pkg/eventus/observability"
)

// Subscribe registers handler for events of type T and returns its
// subscription identifier. Higher priority runs first on publish; equal
// priorities run in registration order. The handler receives a pointer to
// the in-flight event and returns true to continue propagation to
// lower-priority handlers, false to stop it.
func Subscribe[T any](b *Bus, handler func(*T) bool, priority int32) ID {
	return b.subscribe(KeyOf[T](), erase(handler), priority, false)
}

// SubscribeOnce registers handler for a single invocation. After the first
// time it runs — regardless of its continue/stop signal — the subscription
// removes itself, so no later publish sees it again. Removal is safe even
// when it happens inside an in-progress dispatch over the same entry.
func SubscribeOnce[T any](b *Bus, handler func(*T) bool, priority int32) ID {
	return b.subscribe(KeyOf[T](), erase(handler), priority, true)
}

// SubscribeMulti registers the same erased handler independently against
// each key, returning one identifier per key in the order the keys were
// given. The handler receives a pointer to the event value of whichever
// type was published.
func SubscribeMulti(b *Bus, handler func(any) bool, priority int32, keys ...Key) []ID {
	ids := make([]ID, 0, len(keys))
	for _, key := range keys {
		ids = append(ids, b.subscribe(key, handler, priority, false))
	}
	return ids
}

// Unsubscribe removes the subscriber with the given id from event type T.
func Unsubscribe[T any](b *Bus, id int64) Status {
	return b.Unsubscribe(KeyOf[T](), id)
}

// UnsubscribeEvent removes every subscriber registered for event type T in
// one step.
func UnsubscribeEvent[T any](b *Bus) Status {
	return b.UnsubscribeEvent(KeyOf[T]())
}

// Subscribe registers an erased handler under an explicit key. It backs
// callers that lost static type context; typed code should prefer the
// generic Subscribe function.
func (b *Bus) Subscribe(key Key, handler func(any) bool, priority int32) ID {
	return b.subscribe(key, handler, priority, false)
}

// SubscribeOnce registers an erased single-invocation handler under an
// explicit key.
func (b *Bus) SubscribeOnce(key Key, handler func(any) bool, priority int32) ID {
	return b.subscribe(key, handler, priority, true)
}

// subscribe appends a new record to the key's entry, re-sorts the entry,
// runs GC, and returns the issued identifier.
func (b *Bus) subscribe(key Key, invoke func(any) bool, priority int32, once bool) ID {
	id := b.nextID()
	if once {
		invoke = b.onceInvoker(key, id, invoke)
	}

	b.mu.Lock()
	entry := append(b.subs[key], subscriber{id: id, priority: priority, invoke: invoke})
	// Stable sort: equal priorities keep registration order.
	slices.SortStableFunc(entry, func(a, c subscriber) int {
		return cmp.Compare(c.priority, a.priority)
	})
	b.subs[key] = entry
	b.gcLocked()
	b.mu.Unlock()

	observability.LogSubscribe(b.log(), key.String(), id, priority)
	return ID{bus: b, key: key, id: id}
}

// onceInvoker wraps an erased handler so that the subscription removes
// itself after its first invocation, regardless of the handler's
// continue/stop signal. The fired flag guards against a second dispatch
// racing in from another goroutine before the removal lands; a losing
// racer continues propagation without running the handler.
func (b *Bus) onceInvoker(key Key, id int64, invoke func(any) bool) func(any) bool {
	var fired atomic.Bool
	return func(event any) bool {
		if !fired.CompareAndSwap(false, true) {
			return true
		}
		// Handlers run outside the registry lock, so unsubscribing from
		// inside the invocation cannot deadlock.
		defer b.Unsubscribe(key, id)
		return invoke(event)
	}
}

// Unsubscribe removes the subscriber with matching id from the key's
// entry. Returns StatusEventTypeNotRegistered if the key has no entry,
// StatusNoSubscriberWithID if no record with that id exists in it.
func (b *Bus) Unsubscribe(key Key, id int64) Status {
	b.mu.Lock()
	entry, ok := b.subs[key]
	if !ok {
		b.mu.Unlock()
		observability.LogUnsubscribe(b.log(), key.String(), id, StatusEventTypeNotRegistered.String(), false)
		return StatusEventTypeNotRegistered
	}
	idx := slices.IndexFunc(entry, func(s subscriber) bool { return s.id == id })
	if idx < 0 {
		b.mu.Unlock()
		observability.LogUnsubscribe(b.log(), key.String(), id, StatusNoSubscriberWithID.String(), false)
		return StatusNoSubscriberWithID
	}
	b.subs[key] = slices.Delete(entry, idx, idx+1)
	b.gcLocked()
	b.mu.Unlock()

	observability.LogUnsubscribe(b.log(), key.String(), id, StatusOK.String(), true)
	return StatusOK
}

// UnsubscribeID removes the subscriber with the given id wherever it
// lives. Intended for callers that lost the event-type context; linear in
// the total subscriber count across all types, so keep it off hot paths.
func (b *Bus) UnsubscribeID(id int64) Status {
	b.mu.Lock()
	for key, entry := range b.subs {
		idx := slices.IndexFunc(entry, func(s subscriber) bool { return s.id == id })
		if idx < 0 {
			continue
		}
		b.subs[key] = slices.Delete(entry, idx, idx+1)
		b.gcLocked()
		b.mu.Unlock()

		observability.LogUnsubscribe(b.log(), key.String(), id, StatusOK.String(), true)
		return StatusOK
	}
	b.mu.Unlock()

	observability.LogUnsubscribe(b.log(), "", id, StatusNoSubscriberWithID.String(), false)
	return StatusNoSubscriberWithID
}

// UnsubscribeEvent removes the entire entry for a key, dropping all of its
// subscribers in one step.
func (b *Bus) UnsubscribeEvent(key Key) Status {
	b.mu.Lock()
	entry, ok := b.subs[key]
	if !ok {
		b.mu.Unlock()
		return StatusEventTypeNotRegistered
	}
	delete(b.subs, key)
	b.mu.Unlock()

	observability.LogUnsubscribeEvent(b.log(), key.String(), len(entry))
	return StatusOK
}

// UnsubscribeAll clears the whole registry. Always succeeds.
func (b *Bus) UnsubscribeAll() Status {
	b.mu.Lock()
	b.subs = make(map[Key][]subscriber)
	b.mu.Unlock()
	return StatusOK
}

// gcLocked drops entries left with zero subscribers so the registry's key
// set reflects only types with at least one live subscriber. Skipped when
// DisableGC is set. Caller holds b.mu.
func (b *Bus) gcLocked() {
	if b.config.DisableGC {
		return
	}
	for key, entry := range b.subs {
		if len(entry) == 0 {
			delete(b.subs, key)
			observability.LogGC(b.log(), key.String())
		}
	}
}

// alive reports whether the subscriber still exists in the registry.
// Dispatch runs from a snapshot taken before handlers execute; re-checking
// here makes removals performed mid-dispatch (including SubscribeOnce's
// self-removal) take effect within the same dispatch.
func (b *Bus) alive(key Key, id int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.ContainsFunc(b.subs[key], func(s subscriber) bool { return s.id == id })
}

// snapshot returns a copy of the key's entry for dispatch, along with a
// lookup status. The copy preserves priority order.
func (b *Bus) snapshot(key Key) ([]subscriber, Status) {
	b.mu.Lock()
	defer b.mu.Unlock()
	entry, ok := b.subs[key]
	if !ok {
		return nil, StatusEventTypeNotRegistered
	}
	if len(entry) == 0 {
		return nil, StatusNoSubscribersForEventType
	}
	return slices.Clone(entry), StatusOK
}
