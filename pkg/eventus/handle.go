package eventus

// ID identifies one subscription: the event-type key it was issued
// against plus the process-unique subscriber id. It stays usable after the
// underlying subscription is removed; operations on it then report a
// lookup status instead of faulting.
//
// The zero value is invalid and fails every operation.
type ID struct {
	bus *Bus
	key Key
	id  int64
}

// Valid reports whether the identifier was issued by a bus. It does not
// check that the underlying subscription still exists.
func (s ID) Valid() bool {
	return s.bus != nil && s.id > 0
}

// Value returns the numeric subscriber id.
func (s ID) Value() int64 {
	return s.id
}

// Key returns the event-type key the identifier was issued against.
func (s ID) Key() Key {
	return s.key
}

// Unsubscribe removes the subscription this identifier targets.
func (s ID) Unsubscribe() Status {
	if !s.Valid() {
		return StatusNoSubscriberWithID
	}
	return s.bus.Unsubscribe(s.key, s.id)
}

// Scoped converts the identifier into an owned handle whose Close
// unsubscribes it, tying the subscription's lifetime to a scope:
//
//	owned := eventus.Subscribe(b, handler, 0).Scoped()
//	defer owned.Close()
func (s ID) Scoped() *OwnedID {
	return &OwnedID{id: s, armed: s.Valid()}
}

// OwnedID binds a subscription identifier to a scope. While armed, Close
// unsubscribes the identifier; Release disarms and hands the plain
// identifier back. At most one armed OwnedID should exist per identifier —
// a usage contract, not one enforced by sharing (a double unsubscribe is a
// reported status, not a crash).
type OwnedID struct {
	id    ID
	armed bool
}

// Valid reports whether automatic cleanup is still armed.
func (o *OwnedID) Valid() bool {
	return o != nil && o.armed
}

// Release disarms automatic cleanup and returns the plain identifier. The
// caller owns manual cleanup from then on.
func (o *OwnedID) Release() ID {
	id := o.id
	o.armed = false
	o.id = ID{}
	return id
}

// Close unsubscribes the identifier if still armed. A subscription that is
// already gone (for example removed by SubscribeOnce) is absorbed; Close
// never fails. Close is idempotent.
func (o *OwnedID) Close() error {
	if !o.Valid() {
		return nil
	}
	// StatusNoSubscriberWithID is expected when the subscription already
	// went away on its own.
	o.id.Unsubscribe()
	o.armed = false
	o.id = ID{}
	return nil
}
