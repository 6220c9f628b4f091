package eventus

import "reflect"

// Key identifies an event's static type in the registry. Two subscribe or
// publish calls referencing the same Go type always produce the same Key;
// keys are never mutated at runtime.
type Key = reflect.Type

// KeyOf returns the registry key for event type T.
func KeyOf[T any]() Key {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// keyOfValue returns the registry key for a concrete event value.
func keyOfValue(v any) Key {
	return reflect.TypeOf(v)
}

// subscriber is one registered handler plus its metadata. The handler's
// concrete signature is erased behind invoke, which receives a pointer to
// the in-flight event value (always a *T for the key the record is
// registered under). The closure is owned by the Go runtime; removing the
// record from the registry drops the last reference to it.
//
// Records are held by value inside a registry entry and are never shared
// between entries.
type subscriber struct {
	id       int64
	priority int32
	invoke   func(event any) bool
}

// erase wraps a typed handler into the registry's erased form.
func erase[T any](fn func(*T) bool) func(any) bool {
	return func(event any) bool {
		return fn(event.(*T))
	}
}

// pointerTo boxes a dynamic event value into a fresh pointer of its own
// concrete type, so erased invokers can cast it back to *T.
func pointerTo(v any) any {
	p := reflect.New(reflect.TypeOf(v))
	p.Elem().Set(reflect.ValueOf(v))
	return p.Interface()
}
