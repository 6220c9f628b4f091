package eventus

// Status reports the outcome of a bus operation.
//
// Registry lookup misses (an event type nobody subscribed to, an unknown
// subscriber id) are ordinary control flow, so they are reported as
// statuses rather than errors. Callers branch on the returned Status.
type Status int32

const (
	// StatusOK indicates the operation succeeded.
	StatusOK Status = iota

	// StatusEventTypeNotRegistered indicates the registry holds no entry
	// for the event type key.
	StatusEventTypeNotRegistered

	// StatusNoSubscribersForEventType indicates the event type has an entry
	// but the entry holds no subscribers. With garbage collection enabled
	// (the default) this state is transient and rarely observed.
	StatusNoSubscribersForEventType

	// StatusNoSubscriberWithID indicates no subscriber with the given id
	// exists where the call looked for it.
	StatusNoSubscriberWithID
)

// String returns the canonical name of the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusEventTypeNotRegistered:
		return "EVENT_TYPE_NOT_REGISTERED"
	case StatusNoSubscribersForEventType:
		return "NO_SUBSCRIBERS_FOR_EVENT_TYPE"
	case StatusNoSubscriberWithID:
		return "NO_SUBSCRIBER_WITH_ID"
	default:
		return "UNKNOWN"
	}
}
