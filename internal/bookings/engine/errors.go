package engine

// Kind identifies why a booking request or cancellation was rejected.
// Every rejection is an expected, recoverable outcome; the engine never
// panics and never returns anything but these kinds.
type Kind string

const (
	KindInvalidInput     Kind = "invalid_input"
	KindInvalidTimeRange Kind = "invalid_time_range"
	KindPastDate         Kind = "past_date"
	KindQuotaExceeded    Kind = "quota_exceeded"
	KindSlotConflict     Kind = "slot_conflict"
	KindForbidden        Kind = "forbidden"
	KindInvalidState     Kind = "invalid_state"
	KindTooLateToCancel  Kind = "too_late_to_cancel"
)

// Error is a typed rejection. The message is safe to show to the
// requesting user.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

func reject(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf extracts the rejection kind from an error, or an empty Kind
// for errors that did not come from the engine.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return ""
}
