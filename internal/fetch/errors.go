package fetch

import "fmt"

// ErrorClass categorises why a roster fetch failed. Each class maps to a
// distinct user-facing message; cancellation is not a class because an
// aborted fetch is swallowed, never surfaced.
type ErrorClass int

const (
	// ClassNetwork indicates the service could not be reached at all.
	ClassNetwork ErrorClass = iota
	// ClassStatus indicates the service answered with a non-success status.
	ClassStatus
	// ClassPayload indicates the response body was not a well-formed roster.
	ClassPayload
)

// String returns the label for an ErrorClass.
func (c ErrorClass) String() string {
	switch c {
	case ClassNetwork:
		return "network"
	case ClassStatus:
		return "status"
	case ClassPayload:
		return "payload"
	default:
		return fmt.Sprintf("unknown(%d)", int(c))
	}
}

// Error is a classified fetch failure.
type Error struct {
	Class  ErrorClass
	Status int // HTTP status code, set for ClassStatus
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("roster fetch failed (%s): %v", e.Class, e.Err)
	}
	return fmt.Sprintf("roster fetch failed (%s)", e.Class)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage returns the human-readable, failure-class-specific message
// shown in the dashboard. Failures are never retried automatically; the
// message tells the user to reload.
func (e *Error) UserMessage() string {
	switch e.Class {
	case ClassNetwork:
		return "Unable to reach the roster service. Check your connection and reload."
	case ClassStatus:
		return fmt.Sprintf("The roster service responded with an error (HTTP %d). Reload to try again.", e.Status)
	case ClassPayload:
		return "The roster service returned data in an unexpected format. Reload to try again."
	default:
		return "Loading the roster failed. Reload to try again."
	}
}
