package httpfetch

import "errors"

// Error is the closed set of failures a fetch can end in. There are exactly two values,
// ErrTimeout and ErrInvalidResponse, and callers are expected to handle both.
type Error uint8

const (
	// ErrTimeout is returned when the request did not complete: connection failure,
	// DNS failure or client-side timeout.
	ErrTimeout Error = iota + 1
	// ErrInvalidResponse is returned for everything else: an unreadable body, a non-success
	// status, a body that does not decode into the expected schema, or an input that was
	// rejected before any request was made.
	ErrInvalidResponse
)

func (e Error) Error() string {
	switch e {
	case ErrTimeout:
		return "timeout"
	case ErrInvalidResponse:
		return "invalid response"
	}
	return "unknown fetch error"
}

// KindOf returns the Error found in err's chain, or 0 if err is not a fetch error.
func KindOf(err error) Error {
	var kind Error
	if errors.As(err, &kind) {
		return kind
	}
	return 0
}
