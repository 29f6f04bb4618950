package plcclient

import "errors"

// ErrorKind classifies the reasons a register read or write can fail, per
// the taxonomy in the device protocol contract. Callers should extract it
// with KindOf (errors.As on *Error) rather than string-matching.
type ErrorKind int

const (
	// KindUnreachable means the TCP connection itself could not be
	// established.
	KindUnreachable ErrorKind = iota
	// KindTimeout means a deadline elapsed waiting on the connection or
	// a response.
	KindTimeout
	// KindProtocolError means the device replied with a malformed frame
	// or an exception response.
	KindProtocolError
	// KindEmptyResponse means the device closed the connection without
	// returning any register data.
	KindEmptyResponse
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnreachable:
		return "unreachable"
	case KindTimeout:
		return "timeout"
	case KindProtocolError:
		return "protocol_error"
	case KindEmptyResponse:
		return "empty_response"
	default:
		return "unknown"
	}
}

// Error wraps a transport or protocol failure with its ErrorKind so callers
// can branch on cause without parsing strings.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Op + ": " + e.Kind.String() + ": " + e.Err.Error()
	}
	return e.Op + ": " + e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

func newError(op string, kind ErrorKind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// KindOf extracts the ErrorKind carried by err, if any.
func KindOf(err error) (ErrorKind, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return 0, false
}
