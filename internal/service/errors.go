package service

import "fmt"

// Kind classifies a business error independently of the transport.
type Kind int

const (
	// KindInvalidInput covers malformed or missing fields and unknown status values.
	KindInvalidInput Kind = iota + 1
	// KindPolicyViolation covers well-formed requests that break a business rule.
	KindPolicyViolation
	// KindNotFound is returned when a referenced reservation or table does not exist.
	KindNotFound
	// KindConflict is returned when a reservation in a protected status is mutated.
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindPolicyViolation:
		return "policy_violation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Error is the error type returned by every service operation that fails
// for a business reason.  Message is meant to be shown to the caller as is.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is reports whether target is the sentinel for e's kind, so callers can
// write errors.Is(err, service.ErrConflict).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

// Sentinels used with errors.Is.
var (
	ErrInvalidInput    = &Error{Kind: KindInvalidInput}
	ErrPolicyViolation = &Error{Kind: KindPolicyViolation}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrConflict        = &Error{Kind: KindConflict}
)

func invalidf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func violation(msg string) *Error {
	return &Error{Kind: KindPolicyViolation, Message: msg}
}

func notFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func conflictf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}
