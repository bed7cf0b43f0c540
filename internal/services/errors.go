package services

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies a command failure. Kinds are transport-free; the HTTP layer
// maps them to status codes.
type Kind int

const (
	KindInternal     Kind = iota // unexpected store failure, not retried
	KindValidation               // malformed or missing input
	KindUnauthorized             // credentials missing or wrong
	KindNotFound                 // target absent, or hidden from this tenant
	KindForbidden                // target visible, actor lacks the right
	KindConflict                 // would violate a relational invariant
	KindTimeout                  // command budget expired, safe to retry
	KindUnavailable              // transient store failure, safe to retry
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindTimeout:
		return "timeout"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Error is a typed command failure. Exactly one is surfaced per command,
// reflecting the first rule that failed.
type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, if any
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is a service error of the given kind.
func IsKind(err error, kind Kind) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == kind
}

func ErrValidation(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func ErrUnauthorized(format string, args ...interface{}) error {
	return &Error{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

func ErrNotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func ErrForbidden(format string, args ...interface{}) error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func ErrConflict(format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// wrapStoreErr converts a store-level failure into a typed error. Context
// deadline and cancellation become the retryable timeout kind; anything else
// is internal. Typed errors pass through unchanged so the first failed rule
// wins.
func wrapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Error{Kind: KindTimeout, Message: "command timed out", Err: err}
	}
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}
