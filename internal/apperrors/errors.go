package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error so the boundary can map it to a stable result
// shape without leaking store detail to the caller.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindAuthorization
	KindExpired
	KindTransient
)

// Error is a kinded application error. Msg is safe to show to callers;
// Err carries the wrapped internal cause, if any.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation reports missing or malformed input.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// NotFound reports an absent entity.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// Conflict reports a uniqueness violation.
func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

// Authorization reports a caller lacking the required role or credential.
func Authorization(format string, args ...any) *Error {
	return &Error{Kind: KindAuthorization, Msg: fmt.Sprintf(format, args...)}
}

// Expired reports an entity past its lifetime, distinct from NotFound.
func Expired(format string, args ...any) *Error {
	return &Error{Kind: KindExpired, Msg: fmt.Sprintf(format, args...)}
}

// Transient wraps a store connectivity or timeout failure that is safe to
// retry for reads and for the idempotent scan.
func Transient(msg string, err error) *Error {
	return &Error{Kind: KindTransient, Msg: msg, Err: err}
}

// KindOf returns the kind of err, or KindUnknown for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}
