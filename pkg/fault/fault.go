// Package fault defines the error vocabulary shared by all entity services.
// Every business failure carries an explicit kind so the HTTP boundary can
// map it to a status code without inspecting error types.
package fault

import (
	"errors"
	"fmt"
)

// Kind enumerates the failure categories that cross the service boundary.
type Kind int

const (
	// KindInvariant marks payload or business-rule violations: a duplicate
	// like, a missing referenced song, a creation the store rejected.
	KindInvariant Kind = iota + 1

	// KindNotFound marks lookups whose target id does not resolve.
	KindNotFound

	// KindForbidden marks failed ownership or collaboration checks.
	KindForbidden
)

// String returns the kind's canonical name.
func (k Kind) String() string {
	switch k {
	case KindInvariant:
		return "invariant_violation"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Error is a tagged service error. It is matched by kind, not by type
// hierarchy.
type Error struct {
	kind Kind
	msg  string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.msg
}

// Kind returns the error's failure category.
func (e *Error) Kind() Kind {
	return e.kind
}

// Invariant returns an invariant-violation error.
func Invariant(format string, args ...interface{}) error {
	return &Error{kind: KindInvariant, msg: fmt.Sprintf(format, args...)}
}

// NotFound returns a not-found error.
func NotFound(format string, args ...interface{}) error {
	return &Error{kind: KindNotFound, msg: fmt.Sprintf(format, args...)}
}

// Forbidden returns a forbidden error.
func Forbidden(format string, args ...interface{}) error {
	return &Error{kind: KindForbidden, msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind carried by err, or 0 when err is not a service
// error.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.kind
	}
	return 0
}

// IsInvariant reports whether err is an invariant violation.
func IsInvariant(err error) bool {
	return KindOf(err) == KindInvariant
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsForbidden reports whether err is a forbidden error.
func IsForbidden(err error) bool {
	return KindOf(err) == KindForbidden
}
