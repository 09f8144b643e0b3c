package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error so adapters can map it to a transport
// status without inspecting individual sentinel errors.
type Kind int

const (
	KindUnknown Kind = iota
	// KindUnauthorized means the caller presented no usable identity.
	KindUnauthorized
	// KindForbidden means the caller may not act on this specific entity.
	KindForbidden
	// KindNotFound means a referenced entity does not exist.
	KindNotFound
	// KindInvalidOperation means the request is incompatible with current state.
	KindInvalidOperation
	// KindConflict means the operation would violate a uniqueness invariant.
	KindConflict
	// KindUpstreamUnavailable means an external dependency could not be reached.
	KindUpstreamUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindInvalidOperation:
		return "invalid_operation"
	case KindConflict:
		return "conflict"
	case KindUpstreamUnavailable:
		return "upstream_unavailable"
	default:
		return "unknown"
	}
}

// Error is a classified domain error. It wraps an optional cause so
// errors.Is still matches package-level sentinels.
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

func (e *Error) Unwrap() error { return e.Err }

// NewError creates a classified error with a message.
func NewError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// WrapError classifies an existing error.
func WrapError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the classification of an error, or KindUnknown when the
// error carries no classification.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}
