// Package apperrors defines the error taxonomy shared by the repositories,
// the feedback generator and the HTTP boundary.
package apperrors

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindUnauthenticated    Kind = "unauthenticated"
	KindForbidden          Kind = "forbidden"
	KindNotFound           Kind = "not_found"
	KindValidationFailure  Kind = "validation_failure"
	KindBackendUnavailable Kind = "backend_unavailable"
	KindPartialCommit      Kind = "partial_commit"
	KindInternal           Kind = "internal"
)

// Error carries a Kind plus the operation that produced it. Message is safe to
// show to users; Err is for logs only.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return msg + " (" + e.Err.Error() + ")"
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, apperrors.NotFound)
// works regardless of op and message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// kind-only sentinels for errors.Is
var (
	Unauthenticated    = &Error{Kind: KindUnauthenticated}
	Forbidden          = &Error{Kind: KindForbidden}
	NotFound           = &Error{Kind: KindNotFound}
	ValidationFailure  = &Error{Kind: KindValidationFailure}
	BackendUnavailable = &Error{Kind: KindBackendUnavailable}
	PartialCommit      = &Error{Kind: KindPartialCommit}
)

func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func Wrapf(kind Kind, op string, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of the outermost *Error in the chain, or
// KindInternal for foreign errors.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
