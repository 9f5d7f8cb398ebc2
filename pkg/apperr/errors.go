package apperr

import (
	"errors"
	"fmt"
)

// Kind is the stable category reported to API callers.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindUnauthorized Kind = "unauthorized"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindStoreFailure Kind = "store_failure"
)

var (
	ErrInvalidCredentials = New(KindUnauthorized, "invalid username or password")
	ErrUnauthorized       = New(KindUnauthorized, "unauthorized")
	ErrNoteNotFound       = New(KindNotFound, "note not found")
	ErrUsernameTaken      = New(KindConflict, "username already registered")
	ErrExternalIdTaken    = New(KindConflict, "external id already linked to another user")
)

// Error carries a public message and an optional internal cause.
// Only Message is ever rendered to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on kind and message so sentinel values compare equal after wrapping.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *Error {
	return New(KindValidation, message)
}

func Store(op string, err error) *Error {
	return Wrap(KindStoreFailure, "internal server error", fmt.Errorf("%s: %w", op, err))
}

// KindOf reports the category of err. Unclassified errors are store failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStoreFailure
}

// PublicMessage returns the text safe to show to a client.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindStoreFailure {
		return e.Message
	}
	return "internal server error"
}
