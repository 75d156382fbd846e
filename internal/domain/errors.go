package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindNotFound          ErrorKind = "not_found"
	KindValidation        ErrorKind = "validation"
	KindDuplicate         ErrorKind = "duplicate"
	KindInsufficientStock ErrorKind = "insufficient_stock"
	KindInfrastructure    ErrorKind = "infrastructure"
)

// Error is the failure value every core operation returns. Message is part of
// the observable contract; callers and tests compare it verbatim.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }

func NotFound(msg string) *Error          { return &Error{Kind: KindNotFound, Message: msg} }
func Invalid(msg string) *Error           { return &Error{Kind: KindValidation, Message: msg} }
func Duplicate(msg string) *Error         { return &Error{Kind: KindDuplicate, Message: msg} }
func InsufficientStock(msg string) *Error { return &Error{Kind: KindInsufficientStock, Message: msg} }

// Infra wraps a backing-store failure. It is the only retryable kind.
func Infra(op string, err error) *Error {
	return &Error{Kind: KindInfrastructure, Message: fmt.Sprintf("%s failed", op), Err: err}
}

// KindOf classifies err; anything that is not a domain error counts as infrastructure.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInfrastructure
}
