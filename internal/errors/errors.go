package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a DomainError so the HTTP boundary can map it to a status code.
type Kind string

const (
	KindNotFound            Kind = "not_found"
	KindInvalidInput        Kind = "invalid_input"
	KindInsufficientFunds   Kind = "insufficient_funds"
	KindLimitExceeded       Kind = "limit_exceeded"
	KindLimitReached        Kind = "limit_reached"
	KindUnavailable         Kind = "unavailable"
	KindUnsupportedCurrency Kind = "unsupported_currency"
	KindExpired             Kind = "expired"
	KindConflict            Kind = "conflict"
	KindInternal            Kind = "internal"
)

// DomainError is a recoverable business failure. Two errors are the same
// failure when their codes match, whatever the message says.
type DomainError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Withf returns a copy of e carrying a more specific message.
func (e *DomainError) Withf(format string, args ...interface{}) *DomainError {
	return &DomainError{
		Kind:    e.Kind,
		Code:    e.Code,
		Message: fmt.Sprintf(format, args...),
		Err:     e.Err,
	}
}

// As extracts the DomainError from an error chain.
func As(err error) (*DomainError, bool) {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// KindOf reports the kind of err. Anything that is not a DomainError is internal.
func KindOf(err error) Kind {
	if de, ok := As(err); ok {
		return de.Kind
	}
	return KindInternal
}

// Internal wraps an unexpected failure. The cause stays reachable through
// errors.Is/As but never leaks into the public message.
func Internal(err error) *DomainError {
	if de, ok := As(err); ok {
		return de
	}
	return &DomainError{
		Kind:    KindInternal,
		Code:    ErrInternal.Code,
		Message: ErrInternal.Message,
		Err:     err,
	}
}

var ErrInternal = &DomainError{
	Kind:    KindInternal,
	Code:    "INTERNAL_ERROR",
	Message: "internal error",
}

var ErrInvalidInput = &DomainError{
	Kind:    KindInvalidInput,
	Code:    "INVALID_INPUT",
	Message: "invalid input",
}
