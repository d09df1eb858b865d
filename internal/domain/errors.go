package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures reported to the boundary.
type ErrorKind string

const (
	ErrorKindValidation ErrorKind = "validation"
	ErrorKindHTTP       ErrorKind = "http"
	ErrorKindNetwork    ErrorKind = "network"
	ErrorKindStorage    ErrorKind = "storage"
)

// NetworkFailureMessage is shown whenever a call could not complete at all.
// The underlying cause is kept for logs only.
const NetworkFailureMessage = "Failed to connect to the API. Please check your settings."

// Error is the uniform error returned by the dispatcher. Message is safe to
// show to a user verbatim.
type Error struct {
	Kind    ErrorKind
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError reports a configuration problem detected before dispatch.
func NewValidationError(message string) *Error {
	return &Error{Kind: ErrorKindValidation, Message: message}
}

// NewHTTPError reports a non-2xx provider response.
func NewHTTPError(status int, message string) *Error {
	if message == "" {
		message = fmt.Sprintf("API Error: %d", status)
	}
	return &Error{Kind: ErrorKindHTTP, Message: message, Status: status}
}

// NewNetworkError wraps a transport failure behind a generic message.
func NewNetworkError(cause error) *Error {
	return &Error{Kind: ErrorKindNetwork, Message: NetworkFailureMessage, Err: cause}
}

// NewStorageError wraps a persistence failure. Stores never return it to callers.
func NewStorageError(op string, cause error) *Error {
	return &Error{Kind: ErrorKindStorage, Message: fmt.Sprintf("storage %s failed", op), Err: cause}
}

// KindOf returns the kind of err, or "" if err is not a domain error.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsMisconfiguration reports whether err suggests the user should revisit settings.
func IsMisconfiguration(err error) bool {
	var de *Error
	if !errors.As(err, &de) {
		return false
	}
	switch de.Kind {
	case ErrorKindValidation, ErrorKindNetwork:
		return true
	case ErrorKindHTTP:
		return de.Status == 401 || de.Status == 403 || de.Status == 404
	default:
		return false
	}
}
