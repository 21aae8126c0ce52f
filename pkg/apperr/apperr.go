// Package apperr defines the error taxonomy shared by all layers. Callers
// branch on the Code, never on error strings, so retryable persistence
// failures stay distinguishable from terminal validation failures.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	// CodeFormat marks a malformed scan payload (field count or type mismatch).
	CodeFormat Code = "format"
	// CodeNotFound marks consumption or deletion targeting an absent item.
	CodeNotFound Code = "not_found"
	// CodeDecode marks an opaque decoder failure (unreadable QR image).
	CodeDecode Code = "decode"
	// CodePersistence marks an adapter-level failure, e.g. lost connectivity.
	CodePersistence Code = "persistence"
	CodeInternal    Code = "internal"
)

type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the code from an error chain, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// IsCode reports whether any error in the chain carries the given code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// ToHTTPStatus translates an error code to the status the transport layer
// should answer with.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeFormat:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeDecode:
		return http.StatusUnprocessableEntity
	case CodePersistence, CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
