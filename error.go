package newsgrab

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// These map failure classes to retry behavior: EINVALID and EUNAUTHORIZED
// are never retried, ERATELIMITED, ETIMEOUT, EUNAVAILABLE and
// EUNPROCESSABLE are retried with backoff until the retry budget is
// exhausted.
const (
	EINVALID       = "invalid"
	ENOTFOUND      = "not_found"
	EUNAUTHORIZED  = "unauthorized"
	ERATELIMITED   = "rate_limited"
	ETIMEOUT       = "timeout"
	EUNAVAILABLE   = "unavailable"
	EUNPROCESSABLE = "unprocessable"
	EINTERNAL      = "internal"
)

// Error represents an application error with a machine-readable code and
// a human-readable message.
type Error struct {
	// Code is one of the constants defined above.
	Code string

	// Message is a human-readable description of the error.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("newsgrab error: code=%s message=%s", e.Code, e.Message)
}

// Errorf returns a new Error with the given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors return EINTERNAL; nil returns the empty string.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors return a generic message; nil returns the empty string.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}
