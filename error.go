package blogscout

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// These are meant to be stable identifiers that callers can branch on,
// as opposed to the human-readable message.
const (
	EINVALID      = "invalid"      // validation failed
	ENOTFOUND     = "not_found"    // entity does not exist
	EINTERNAL     = "internal"     // internal error
	EUNAVAILABLE  = "unavailable"  // external resource cannot be acquired (fatal for a batch)
	ETIMEOUT      = "timeout"      // bounded wait elapsed
	EINSUFFICIENT = "insufficient" // extracted content below the acceptance threshold
	EMALFORMED    = "malformed"    // model reply could not be interpreted
)

// Error represents an application error with a machine-readable code
// and a human-readable message.
type Error struct {
	// Code is one of the E* constants above.
	Code string

	// Message is a human-readable explanation of the error.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("blogscout error: code=%s message=%s", e.Code, e.Message)
}

// Errorf constructs an *Error with the given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL; nil returns "".
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
// Non-application errors return a generic message; nil returns "".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "An internal error has occurred."
}
