package apperrors

import (
	"errors"
	"fmt"
)

// Code identifies the class of a failure so callers can map it to a response.
type Code string

const (
	// CodeUnauthorized means the portal rejected the credentials.
	CodeUnauthorized Code = "UNAUTHORIZED"
	// CodeServiceUnavailable means the portal or Notion could not be reached.
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
	// CodeUpstream means a remote service answered with an error.
	CodeUpstream Code = "UPSTREAM"
	// CodeConfig means the server is missing required configuration.
	CodeConfig Code = "CONFIG"
	// CodeInvalidArgument means the request itself is malformed.
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	// CodeInternal is everything else.
	CodeInternal Code = "INTERNAL"
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a coded error without a cause.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Wrap creates a coded error around cause.
func Wrap(code Code, msg string, cause error) *Error {
	return &Error{Code: code, Message: msg, Cause: cause}
}

func Unauthorized(msg string) *Error {
	return New(CodeUnauthorized, msg)
}

func ServiceUnavailable(msg string, cause error) *Error {
	return Wrap(CodeServiceUnavailable, msg, cause)
}

func Upstream(msg string) *Error {
	return New(CodeUpstream, msg)
}

func Config(msg string) *Error {
	return New(CodeConfig, msg)
}

func InvalidArgument(msg string) *Error {
	return New(CodeInvalidArgument, msg)
}

// CodeOf returns the code of the first coded error in err's chain,
// or CodeInternal if there is none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
