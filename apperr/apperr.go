package apperr

import (
	"errors"
	"fmt"
)

const (
	CodeInternal       = "internal"
	CodeNotFound       = "not_found"
	CodeBadRequest     = "bad_request"
	CodeValidation     = "validation"
	CodeUnauthorized   = "unauthorized"
	CodeForbidden      = "forbidden"
	CodeBadCredentials = "bad_credentials"
	CodeBadResponse    = "bad_response"
	CodeUnavailable    = "unavailable"
)

// Error represents a structured application error.
type Error struct {
	Code    string
	Status  int
	Message string
	Cause   error
}

// New creates a new Error.
func New(code string, status int, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Status:  status,
		Message: message,
		Cause:   cause,
	}
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

// Unwrap returns the root cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// As extracts an *Error if present.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsUnauthorized reports whether err carries a 401 status.
func IsUnauthorized(err error) bool {
	appErr := As(err)
	return appErr != nil && appErr.Status == 401
}

// Message returns the user-facing message from err, or fallback when err
// does not carry one.
func Message(err error, fallback string) string {
	if appErr := As(err); appErr != nil && appErr.Message != "" {
		return appErr.Message
	}
	if fallback != "" {
		return fallback
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
