// Package errors provides structured error types for devlens.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the pipeline, CLI and HTTP front door
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Every failure that leaves the pipeline carries exactly one [Code]:
//   - VALIDATION: malformed subject input, never reaches the pipeline
//   - NOT_FOUND: subject (or a resource) absent upstream
//   - UNAUTHORIZED: missing or invalid credential
//   - RATE_LIMITED: caller-side or upstream quota exhaustion
//   - NETWORK: transport failure after the retry budget is spent
//   - API: any other upstream non-success
//   - TIMEOUT: a single upstream call exceeded its own deadline
//   - CANCELED: the caller went away; not an error kind in the envelope sense
//   - INTERNAL: unexpected defect
//
// # Usage
//
//	err := errors.New(errors.ErrCodeValidation, "invalid username: %s", name)
//	if errors.Is(err, errors.ErrCodeValidation) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "failed to reach %s", host)
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	ErrCodeValidation   Code = "VALIDATION"
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeUnauthorized Code = "UNAUTHORIZED"
	ErrCodeRateLimited  Code = "RATE_LIMITED"
	ErrCodeNetwork      Code = "NETWORK"
	ErrCodeAPI          Code = "API"
	ErrCodeTimeout      Code = "TIMEOUT"
	ErrCodeCanceled     Code = "CANCELED"
	ErrCodeInternal     Code = "INTERNAL"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code       // Machine-readable error code
	Message string     // Human-readable message
	Cause   error      // Underlying error (optional)
	Status  int        // Upstream HTTP status, 0 when no response was received
	ResetAt *time.Time // Quota reset time for RATE_LIMITED errors
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// WithStatus records the upstream status code and returns e.
func (e *Error) WithStatus(status int) *Error {
	e.Status = status
	return e
}

// WithResetAt records the quota reset time and returns e.
func (e *Error) WithResetAt(t *time.Time) *Error {
	e.ResetAt = t
	return e
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// ResetAt returns the quota reset time carried by err, if any.
func ResetAt(err error) *time.Time {
	var e *Error
	if errors.As(err, &e) {
		return e.ResetAt
	}
	return nil
}

// IsCanceled reports whether err represents a cancelled operation, either
// tagged with ErrCodeCanceled or carrying context.Canceled in its chain.
func IsCanceled(err error) bool {
	return Is(err, ErrCodeCanceled) || errors.Is(err, context.Canceled)
}

// FromContext classifies a context error: deadline expiry becomes
// ErrCodeTimeout, anything else ErrCodeCanceled. The cause is preserved.
func FromContext(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(ErrCodeTimeout, err, "operation timed out")
	}
	return Wrap(ErrCodeCanceled, err, "operation canceled")
}

// HTTPStatus maps an error to the status code the front door responds with.
// clientCredential selects 401 over 503 for UNAUTHORIZED: a bad server-side
// token is a deployment problem, a bad caller-supplied token is not.
func HTTPStatus(err error, clientCredential bool) int {
	switch GetCode(err) {
	case ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeUnauthorized:
		if clientCredential {
			return http.StatusUnauthorized
		}
		return http.StatusServiceUnavailable
	case ErrCodeNetwork, ErrCodeAPI:
		return http.StatusBadGateway
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
