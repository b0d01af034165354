package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a stable error code for programmatic handling.
type Code string

const (
	CodeInvalid      Code = "invalid"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeUnauthorized Code = "unauthorized"
	CodeStorage      Code = "storage"
	CodeInternal     Code = "internal"
)

// AppError carries a code, a message, and optionally the list of individual
// violations found during validation.
type AppError struct {
	Code       Code
	Message    string
	Err        error
	Violations []string
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if len(e.Violations) > 0 {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Message, strings.Join(e.Violations, "; "))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Wrap(err error, code Code, message string) *AppError {
	if err == nil {
		return New(code, message)
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// Validation builds an invalid-input error that enumerates every violation
// found, not just the first.
func Validation(message string, violations []string) *AppError {
	return &AppError{Code: CodeInvalid, Message: message, Violations: violations}
}

// NotFound builds a not_found error.
func NotFound(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message}
}

// IsCode reports whether err carries the given code (through unwrapping).
func IsCode(err error, code Code) bool {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// AsAppError extracts an *AppError from err, or wraps err as internal.
func AsAppError(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return Wrap(err, CodeInternal, "unexpected error")
}
