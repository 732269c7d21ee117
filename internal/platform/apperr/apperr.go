// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the error type every Folio layer returns for expected
failures. The HTTP layer maps it to a status and a client-safe body; anything
else becomes a 500 whose cause is logged and never returned.

	400 VALIDATION_ERROR  missing or malformed input, with per-field details
	401 UNAUTHORIZED      no authenticated actor
	403 FORBIDDEN         the access policy denied the action
	404 NOT_FOUND         the resource does not exist or is not visible
	409 CONFLICT          a uniqueness constraint could not be satisfied
	429 RATE_LIMITED      the caller exceeded its request budget
	500 INTERNAL_ERROR    anything unexpected
*/
package apperr

import (
	"errors"
	"net/http"
)

// Stable machine-readable codes.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeRateLimited  = "RATE_LIMITED"
	CodeInternal     = "INTERNAL_ERROR"
)

var statusByCode = map[string]int{
	CodeValidation:   http.StatusBadRequest,
	CodeUnauthorized: http.StatusUnauthorized,
	CodeForbidden:    http.StatusForbidden,
	CodeNotFound:     http.StatusNotFound,
	CodeConflict:     http.StatusConflict,
	CodeRateLimited:  http.StatusTooManyRequests,
	CodeInternal:     http.StatusInternalServerError,
}

// AppError is a classified failure. Cause is for server logs only.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"error"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
	Details    []FieldError `json:"details,omitempty"`
}

// FieldError is one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func newError(code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: statusByCode[code]}
}

// Error returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap exposes Cause to [errors.Is] and [errors.As].
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause returns a copy of e carrying cause for server-side logs.
func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

// # Constructors

// NotFound names the missing resource: NotFound("Page") reads "Page not found".
func NotFound(resource string) *AppError {
	return newError(CodeNotFound, resource+" not found")
}

func Unauthorized(message string) *AppError {
	return newError(CodeUnauthorized, message)
}

func Forbidden(message string) *AppError {
	return newError(CodeForbidden, message)
}

// Conflict reports a unique constraint that retries could not satisfy.
func Conflict(message string) *AppError {
	return newError(CodeConflict, message)
}

// ValidationError is a 400 with optional per-field details.
func ValidationError(message string, details ...FieldError) *AppError {
	err := newError(CodeValidation, message)
	err.Details = details
	return err
}

// FieldInvalid is a 400 naming a single field.
func FieldInvalid(field, message string) *AppError {
	return ValidationError("Validation failed", FieldError{Field: field, Message: message})
}

func RateLimited() *AppError {
	return newError(CodeRateLimited, "Rate limit exceeded")
}

// Internal wraps an unexpected failure behind a generic message.
func Internal(cause error) *AppError {
	err := newError(CodeInternal, "An unexpected error occurred")
	err.Cause = cause
	return err
}

// # Inspection

// As returns the [*AppError] in err's chain, or nil.
func As(err error) *AppError {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError
	}
	return nil
}

// IsAppError reports whether err has already been classified.
func IsAppError(err error) bool {
	return As(err) != nil
}

// HasCode reports whether err is classified with code.
func HasCode(err error, code string) bool {
	appError := As(err)
	return appError != nil && appError.Code == code
}

// IsNotFound reports whether err maps to a 404.
func IsNotFound(err error) bool {
	return HasCode(err, CodeNotFound)
}
