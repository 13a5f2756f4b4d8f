// Package errors provides structured error types for the secmaster API.
// Service-layer errors use AppError so the HTTP edge can render consistent
// responses without leaking internal details. The taxonomy mirrors the
// engine's failure modes: validation failures are caller-fixable and raised
// immediately, interval conflicts and duplicate bindings are data conflicts
// surfaced for manual resolution, and a failed resolution is an expected
// outcome represented as a nil result rather than an error.
package errors

import "net/http"

// AppError is a structured application error carrying a stable error code,
// a human-readable message, an HTTP status, and an optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap returns a copy of sentinel wrapping an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage returns a copy of sentinel with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// General errors.
var (
	ErrValidation     = &AppError{Code: "VALIDATION_ERROR", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrUnauthorized   = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Security and identifier errors.
var (
	ErrSecurityNotFound   = &AppError{Code: "SECURITY_NOT_FOUND", Message: "Security not found", StatusCode: http.StatusNotFound}
	ErrIdentifierNotFound = &AppError{Code: "IDENTIFIER_NOT_FOUND", Message: "Identifier could not be resolved", StatusCode: http.StatusNotFound}

	// ErrIdentifierConflict signals that a new validity interval overlaps an
	// existing interval for the same security and identifier type.
	ErrIdentifierConflict = &AppError{Code: "IDENTIFIER_CONFLICT", Message: "Identifier validity interval overlaps an existing interval", StatusCode: http.StatusConflict}

	// ErrDuplicateIdentifier signals that an identifier value is already
	// bound, with an overlapping interval, to a different security.
	ErrDuplicateIdentifier = &AppError{Code: "DUPLICATE_IDENTIFIER", Message: "Identifier is already bound to another security", StatusCode: http.StatusConflict}
)

// Data source errors.
var (
	ErrSourceNotFound  = &AppError{Code: "SOURCE_NOT_FOUND", Message: "Data source not found", StatusCode: http.StatusNotFound}
	ErrDuplicateSource = &AppError{Code: "DUPLICATE_SOURCE", Message: "A data source with this code already exists", StatusCode: http.StatusConflict}
)

// Factor errors.
var (
	ErrFactorNotFound  = &AppError{Code: "FACTOR_NOT_FOUND", Message: "Factor definition not found", StatusCode: http.StatusNotFound}
	ErrDuplicateFactor = &AppError{Code: "DUPLICATE_FACTOR", Message: "A factor with this code already exists", StatusCode: http.StatusConflict}
)
