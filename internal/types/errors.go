package types

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode is a typed string for categorizing application errors.
type ErrorCode string

// Complete error code constants.
// All handlers MUST use these constants instead of hardcoded strings.
const (
	// Validation (400) — malformed or out-of-range input fields.
	ErrCodeValidationInvalidLat       ErrorCode = "validation_invalid_latitude"
	ErrCodeValidationInvalidLon       ErrorCode = "validation_invalid_longitude"
	ErrCodeValidationInvalidSoilType  ErrorCode = "validation_invalid_soil_type"
	ErrCodeValidationInvalidElevation ErrorCode = "validation_invalid_elevation_category"
	ErrCodeValidationNegativeValue    ErrorCode = "validation_negative_value"
	ErrCodeValidationInvalidJSON      ErrorCode = "validation_invalid_json"

	// Bad request (400) — required fields absent for the chosen path.
	ErrCodeBadRequestMissingField ErrorCode = "bad_request_missing_field"

	// Unsupported region (422) — coordinate outside the service operating area.
	ErrCodeUnsupportedRegion ErrorCode = "unsupported_region"

	// Model (503) — classifier artifact failed to load at startup.
	ErrCodeModelUnavailable ErrorCode = "model_unavailable"

	// Internal (500)
	ErrCodeInternalUnexpected ErrorCode = "internal_unexpected_error"
)

// HTTPStatus maps an ErrorCode to its corresponding HTTP status code.
// Used by the API layer to translate AppErrors into HTTP responses.
// Returns 500 for unrecognized error codes as a safe default.
func (c ErrorCode) HTTPStatus() int {
	s := string(c)
	switch {
	case strings.HasPrefix(s, "validation_"):
		return http.StatusBadRequest // 400
	case strings.HasPrefix(s, "bad_request_"):
		return http.StatusBadRequest // 400
	case s == string(ErrCodeUnsupportedRegion):
		return http.StatusUnprocessableEntity // 422
	case strings.HasPrefix(s, "model_"):
		return http.StatusServiceUnavailable // 503
	case strings.HasPrefix(s, "internal_"):
		return http.StatusInternalServerError // 500
	default:
		return http.StatusInternalServerError // 500
	}
}

// AppError is the standard application error type used throughout the engine.
// All resolver, classifier, and handler errors are expressed as AppError to
// enable consistent error formatting, HTTP status mapping, and error chain
// support. A wrong risk level is worse than a clear failure, so errors are
// never converted into silent fallbacks.
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code corresponding to this error's code.
func (e *AppError) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a copy of the error with the provided details merged in.
// This is useful for adding context without mutating the original error.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	merged := make(map[string]any, len(e.Details)+len(details))
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     e.Err,
		Details: merged,
	}
}

// NewAppError creates a new AppError with the given code, message, and optional
// underlying error. This is the standard constructor for domain errors.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewAppErrorWithDetails creates a new AppError with the given code, message,
// underlying error, and structured details.
func NewAppErrorWithDetails(code ErrorCode, message string, err error, details map[string]any) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
		Details: details,
	}
}

// NewMissingFieldError builds the standard bad-request error for absent
// required fields. The missing field names are carried in Details under
// "missing_fields" so the router can inspect the failure signature.
func NewMissingFieldError(fields ...string) *AppError {
	return NewAppErrorWithDetails(
		ErrCodeBadRequestMissingField,
		"missing required field(s): "+strings.Join(fields, ", "),
		nil,
		map[string]any{"missing_fields": fields},
	)
}
