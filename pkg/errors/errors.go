// Package errors provides structured error handling for the application
// Following enterprise patterns for error management and observability
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode represents an error code
type ErrorCode string

// Error codes surfaced by the planning engine and its HTTP surface
const (
	// Client errors (4xx)
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeTooManyRequests  ErrorCode = "TOO_MANY_REQUESTS"

	// Server errors (5xx)
	CodeInternal           ErrorCode = "INTERNAL_ERROR"
	CodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	CodeDatasetError       ErrorCode = "DATASET_ERROR"

	// Business logic errors
	CodeCorpusEmpty          ErrorCode = "CORPUS_EMPTY"
	CodeCorpusExhausted      ErrorCode = "CORPUS_EXHAUSTED"
	CodeReplacementExhausted ErrorCode = "REPLACEMENT_EXHAUSTED"
)

// AppError represents an application error with structured information
type AppError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Details  string                 `json:"details,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Cause    error                  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the appropriate HTTP status code
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidationFailed:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeCorpusEmpty, CodeCorpusExhausted, CodeReplacementExhausted:
		// Unsatisfiable constraints are a client-resolvable condition
		return http.StatusUnprocessableEntity
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeServiceUnavailable, CodeDatasetError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause adds a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message, details string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Predefined error constructors for common scenarios

// NewBadRequestError creates a bad request error
func NewBadRequestError(message string) *AppError {
	return NewAppError(CodeBadRequest, message, "")
}

// NewValidationError creates a validation error naming the offending field
func NewValidationError(field, details string) *AppError {
	return NewAppError(
		CodeValidationFailed,
		fmt.Sprintf("Invalid value for %q", field),
		details,
	).WithMetadata("field", field)
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *AppError {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return NewAppError(CodeInternal, message, "")
}

// NewDatasetError creates a dataset load/parse error. The cause is folded
// into Details so operators see the parse failure, not just the phase.
func NewDatasetError(operation string, cause error) *AppError {
	details := fmt.Sprintf("Failed to %s", operation)
	if cause != nil {
		details = fmt.Sprintf("%s: %v", details, cause)
	}
	return NewAppError(
		CodeDatasetError,
		"Recipe dataset operation failed",
		details,
	).WithCause(cause)
}

// Business domain specific errors

// NewCorpusEmptyError reports that no recipe survives the base constraint set
func NewCorpusEmptyError(constraints string) *AppError {
	return NewAppError(
		CodeCorpusEmpty,
		"No recipes match the requested constraints",
		constraints,
	)
}

// NewCorpusExhaustedError reports an unfillable slot during plan generation
func NewCorpusExhaustedError(day int, slot, constraints string) *AppError {
	return NewAppError(
		CodeCorpusExhausted,
		fmt.Sprintf("No candidate recipe for day %d slot %q", day, slot),
		constraints,
	).WithMetadata("day", day).WithMetadata("slot", slot)
}

// NewReplacementExhaustedError reports that no alternative survives the
// exclusion set for a replace-meal call
func NewReplacementExhaustedError(slot string, excluded int) *AppError {
	return NewAppError(
		CodeReplacementExhausted,
		fmt.Sprintf("No replacement candidate for slot %q", slot),
		fmt.Sprintf("%d recipe(s) excluded", excluded),
	).WithMetadata("slot", slot).WithMetadata("excluded", excluded)
}

// Utility functions

// Wrap wraps an error as an internal error if it's not already an AppError
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := err.(*AppError); ok {
		return appErr
	}

	return NewInternalError(message).WithCause(err)
}

// Is checks if an error is of a specific error code, unwrapping as needed
func Is(err error, code ErrorCode) bool {
	if appErr, ok := IsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// IsAppError extracts the structured error from anywhere in the chain
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return CodeInternal
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Value   interface{} `json:"value"`
	Tag     string      `json:"tag"`
	Message string      `json:"message"`
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}

	if len(v) == 1 {
		return v[0].Message
	}

	var messages []string
	for _, err := range v {
		messages = append(messages, err.Message)
	}

	return strings.Join(messages, "; ")
}

// NewValidationErrors creates a validation error from field-level failures
func NewValidationErrors(errors []ValidationError) *AppError {
	validationErrs := ValidationErrors(errors)

	appErr := NewAppError(
		CodeValidationFailed,
		"Validation failed",
		validationErrs.Error(),
	).WithMetadata("validation_errors", validationErrs)
	if len(errors) > 0 {
		appErr = appErr.WithMetadata("field", errors[0].Field)
	}
	return appErr
}
