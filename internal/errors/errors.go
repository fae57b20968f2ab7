package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeSchema       ErrorType = "SCHEMA"
	ErrTypeMissingField ErrorType = "MISSING_FIELD"
	ErrTypeTimestamp    ErrorType = "INVALID_TIMESTAMP"
	ErrTypeDuration     ErrorType = "INVALID_DURATION"
	ErrTypeParsing      ErrorType = "PARSING"
	ErrTypeStorage      ErrorType = "STORAGE"
	ErrTypeValidation   ErrorType = "VALIDATION"
	ErrTypeNotFound     ErrorType = "NOT_FOUND"
	ErrTypeConfig       ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// IsType reports whether err (or anything it wraps) is an AppError of the
// given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// Helper functions for common error types

// NewSchemaError creates an error for a required column missing from the
// header row. The columns that were actually found ride along as context.
func NewSchemaError(column string, found []string) *AppError {
	return NewAppError(ErrTypeSchema,
		fmt.Sprintf("required column %q not found in header row", column), nil).
		WithContext("column", column).
		WithContext("columns_found", found)
}

// NewMissingFieldError creates an error for a required cell that is empty.
func NewMissingFieldError(row int, field string) *AppError {
	return NewAppError(ErrTypeMissingField,
		fmt.Sprintf("row %d: required field %q is empty", row, field), nil).
		WithContext("row", row).
		WithContext("field", field)
}

// NewInvalidTimestampError creates an error for a cell that could not be
// parsed as a timestamp.
func NewInvalidTimestampError(row int, field, value string, cause error) *AppError {
	return NewAppError(ErrTypeTimestamp,
		fmt.Sprintf("row %d: field %q has unparseable timestamp %q", row, field, value), cause).
		WithContext("row", row).
		WithContext("field", field).
		WithContext("value", value)
}

// NewInvalidDurationError creates an error for a check-out that precedes its
// check-in. The record is excluded from totals; this error documents why.
func NewInvalidDurationError(row int, userID string, checkIn, checkOut time.Time, hours float64) *AppError {
	return NewAppError(ErrTypeDuration,
		fmt.Sprintf("row %d: check-out precedes check-in for user %s (%.4f hours)", row, userID, hours), nil).
		WithContext("row", row).
		WithContext("user_id", userID).
		WithContext("check_in", checkIn).
		WithContext("check_out", checkOut).
		WithContext("duration_hours", hours)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}
