package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"
	// ErrorTypeInvalidOperation indicates a request that can never succeed as issued
	ErrorTypeInvalidOperation ErrorType = "INVALID_OPERATION"
	// ErrorTypePersistence wraps an underlying storage failure
	ErrorTypePersistence ErrorType = "PERSISTENCE"
	// ErrorTypeGeneration indicates a model session or schema failure
	ErrorTypeGeneration ErrorType = "GENERATION"
	// ErrorTypeUnavailable indicates the capability cannot even be attempted
	ErrorTypeUnavailable ErrorType = "UNAVAILABLE"
	// ErrorTypeConflict indicates a conflict
	ErrorTypeConflict ErrorType = "CONFLICT"
	// ErrorTypeInternal indicates an internal error
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error returns the error message
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new application error
func New(errorType ErrorType, message string) error {
	return &AppError{
		Type:    errorType,
		Message: message,
	}
}

// Wrap wraps an error with an application error
func Wrap(errorType ErrorType, message string, err error) error {
	return &AppError{
		Type:    errorType,
		Message: message,
		Err:     err,
	}
}

// NotFound creates a not found error
func NotFound(message string) error {
	return New(ErrorTypeNotFound, message)
}

// InvalidOperation creates an invalid operation error
func InvalidOperation(message string) error {
	return New(ErrorTypeInvalidOperation, message)
}

// Persistence wraps a storage failure; the cause is preserved unchanged
func Persistence(message string, err error) error {
	return Wrap(ErrorTypePersistence, message, err)
}

// Generation creates a generation error with a human-readable message
func Generation(message string, err error) error {
	return Wrap(ErrorTypeGeneration, message, err)
}

// Unavailable creates an unavailable error; distinguishes "can't even try"
// from "tried and failed"
func Unavailable(message string) error {
	return New(ErrorTypeUnavailable, message)
}

// Conflict creates a conflict error
func Conflict(message string) error {
	return New(ErrorTypeConflict, message)
}

// Internal creates an internal error
func Internal(message string) error {
	return New(ErrorTypeInternal, message)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return isType(err, ErrorTypeNotFound)
}

// IsInvalidOperation checks if an error is an invalid operation error
func IsInvalidOperation(err error) bool {
	return isType(err, ErrorTypeInvalidOperation)
}

// IsPersistence checks if an error is a persistence error
func IsPersistence(err error) bool {
	return isType(err, ErrorTypePersistence)
}

// IsGeneration checks if an error is a generation error
func IsGeneration(err error) bool {
	return isType(err, ErrorTypeGeneration)
}

// IsUnavailable checks if an error is an unavailable error
func IsUnavailable(err error) bool {
	return isType(err, ErrorTypeUnavailable)
}

// IsConflict checks if an error is a conflict error
func IsConflict(err error) bool {
	return isType(err, ErrorTypeConflict)
}

func isType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// IsDuplicateError checks if an error is a duplicate key error
func IsDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "duplicate key") ||
		strings.Contains(errStr, "UNIQUE constraint") ||
		strings.Contains(errStr, "duplicate entry")
}
