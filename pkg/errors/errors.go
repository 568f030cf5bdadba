package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the kind of failure surfaced by the service
type ErrorType string

const (
	// ErrorTypeDataUnavailable indicates the dataset is missing, malformed or not loaded
	ErrorTypeDataUnavailable ErrorType = "DATA_UNAVAILABLE"

	// ErrorTypeInvalidSortKey indicates a sort key that is not a known numeric field
	ErrorTypeInvalidSortKey ErrorType = "INVALID_SORT_KEY"

	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeEmptyDataset indicates an aggregate was requested over zero rows
	ErrorTypeEmptyDataset ErrorType = "EMPTY_DATASET"

	// ErrorTypeDeliveryFailure indicates no recipient of a dispatch was reached
	ErrorTypeDeliveryFailure ErrorType = "DELIVERY_FAILURE"

	// ErrorTypeValidation indicates a malformed request
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeUnavailable indicates an optional collaborator is not configured
	ErrorTypeUnavailable ErrorType = "UNAVAILABLE"

	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewDataUnavailableError creates a new data unavailable error
func NewDataUnavailableError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeDataUnavailable,
		Message: message,
		Err:     err,
	}
}

// NewInvalidSortKeyError creates a new invalid sort key error
func NewInvalidSortKeyError(key string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidSortKey,
		Message: fmt.Sprintf("unknown sort key %q", key),
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewEmptyDatasetError creates a new empty dataset error
func NewEmptyDatasetError() *AppError {
	return &AppError{
		Type:    ErrorTypeEmptyDataset,
		Message: "dataset has no rows",
	}
}

// NewDeliveryFailureError creates a new delivery failure error
func NewDeliveryFailureError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeDeliveryFailure,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewUnavailableError creates a new unavailable error
func NewUnavailableError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeUnavailable,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// TypeOf returns the type of the first AppError in err's chain, or ErrorTypeInternal.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// Is reports whether err carries an AppError of the given type.
func Is(err error, t ErrorType) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Type == t
}

// MessageOf returns the user-facing message of err.
func MessageOf(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
