package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrNotFound       ErrorType = "NOT_FOUND"
	ErrAlreadyExists  ErrorType = "ALREADY_EXISTS"
	ErrNetwork        ErrorType = "NETWORK"
	ErrInvalidInput   ErrorType = "INVALID_INPUT"
	ErrInternal       ErrorType = "INTERNAL"
	ErrUnauthorized   ErrorType = "UNAUTHORIZED"
	ErrSyncInProgress ErrorType = "SYNC_IN_PROGRESS"
)

// AppError represents an application error
type AppError struct {
	Type      ErrorType
	Message   string
	Cause     error
	Timestamp time.Time
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:      errType,
		Message:   message,
		Cause:     cause,
		Timestamp: time.Now(),
	}
}

// TypeOf returns the type of the first AppError in err's chain, or ErrInternal.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrInternal
}

// MessageOf returns the message of the first AppError in err's chain, or the
// full error text.
func MessageOf(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func is(err error, t ErrorType) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Type == t
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool { return is(err, ErrNotFound) }

// IsAlreadyExists checks if the error is an already exists error
func IsAlreadyExists(err error) bool { return is(err, ErrAlreadyExists) }

// IsNetwork checks if the error is a network error
func IsNetwork(err error) bool { return is(err, ErrNetwork) }

// IsInvalidInput checks if the error is an invalid input error
func IsInvalidInput(err error) bool { return is(err, ErrInvalidInput) }

// IsUnauthorized checks if the error is an unauthorized error
func IsUnauthorized(err error) bool { return is(err, ErrUnauthorized) }

// IsSyncInProgress checks if the error reports a sync that is already running
func IsSyncInProgress(err error) bool { return is(err, ErrSyncInProgress) }

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, err error) *AppError {
	return New(ErrNotFound, message, err)
}

// NewAlreadyExistsError creates a new already exists error
func NewAlreadyExistsError(message string, err error) *AppError {
	return New(ErrAlreadyExists, message, err)
}

// NewNetworkError creates a new network error
func NewNetworkError(message string, err error) *AppError {
	return New(ErrNetwork, message, err)
}

// NewValidationError creates a new validation error
func NewValidationError(message string, err error) *AppError {
	return New(ErrInvalidInput, message, err)
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string, err error) *AppError {
	return New(ErrUnauthorized, message, err)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return New(ErrInternal, message, err)
}

// NewSyncInProgressError creates an error for a sync that is already running
func NewSyncInProgressError(operation string) *AppError {
	return New(ErrSyncInProgress, fmt.Sprintf("%s already in progress", operation), nil)
}
