package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors. The pipeline's retry decision keys off these:
// ErrDocumentNotFound is terminal, ErrPersistence and anything unrecognized
// retries until the attempt budget runs out, ErrBackendUnavailable never
// escapes a stage at all.
var (
	ErrDocumentNotFound   = errors.New("document not found")
	ErrBackendUnavailable = errors.New("ai backend unavailable")
	ErrPersistence        = errors.New("persistence failure")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInternal           = errors.New("internal error")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Retryable reports whether a job-level error should re-enter the queue.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrDocumentNotFound)
}
