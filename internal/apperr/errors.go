package apperr

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

const (
	// Precondition violations - rejected before any network call
	ErrCodeNoSession        ErrorCode = "NO_SESSION"
	ErrCodeNoActiveQuestion ErrorCode = "NO_ACTIVE_QUESTION"
	ErrCodeCategoryUsed     ErrorCode = "CATEGORY_USED"
	ErrCodeSessionEnded     ErrorCode = "SESSION_ENDED"
	ErrCodeConcurrentCall   ErrorCode = "CONCURRENT_CALL"
	ErrCodeNotAuthenticated ErrorCode = "NOT_AUTHENTICATED"
	ErrCodeInvalidState     ErrorCode = "INVALID_STATE"

	// Validation
	ErrCodeInvalidInput    ErrorCode = "INVALID_INPUT"
	ErrCodeMissingRequired ErrorCode = "MISSING_REQUIRED"

	// Network / backend
	ErrCodeBackend     ErrorCode = "BACKEND_ERROR"
	ErrCodeUnreachable ErrorCode = "BACKEND_UNREACHABLE"

	// Authorization - clears persisted credentials on top of failing the call
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// Internal
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	ErrCodeStorage  ErrorCode = "STORAGE_ERROR"
)

// AppError is a structured error carried through the client
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details any       `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.cause
}

// WithCause adds a cause to the error
func (e *AppError) WithCause(err error) *AppError {
	e.cause = err
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError
func Wrap(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Common error constructors

func NoSession() *AppError {
	return New(ErrCodeNoSession, "No active game session")
}

func NoActiveQuestion() *AppError {
	return New(ErrCodeNoActiveQuestion, "No active question to answer")
}

func CategoryUsed(name string) *AppError {
	return New(ErrCodeCategoryUsed, fmt.Sprintf("Category %q is already used", name))
}

func SessionEnded() *AppError {
	return New(ErrCodeSessionEnded, "Game session has already ended")
}

func ConcurrentCall() *AppError {
	return New(ErrCodeConcurrentCall, "Another game call is still in flight")
}

func NotAuthenticated() *AppError {
	return New(ErrCodeNotAuthenticated, "Not signed in")
}

func InvalidState(message string) *AppError {
	return New(ErrCodeInvalidState, message)
}

func InvalidInput(field string, reason string) *AppError {
	return New(ErrCodeInvalidInput, fmt.Sprintf("Invalid %s: %s", field, reason))
}

func MissingRequired(field string) *AppError {
	return New(ErrCodeMissingRequired, fmt.Sprintf("%s is required", field))
}

func Unauthorized(message string) *AppError {
	return New(ErrCodeUnauthorized, message)
}

func Backend(operation string, cause error) *AppError {
	return Wrap(ErrCodeBackend, fmt.Sprintf("Backend error: %s", operation), cause)
}

func Unreachable(operation string, cause error) *AppError {
	return Wrap(ErrCodeUnreachable, fmt.Sprintf("Backend unreachable: %s", operation), cause)
}

func Internal(message string) *AppError {
	return New(ErrCodeInternal, message)
}

func Storage(cause error) *AppError {
	return Wrap(ErrCodeStorage, "Storage error", cause)
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetCode returns the error code if the error is an AppError, otherwise returns ErrCodeInternal
func GetCode(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}

// IsPrecondition reports whether the error was rejected locally, before any
// network call was made.
func IsPrecondition(err error) bool {
	switch GetCode(err) {
	case ErrCodeNoSession, ErrCodeNoActiveQuestion, ErrCodeCategoryUsed,
		ErrCodeSessionEnded, ErrCodeConcurrentCall, ErrCodeNotAuthenticated,
		ErrCodeInvalidState:
		return true
	}
	return false
}
