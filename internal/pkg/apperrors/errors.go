package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrBadRequest       = errors.New("bad request")

	// Upstream collaborator errors
	ErrUpstreamFailure = errors.New("upstream service failure")
)

// Student errors
var (
	ErrStudentNotFound     = errors.New("student not found")
	ErrEmailAlreadyExists  = errors.New("email already registered")
	ErrMatricAlreadyExists = errors.New("matric number already registered")
	ErrEmailNotVerified    = errors.New("email not verified")
)

// Fee errors
var (
	ErrFeeNotFound = errors.New("fee not found")
	ErrFeeInactive = errors.New("fee is no longer active")
)

// Payment and clearance errors
var (
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrFeeAlreadyPaid   = errors.New("fee already paid")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// Token errors (email verification and password reset)
var (
	ErrVerificationTokenInvalid  = errors.New("invalid or expired email verification token")
	ErrPasswordResetTokenInvalid = errors.New("invalid or expired password reset token")
)

// Notification errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
)

// NewNotFoundError creates a custom error for a missing resource with a message
func NewNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewValidationError creates a custom error for rejected input with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// NewUpstreamError creates a custom error for a failed outbound call with a message
func NewUpstreamError(message string) error {
	return &CustomError{
		Err:     ErrUpstreamFailure,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}
