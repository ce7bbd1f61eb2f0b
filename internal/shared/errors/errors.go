// Package errors provides application-level error types and utilities.
// It covers checkout failures (configuration, remote provider, gateway, state)
// as well as the HTTP-facing validation, not found and authorization errors.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeValidation      ErrorType = "validation_error"
	ErrorTypeNotFound        ErrorType = "not_found"
	ErrorTypeUnauthorized    ErrorType = "unauthorized"
	ErrorTypeForbidden       ErrorType = "forbidden"
	ErrorTypeInternal        ErrorType = "internal_error"
	ErrorTypeConfiguration   ErrorType = "configuration_error"
	ErrorTypeInvalidArgument ErrorType = "invalid_argument"
	ErrorTypeRemoteNotFound  ErrorType = "remote_not_found"
	ErrorTypeRemote          ErrorType = "remote_error"
	ErrorTypePaymentGateway  ErrorType = "payment_gateway_error"
	ErrorTypeInvalidState    ErrorType = "invalid_state"

	ErrorTypeCaptureNotRecorded ErrorType = "capture_not_recorded"
)

// AppError represents an application error with additional context
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Details string    `json:"details,omitempty"`

	// Err is the underlying cause, never serialized.
	Err error `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Details != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Details)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.Err
}

func newAppError(t ErrorType, code int, message string, details []string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:    t,
		Message: message,
		Code:    code,
		Details: detail,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeValidation, http.StatusBadRequest, message, details)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeNotFound, http.StatusNotFound, message, details)
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeUnauthorized, http.StatusUnauthorized, message, details)
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeForbidden, http.StatusForbidden, message, details)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInternal, http.StatusInternalServerError, message, details)
}

// NewConfigurationError reports missing or unusable configuration such as
// credentials or currency metadata. Not retryable.
func NewConfigurationError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeConfiguration, http.StatusInternalServerError, message, details)
}

// NewInvalidArgumentError reports a caller bug, e.g. a missing merchant URL.
func NewInvalidArgumentError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInvalidArgument, http.StatusBadRequest, message, details)
}

// NewRemoteNotFoundError reports a stale remote session id.
func NewRemoteNotFoundError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeRemoteNotFound, http.StatusNotFound, message, details)
}

// NewRemoteError reports a non-2xx answer or transport failure from the provider.
func NewRemoteError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeRemote, http.StatusBadGateway, message, details)
}

// NewPaymentGatewayError reports a checkout failure visible to the customer.
func NewPaymentGatewayError(message string, details ...string) *AppError {
	return newAppError(ErrorTypePaymentGateway, http.StatusBadGateway, message, details)
}

// NewInvalidStateError reports an operation attempted in the wrong payment state.
func NewInvalidStateError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInvalidState, http.StatusConflict, message, details)
}

// NewCaptureNotRecordedError reports a capture the provider settled but that
// could not be stored locally. Details carry the provider capture id.
func NewCaptureNotRecordedError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeCaptureNotRecorded, http.StatusInternalServerError, message, details)
}

// Wrap attaches cause to a new AppError of the given type.
func Wrap(t ErrorType, message string, cause error) *AppError {
	var appErr *AppError
	switch t {
	case ErrorTypeConfiguration:
		appErr = NewConfigurationError(message)
	case ErrorTypeRemoteNotFound:
		appErr = NewRemoteNotFoundError(message)
	case ErrorTypeRemote:
		appErr = NewRemoteError(message)
	case ErrorTypePaymentGateway:
		appErr = NewPaymentGatewayError(message)
	case ErrorTypeInvalidState:
		appErr = NewInvalidStateError(message)
	case ErrorTypeInvalidArgument:
		appErr = NewInvalidArgumentError(message)
	case ErrorTypeCaptureNotRecorded:
		appErr = NewCaptureNotRecordedError(message)
	case ErrorTypeNotFound:
		appErr = NewNotFoundError(message)
	case ErrorTypeValidation:
		appErr = NewValidationError(message)
	default:
		appErr = NewInternalError(message)
	}
	appErr.Err = cause
	return appErr
}

// GetAppError extracts AppError from error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func isType(err error, t ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == t
}

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return isType(err, ErrorTypeNotFound)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return isType(err, ErrorTypeValidation)
}

func IsConfigurationError(err error) bool {
	return isType(err, ErrorTypeConfiguration)
}

func IsInvalidArgumentError(err error) bool {
	return isType(err, ErrorTypeInvalidArgument)
}

// IsRemoteNotFoundError only inspects the outermost AppError, so a
// RemoteNotFound wrapped into a gateway error is not reported as one.
func IsRemoteNotFoundError(err error) bool {
	return isType(err, ErrorTypeRemoteNotFound)
}

func IsRemoteError(err error) bool {
	return isType(err, ErrorTypeRemote)
}

func IsPaymentGatewayError(err error) bool {
	return isType(err, ErrorTypePaymentGateway)
}

func IsCaptureNotRecordedError(err error) bool {
	return isType(err, ErrorTypeCaptureNotRecorded)
}

func IsInvalidStateError(err error) bool {
	return isType(err, ErrorTypeInvalidState)
}

// IsDuplicateError checks if the error is a database duplicate key error
func IsDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	errStr := strings.ToLower(err.Error())
	// MySQL duplicate entry error
	if strings.Contains(errStr, "duplicate entry") || strings.Contains(errStr, "duplicate key") {
		return true
	}
	// SQLite and PostgreSQL unique violation
	return strings.Contains(errStr, "unique constraint")
}
