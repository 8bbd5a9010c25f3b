package core

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	ErrBadRequest            ErrorCode = "WSM_BAD_REQUEST"
	ErrValidation            ErrorCode = "WSM_VALIDATION"
	ErrNotFound              ErrorCode = "WSM_NOT_FOUND"
	ErrInstallInProgress     ErrorCode = "WSM_INSTALL_IN_PROGRESS"
	ErrInstallationFailed    ErrorCode = "WSM_INSTALLATION_FAILED"
	ErrInstallationCancelled ErrorCode = "WSM_INSTALLATION_CANCELLED"
	ErrConflictIdempotent    ErrorCode = "WSM_CONFLICT_IDEMPOTENT_MISMATCH"
	ErrBackendUnavailable    ErrorCode = "WSM_BACKEND_UNAVAILABLE"
	ErrInternal              ErrorCode = "WSM_INTERNAL"
)

// HTTPStatus returns the HTTP status code for this error code.
func (e ErrorCode) HTTPStatus() int {
	switch e {
	case ErrBadRequest, ErrValidation:
		return 400
	case ErrNotFound:
		return 404
	case ErrInstallInProgress, ErrInstallationCancelled, ErrConflictIdempotent:
		return 409
	case ErrBackendUnavailable:
		return 503
	default:
		return 500
	}
}

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	cause   error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

func NewAppError(code ErrorCode, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}

// WrapAppError attaches cause so errors.Is keeps working through the AppError.
func WrapAppError(code ErrorCode, msg string, cause error) *AppError {
	return &AppError{Code: code, Message: msg, cause: cause}
}

func NotFound(id string) *AppError {
	return NewAppError(ErrNotFound, fmt.Sprintf("workspace %s not found", id))
}

func Validation(msg string) *AppError {
	return NewAppError(ErrValidation, msg)
}

// CodeOf returns the AppError code carried by err, or ErrInternal.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}

func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// AsAppError converts any error into an AppError, defaulting to ErrInternal.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return WrapAppError(ErrInternal, err.Error(), err)
}
