package errors

import (
	"errors"
	"fmt"
)

// Error codes carried by AppError.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeInvalidState = "INVALID_STATE"
	CodeConflict     = "CONFLICT"
	CodeNotFound     = "NOT_FOUND"
	CodeInternal     = "INTERNAL_ERROR"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenExpired       = errors.New("token has expired")
	ErrTokenRequired      = errors.New("access token required")
	ErrUnauthorized       = errors.New("unauthorized access")

	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user with this email already exists")

	ErrBikeNotFound    = errors.New("bike not found")
	ErrBikeUnavailable = errors.New("bike is not available")

	ErrRideNotFound      = errors.New("ride not found")
	ErrRideNotActive     = errors.New("ride is not active")
	ErrActiveRideExists  = errors.New("user already has an active ride")
	ErrInvalidLocation   = errors.New("invalid location")
	ErrInvalidCondition  = errors.New("invalid bike condition")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrInvalidTransition = errors.New("invalid status transition")
)

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation wraps err as a VALIDATION_ERROR using err's text as the message.
func Validation(err error) *AppError {
	return NewAppError(CodeValidation, err.Error(), err)
}

// IsCode reports whether err is an AppError carrying code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
