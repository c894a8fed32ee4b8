package domain

import (
	"errors"
	"fmt"
)

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// User errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("username already exists")
	ErrCannotDeleteSelf  = errors.New("cannot delete your own account")
)

// Asset errors
var (
	ErrAssetNotFound = errors.New("asset not found")
)

// ValidationError reports a missing or malformed field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is(err, ErrInvalidInput) match validation failures.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewValidationError creates a field-scoped validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
