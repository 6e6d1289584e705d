package application

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserNotFound         = errors.New("user not found")
	ErrUsernameTaken        = errors.New("username already exists")
	ErrEmailTaken           = errors.New("email already exists")
	ErrUnauthenticated      = errors.New("authentication required")
	ErrForbidden            = errors.New("not allowed to access this resource")
	ErrTaskNotFound         = errors.New("task not found")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrSelfFollow           = errors.New("cannot follow yourself")
	ErrStorageUnavailable   = errors.New("avatar storage is not configured")
	ErrUnsupportedImage     = errors.New("unsupported image type")
)

// ValidationError reports invalid client input on a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
