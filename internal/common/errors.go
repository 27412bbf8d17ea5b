package common

import (
	"errors"
	"fmt"
)

// Sentinel kinds for domain failures. Check with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
)

// AppError carries a user-facing message for one of the sentinel kinds.
type AppError struct {
	Kind    error
	Message string
	Field   string
}

func (e *AppError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Kind
}

func NotFound(resource string, id int64) error {
	return &AppError{Kind: ErrNotFound, Message: fmt.Sprintf("%s not found with id: %d", resource, id)}
}

func Validation(field, format string, args ...any) error {
	return &AppError{Kind: ErrValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &AppError{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) error {
	return &AppError{Kind: ErrForbidden, Message: fmt.Sprintf(format, args...)}
}

// AsAppError unwraps err into an *AppError if it carries one.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
