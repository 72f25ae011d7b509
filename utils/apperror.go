package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies domain failures so the HTTP layer can choose a status code.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindConflict   ErrorKind = "conflict"
	KindForbidden  ErrorKind = "forbidden"
	KindInternal   ErrorKind = "internal"
)

// AppError is the typed error returned by the service layer. Message is always
// safe to show to the caller and explains why the request was refused.
type AppError struct {
	Kind    ErrorKind `json:"kind"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// HTTPStatus maps the error kind onto a status code.
func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func NewValidationError(code, format string, args ...any) *AppError {
	return &AppError{Kind: KindValidation, Code: code, Message: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(code, format string, args ...any) *AppError {
	return &AppError{Kind: KindNotFound, Code: code, Message: fmt.Sprintf(format, args...)}
}

func NewConflictError(code, format string, args ...any) *AppError {
	return &AppError{Kind: KindConflict, Code: code, Message: fmt.Sprintf(format, args...)}
}

func NewForbiddenError(code, format string, args ...any) *AppError {
	return &AppError{Kind: KindForbidden, Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapInternal hides err behind a generic message while keeping it for logs.
func WrapInternal(err error, message string) *AppError {
	return &AppError{Kind: KindInternal, Code: "internal_error", Message: message, Err: err}
}

// AsAppError normalises any error into an *AppError.
func AsAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return WrapInternal(err, "internal server error")
}

// IsKind reports whether err is an *AppError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}
