package apperror

import (
	"errors"
	"net/http"
)

// AppError is a domain error carrying the HTTP status it maps to.
type AppError struct {
	Code    int    // HTTP Status Code (e.g., 400, 404, 409)
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with a status code and message.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NotFound is shorthand for a 404 AppError.
func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message)
}

// Validation is shorthand for a 400 AppError.
func Validation(message string) *AppError {
	return New(http.StatusBadRequest, message)
}

// Conflict is shorthand for a 409 AppError.
func Conflict(message string) *AppError {
	return New(http.StatusConflict, message)
}

// Unauthorized is shorthand for a 401 AppError.
func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, message)
}

// Forbidden is shorthand for a 403 AppError.
func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, message)
}

// CodeOf returns the status code of the first AppError in err's chain,
// or 500 when there is none.
func CodeOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
