package apperror

import (
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
)

// AppError is a custom error type that includes an HTTP status code and an optional internal error code.
type AppError struct {
	Code    int    // HTTP Status Code (e.g., 400, 404)
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

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation reports missing or malformed input.
func Validation(message string) *AppError {
	return New(http.StatusBadRequest, message)
}

// MissingFields reports absent required fields, listed in the order given.
func MissingFields(names ...string) *AppError {
	return Validation("missing required fields: " + strings.Join(names, ", "))
}

// NotFound reports that no matching record exists.
func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message)
}

// Conflict reports a duplicate unique key.
func Conflict(message string) *AppError {
	return New(http.StatusConflict, message)
}

// Unauthorized reports a missing credential.
func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, message)
}

// Forbidden reports an invalid credential or an insufficient role.
func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, message)
}

// Gateway reports an upstream payment failure. The upstream message is surfaced as-is.
func Gateway(err error) *AppError {
	return Wrap(err, http.StatusInternalServerError, err.Error())
}

// Internal hides an unexpected store failure behind a generic message.
func Internal(err error) *AppError {
	return Wrap(err, http.StatusInternalServerError, "internal server error")
}

// StatusCode returns the HTTP status carried by err, or 500 when err is not an AppError.
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
