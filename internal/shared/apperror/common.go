package apperror

import "net/http"

var (
	ErrNotFound = New(
		CodeNotFound,
		"Resource not found",
		http.StatusNotFound,
	)

	ErrForbidden = New(
		CodeForbidden,
		"You do not have permission to access this resource",
		http.StatusForbidden,
	)

	ErrInternal = New(
		CodeInternalError,
		"An unexpected error occurred",
		http.StatusInternalServerError,
	)

	ErrUnauthorized = New(
		CodeUnauthorized,
		"Authentication is required",
		http.StatusUnauthorized,
	)

	ErrInvalidInput = New(
		CodeInvalidInput,
		"The provided input is invalid",
		http.StatusBadRequest,
	)
)

// Unauthenticated rejects a caller whose credentials could not be resolved.
func Unauthenticated(message string) *AppError {
	return New(CodeUnauthorized, message, http.StatusUnauthorized)
}

func Forbidden(message string) *AppError {
	return New(CodeForbidden, message, http.StatusForbidden)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message, http.StatusNotFound)
}

func Conflict(message string) *AppError {
	return New(CodeConflict, message, http.StatusConflict)
}

func Validation(message string) *AppError {
	return New(CodeInvalidInput, message, http.StatusBadRequest)
}

func InvalidState(message string) *AppError {
	return New(CodeInvalidState, message, http.StatusConflict)
}

// Internal wraps an unexpected failure. The cause is kept for logs only.
func Internal(err error) *AppError {
	return &AppError{
		Code:       CodeInternalError,
		Message:    ErrInternal.Message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func RequiredField(field string) *AppError {
	return Validation(field + " is required")
}

func InvalidField(field string) *AppError {
	return Validation(field + " is invalid")
}
