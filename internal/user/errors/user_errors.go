package usererrors

import (
	"go-hrms/internal/shared/apperror"
	"net/http"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)

	ErrUsernameExists = apperror.New(
		apperror.CodeConflict,
		"Username already taken",
		http.StatusConflict,
	)

	ErrEmailExists = apperror.New(
		apperror.CodeConflict,
		"User with the same email already exists",
		http.StatusConflict,
	)

	ErrWrongPassword = apperror.New(
		apperror.CodeInvalidInput,
		"Current password is incorrect",
		http.StatusBadRequest,
	)

	ErrPasswordTooLong = apperror.New(
		apperror.CodeInvalidInput,
		"Password must be at most 72 bytes",
		http.StatusBadRequest,
	)

	ErrUserInactive = apperror.New(
		apperror.CodeForbidden,
		"inactive user",
		http.StatusForbidden,
	)
)
