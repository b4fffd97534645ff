package autherrors

import (
	"go-hrms/internal/shared/apperror"
	"net/http"
)

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password so callers cannot probe for accounts.
	ErrInvalidCredentials = apperror.New(
		apperror.CodeUnauthorized,
		"Incorrect username or password",
		http.StatusUnauthorized,
	)

	ErrSamePassword = apperror.New(
		apperror.CodeInvalidInput,
		"New password must differ from the current password",
		http.StatusBadRequest,
	)
)
