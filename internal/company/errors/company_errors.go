package companyerrors

import (
	"go-hrms/internal/shared/apperror"
	"net/http"
)

var (
	ErrCompanyNotFound = apperror.New(
		apperror.CodeNotFound,
		"Company not found",
		http.StatusNotFound,
	)

	ErrCompanyEmailExists = apperror.New(
		apperror.CodeConflict,
		"Company email already registered",
		http.StatusConflict,
	)

	ErrCompanyCodeExists = apperror.New(
		apperror.CodeConflict,
		"Company code already exists",
		http.StatusConflict,
	)

	ErrCompanyInactive = apperror.New(
		apperror.CodeForbidden,
		"inactive company",
		http.StatusForbidden,
	)

	ErrInvalidCompanyType = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid company type",
		http.StatusBadRequest,
	)

	ErrCompanyNameRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Company name cannot be empty",
		http.StatusBadRequest,
	)
)
