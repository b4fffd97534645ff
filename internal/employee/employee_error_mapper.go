package employee

import (
	"errors"

	employeeerrors "go-hrms/internal/employee/errors"
	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/dberr"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if dberr.IsNotFound(err) {
		return employeeerrors.ErrEmployeeNotFound
	}

	if dberr.IsUniqueViolation(err) {
		switch dberr.Constraint(err) {
		case "uq_employees_code":
			return employeeerrors.ErrEmployeeCodeAlreadyExists
		case "uq_employees_email":
			return employeeerrors.ErrEmployeeAlreadyExists
		default:
			return apperror.Conflict("Employee conflicts with an existing record")
		}
	}

	return apperror.Internal(err)
}
