package taskerrors

import (
	"go-hrms/internal/shared/apperror"
	"net/http"
)

var (
	ErrTaskNotFound = apperror.New(
		apperror.CodeNotFound,
		"Task not found",
		http.StatusNotFound,
	)

	ErrAssigneeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Assigned employee not found in company",
		http.StatusNotFound,
	)

	ErrTaskForbidden = apperror.New(
		apperror.CodeForbidden,
		"Not authorized to modify this task",
		http.StatusForbidden,
	)

	ErrCannotReassign = apperror.New(
		apperror.CodeInvalidInput,
		"Employees cannot reassign tasks",
		http.StatusBadRequest,
	)

	ErrTaskClosed = apperror.New(
		apperror.CodeInvalidState,
		"Closed tasks cannot be reopened",
		http.StatusConflict,
	)

	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"Status must be one of OPEN, IN_PROGRESS, CLOSED",
		http.StatusBadRequest,
	)

	ErrInvalidPriority = apperror.New(
		apperror.CodeInvalidInput,
		"Priority must be one of LOW, MEDIUM, HIGH",
		http.StatusBadRequest,
	)

	ErrInvalidTaskID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid task ID",
		http.StatusBadRequest,
	)
)
