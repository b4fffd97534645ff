package task

import (
	"time"

	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/patch"
)

const dateLayout = "2006-01-02"

type CreateTaskRequest struct {
	Title                string  `json:"title" binding:"required,min=3,max=255"`
	Description          *string `json:"description"`
	Priority             *string `json:"priority"`
	DueDate              *string `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	AssignedToEmployeeID *uint   `json:"assigned_to_employee_id"`
}

// UpdateTaskRequest is a partial update. Absent keys are left untouched;
// null clears description, due date and assignee and is rejected elsewhere.
type UpdateTaskRequest struct {
	Title                patch.Field[string] `json:"title"`
	Description          patch.Field[string] `json:"description"`
	Priority             patch.Field[string] `json:"priority"`
	Status               patch.Field[string] `json:"status"`
	DueDate              patch.Field[string] `json:"due_date"`
	AssignedToEmployeeID patch.Field[uint]   `json:"assigned_to_employee_id"`
}

type ListTasksQuery struct {
	Page                 int    `form:"page" binding:"omitempty,min=1"`
	Limit                int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Status               string `form:"status"`
	Priority             string `form:"priority"`
	AssignedToEmployeeID *uint  `form:"assigned_to_employee_id"`
	OnlyMine             bool   `form:"only_mine"`
}

func (q *ListTasksQuery) normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
}

// ListFilter is the store-level form of a list query.
type ListFilter struct {
	Status     *Status
	Priority   *Priority
	AssigneeID *uint
	// OnlyMineEmployeeID composes with AssigneeID.
	OnlyMineEmployeeID *uint
	Page               int
	Limit              int
}

type TaskResponse struct {
	ID                   uint      `json:"id"`
	CompanyID            uint      `json:"company_id"`
	Title                string    `json:"title"`
	Description          *string   `json:"description"`
	Status               Status    `json:"status"`
	Priority             Priority  `json:"priority"`
	DueDate              *string   `json:"due_date"`
	AssignedToEmployeeID *uint     `json:"assigned_to_employee_id"`
	CreatedByUserID      *uint     `json:"created_by_user_id"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func mapToResponse(t Task) TaskResponse {
	var due *string
	if t.DueDate != nil {
		s := t.DueDate.Format(dateLayout)
		due = &s
	}
	return TaskResponse{
		ID:                   t.ID,
		CompanyID:            t.CompanyID,
		Title:                t.Title,
		Description:          t.Description,
		Status:               t.Status,
		Priority:             t.Priority,
		DueDate:              due,
		AssignedToEmployeeID: t.AssignedToEmployeeID,
		CreatedByUserID:      t.CreatedByUserID,
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
	}
}

func mapToListResponse(tasks []Task) []TaskResponse {
	res := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		res[i] = mapToResponse(t)
	}
	return res
}

func parseDueDate(v string) (*time.Time, error) {
	d, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, apperror.Validation("due_date must be a date in YYYY-MM-DD format")
	}
	return &d, nil
}
