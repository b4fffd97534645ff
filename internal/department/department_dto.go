package department

import (
	"time"

	"go-hrms/internal/shared/patch"
)

type CreateDepartmentRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Description *string `json:"description"`
}

type UpdateDepartmentRequest struct {
	Name        patch.Field[string] `json:"name"`
	Description patch.Field[string] `json:"description"`
	IsActive    patch.Field[bool]   `json:"is_active"`
}

type ListDepartmentsQuery struct {
	IsActive *bool `form:"is_active"`
}

type DepartmentResponse struct {
	ID          uint      `json:"id"`
	CompanyID   uint      `json:"company_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func mapToResponse(d Department) DepartmentResponse {
	return DepartmentResponse{
		ID:          d.ID,
		CompanyID:   d.CompanyID,
		Name:        d.Name,
		Description: d.Description,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func mapToListResponse(depts []Department) []DepartmentResponse {
	res := make([]DepartmentResponse, len(depts))
	for i, d := range depts {
		res[i] = mapToResponse(d)
	}
	return res
}
