package user

import "time"

type UserResponse struct {
	ID                  uint      `json:"id"`
	CompanyID           uint      `json:"company_id"`
	EmployeeID          *uint     `json:"employee_id"`
	Email               string    `json:"email"`
	Username            string    `json:"username"`
	FullName            string    `json:"full_name"`
	Role                Role      `json:"role"`
	IsActive            bool      `json:"is_active"`
	ForcePasswordChange bool      `json:"force_password_change"`
	CreatedAt           time.Time `json:"created_at"`
}

func ToResponse(u *User) UserResponse {
	return UserResponse{
		ID:                  u.ID,
		CompanyID:           u.CompanyID,
		EmployeeID:          u.EmployeeID,
		Email:               u.Email,
		Username:            u.Username,
		FullName:            u.FullName,
		Role:                u.Role,
		IsActive:            u.IsActive,
		ForcePasswordChange: u.ForcePasswordChange,
		CreatedAt:           u.CreatedAt,
	}
}
