package company

import (
	"time"

	"go-hrms/internal/shared/patch"
)

// RegisterRequest provisions a tenant together with its first admin.
type RegisterRequest struct {
	CompanyName      string `json:"company_name" binding:"required,min=2,max=255"`
	CompanyEmail     string `json:"company_email" binding:"required,email"`
	CompanyPhone     string `json:"company_phone" binding:"omitempty,max=20"`
	CompanyAddress   string `json:"company_address"`
	CompanyType      string `json:"company_type"`
	CompanyTypeOther string `json:"company_type_other" binding:"omitempty,max=255"`
	GSTNumber        string `json:"gst_number" binding:"omitempty,len=15,alphanum"`
	PANNumber        string `json:"pan_number" binding:"omitempty,len=10,alphanum"`

	AdminFullName string `json:"admin_full_name" binding:"required,min=2,max=255"`
	AdminEmail    string `json:"admin_email" binding:"required,email"`
	AdminUsername string `json:"admin_username" binding:"required,min=3,max=50"`
	AdminPassword string `json:"admin_password" binding:"required,min=6,max=72"`
}

type UpdateCompanyRequest struct {
	Name    patch.Field[string] `json:"name"`
	Phone   patch.Field[string] `json:"phone"`
	Address patch.Field[string] `json:"address"`
}

type CompanyResponse struct {
	ID               uint        `json:"id"`
	Code             string      `json:"code"`
	Name             string      `json:"name"`
	Email            string      `json:"email"`
	Phone            *string     `json:"phone"`
	Address          *string     `json:"address"`
	CompanyType      CompanyType `json:"company_type"`
	CompanyTypeOther *string     `json:"company_type_other,omitempty"`
	GSTNumber        *string     `json:"gst_number,omitempty"`
	PANNumber        *string     `json:"pan_number,omitempty"`
	IsActive         bool        `json:"is_active"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

func ToResponse(c *Company) CompanyResponse {
	return CompanyResponse{
		ID:               c.ID,
		Code:             c.Code,
		Name:             c.Name,
		Email:            c.Email,
		Phone:            c.Phone,
		Address:          c.Address,
		CompanyType:      c.CompanyType,
		CompanyTypeOther: c.CompanyTypeOther,
		GSTNumber:        c.GSTNumber,
		PANNumber:        c.PANNumber,
		IsActive:         c.IsActive,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}
