package employee

import (
	"strconv"
	"strings"
	"time"

	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/patch"
	"go-hrms/internal/user"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type CreateEmployeeRequest struct {
	Code            *string          `json:"code" binding:"omitempty,max=50"`
	FirstName       string           `json:"first_name" binding:"required,max=100"`
	LastName        string           `json:"last_name" binding:"required,max=100"`
	Email           string           `json:"email" binding:"required,email,max=255"`
	Phone           *string          `json:"phone" binding:"omitempty,max=20"`
	DateOfBirth     *string          `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Position        *string          `json:"position" binding:"omitempty,max=255"`
	HireDate        *string          `json:"hire_date" binding:"omitempty,datetime=2006-01-02"`
	Salary          *decimal.Decimal `json:"salary"`
	DepartmentID    *uint            `json:"department_id"`
	InitialPassword string           `json:"initial_password" binding:"required,min=6,max=72"`
}

// UpdateEmployeeRequest is a partial update: absent keys are left untouched,
// explicit nulls clear nullable columns.
type UpdateEmployeeRequest struct {
	FirstName    patch.Field[string]          `json:"first_name"`
	LastName     patch.Field[string]          `json:"last_name"`
	Email        patch.Field[string]          `json:"email"`
	Phone        patch.Field[string]          `json:"phone"`
	DateOfBirth  patch.Field[string]          `json:"date_of_birth"`
	Position     patch.Field[string]          `json:"position"`
	HireDate     patch.Field[string]          `json:"hire_date"`
	Salary       patch.Field[decimal.Decimal] `json:"salary"`
	DepartmentID patch.Field[uint]            `json:"department_id"`
	IsActive     patch.Field[bool]            `json:"is_active"`
}

type ListEmployeesQuery struct {
	Page     int   `form:"page" binding:"omitempty,min=1"`
	Limit    int   `form:"limit" binding:"omitempty,min=1,max=100"`
	IsActive *bool `form:"is_active"`
}

func (q *ListEmployeesQuery) normalize() {
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

type EmployeeResponse struct {
	ID           uint                `json:"id"`
	CompanyID    uint                `json:"company_id"`
	DepartmentID *uint               `json:"department_id"`
	Code         string              `json:"code"`
	FirstName    string              `json:"first_name"`
	LastName     string              `json:"last_name"`
	FullName     string              `json:"full_name"`
	Email        string              `json:"email"`
	Phone        *string             `json:"phone"`
	DateOfBirth  *string             `json:"date_of_birth"`
	Position     *string             `json:"position"`
	HireDate     string              `json:"hire_date"`
	Salary       decimal.NullDecimal `json:"salary"`
	IsActive     bool                `json:"is_active"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

type EmployeeOption struct {
	ID       uint   `json:"id"`
	Code     string `json:"code"`
	FullName string `json:"full_name"`
}

// OnboardResponse carries the initial password exactly once.
type OnboardResponse struct {
	Employee     EmployeeResponse `json:"employee"`
	UserID       uint             `json:"user_id"`
	Username     string           `json:"username"`
	TempPassword string           `json:"temp_password"`
}

// OnboardResult is what an Onboarder persisted.
type OnboardResult struct {
	Employee     *Employee
	User         *user.User
	TempPassword string
}

// BuildEmployee validates req and returns an unsaved employee without a code.
// A missing hire date defaults to today in UTC.
func BuildEmployee(companyID uint, req CreateEmployeeRequest, now time.Time) (*Employee, error) {
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if firstName == "" {
		return nil, apperror.RequiredField("First Name")
	}
	if lastName == "" {
		return nil, apperror.RequiredField("Last Name")
	}

	hireDate := truncateDate(now.UTC())
	if req.HireDate != nil && *req.HireDate != "" {
		d, err := parseDate("hire_date", *req.HireDate)
		if err != nil {
			return nil, err
		}
		hireDate = d
	}

	var dob *time.Time
	if req.DateOfBirth != nil && *req.DateOfBirth != "" {
		d, err := parseDate("date_of_birth", *req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		dob = &d
	}

	var salary decimal.NullDecimal
	if req.Salary != nil {
		if req.Salary.IsNegative() {
			return nil, apperror.Validation("salary cannot be negative")
		}
		salary = decimal.NewNullDecimal(req.Salary.Round(2))
	}

	return &Employee{
		CompanyID:    companyID,
		DepartmentID: req.DepartmentID,
		FirstName:    firstName,
		LastName:     lastName,
		Email:        strings.TrimSpace(req.Email),
		Phone:        req.Phone,
		DateOfBirth:  dob,
		Position:     req.Position,
		HireDate:     hireDate,
		Salary:       salary,
		IsActive:     true,
	}, nil
}

func parseDate(field, v string) (time.Time, error) {
	d, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, apperror.Validation(field + " must be a date in YYYY-MM-DD format")
	}
	return d, nil
}

func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func uintToString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func ToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID,
		CompanyID:    e.CompanyID,
		DepartmentID: e.DepartmentID,
		Code:         e.Code,
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		FullName:     e.FullName(),
		Email:        e.Email,
		Phone:        e.Phone,
		DateOfBirth:  formatDate(e.DateOfBirth),
		Position:     e.Position,
		HireDate:     e.HireDate.Format(dateLayout),
		Salary:       e.Salary,
		IsActive:     e.IsActive,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func mapToListResponse(emps []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(emps))
	for i, e := range emps {
		res[i] = ToResponse(e)
	}
	return res
}

func mapToOptions(emps []Employee) []EmployeeOption {
	res := make([]EmployeeOption, len(emps))
	for i, e := range emps {
		res[i] = EmployeeOption{ID: e.ID, Code: e.Code, FullName: e.FullName()}
	}
	return res
}
