package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID           uint                `gorm:"primaryKey"`
	CompanyID    uint                `gorm:"not null;index"`
	DepartmentID *uint               `gorm:"column:department_id"`
	Code         string              `gorm:"type:varchar(50);not null;uniqueIndex:uq_employees_code"`
	FirstName    string              `gorm:"type:varchar(100);not null"`
	LastName     string              `gorm:"type:varchar(100);not null"`
	Email        string              `gorm:"type:varchar(255);not null;uniqueIndex:uq_employees_email"`
	Phone        *string             `gorm:"type:varchar(20)"`
	DateOfBirth  *time.Time          `gorm:"type:date"`
	Position     *string             `gorm:"type:varchar(255)"`
	HireDate     time.Time           `gorm:"type:date;not null"`
	Salary       decimal.NullDecimal `gorm:"type:numeric(12,2)"`
	IsActive     bool                `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Employee) TableName() string {
	return "employees"
}

func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// CodePrefix scopes generated employee codes to their tenant, e.g. EMP7-00000001.
func CodePrefix(companyID uint) string {
	return "EMP" + uintToString(companyID) + "-"
}
