package company

import (
	"strings"
	"time"
)

type CompanyType string

const (
	TypeSoloProprietor CompanyType = "SOLO_PROPRIETOR"
	TypeOrganization   CompanyType = "ORGANIZATION"
	TypePrivateLimited CompanyType = "PRIVATE_LIMITED"
	TypeLLP            CompanyType = "LLP"
	TypePartnership    CompanyType = "PARTNERSHIP"
	TypePublicLimited  CompanyType = "PUBLIC_LIMITED"
	TypeOther          CompanyType = "OTHER"
)

// CodePrefix prefixes every company code, e.g. CMP00000001.
const CodePrefix = "CMP"

// Company is the tenant root.
type Company struct {
	ID               uint        `gorm:"primaryKey"`
	Code             string      `gorm:"type:varchar(20);not null;uniqueIndex:uq_companies_code"`
	Name             string      `gorm:"type:varchar(255);not null"`
	Email            string      `gorm:"type:varchar(255);not null;uniqueIndex:uq_companies_email"`
	Phone            *string     `gorm:"type:varchar(20)"`
	Address          *string     `gorm:"type:text"`
	CompanyType      CompanyType `gorm:"column:company_type;type:varchar(30);not null"`
	CompanyTypeOther *string     `gorm:"column:company_type_other;type:varchar(255)"`
	GSTNumber        *string     `gorm:"column:gst_number;type:varchar(15)"`
	PANNumber        *string     `gorm:"column:pan_number;type:varchar(10)"`
	IsActive         bool        `gorm:"not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Company) TableName() string {
	return "companies"
}

// ParseCompanyType normalizes input; empty or unknown values become OTHER.
func ParseCompanyType(s string) (CompanyType, bool) {
	switch t := CompanyType(strings.ToUpper(strings.TrimSpace(s))); t {
	case TypeSoloProprietor, TypeOrganization, TypePrivateLimited, TypeLLP,
		TypePartnership, TypePublicLimited, TypeOther:
		return t, true
	case "":
		return TypeOther, true
	default:
		return TypeOther, false
	}
}
