package department

import "time"

type Department struct {
	ID          uint    `gorm:"primaryKey"`
	CompanyID   uint    `gorm:"not null;uniqueIndex:uq_departments_company_name,priority:1"`
	Name        string  `gorm:"type:varchar(255);not null;uniqueIndex:uq_departments_company_name,priority:2"`
	Description *string `gorm:"type:text"`
	IsActive    bool    `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Department) TableName() string {
	return "departments"
}
