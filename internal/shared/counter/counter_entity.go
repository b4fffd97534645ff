package counter

import "time"

// CompanyCounter is a per-tenant monotonically increasing counter.
type CompanyCounter struct {
	CompanyID   uint      `gorm:"primaryKey;autoIncrement:false"`
	CounterType string    `gorm:"primaryKey;type:varchar(50)"`
	LastValue   int64     `gorm:"not null;default:0"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (CompanyCounter) TableName() string {
	return "company_counters"
}
