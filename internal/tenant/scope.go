package tenant

import "gorm.io/gorm"

// Scope restricts a query to one company's rows. Every repository query on a
// tenant-owned table goes through it.
func Scope(companyID uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}
