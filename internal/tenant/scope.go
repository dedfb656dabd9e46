package tenant

import "gorm.io/gorm"

// Scope filters every query to one company's rows. The engine trusts the
// company id handed to it; there is no cross-tenant check beyond this filter.
func Scope(companyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}
