package access

import (
	"time"

	"github.com/google/uuid"
)

// CompanyMembership links an actor to a company with one role. An actor can
// belong to several companies; exactly one membership is flagged active.
type CompanyMembership struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index:idx_user_company,unique"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_user_company,unique"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index"`
	Role       string    `gorm:"type:varchar(30);not null;default:'EMPLOYEE'"`
	Active     bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (CompanyMembership) TableName() string {
	return "company_memberships"
}

// ActiveContext is what the engine receives as "who is acting, where".
type ActiveContext struct {
	CompanyID string `json:"company_id"`
	Role      string `json:"role"`
}
