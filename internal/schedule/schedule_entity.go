package schedule

import (
	"time"

	"github.com/google/uuid"
)

// Schedule is a planned shift. Clock-in attaches the matching same-day
// schedule to the time entry when one exists.
type Schedule struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID    uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ScheduleDate time.Time `gorm:"type:date;not null;index"`
	StartTime    time.Time `gorm:"type:timestamptz;not null"`
	EndTime      time.Time `gorm:"type:timestamptz;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Schedule) TableName() string {
	return "schedules"
}
