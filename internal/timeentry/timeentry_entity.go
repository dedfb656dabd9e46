package timeentry

import (
	"time"

	"github.com/google/uuid"
)

// TimeEntry is one clock-in/clock-out record. The partial unique index on
// employee_id is the real guard for the one-open-entry invariant; the service
// pre-check only exists to return a friendly error with the open entry's
// start time.
type TimeEntry struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	EmployeeID uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:uq_open_time_entry,where:clock_out_reported_at IS NULL AND status <> 'REJECTED'"`
	ScheduleID *uuid.UUID `gorm:"type:uuid"`

	ClockInReportedAt  time.Time  `gorm:"type:timestamptz;not null"`
	ClockOutReportedAt *time.Time `gorm:"type:timestamptz"`
	ClockInApprovedAt  *time.Time `gorm:"type:timestamptz;index"`
	ClockOutApprovedAt *time.Time `gorm:"type:timestamptz"`

	Status string `gorm:"type:varchar(30);not null;default:'PENDING_CLOCK_IN';index"`

	// Set once the entry is consumed by a payroll run. A non-nil value seals
	// the entry: only deleting the draft run releases it again.
	PayrollRunID  *uuid.UUID `gorm:"type:uuid;index"`
	RegularHours  float64    `gorm:"type:numeric(7,4);not null;default:0"`
	OvertimeHours float64    `gorm:"type:numeric(7,4);not null;default:0"`
	GrossPayCents int64      `gorm:"type:bigint;not null;default:0"`

	ApprovedBy *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt *time.Time `gorm:"type:timestamptz"`
	EditReason *string    `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TimeEntry) TableName() string {
	return "time_entries"
}

// TimeEntryAdjustment is the append-only audit record of a manual correction.
// Rows are never updated or deleted.
type TimeEntryAdjustment struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	TimeEntryID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	PrevClockIn  *time.Time `gorm:"type:timestamptz"`
	PrevClockOut *time.Time `gorm:"type:timestamptz"`
	NewClockIn   time.Time  `gorm:"type:timestamptz;not null"`
	NewClockOut  time.Time  `gorm:"type:timestamptz;not null"`
	Reason       string     `gorm:"type:text;not null"`
	ActorID      uuid.UUID  `gorm:"type:uuid;not null"`
	CreatedAt    time.Time
}

func (TimeEntryAdjustment) TableName() string {
	return "time_entry_adjustments"
}
