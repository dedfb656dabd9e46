package payroll

import (
	"time"

	"github.com/google/uuid"
)

// PayrollSettings holds one company's period anchors. Days are weekday
// indices, Sunday = 0.
type PayrollSettings struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID            uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	PeriodStartDay       int        `gorm:"not null;default:1"`
	PeriodEndDay         int        `gorm:"not null;default:0"`
	AutoGenerate         bool       `gorm:"not null;default:false"`
	LastGeneratedEndDate *time.Time `gorm:"type:date"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (PayrollSettings) TableName() string {
	return "payroll_settings"
}

type PayrollRun struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_run_company_period,unique"`

	PeriodStart time.Time `gorm:"type:date;not null;index:idx_run_company_period,unique"`
	PeriodEnd   time.Time `gorm:"type:date;not null;index:idx_run_company_period,unique"`

	// Amounts in the smallest unit (cents) to avoid floating-point money.
	TotalGrossPayCents int64 `gorm:"type:bigint;not null;default:0"`

	Status    string    `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Lines []PayrollRunLine `gorm:"foreignKey:PayrollRunID"`
}

func (PayrollRun) TableName() string {
	return "payroll_runs"
}

// PayrollRunLine is one employee's totals within a run, with the rate and
// multiplier snapshotted at generation time.
type PayrollRunLine struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PayrollRunID uuid.UUID `gorm:"type:uuid;not null;index:idx_line_run_employee,unique"`
	CompanyID    uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID   uuid.UUID `gorm:"type:uuid;not null;index:idx_line_run_employee,unique"`

	RegularHours  float64 `gorm:"type:numeric(8,4);not null;default:0"`
	OvertimeHours float64 `gorm:"type:numeric(8,4);not null;default:0"`

	HourlyRateCents    int64   `gorm:"type:bigint;not null"`
	OvertimeMultiplier float64 `gorm:"type:numeric(4,2);not null;default:1.5"`

	RegularPayCents    int64 `gorm:"type:bigint;not null;default:0"`
	OvertimePayCents   int64 `gorm:"type:bigint;not null;default:0"`
	TotalGrossPayCents int64 `gorm:"type:bigint;not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PayrollRunLine) TableName() string {
	return "payroll_run_lines"
}

// PayStub is the employee-facing derivation of a run line. Stubs are derived,
// not authoritative: rebuilding them replaces their daily entries wholesale.
type PayStub struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PayrollRunID uuid.UUID `gorm:"type:uuid;not null;index:idx_stub_run_employee,unique"`
	CompanyID    uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID   uuid.UUID `gorm:"type:uuid;not null;index:idx_stub_run_employee,unique"`

	PeriodStart time.Time `gorm:"type:date;not null"`
	PeriodEnd   time.Time `gorm:"type:date;not null"`

	RegularHours    float64 `gorm:"type:numeric(8,4);not null;default:0"`
	OvertimeHours   float64 `gorm:"type:numeric(8,4);not null;default:0"`
	HourlyRateCents int64   `gorm:"type:bigint;not null"`
	GrossPayCents   int64   `gorm:"type:bigint;not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Entries []PayStubEntry `gorm:"foreignKey:PayStubID"`
}

func (PayStub) TableName() string {
	return "pay_stubs"
}

// PayStubEntry is one calendar day's slice of a stub.
type PayStubEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PayStubID uuid.UUID `gorm:"type:uuid;not null;index"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`

	WorkDate      time.Time `gorm:"type:date;not null"`
	RegularHours  float64   `gorm:"type:numeric(7,4);not null;default:0"`
	OvertimeHours float64   `gorm:"type:numeric(7,4);not null;default:0"`
	GrossPayCents int64     `gorm:"type:bigint;not null;default:0"`

	CreatedAt time.Time
}

func (PayStubEntry) TableName() string {
	return "pay_stub_entries"
}
