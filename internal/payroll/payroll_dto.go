package payroll

type GenerateRunRequest struct {
	PeriodStart string `json:"period_start" binding:"required,datetime=2006-01-02"`
	PeriodEnd   string `json:"period_end" binding:"required,datetime=2006-01-02"`
}

type UpdateSettingsRequest struct {
	PeriodStartDay *int  `json:"period_start_day" binding:"required,min=0,max=6"`
	PeriodEndDay   *int  `json:"period_end_day" binding:"required,min=0,max=6"`
	AutoGenerate   *bool `json:"auto_generate" binding:"required"`
}

type SettingsResponse struct {
	CompanyID            string  `json:"company_id"`
	PeriodStartDay       int     `json:"period_start_day"`
	PeriodEndDay         int     `json:"period_end_day"`
	AutoGenerate         bool    `json:"auto_generate"`
	LastGeneratedEndDate *string `json:"last_generated_end_date,omitempty"`
}

type RunResponse struct {
	ID                 string `json:"id"`
	CompanyID          string `json:"company_id"`
	PeriodStart        string `json:"period_start"`
	PeriodEnd          string `json:"period_end"`
	Status             string `json:"status"`
	TotalGrossPayCents int64  `json:"total_gross_pay_cents"`
	CreatedBy          string `json:"created_by"`
	CreatedAt          string `json:"created_at"`

	Lines []RunLineResponse `json:"lines,omitempty"`
}

type RunLineResponse struct {
	ID                 string  `json:"id"`
	EmployeeID         string  `json:"employee_id"`
	RegularHours       float64 `json:"regular_hours"`
	OvertimeHours      float64 `json:"overtime_hours"`
	HourlyRateCents    int64   `json:"hourly_rate_cents"`
	OvertimeMultiplier float64 `json:"overtime_multiplier"`
	RegularPayCents    int64   `json:"regular_pay_cents"`
	OvertimePayCents   int64   `json:"overtime_pay_cents"`
	TotalGrossPayCents int64   `json:"total_gross_pay_cents"`
}

type StubResponse struct {
	ID              string  `json:"id"`
	PayrollRunID    string  `json:"payroll_run_id"`
	EmployeeID      string  `json:"employee_id"`
	PeriodStart     string  `json:"period_start"`
	PeriodEnd       string  `json:"period_end"`
	RegularHours    float64 `json:"regular_hours"`
	OvertimeHours   float64 `json:"overtime_hours"`
	HourlyRateCents int64   `json:"hourly_rate_cents"`
	GrossPayCents   int64   `json:"gross_pay_cents"`

	Entries []StubEntryResponse `json:"entries,omitempty"`
}

type StubEntryResponse struct {
	WorkDate      string  `json:"work_date"`
	RegularHours  float64 `json:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	GrossPayCents int64   `json:"gross_pay_cents"`
}

// AutoRunResult reports one scheduler tick's decision for a company.
type AutoRunResult struct {
	Status string       `json:"status"`
	Reason string       `json:"reason,omitempty"`
	Run    *RunResponse `json:"run,omitempty"`
}

const (
	AutoRunCreated = "created"
	AutoRunSkipped = "skipped"
	AutoRunError   = "error"
)
