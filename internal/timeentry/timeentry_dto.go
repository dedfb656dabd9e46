package timeentry

type ClockInRequest struct {
	ScheduleID *string `json:"schedule_id"`
}

type ApproveRequest struct {
	ClockInApprovedAt  *string `json:"clock_in_approved_at"`
	ClockOutApprovedAt *string `json:"clock_out_approved_at"`
	EditReason         *string `json:"edit_reason"`
}

type RejectRequest struct {
	EditReason string `json:"edit_reason" binding:"required"`
}

type AdjustRequest struct {
	ClockInApprovedAt  string  `json:"clock_in_approved_at" binding:"required"`
	ClockOutApprovedAt string  `json:"clock_out_approved_at" binding:"required"`
	EditReason         *string `json:"edit_reason"`
}

type BulkApproveRequest struct {
	TimeEntryIDs []string `json:"time_entry_ids" binding:"required,min=1"`
}

// BulkApproveResult reports one entry's outcome; the batch never fails as a
// whole.
type BulkApproveResult struct {
	TimeEntryID string `json:"time_entry_id"`
	Ok          bool   `json:"ok"`
	ErrorCode   string `json:"error_code,omitempty"`
	Message     string `json:"message,omitempty"`
}

type TimeEntryResponse struct {
	ID                 string   `json:"id"`
	CompanyID          string   `json:"company_id"`
	EmployeeID         string   `json:"employee_id"`
	ScheduleID         *string  `json:"schedule_id,omitempty"`
	ClockInReportedAt  string   `json:"clock_in_reported_at"`
	ClockOutReportedAt *string  `json:"clock_out_reported_at,omitempty"`
	ClockInApprovedAt  *string  `json:"clock_in_approved_at,omitempty"`
	ClockOutApprovedAt *string  `json:"clock_out_approved_at,omitempty"`
	Status             string   `json:"status"`
	PayrollRunID       *string  `json:"payroll_run_id,omitempty"`
	RegularHours       float64  `json:"regular_hours"`
	OvertimeHours      float64  `json:"overtime_hours"`
	GrossPayCents      int64    `json:"gross_pay_cents"`
	ApprovedBy         *string  `json:"approved_by,omitempty"`
	ApprovedAt         *string  `json:"approved_at,omitempty"`
	EditReason         *string  `json:"edit_reason,omitempty"`
}

type AdjustmentResponse struct {
	ID           string  `json:"id"`
	TimeEntryID  string  `json:"time_entry_id"`
	PrevClockIn  *string `json:"prev_clock_in,omitempty"`
	PrevClockOut *string `json:"prev_clock_out,omitempty"`
	NewClockIn   string  `json:"new_clock_in"`
	NewClockOut  string  `json:"new_clock_out"`
	Reason       string  `json:"reason"`
	ActorID      string  `json:"actor_id"`
	CreatedAt    string  `json:"created_at"`
}
