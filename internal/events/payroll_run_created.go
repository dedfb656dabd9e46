package events

import "time"

const PayrollRunCreatedTopic = "fs.payroll.run.created.v1"

// PayrollRunCreatedEvent is published through the outbox when a run is
// generated; the stub builder consumes it.
type PayrollRunCreatedEvent struct {
	EventType    string    `json:"event_type"`
	RequestID    string    `json:"request_id,omitempty"`
	PayrollRunID string    `json:"payroll_run_id"`
	CompanyID    string    `json:"company_id"`
	PeriodStart  string    `json:"period_start"`
	PeriodEnd    string    `json:"period_end"`
	CreatedBy    string    `json:"created_by"`
	OccurredAt   time.Time `json:"occurred_at"`
}
