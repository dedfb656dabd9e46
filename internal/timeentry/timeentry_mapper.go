package timeentry

import "time"

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(time.RFC3339)
	return &v
}

func mapToResponse(e TimeEntry) TimeEntryResponse {
	resp := TimeEntryResponse{
		ID:                 e.ID.String(),
		CompanyID:          e.CompanyID.String(),
		EmployeeID:         e.EmployeeID.String(),
		ClockInReportedAt:  e.ClockInReportedAt.Format(time.RFC3339),
		ClockOutReportedAt: formatTimePtr(e.ClockOutReportedAt),
		ClockInApprovedAt:  formatTimePtr(e.ClockInApprovedAt),
		ClockOutApprovedAt: formatTimePtr(e.ClockOutApprovedAt),
		Status:             e.Status,
		RegularHours:       e.RegularHours,
		OvertimeHours:      e.OvertimeHours,
		GrossPayCents:      e.GrossPayCents,
		ApprovedAt:         formatTimePtr(e.ApprovedAt),
		EditReason:         e.EditReason,
	}

	if e.ScheduleID != nil {
		v := e.ScheduleID.String()
		resp.ScheduleID = &v
	}
	if e.PayrollRunID != nil {
		v := e.PayrollRunID.String()
		resp.PayrollRunID = &v
	}
	if e.ApprovedBy != nil {
		v := e.ApprovedBy.String()
		resp.ApprovedBy = &v
	}

	return resp
}

func mapToListResponse(entries []TimeEntry) []TimeEntryResponse {
	resp := make([]TimeEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = mapToResponse(e)
	}
	return resp
}

func mapAdjustmentToResponse(a TimeEntryAdjustment) AdjustmentResponse {
	return AdjustmentResponse{
		ID:           a.ID.String(),
		TimeEntryID:  a.TimeEntryID.String(),
		PrevClockIn:  formatTimePtr(a.PrevClockIn),
		PrevClockOut: formatTimePtr(a.PrevClockOut),
		NewClockIn:   a.NewClockIn.Format(time.RFC3339),
		NewClockOut:  a.NewClockOut.Format(time.RFC3339),
		Reason:       a.Reason,
		ActorID:      a.ActorID.String(),
		CreatedAt:    a.CreatedAt.Format(time.RFC3339),
	}
}
