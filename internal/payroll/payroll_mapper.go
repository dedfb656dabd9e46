package payroll

import "time"

const dateLayout = "2006-01-02"

func mapRunToResponse(run PayrollRun, lines []PayrollRunLine) RunResponse {
	resp := RunResponse{
		ID:                 run.ID.String(),
		CompanyID:          run.CompanyID.String(),
		PeriodStart:        run.PeriodStart.Format(dateLayout),
		PeriodEnd:          run.PeriodEnd.Format(dateLayout),
		Status:             run.Status,
		TotalGrossPayCents: run.TotalGrossPayCents,
		CreatedBy:          run.CreatedBy.String(),
		CreatedAt:          run.CreatedAt.Format(time.RFC3339),
	}

	if len(lines) > 0 {
		resp.Lines = make([]RunLineResponse, len(lines))
		for i, line := range lines {
			resp.Lines[i] = mapLineToResponse(line)
		}
	}
	return resp
}

func mapLineToResponse(line PayrollRunLine) RunLineResponse {
	return RunLineResponse{
		ID:                 line.ID.String(),
		EmployeeID:         line.EmployeeID.String(),
		RegularHours:       line.RegularHours,
		OvertimeHours:      line.OvertimeHours,
		HourlyRateCents:    line.HourlyRateCents,
		OvertimeMultiplier: line.OvertimeMultiplier,
		RegularPayCents:    line.RegularPayCents,
		OvertimePayCents:   line.OvertimePayCents,
		TotalGrossPayCents: line.TotalGrossPayCents,
	}
}

func mapStubToResponse(stub PayStub) StubResponse {
	resp := StubResponse{
		ID:              stub.ID.String(),
		PayrollRunID:    stub.PayrollRunID.String(),
		EmployeeID:      stub.EmployeeID.String(),
		PeriodStart:     stub.PeriodStart.Format(dateLayout),
		PeriodEnd:       stub.PeriodEnd.Format(dateLayout),
		RegularHours:    stub.RegularHours,
		OvertimeHours:   stub.OvertimeHours,
		HourlyRateCents: stub.HourlyRateCents,
		GrossPayCents:   stub.GrossPayCents,
	}

	if len(stub.Entries) > 0 {
		resp.Entries = make([]StubEntryResponse, len(stub.Entries))
		for i, entry := range stub.Entries {
			resp.Entries[i] = StubEntryResponse{
				WorkDate:      entry.WorkDate.Format(dateLayout),
				RegularHours:  entry.RegularHours,
				OvertimeHours: entry.OvertimeHours,
				GrossPayCents: entry.GrossPayCents,
			}
		}
	}
	return resp
}

func mapSettingsToResponse(settings PayrollSettings) SettingsResponse {
	resp := SettingsResponse{
		CompanyID:      settings.CompanyID.String(),
		PeriodStartDay: settings.PeriodStartDay,
		PeriodEndDay:   settings.PeriodEndDay,
		AutoGenerate:   settings.AutoGenerate,
	}
	if settings.LastGeneratedEndDate != nil {
		v := settings.LastGeneratedEndDate.Format(dateLayout)
		resp.LastGeneratedEndDate = &v
	}
	return resp
}
