package payrollerrors

import (
	"net/http"

	"fieldserve/internal/shared/apperror"
)

var (
	ErrRunOverlap = apperror.New(
		apperror.CodeConflict,
		"a payroll run already covers part of this period",
		http.StatusConflict,
	)
	ErrPeriodNotComplete = apperror.New(
		"PERIOD_NOT_COMPLETE",
		"period end date has not passed yet",
		http.StatusUnprocessableEntity,
	)
	ErrNoEligibleEntries = apperror.New(
		"NO_ELIGIBLE_ENTRIES",
		"no approved unconsumed time entries in this period",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"period start must not be after period end",
		http.StatusBadRequest,
	)
	ErrRunNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll run not found",
		http.StatusNotFound,
	)
	ErrRunNotDraft = apperror.New(
		apperror.CodeInvalidState,
		"payroll run is finalized and can no longer be modified",
		http.StatusConflict,
	)
	ErrRunAlreadyFinalized = apperror.New(
		apperror.CodeInvalidState,
		"payroll run is already finalized",
		http.StatusConflict,
	)
	ErrSettingsNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll settings not configured for this company",
		http.StatusNotFound,
	)
	ErrStubNotFound = apperror.New(
		apperror.CodeNotFound,
		"pay stub not found",
		http.StatusNotFound,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
)
