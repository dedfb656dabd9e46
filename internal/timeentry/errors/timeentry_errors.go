package timeentryerrors

import (
	"net/http"

	"fieldserve/internal/shared/apperror"
)

var (
	ErrAlreadyClockedIn = apperror.New(
		"ALREADY_CLOCKED_IN",
		"employee already has an open time entry",
		http.StatusBadRequest,
	)
	ErrNoOpenEntry = apperror.New(
		"NO_OPEN_ENTRY",
		"no open time entry to clock out",
		http.StatusBadRequest,
	)
	ErrAlreadyDecided = apperror.New(
		"ALREADY_DECIDED",
		"time entry has already been approved or rejected",
		http.StatusBadRequest,
	)
	ErrInvalidOrder = apperror.New(
		"INVALID_ORDER",
		"approved clock-out must be after approved clock-in",
		http.StatusBadRequest,
	)
	ErrMissingClockOut = apperror.New(
		"MISSING_CLOCK_OUT",
		"time entry has no reported clock-out",
		http.StatusBadRequest,
	)
	ErrLockedByPayroll = apperror.New(
		"LOCKED_BY_PAYROLL",
		"time entry is consumed by a payroll run and can no longer be adjusted",
		http.StatusBadRequest,
	)
	ErrEntryNotFound = apperror.New(
		apperror.CodeNotFound,
		"time entry not found",
		http.StatusNotFound,
	)
	ErrInvalidTimestamp = apperror.New(
		apperror.CodeInvalidInput,
		"invalid timestamp format, expected RFC3339",
		http.StatusBadRequest,
	)
	ErrInvalidScheduleID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid schedule id",
		http.StatusBadRequest,
	)
)
