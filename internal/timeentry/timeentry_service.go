package timeentry

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fieldserve/internal/schedule"
	"fieldserve/internal/shared/apperror"
	"fieldserve/internal/shared/contextutil"
	timeentryerrors "fieldserve/internal/timeentry/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPendingClockIn  = "PENDING_CLOCK_IN"
	StatusPendingApproval = "PENDING_APPROVAL"
	StatusApproved        = "APPROVED"
	StatusRejected        = "REJECTED"
)

//go:generate mockgen -source=timeentry_service.go -destination=mock/timeentry_service_mock.go -package=mock
type Service interface {
	ClockIn(ctx context.Context, companyID, employeeID string, req ClockInRequest) (TimeEntryResponse, error)
	ClockOut(ctx context.Context, companyID, employeeID string) (TimeEntryResponse, error)
	Approve(ctx context.Context, companyID, actorID, id string, req ApproveRequest) (TimeEntryResponse, error)
	Reject(ctx context.Context, companyID, actorID, id string, req RejectRequest) (TimeEntryResponse, error)
	BulkApprove(ctx context.Context, companyID, actorID string, req BulkApproveRequest) ([]BulkApproveResult, error)
	Adjust(ctx context.Context, companyID, actorID, id string, req AdjustRequest) (TimeEntryResponse, error)
	GetAll(ctx context.Context, companyID, employeeID string) ([]TimeEntryResponse, error)
	GetByID(ctx context.Context, companyID, id string) (TimeEntryResponse, error)
	ListAdjustments(ctx context.Context, companyID, id string) ([]AdjustmentResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	schedules schedule.Repository
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(db *sql.DB, repo Repository, schedules schedule.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("timeentry.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("timeentry.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		schedules: schedules,
		logger:    l,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) ClockIn(ctx context.Context, companyID, employeeID string, req ClockInRequest) (TimeEntryResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("clock in requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("employee_id", employeeID),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TimeEntryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return TimeEntryResponse{}, timeentryerrors.ErrEntryNotFound
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return TimeEntryResponse{}, timeentryerrors.ErrEntryNotFound
	}

	// Friendly pre-check only: the partial unique index on time_entries is
	// what actually closes the race between concurrent clock-ins.
	open, err := qtx.FindOpenByEmployee(ctx, companyID, employeeID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return TimeEntryResponse{}, err
	}
	if err == nil {
		return TimeEntryResponse{}, timeentryerrors.ErrAlreadyClockedIn.WithDetails(map[string]any{
			"open_entry_id":        open.ID.String(),
			"clock_in_reported_at": open.ClockInReportedAt.Format(time.RFC3339),
		})
	}

	now := s.now()
	entry := &TimeEntry{
		ID:                uuid.New(),
		CompanyID:         companyUUID,
		EmployeeID:        employeeUUID,
		ClockInReportedAt: now,
		Status:            StatusPendingClockIn,
	}

	if req.ScheduleID != nil && *req.ScheduleID != "" {
		scheduleUUID, err := uuid.Parse(*req.ScheduleID)
		if err != nil {
			return TimeEntryResponse{}, timeentryerrors.ErrInvalidScheduleID
		}
		entry.ScheduleID = &scheduleUUID
	} else if s.schedules != nil {
		// Attach the same-day schedule when one exists.
		sched, err := s.schedules.FindForEmployeeOnDate(ctx, companyID, employeeID, now)
		if err != nil {
			return TimeEntryResponse{}, err
		}
		if sched != nil {
			id := sched.ID
			entry.ScheduleID = &id
		}
	}

	if err := qtx.Create(ctx, entry); err != nil {
		return TimeEntryResponse{}, s.mapClockInError(ctx, companyID, employeeID, err)
	}

	if err := tx.Commit(); err != nil {
		return TimeEntryResponse{}, err
	}

	s.logger.Info("clock in success",
		zap.String("request_id", rid),
		zap.String("time_entry_id", entry.ID.String()),
		zap.String("employee_id", employeeID),
	)
	return mapToResponse(*entry), nil
}

// mapClockInError turns the unique-index violation raised by a lost race into
// the same error the pre-check produces, including the open entry's start.
func (s *service) mapClockInError(ctx context.Context, companyID, employeeID string, err error) error {
	if !isUniqueViolation(err, "uq_open_time_entry") {
		return err
	}

	open, findErr := s.repo.FindOpenByEmployee(ctx, companyID, employeeID)
	if findErr != nil {
		return timeentryerrors.ErrAlreadyClockedIn
	}
	return timeentryerrors.ErrAlreadyClockedIn.WithDetails(map[string]any{
		"open_entry_id":        open.ID.String(),
		"clock_in_reported_at": open.ClockInReportedAt.Format(time.RFC3339),
	})
}

func (s *service) ClockOut(ctx context.Context, companyID, employeeID string) (TimeEntryResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TimeEntryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	entry, err := qtx.FindOpenByEmployee(ctx, companyID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TimeEntryResponse{}, timeentryerrors.ErrNoOpenEntry
		}
		return TimeEntryResponse{}, err
	}

	now := s.now()
	entry.ClockOutReportedAt = &now
	// Clock-out always demands a fresh approval decision, even when the
	// clock-in had already been approved.
	entry.Status = StatusPendingApproval

	if err := qtx.Update(ctx, entry); err != nil {
		return TimeEntryResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return TimeEntryResponse{}, err
	}

	s.logger.Info("clock out success",
		zap.String("request_id", rid),
		zap.String("time_entry_id", entry.ID.String()),
		zap.String("employee_id", employeeID),
	)
	return mapToResponse(*entry), nil
}

func (s *service) Approve(ctx context.Context, companyID, actorID, id string, req ApproveRequest) (TimeEntryResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TimeEntryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	entry, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TimeEntryResponse{}, timeentryerrors.ErrEntryNotFound
		}
		return TimeEntryResponse{}, err
	}

	if err := s.applyApproval(entry, actorID, req); err != nil {
		return TimeEntryResponse{}, err
	}

	if err := qtx.Update(ctx, entry); err != nil {
		return TimeEntryResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return TimeEntryResponse{}, err
	}

	s.logger.Info("time entry approved",
		zap.String("time_entry_id", entry.ID.String()),
		zap.String("approved_by", actorID),
	)
	return mapToResponse(*entry), nil
}

// applyApproval mutates the entry in place. Approved clock-in defaults to the
// reported clock-in; approved clock-out is only set when a reported clock-out
// exists.
func (s *service) applyApproval(entry *TimeEntry, actorID string, req ApproveRequest) error {
	if entry.Status == StatusApproved || entry.Status == StatusRejected {
		return timeentryerrors.ErrAlreadyDecided
	}

	approverUUID, err := uuid.Parse(actorID)
	if err != nil {
		return timeentryerrors.ErrEntryNotFound
	}

	approvedIn := entry.ClockInReportedAt
	if req.ClockInApprovedAt != nil && *req.ClockInApprovedAt != "" {
		t, err := time.Parse(time.RFC3339, *req.ClockInApprovedAt)
		if err != nil {
			return timeentryerrors.ErrInvalidTimestamp
		}
		approvedIn = t.UTC()
	}

	var approvedOut *time.Time
	if entry.ClockOutReportedAt != nil {
		out := *entry.ClockOutReportedAt
		if req.ClockOutApprovedAt != nil && *req.ClockOutApprovedAt != "" {
			t, err := time.Parse(time.RFC3339, *req.ClockOutApprovedAt)
			if err != nil {
				return timeentryerrors.ErrInvalidTimestamp
			}
			out = t.UTC()
		}
		if !out.After(approvedIn) {
			return timeentryerrors.ErrInvalidOrder
		}
		approvedOut = &out
	}

	now := s.now()
	entry.ClockInApprovedAt = &approvedIn
	entry.ClockOutApprovedAt = approvedOut
	entry.Status = StatusApproved
	entry.ApprovedBy = &approverUUID
	entry.ApprovedAt = &now
	if req.EditReason != nil && *req.EditReason != "" {
		entry.EditReason = req.EditReason
	}
	return nil
}

func (s *service) Reject(ctx context.Context, companyID, actorID, id string, req RejectRequest) (TimeEntryResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TimeEntryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	entry, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TimeEntryResponse{}, timeentryerrors.ErrEntryNotFound
		}
		return TimeEntryResponse{}, err
	}

	if entry.Status == StatusApproved || entry.Status == StatusRejected {
		return TimeEntryResponse{}, timeentryerrors.ErrAlreadyDecided
	}

	approverUUID, err := uuid.Parse(actorID)
	if err != nil {
		return TimeEntryResponse{}, timeentryerrors.ErrEntryNotFound
	}

	now := s.now()
	entry.Status = StatusRejected
	entry.ApprovedBy = &approverUUID
	entry.ApprovedAt = &now
	entry.EditReason = &req.EditReason

	if err := qtx.Update(ctx, entry); err != nil {
		return TimeEntryResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return TimeEntryResponse{}, err
	}

	s.logger.Info("time entry rejected",
		zap.String("time_entry_id", entry.ID.String()),
		zap.String("rejected_by", actorID),
	)
	return mapToResponse(*entry), nil
}

// BulkApprove approves each entry with its reported times. Entries that lack
// a clock-out or are already decided are skipped and reported per id; the
// batch itself always succeeds.
func (s *service) BulkApprove(ctx context.Context, companyID, actorID string, req BulkApproveRequest) ([]BulkApproveResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	entries, err := qtx.FindByIDsAndCompany(ctx, companyID, req.TimeEntryIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*TimeEntry, len(entries))
	for i := range entries {
		byID[entries[i].ID.String()] = &entries[i]
	}

	results := make([]BulkApproveResult, 0, len(req.TimeEntryIDs))
	for _, id := range req.TimeEntryIDs {
		entry, ok := byID[id]
		if !ok {
			results = append(results, failureResult(id, timeentryerrors.ErrEntryNotFound))
			continue
		}
		if entry.Status == StatusApproved || entry.Status == StatusRejected {
			results = append(results, failureResult(id, timeentryerrors.ErrAlreadyDecided))
			continue
		}
		if entry.ClockOutReportedAt == nil {
			results = append(results, failureResult(id, timeentryerrors.ErrMissingClockOut))
			continue
		}

		if err := s.applyApproval(entry, actorID, ApproveRequest{}); err != nil {
			results = append(results, failureResult(id, err))
			continue
		}
		if err := qtx.Update(ctx, entry); err != nil {
			return nil, err
		}
		results = append(results, BulkApproveResult{TimeEntryID: id, Ok: true})
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("bulk approve finished",
		zap.String("company_id", companyID),
		zap.Int("requested", len(req.TimeEntryIDs)),
	)
	return results, nil
}

func failureResult(id string, err error) BulkApproveResult {
	res := BulkApproveResult{TimeEntryID: id, Ok: false, Message: err.Error()}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		res.ErrorCode = appErr.Code
	}
	return res
}

func (s *service) Adjust(ctx context.Context, companyID, actorID, id string, req AdjustRequest) (TimeEntryResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TimeEntryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	entry, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TimeEntryResponse{}, timeentryerrors.ErrEntryNotFound
		}
		return TimeEntryResponse{}, err
	}

	// A consumed entry is sealed; only deleting the draft run releases it.
	if entry.PayrollRunID != nil {
		return TimeEntryResponse{}, timeentryerrors.ErrLockedByPayroll
	}

	newIn, err := time.Parse(time.RFC3339, req.ClockInApprovedAt)
	if err != nil {
		return TimeEntryResponse{}, timeentryerrors.ErrInvalidTimestamp
	}
	newOut, err := time.Parse(time.RFC3339, req.ClockOutApprovedAt)
	if err != nil {
		return TimeEntryResponse{}, timeentryerrors.ErrInvalidTimestamp
	}
	newIn, newOut = newIn.UTC(), newOut.UTC()
	if !newOut.After(newIn) {
		return TimeEntryResponse{}, timeentryerrors.ErrInvalidOrder
	}

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return TimeEntryResponse{}, timeentryerrors.ErrEntryNotFound
	}

	reason := "manual adjustment"
	if req.EditReason != nil && *req.EditReason != "" {
		reason = *req.EditReason
	}

	// Preserve the prior approved times, falling back to reported times when
	// the entry was never approved.
	prevIn := entry.ClockInApprovedAt
	if prevIn == nil {
		v := entry.ClockInReportedAt
		prevIn = &v
	}
	prevOut := entry.ClockOutApprovedAt
	if prevOut == nil {
		prevOut = entry.ClockOutReportedAt
	}

	adj := &TimeEntryAdjustment{
		ID:           uuid.New(),
		CompanyID:    entry.CompanyID,
		TimeEntryID:  entry.ID,
		PrevClockIn:  prevIn,
		PrevClockOut: prevOut,
		NewClockIn:   newIn,
		NewClockOut:  newOut,
		Reason:       reason,
		ActorID:      actorUUID,
	}
	if err := qtx.CreateAdjustment(ctx, adj); err != nil {
		return TimeEntryResponse{}, err
	}

	entry.ClockInApprovedAt = &newIn
	entry.ClockOutApprovedAt = &newOut
	entry.Status = StatusApproved
	entry.EditReason = &reason
	if entry.ApprovedBy == nil {
		entry.ApprovedBy = &actorUUID
	}
	if entry.ApprovedAt == nil {
		now := s.now()
		entry.ApprovedAt = &now
	}

	if err := qtx.Update(ctx, entry); err != nil {
		return TimeEntryResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return TimeEntryResponse{}, err
	}

	s.logger.Info("time entry adjusted",
		zap.String("time_entry_id", entry.ID.String()),
		zap.String("actor_id", actorID),
	)
	return mapToResponse(*entry), nil
}

func (s *service) GetAll(ctx context.Context, companyID, employeeID string) ([]TimeEntryResponse, error) {
	entries, err := s.repo.FindAllByCompany(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(entries), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (TimeEntryResponse, error) {
	entry, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TimeEntryResponse{}, timeentryerrors.ErrEntryNotFound
		}
		return TimeEntryResponse{}, err
	}
	return mapToResponse(*entry), nil
}

func (s *service) ListAdjustments(ctx context.Context, companyID, id string) ([]AdjustmentResponse, error) {
	adjustments, err := s.repo.ListAdjustments(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	resp := make([]AdjustmentResponse, len(adjustments))
	for i, a := range adjustments {
		resp[i] = mapAdjustmentToResponse(a)
	}
	return resp, nil
}
