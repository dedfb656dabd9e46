package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"fieldserve/internal/events"
	"fieldserve/internal/messaging/kafka"
	payrollerrors "fieldserve/internal/payroll/errors"
	"fieldserve/internal/shared/contextutil"
	"fieldserve/internal/timeentry"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusDraft     = "DRAFT"
	StatusFinalized = "FINALIZED"
)

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	GenerateRun(ctx context.Context, companyID, actorID string, req GenerateRunRequest) (RunResponse, error)
	GetRuns(ctx context.Context, companyID string) ([]RunResponse, error)
	GetRunByID(ctx context.Context, companyID, id string) (RunResponse, error)
	FinalizeRun(ctx context.Context, companyID, actorID, id string) (RunResponse, error)
	DeleteRun(ctx context.Context, companyID, id string) error

	GetSettings(ctx context.Context, companyID string) (SettingsResponse, error)
	UpdateSettings(ctx context.Context, companyID string, req UpdateSettingsRequest) (SettingsResponse, error)

	AutoRunTick(ctx context.Context, companyID string) (AutoRunResult, error)
	AutoRunSweep(ctx context.Context) ([]AutoRunResult, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outboxRepo,
		logger: l,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) GenerateRun(
	ctx context.Context,
	companyID, actorID string,
	req GenerateRunRequest,
) (RunResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("generate run requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("period_start", req.PeriodStart),
		zap.String("period_end", req.PeriodEnd),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return RunResponse{}, payrollerrors.ErrRunNotFound
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return RunResponse{}, payrollerrors.ErrRunNotFound
	}

	periodStart, err := parseDate(req.PeriodStart)
	if err != nil {
		return RunResponse{}, err
	}
	periodEnd, err := parseDate(req.PeriodEnd)
	if err != nil {
		return RunResponse{}, err
	}
	if periodStart.After(periodEnd) {
		return RunResponse{}, payrollerrors.ErrInvalidPeriod
	}

	today := truncateToDate(s.now())
	if !periodEnd.Before(today) {
		return RunResponse{}, payrollerrors.ErrPeriodNotComplete
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("generate run begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return RunResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	overlap, err := qtx.HasOverlappingRun(ctx, companyID, periodStart, periodEnd)
	if err != nil {
		return RunResponse{}, err
	}
	if overlap {
		return RunResponse{}, payrollerrors.ErrRunOverlap
	}

	entries, err := qtx.FindEligibleEntries(ctx, companyID, periodStart, periodEnd)
	if err != nil {
		return RunResponse{}, err
	}
	if len(entries) == 0 {
		return RunResponse{}, payrollerrors.ErrNoEligibleEntries
	}

	byEmployee := make(map[string][]timeentry.TimeEntry)
	for _, e := range entries {
		key := e.EmployeeID.String()
		byEmployee[key] = append(byEmployee[key], e)
	}

	employeeIDs := make([]string, 0, len(byEmployee))
	for id := range byEmployee {
		employeeIDs = append(employeeIDs, id)
	}
	sort.Strings(employeeIDs)

	rates, err := qtx.EmployeeRates(ctx, companyID, employeeIDs)
	if err != nil {
		return RunResponse{}, err
	}

	run := &PayrollRun{
		ID:          uuid.New(),
		CompanyID:   companyUUID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Status:      StatusDraft,
		CreatedBy:   actorUUID,
	}

	if err := qtx.CreateRun(ctx, run); err != nil {
		s.logger.Error("generate run persist failed", zap.String("request_id", rid), zap.Error(err))
		return RunResponse{}, err
	}

	lines := make([]PayrollRunLine, 0, len(employeeIDs))
	for _, employeeID := range employeeIDs {
		rate, ok := rates[employeeID]
		if !ok {
			s.logger.Warn("generate run skipping employee without rate",
				zap.String("request_id", rid),
				zap.String("employee_id", employeeID),
			)
			continue
		}

		line, consumed := buildEmployeeLine(run, employeeID, byEmployee[employeeID], rate)
		for i := range consumed {
			if err := qtx.ConsumeEntry(ctx, &consumed[i]); err != nil {
				s.logger.Error("generate run consume entry failed",
					zap.String("entry_id", consumed[i].ID.String()),
					zap.Error(err),
				)
				return RunResponse{}, err
			}
		}

		lines = append(lines, line)
		run.TotalGrossPayCents += line.TotalGrossPayCents
	}

	if len(lines) == 0 {
		return RunResponse{}, payrollerrors.ErrNoEligibleEntries
	}

	if err := qtx.CreateLines(ctx, lines); err != nil {
		s.logger.Error("generate run persist lines failed", zap.String("request_id", rid), zap.Error(err))
		return RunResponse{}, err
	}

	if err := qtx.UpdateRun(ctx, run); err != nil {
		return RunResponse{}, err
	}

	if err := s.queueRunCreatedEvent(ctx, tx, rid, actorID, run); err != nil {
		return RunResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("generate run commit failed", zap.String("request_id", rid), zap.Error(err))
		return RunResponse{}, err
	}

	s.logger.Info("payroll run generated",
		zap.String("request_id", rid),
		zap.String("run_id", run.ID.String()),
		zap.Int("employees", len(lines)),
		zap.Int64("total_gross_pay_cents", run.TotalGrossPayCents),
	)

	return mapRunToResponse(*run, lines), nil
}

// buildEmployeeLine splits one employee's entries across the weekly regular
// budget and prices each bucket with the snapshotted rate. The line totals are
// the sums of the per-entry allocations, so stub entries derived from the same
// allocations always reconcile against the line.
func buildEmployeeLine(
	run *PayrollRun,
	employeeID string,
	entries []timeentry.TimeEntry,
	rateCents int64,
) (PayrollRunLine, []timeentry.TimeEntry) {
	inputs := make([]EntryHours, 0, len(entries))
	totalHours := 0.0
	for _, e := range entries {
		hours := e.ClockOutApprovedAt.Sub(*e.ClockInApprovedAt).Hours()
		totalHours += hours
		inputs = append(inputs, EntryHours{
			EntryID: e.ID,
			ClockIn: *e.ClockInApprovedAt,
			Hours:   hours,
		})
	}

	allocs := AllocateEntries(inputs, RegularBudget(totalHours), rateCents, OvertimeMultiplier)

	line := PayrollRunLine{
		ID:                 uuid.New(),
		PayrollRunID:       run.ID,
		CompanyID:          run.CompanyID,
		EmployeeID:         uuid.MustParse(employeeID),
		HourlyRateCents:    rateCents,
		OvertimeMultiplier: OvertimeMultiplier,
	}

	consumed := make([]timeentry.TimeEntry, 0, len(entries))
	for _, e := range entries {
		alloc := allocs[e.ID]

		e.PayrollRunID = &run.ID
		e.RegularHours = alloc.RegularHours
		e.OvertimeHours = alloc.OvertimeHours
		e.GrossPayCents = alloc.GrossPayCents
		consumed = append(consumed, e)

		line.RegularHours += alloc.RegularHours
		line.OvertimeHours += alloc.OvertimeHours
		line.RegularPayCents += alloc.RegularPayCents
		line.OvertimePayCents += alloc.OvertimePayCents
	}
	line.TotalGrossPayCents = line.RegularPayCents + line.OvertimePayCents

	return line, consumed
}

func (s *service) queueRunCreatedEvent(ctx context.Context, tx *sql.Tx, rid, actorID string, run *PayrollRun) error {
	if s.outbox == nil {
		return nil
	}

	event := events.PayrollRunCreatedEvent{
		EventType:    "payroll_run_created",
		RequestID:    rid,
		PayrollRunID: run.ID.String(),
		CompanyID:    run.CompanyID.String(),
		PeriodStart:  run.PeriodStart.Format("2006-01-02"),
		PeriodEnd:    run.PeriodEnd.Format("2006-01-02"),
		CreatedBy:    actorID,
		OccurredAt:   s.now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal run created event failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "payroll_run",
		AggregateID:   run.ID.String(),
		EventType:     event.EventType,
		Topic:         events.PayrollRunCreatedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("queue run created event failed",
			zap.String("run_id", run.ID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) GetRuns(ctx context.Context, companyID string) ([]RunResponse, error) {
	runs, err := s.repo.FindRunsByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	resp := make([]RunResponse, len(runs))
	for i, run := range runs {
		resp[i] = mapRunToResponse(run, nil)
	}
	return resp, nil
}

func (s *service) GetRunByID(ctx context.Context, companyID, id string) (RunResponse, error) {
	run, err := s.repo.FindRunByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RunResponse{}, payrollerrors.ErrRunNotFound
		}
		return RunResponse{}, err
	}

	lines, err := s.repo.FindLinesByRun(ctx, companyID, id)
	if err != nil {
		return RunResponse{}, err
	}

	return mapRunToResponse(*run, lines), nil
}

func (s *service) FinalizeRun(ctx context.Context, companyID, actorID, id string) (RunResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	run, err := qtx.FindRunByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RunResponse{}, payrollerrors.ErrRunNotFound
		}
		return RunResponse{}, err
	}
	if run.Status == StatusFinalized {
		return RunResponse{}, payrollerrors.ErrRunAlreadyFinalized
	}

	run.Status = StatusFinalized
	if err := qtx.UpdateRun(ctx, run); err != nil {
		return RunResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return RunResponse{}, err
	}

	s.logger.Info("payroll run finalized",
		zap.String("run_id", id),
		zap.String("actor_id", actorID),
	)

	return mapRunToResponse(*run, nil), nil
}

func (s *service) DeleteRun(ctx context.Context, companyID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	run, err := qtx.FindRunByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return payrollerrors.ErrRunNotFound
		}
		return err
	}
	if run.Status != StatusDraft {
		return payrollerrors.ErrRunNotDraft
	}

	// Releasing entries makes them eligible again before the run disappears.
	if err := qtx.ReleaseEntries(ctx, companyID, id); err != nil {
		return err
	}
	if err := qtx.DeleteStubsByRun(ctx, companyID, id); err != nil {
		return err
	}
	if err := qtx.DeleteRun(ctx, companyID, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("payroll run deleted", zap.String("run_id", id))
	return nil
}

func (s *service) GetSettings(ctx context.Context, companyID string) (SettingsResponse, error) {
	settings, err := s.repo.FindSettings(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SettingsResponse{}, payrollerrors.ErrSettingsNotFound
		}
		return SettingsResponse{}, err
	}
	return mapSettingsToResponse(*settings), nil
}

func (s *service) UpdateSettings(ctx context.Context, companyID string, req UpdateSettingsRequest) (SettingsResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return SettingsResponse{}, payrollerrors.ErrSettingsNotFound
	}

	settings := &PayrollSettings{
		ID:             uuid.New(),
		CompanyID:      companyUUID,
		PeriodStartDay: *req.PeriodStartDay,
		PeriodEndDay:   *req.PeriodEndDay,
		AutoGenerate:   *req.AutoGenerate,
	}

	existing, err := s.repo.FindSettings(ctx, companyID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return SettingsResponse{}, err
	}
	if err == nil {
		settings.LastGeneratedEndDate = existing.LastGeneratedEndDate
	}

	if err := s.repo.UpsertSettings(ctx, settings); err != nil {
		return SettingsResponse{}, err
	}

	s.logger.Info("payroll settings updated",
		zap.String("company_id", companyID),
		zap.Int("period_start_day", settings.PeriodStartDay),
		zap.Int("period_end_day", settings.PeriodEndDay),
		zap.Bool("auto_generate", settings.AutoGenerate),
	)

	return mapSettingsToResponse(*settings), nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, payrollerrors.ErrInvalidDate
	}
	return t, nil
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
