package payroll

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	payrollerrors "fieldserve/internal/payroll/errors"
	"fieldserve/internal/timeentry"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

//go:generate mockgen -source=paystub_service.go -destination=mock/paystub_service_mock.go -package=mock
type StubService interface {
	BuildStubs(ctx context.Context, companyID, runID string) ([]StubResponse, error)
	GetStubs(ctx context.Context, companyID, runID string) ([]StubResponse, error)
	GetStubForEmployee(ctx context.Context, companyID, runID, employeeID string) (StubResponse, error)
}

type stubService struct {
	db     *sql.DB
	repo   Repository
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewStubService(db *sql.DB, repo Repository, logger ...*zap.Logger) StubService {
	l := zap.L().Named("payroll.stubs")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.stubs")
	}
	return &stubService{
		db:     db,
		repo:   repo,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

// BuildStubs derives one stub per run line, with daily entries summed from
// the per-entry allocations persisted at generation time. Rebuilding is
// idempotent: stubs are upserted and their daily entries replaced wholesale.
// Concurrent builds for the same run collapse into a single execution.
func (s *stubService) BuildStubs(ctx context.Context, companyID, runID string) ([]StubResponse, error) {
	v, err, _ := s.sf.Do(companyID+":"+runID, func() (any, error) {
		return s.buildStubs(ctx, companyID, runID)
	})
	if err != nil {
		return nil, err
	}
	return v.([]StubResponse), nil
}

func (s *stubService) buildStubs(ctx context.Context, companyID, runID string) ([]StubResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	run, err := qtx.FindRunByIDAndCompany(ctx, companyID, runID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payrollerrors.ErrRunNotFound
		}
		return nil, err
	}

	lines, err := qtx.FindLinesByRun(ctx, companyID, runID)
	if err != nil {
		return nil, err
	}

	resp := make([]StubResponse, 0, len(lines))
	for _, line := range lines {
		entries, err := qtx.FindEntriesByRunAndEmployee(ctx, companyID, runID, line.EmployeeID.String())
		if err != nil {
			return nil, err
		}

		stub := &PayStub{
			ID:              uuid.New(),
			PayrollRunID:    run.ID,
			CompanyID:       run.CompanyID,
			EmployeeID:      line.EmployeeID,
			PeriodStart:     run.PeriodStart,
			PeriodEnd:       run.PeriodEnd,
			RegularHours:    line.RegularHours,
			OvertimeHours:   line.OvertimeHours,
			HourlyRateCents: line.HourlyRateCents,
			GrossPayCents:   line.TotalGrossPayCents,
		}

		existing, err := qtx.FindStubByRunAndEmployee(ctx, companyID, runID, line.EmployeeID.String())
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err == nil {
			stub.ID = existing.ID
		}

		if err := qtx.UpsertStub(ctx, stub); err != nil {
			return nil, err
		}
		if err := qtx.DeleteStubEntries(ctx, stub.ID.String()); err != nil {
			return nil, err
		}

		days := bucketByDay(stub, entries)
		if err := qtx.CreateStubEntries(ctx, days); err != nil {
			return nil, err
		}
		stub.Entries = days

		resp = append(resp, mapStubToResponse(*stub))
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("pay stubs built",
		zap.String("run_id", runID),
		zap.Int("stubs", len(resp)),
	)
	return resp, nil
}

// bucketByDay folds an employee's consumed entries into one row per calendar
// day, keyed by the approved clock-in date in UTC.
func bucketByDay(stub *PayStub, entries []timeentry.TimeEntry) []PayStubEntry {
	type bucket struct {
		regular  float64
		overtime float64
		gross    int64
	}
	byDay := make(map[time.Time]*bucket)
	for _, e := range entries {
		day := truncateToDate(e.ClockInApprovedAt.UTC())
		b, ok := byDay[day]
		if !ok {
			b = &bucket{}
			byDay[day] = b
		}
		b.regular += e.RegularHours
		b.overtime += e.OvertimeHours
		b.gross += e.GrossPayCents
	}

	days := make([]time.Time, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	rows := make([]PayStubEntry, 0, len(days))
	for _, day := range days {
		b := byDay[day]
		rows = append(rows, PayStubEntry{
			ID:            uuid.New(),
			PayStubID:     stub.ID,
			CompanyID:     stub.CompanyID,
			WorkDate:      day,
			RegularHours:  b.regular,
			OvertimeHours: b.overtime,
			GrossPayCents: b.gross,
		})
	}
	return rows
}

func (s *stubService) GetStubs(ctx context.Context, companyID, runID string) ([]StubResponse, error) {
	if _, err := s.repo.FindRunByIDAndCompany(ctx, companyID, runID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payrollerrors.ErrRunNotFound
		}
		return nil, err
	}

	stubs, err := s.repo.FindStubsByRun(ctx, companyID, runID)
	if err != nil {
		return nil, err
	}

	resp := make([]StubResponse, len(stubs))
	for i, stub := range stubs {
		resp[i] = mapStubToResponse(stub)
	}
	return resp, nil
}

func (s *stubService) GetStubForEmployee(ctx context.Context, companyID, runID, employeeID string) (StubResponse, error) {
	stub, err := s.repo.FindStubByRunAndEmployee(ctx, companyID, runID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StubResponse{}, payrollerrors.ErrStubNotFound
		}
		return StubResponse{}, err
	}
	return mapStubToResponse(*stub), nil
}
