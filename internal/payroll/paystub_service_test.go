package payroll_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"fieldserve/internal/payroll"
	payrollerrors "fieldserve/internal/payroll/errors"
	"fieldserve/internal/timeentry"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type stubServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service payroll.StubService
	repo    *fakePayrollRepository
}

func setupStubServiceTest(t *testing.T) *stubServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakePayrollRepository{}
	svc := payroll.NewStubService(db, repo)

	return &stubServiceDeps{db: db, sqlMock: sqlMock, service: svc, repo: repo}
}

func consumedEntry(runID, companyID, employeeID uuid.UUID, day int, regular, overtime float64, gross int64) timeentry.TimeEntry {
	in := time.Date(2024, time.March, day, 9, 0, 0, 0, time.UTC)
	out := in.Add(time.Duration((regular + overtime) * float64(time.Hour)))
	return timeentry.TimeEntry{
		ID:                 uuid.New(),
		CompanyID:          companyID,
		EmployeeID:         employeeID,
		ClockInApprovedAt:  &in,
		ClockOutApprovedAt: &out,
		Status:             timeentry.StatusApproved,
		PayrollRunID:       &runID,
		RegularHours:       regular,
		OvertimeHours:      overtime,
		GrossPayCents:      gross,
	}
}

func draftRun(runID, companyID uuid.UUID) *payroll.PayrollRun {
	return &payroll.PayrollRun{
		ID:          runID,
		CompanyID:   companyID,
		PeriodStart: time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
		Status:      payroll.StatusDraft,
		CreatedBy:   uuid.New(),
	}
}

func TestStubService_BuildStubs(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	runID := uuid.New()
	employeeID := uuid.New()

	deps := setupStubServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)

	deps.repo.findRunByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*payroll.PayrollRun, error) {
		return draftRun(runID, companyID), nil
	}
	deps.repo.findLinesByRunFn = func(ctx context.Context, cid, rid string) ([]payroll.PayrollRunLine, error) {
		return []payroll.PayrollRunLine{{
			ID:                 uuid.New(),
			PayrollRunID:       runID,
			CompanyID:          companyID,
			EmployeeID:         employeeID,
			RegularHours:       20,
			OvertimeHours:      2,
			HourlyRateCents:    2000,
			OvertimeMultiplier: 1.5,
			RegularPayCents:    40000,
			OvertimePayCents:   6000,
			TotalGrossPayCents: 46000,
		}}, nil
	}

	// Two entries on March 4, one on March 5. The first day should fold
	// into a single row.
	entries := []timeentry.TimeEntry{
		consumedEntry(runID, companyID, employeeID, 4, 6, 0, 12000),
		consumedEntry(runID, companyID, employeeID, 4, 4, 0, 8000),
		consumedEntry(runID, companyID, employeeID, 5, 10, 2, 26000),
	}
	deps.repo.findEntriesByRunEmployeeFn = func(ctx context.Context, cid, rid, eid string) ([]timeentry.TimeEntry, error) {
		return entries, nil
	}

	var createdEntries []payroll.PayStubEntry
	deps.repo.createStubEntriesFn = func(ctx context.Context, rows []payroll.PayStubEntry) error {
		createdEntries = rows
		return nil
	}

	stubs, err := deps.service.BuildStubs(ctx, companyID.String(), runID.String())

	assert.NoError(t, err)
	assert.Len(t, stubs, 1)

	stub := stubs[0]
	assert.Equal(t, employeeID.String(), stub.EmployeeID)
	assert.Equal(t, 20.0, stub.RegularHours)
	assert.Equal(t, 2.0, stub.OvertimeHours)
	assert.Equal(t, int64(46000), stub.GrossPayCents)

	assert.Len(t, createdEntries, 2)
	assert.Equal(t, time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC), createdEntries[0].WorkDate)
	assert.Equal(t, 10.0, createdEntries[0].RegularHours)
	assert.Equal(t, int64(20000), createdEntries[0].GrossPayCents)
	assert.Equal(t, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), createdEntries[1].WorkDate)
	assert.Equal(t, 2.0, createdEntries[1].OvertimeHours)
	assert.Equal(t, int64(26000), createdEntries[1].GrossPayCents)

	// Daily rows reconcile against the stub total.
	var daySum int64
	for _, row := range createdEntries {
		daySum += row.GrossPayCents
	}
	assert.Equal(t, stub.GrossPayCents, daySum)

	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestStubService_BuildStubs_ReusesExistingStub(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	runID := uuid.New()
	employeeID := uuid.New()
	existingStubID := uuid.New()

	deps := setupStubServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)

	deps.repo.findRunByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*payroll.PayrollRun, error) {
		return draftRun(runID, companyID), nil
	}
	deps.repo.findLinesByRunFn = func(ctx context.Context, cid, rid string) ([]payroll.PayrollRunLine, error) {
		return []payroll.PayrollRunLine{{
			ID:                 uuid.New(),
			PayrollRunID:       runID,
			CompanyID:          companyID,
			EmployeeID:         employeeID,
			RegularHours:       8,
			HourlyRateCents:    2000,
			OvertimeMultiplier: 1.5,
			RegularPayCents:    16000,
			TotalGrossPayCents: 16000,
		}}, nil
	}
	deps.repo.findEntriesByRunEmployeeFn = func(ctx context.Context, cid, rid, eid string) ([]timeentry.TimeEntry, error) {
		return []timeentry.TimeEntry{consumedEntry(runID, companyID, employeeID, 4, 8, 0, 16000)}, nil
	}
	deps.repo.findStubByRunAndEmployeeFn = func(ctx context.Context, cid, rid, eid string) (*payroll.PayStub, error) {
		return &payroll.PayStub{ID: existingStubID, PayrollRunID: runID, CompanyID: companyID, EmployeeID: employeeID}, nil
	}

	var upserted *payroll.PayStub
	deps.repo.upsertStubFn = func(ctx context.Context, stub *payroll.PayStub) error {
		upserted = stub
		return nil
	}
	var clearedStubID string
	deps.repo.deleteStubEntriesFn = func(ctx context.Context, stubID string) error {
		clearedStubID = stubID
		return nil
	}

	stubs, err := deps.service.BuildStubs(ctx, companyID.String(), runID.String())

	assert.NoError(t, err)
	assert.Len(t, stubs, 1)
	assert.Equal(t, existingStubID, upserted.ID)
	assert.Equal(t, existingStubID.String(), clearedStubID)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestStubService_BuildStubs_RunNotFound(t *testing.T) {
	ctx := context.Background()

	deps := setupStubServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)
	deps.repo.findRunByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*payroll.PayrollRun, error) {
		return nil, gorm.ErrRecordNotFound
	}

	_, err := deps.service.BuildStubs(ctx, uuid.New().String(), uuid.New().String())

	assert.ErrorIs(t, err, payrollerrors.ErrRunNotFound)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestStubService_GetStubs_RunNotFound(t *testing.T) {
	ctx := context.Background()

	deps := setupStubServiceTest(t)
	defer deps.db.Close()

	_, err := deps.service.GetStubs(ctx, uuid.New().String(), uuid.New().String())

	assert.ErrorIs(t, err, payrollerrors.ErrRunNotFound)
}

func TestStubService_GetStubForEmployee_NotFound(t *testing.T) {
	ctx := context.Background()

	deps := setupStubServiceTest(t)
	defer deps.db.Close()

	_, err := deps.service.GetStubForEmployee(ctx, uuid.New().String(), uuid.New().String(), uuid.New().String())

	assert.ErrorIs(t, err, payrollerrors.ErrStubNotFound)
}
