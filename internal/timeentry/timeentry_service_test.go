package timeentry_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"fieldserve/internal/timeentry"
	timeentryerrors "fieldserve/internal/timeentry/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeTimeEntryRepository struct {
	createFn              func(ctx context.Context, e *timeentry.TimeEntry) error
	findOpenByEmployeeFn  func(ctx context.Context, companyID, employeeID string) (*timeentry.TimeEntry, error)
	findByIDAndCompanyFn  func(ctx context.Context, companyID, id string) (*timeentry.TimeEntry, error)
	findByIDsAndCompanyFn func(ctx context.Context, companyID string, ids []string) ([]timeentry.TimeEntry, error)
	findAllByCompanyFn    func(ctx context.Context, companyID, employeeID string) ([]timeentry.TimeEntry, error)
	updateFn              func(ctx context.Context, e *timeentry.TimeEntry) error
	createAdjustmentFn    func(ctx context.Context, a *timeentry.TimeEntryAdjustment) error
	listAdjustmentsFn     func(ctx context.Context, companyID, timeEntryID string) ([]timeentry.TimeEntryAdjustment, error)
}

func (f *fakeTimeEntryRepository) WithTx(tx *sql.Tx) timeentry.Repository { return f }

func (f *fakeTimeEntryRepository) Create(ctx context.Context, e *timeentry.TimeEntry) error {
	if f.createFn != nil {
		return f.createFn(ctx, e)
	}
	return nil
}

func (f *fakeTimeEntryRepository) FindOpenByEmployee(ctx context.Context, companyID, employeeID string) (*timeentry.TimeEntry, error) {
	if f.findOpenByEmployeeFn != nil {
		return f.findOpenByEmployeeFn(ctx, companyID, employeeID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTimeEntryRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*timeentry.TimeEntry, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTimeEntryRepository) FindByIDsAndCompany(ctx context.Context, companyID string, ids []string) ([]timeentry.TimeEntry, error) {
	if f.findByIDsAndCompanyFn != nil {
		return f.findByIDsAndCompanyFn(ctx, companyID, ids)
	}
	return nil, nil
}

func (f *fakeTimeEntryRepository) FindAllByCompany(ctx context.Context, companyID, employeeID string) ([]timeentry.TimeEntry, error) {
	if f.findAllByCompanyFn != nil {
		return f.findAllByCompanyFn(ctx, companyID, employeeID)
	}
	return nil, nil
}

func (f *fakeTimeEntryRepository) Update(ctx context.Context, e *timeentry.TimeEntry) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, e)
	}
	return nil
}

func (f *fakeTimeEntryRepository) CreateAdjustment(ctx context.Context, a *timeentry.TimeEntryAdjustment) error {
	if f.createAdjustmentFn != nil {
		return f.createAdjustmentFn(ctx, a)
	}
	return nil
}

func (f *fakeTimeEntryRepository) ListAdjustments(ctx context.Context, companyID, timeEntryID string) ([]timeentry.TimeEntryAdjustment, error) {
	if f.listAdjustmentsFn != nil {
		return f.listAdjustmentsFn(ctx, companyID, timeEntryID)
	}
	return nil, nil
}

type timeEntryServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service timeentry.Service
	repo    *fakeTimeEntryRepository
}

func setupTimeEntryServiceTest(t *testing.T) *timeEntryServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeTimeEntryRepository{}
	svc := timeentry.NewService(db, repo, nil)

	return &timeEntryServiceDeps{db: db, sqlMock: sqlMock, service: svc, repo: repo}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func pendingEntry(companyID, employeeID uuid.UUID, status string) *timeentry.TimeEntry {
	in := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)
	return &timeentry.TimeEntry{
		ID:                uuid.New(),
		CompanyID:         companyID,
		EmployeeID:        employeeID,
		ClockInReportedAt: in,
		Status:            status,
	}
}

func TestTimeEntryService_ClockIn(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	employeeID := uuid.New()

	t.Run("creates a pending entry", func(t *testing.T) {
		deps := setupTimeEntryServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		var created *timeentry.TimeEntry
		deps.repo.createFn = func(ctx context.Context, e *timeentry.TimeEntry) error {
			created = e
			return nil
		}

		resp, err := deps.service.ClockIn(ctx, companyID.String(), employeeID.String(), timeentry.ClockInRequest{})

		assert.NoError(t, err)
		assert.Equal(t, timeentry.StatusPendingClockIn, resp.Status)
		assert.Equal(t, employeeID.String(), resp.EmployeeID)
		assert.NotNil(t, created)
		assert.Nil(t, created.ClockOutReportedAt)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("rejects a second open entry", func(t *testing.T) {
		deps := setupTimeEntryServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		open := pendingEntry(companyID, employeeID, timeentry.StatusPendingClockIn)
		deps.repo.findOpenByEmployeeFn = func(ctx context.Context, cid, eid string) (*timeentry.TimeEntry, error) {
			return open, nil
		}

		_, err := deps.service.ClockIn(ctx, companyID.String(), employeeID.String(), timeentry.ClockInRequest{})

		assert.ErrorIs(t, err, timeentryerrors.ErrAlreadyClockedIn)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("attaches an explicit schedule", func(t *testing.T) {
		deps := setupTimeEntryServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		scheduleID := uuid.New().String()
		var created *timeentry.TimeEntry
		deps.repo.createFn = func(ctx context.Context, e *timeentry.TimeEntry) error {
			created = e
			return nil
		}

		_, err := deps.service.ClockIn(ctx, companyID.String(), employeeID.String(), timeentry.ClockInRequest{ScheduleID: &scheduleID})

		assert.NoError(t, err)
		assert.NotNil(t, created.ScheduleID)
		assert.Equal(t, scheduleID, created.ScheduleID.String())
	})
}

func TestTimeEntryService_ClockOut(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	employeeID := uuid.New()

	t.Run("closes the open entry", func(t *testing.T) {
		deps := setupTimeEntryServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		open := pendingEntry(companyID, employeeID, timeentry.StatusPendingClockIn)
		deps.repo.findOpenByEmployeeFn = func(ctx context.Context, cid, eid string) (*timeentry.TimeEntry, error) {
			return open, nil
		}

		resp, err := deps.service.ClockOut(ctx, companyID.String(), employeeID.String())

		assert.NoError(t, err)
		assert.Equal(t, timeentry.StatusPendingApproval, resp.Status)
		assert.NotNil(t, resp.ClockOutReportedAt)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("fails without an open entry", func(t *testing.T) {
		deps := setupTimeEntryServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.ClockOut(ctx, companyID.String(), employeeID.String())

		assert.ErrorIs(t, err, timeentryerrors.ErrNoOpenEntry)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestTimeEntryService_Approve(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	employeeID := uuid.New()
	actorID := uuid.New().String()

	t.Run("defaults to reported times", func(t *testing.T) {
		deps := setupTimeEntryServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		entry := pendingEntry(companyID, employeeID, timeentry.StatusPendingApproval)
		out := entry.ClockInReportedAt.Add(8 * time.Hour)
		entry.ClockOutReportedAt = &out
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*timeentry.TimeEntry, error) {
			return entry, nil
		}

		resp, err := deps.service.Approve(ctx, companyID.String(), actorID, entry.ID.String(), timeentry.ApproveRequest{})

		assert.NoError(t, err)
		assert.Equal(t, timeentry.StatusApproved, resp.Status)
		assert.Equal(t, entry.ClockInReportedAt.Format(time.RFC3339), *resp.ClockInApprovedAt)
		assert.Equal(t, out.Format(time.RFC3339), *resp.ClockOutApprovedAt)
		assert.Equal(t, actorID, *resp.ApprovedBy)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("accepts corrected times", func(t *testing.T) {
		deps := setupTimeEntryServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		entry := pendingEntry(companyID, employeeID, timeentry.StatusPendingApproval)
		out := entry.ClockInReportedAt.Add(8 * time.Hour)
		entry.ClockOutReportedAt = &out

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*timeentry.TimeEntry, error) {
			return entry, nil
		}

		correctedIn := "2024-03-04T09:15:00Z"
		correctedOut := "2024-03-04T17:30:00Z"
		resp, err := deps.service.Approve(ctx, companyID.String(), actorID, entry.ID.String(), timeentry.ApproveRequest{
			ClockInApprovedAt:  &correctedIn,
			ClockOutApprovedAt: &correctedOut,
		})

		assert.NoError(t, err)
		assert.Equal(t, correctedIn, *resp.ClockInApprovedAt)
		assert.Equal(t, correctedOut, *resp.ClockOutApprovedAt)
	})

	t.Run("rejects approved times out of order", func(t *testing.T) {
		deps := setupTimeEntryServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		entry := pendingEntry(companyID, employeeID, timeentry.StatusPendingApproval)
		out := entry.ClockInReportedAt.Add(8 * time.Hour)
		entry.ClockOutReportedAt = &out
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*timeentry.TimeEntry, error) {
			return entry, nil
		}

		correctedIn := "2024-03-04T18:00:00Z"
		_, err := deps.service.Approve(ctx, companyID.String(), actorID, entry.ID.String(), timeentry.ApproveRequest{
			ClockInApprovedAt: &correctedIn,
		})

		assert.ErrorIs(t, err, timeentryerrors.ErrInvalidOrder)
	})

	t.Run("rejects a second decision", func(t *testing.T) {
		deps := setupTimeEntryServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		entry := pendingEntry(companyID, employeeID, timeentry.StatusApproved)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*timeentry.TimeEntry, error) {
			return entry, nil
		}

		_, err := deps.service.Approve(ctx, companyID.String(), actorID, entry.ID.String(), timeentry.ApproveRequest{})

		assert.ErrorIs(t, err, timeentryerrors.ErrAlreadyDecided)
	})
}

func TestTimeEntryService_Reject(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	employeeID := uuid.New()
	actorID := uuid.New().String()

	deps := setupTimeEntryServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)

	entry := pendingEntry(companyID, employeeID, timeentry.StatusPendingApproval)
	deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*timeentry.TimeEntry, error) {
		return entry, nil
	}

	resp, err := deps.service.Reject(ctx, companyID.String(), actorID, entry.ID.String(), timeentry.RejectRequest{
		EditReason: "no matching schedule",
	})

	assert.NoError(t, err)
	assert.Equal(t, timeentry.StatusRejected, resp.Status)
	assert.Equal(t, "no matching schedule", *resp.EditReason)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestTimeEntryService_Adjust(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	employeeID := uuid.New()
	actorID := uuid.New().String()

	t.Run("records the previous times", func(t *testing.T) {
		deps := setupTimeEntryServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		entry := pendingEntry(companyID, employeeID, timeentry.StatusApproved)
		in := entry.ClockInReportedAt
		out := in.Add(8 * time.Hour)
		entry.ClockInApprovedAt = &in
		entry.ClockOutApprovedAt = &out
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*timeentry.TimeEntry, error) {
			return entry, nil
		}

		var adj *timeentry.TimeEntryAdjustment
		deps.repo.createAdjustmentFn = func(ctx context.Context, a *timeentry.TimeEntryAdjustment) error {
			adj = a
			return nil
		}

		resp, err := deps.service.Adjust(ctx, companyID.String(), actorID, entry.ID.String(), timeentry.AdjustRequest{
			ClockInApprovedAt:  "2024-03-04T08:30:00Z",
			ClockOutApprovedAt: "2024-03-04T16:30:00Z",
		})

		assert.NoError(t, err)
		assert.Equal(t, "2024-03-04T08:30:00Z", *resp.ClockInApprovedAt)
		assert.Equal(t, "2024-03-04T16:30:00Z", *resp.ClockOutApprovedAt)

		assert.NotNil(t, adj)
		assert.Equal(t, in, *adj.PrevClockIn)
		assert.Equal(t, out, *adj.PrevClockOut)
		assert.Equal(t, "manual adjustment", adj.Reason)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("refuses an entry consumed by payroll", func(t *testing.T) {
		deps := setupTimeEntryServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		runID := uuid.New()
		entry := pendingEntry(companyID, employeeID, timeentry.StatusApproved)
		entry.PayrollRunID = &runID
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*timeentry.TimeEntry, error) {
			return entry, nil
		}

		_, err := deps.service.Adjust(ctx, companyID.String(), actorID, entry.ID.String(), timeentry.AdjustRequest{
			ClockInApprovedAt:  "2024-03-04T08:30:00Z",
			ClockOutApprovedAt: "2024-03-04T16:30:00Z",
		})

		assert.ErrorIs(t, err, timeentryerrors.ErrLockedByPayroll)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("rejects out of order times", func(t *testing.T) {
		deps := setupTimeEntryServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		entry := pendingEntry(companyID, employeeID, timeentry.StatusApproved)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*timeentry.TimeEntry, error) {
			return entry, nil
		}

		_, err := deps.service.Adjust(ctx, companyID.String(), actorID, entry.ID.String(), timeentry.AdjustRequest{
			ClockInApprovedAt:  "2024-03-04T16:30:00Z",
			ClockOutApprovedAt: "2024-03-04T08:30:00Z",
		})

		assert.ErrorIs(t, err, timeentryerrors.ErrInvalidOrder)
	})
}

func TestTimeEntryService_BulkApprove(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	employeeID := uuid.New()
	actorID := uuid.New().String()

	deps := setupTimeEntryServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)

	ready := pendingEntry(companyID, employeeID, timeentry.StatusPendingApproval)
	out := ready.ClockInReportedAt.Add(8 * time.Hour)
	ready.ClockOutReportedAt = &out

	stillOpen := pendingEntry(companyID, employeeID, timeentry.StatusPendingClockIn)
	decided := pendingEntry(companyID, employeeID, timeentry.StatusApproved)
	missingID := uuid.New().String()

	deps.repo.findByIDsAndCompanyFn = func(ctx context.Context, cid string, ids []string) ([]timeentry.TimeEntry, error) {
		return []timeentry.TimeEntry{*ready, *stillOpen, *decided}, nil
	}

	var updated []string
	deps.repo.updateFn = func(ctx context.Context, e *timeentry.TimeEntry) error {
		updated = append(updated, e.ID.String())
		return nil
	}

	results, err := deps.service.BulkApprove(ctx, companyID.String(), actorID, timeentry.BulkApproveRequest{
		TimeEntryIDs: []string{ready.ID.String(), stillOpen.ID.String(), decided.ID.String(), missingID},
	})

	assert.NoError(t, err)
	assert.Len(t, results, 4)

	byID := make(map[string]timeentry.BulkApproveResult, len(results))
	for _, res := range results {
		byID[res.TimeEntryID] = res
	}

	assert.True(t, byID[ready.ID.String()].Ok)
	assert.False(t, byID[stillOpen.ID.String()].Ok)
	assert.Equal(t, "MISSING_CLOCK_OUT", byID[stillOpen.ID.String()].ErrorCode)
	assert.False(t, byID[decided.ID.String()].Ok)
	assert.Equal(t, "ALREADY_DECIDED", byID[decided.ID.String()].ErrorCode)
	assert.False(t, byID[missingID].Ok)

	assert.Equal(t, []string{ready.ID.String()}, updated)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}
