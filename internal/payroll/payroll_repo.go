package payroll

import (
	"context"
	"database/sql"
	"time"

	"fieldserve/internal/tenant"
	"fieldserve/internal/timeentry"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	CreateRun(ctx context.Context, run *PayrollRun) error
	CreateLines(ctx context.Context, lines []PayrollRunLine) error
	FindRunsByCompany(ctx context.Context, companyID string) ([]PayrollRun, error)
	FindRunByIDAndCompany(ctx context.Context, companyID, id string) (*PayrollRun, error)
	FindLinesByRun(ctx context.Context, companyID, runID string) ([]PayrollRunLine, error)
	UpdateRun(ctx context.Context, run *PayrollRun) error
	DeleteRun(ctx context.Context, companyID, id string) error
	HasOverlappingRun(ctx context.Context, companyID string, periodStart, periodEnd time.Time) (bool, error)
	RunExistsEndingOn(ctx context.Context, companyID string, periodEnd time.Time) (bool, error)

	FindEligibleEntries(ctx context.Context, companyID string, periodStart, periodEnd time.Time) ([]timeentry.TimeEntry, error)
	FindEntriesByRunAndEmployee(ctx context.Context, companyID, runID, employeeID string) ([]timeentry.TimeEntry, error)
	ConsumeEntry(ctx context.Context, e *timeentry.TimeEntry) error
	ReleaseEntries(ctx context.Context, companyID, runID string) error

	EmployeeRates(ctx context.Context, companyID string, employeeIDs []string) (map[string]int64, error)

	UpsertStub(ctx context.Context, stub *PayStub) error
	FindStubsByRun(ctx context.Context, companyID, runID string) ([]PayStub, error)
	FindStubByRunAndEmployee(ctx context.Context, companyID, runID, employeeID string) (*PayStub, error)
	DeleteStubEntries(ctx context.Context, stubID string) error
	CreateStubEntries(ctx context.Context, entries []PayStubEntry) error
	DeleteStubsByRun(ctx context.Context, companyID, runID string) error

	FindSettings(ctx context.Context, companyID string) (*PayrollSettings, error)
	UpsertSettings(ctx context.Context, settings *PayrollSettings) error
	FindAutoGenerateCompanies(ctx context.Context) ([]PayrollSettings, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// session binds the statement to the enclosing transaction when one is set,
// so every write inside a service transaction really shares it.
func (r *repository) session(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) CreateRun(ctx context.Context, run *PayrollRun) error {
	return r.session(ctx).Create(run).Error
}

func (r *repository) CreateLines(ctx context.Context, lines []PayrollRunLine) error {
	return r.session(ctx).Create(&lines).Error
}

func (r *repository) FindRunsByCompany(ctx context.Context, companyID string) ([]PayrollRun, error) {
	var runs []PayrollRun
	err := r.session(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("period_start DESC").
		Find(&runs).Error
	return runs, err
}

func (r *repository) FindRunByIDAndCompany(ctx context.Context, companyID, id string) (*PayrollRun, error) {
	var run PayrollRun
	err := r.session(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&run, "id = ?", id).Error
	return &run, err
}

func (r *repository) FindLinesByRun(ctx context.Context, companyID, runID string) ([]PayrollRunLine, error) {
	var lines []PayrollRunLine
	err := r.session(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("payroll_run_id = ?", runID).
		Order("employee_id ASC").
		Find(&lines).Error
	return lines, err
}

func (r *repository) UpdateRun(ctx context.Context, run *PayrollRun) error {
	return r.session(ctx).Save(run).Error
}

func (r *repository) DeleteRun(ctx context.Context, companyID, id string) error {
	if err := r.session(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&PayrollRunLine{}, "payroll_run_id = ?", id).Error; err != nil {
		return err
	}
	return r.session(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&PayrollRun{}, "id = ?", id).Error
}

func (r *repository) HasOverlappingRun(
	ctx context.Context,
	companyID string,
	periodStart, periodEnd time.Time,
) (bool, error) {
	var count int64
	err := r.session(ctx).
		Model(&PayrollRun{}).
		Scopes(tenant.Scope(companyID)).
		Where("NOT (period_end < ? OR period_start > ?)", periodStart, periodEnd).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) RunExistsEndingOn(ctx context.Context, companyID string, periodEnd time.Time) (bool, error) {
	var count int64
	err := r.session(ctx).
		Model(&PayrollRun{}).
		Scopes(tenant.Scope(companyID)).
		Where("period_end = ?", periodEnd).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindEligibleEntries(
	ctx context.Context,
	companyID string,
	periodStart, periodEnd time.Time,
) ([]timeentry.TimeEntry, error) {
	var entries []timeentry.TimeEntry
	err := r.session(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("status = ?", timeentry.StatusApproved).
		Where("payroll_run_id IS NULL").
		Where("clock_in_approved_at >= ?", periodStart).
		Where("clock_in_approved_at < ?", periodEnd.AddDate(0, 0, 1)).
		Where("clock_out_approved_at IS NOT NULL").
		Order("clock_in_approved_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) FindEntriesByRunAndEmployee(ctx context.Context, companyID, runID, employeeID string) ([]timeentry.TimeEntry, error) {
	var entries []timeentry.TimeEntry
	err := r.session(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("payroll_run_id = ?", runID).
		Where("employee_id = ?", employeeID).
		Order("clock_in_approved_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) ConsumeEntry(ctx context.Context, e *timeentry.TimeEntry) error {
	return r.session(ctx).
		Model(&timeentry.TimeEntry{}).
		Where("id = ?", e.ID).
		Updates(map[string]any{
			"payroll_run_id":  e.PayrollRunID,
			"regular_hours":   e.RegularHours,
			"overtime_hours":  e.OvertimeHours,
			"gross_pay_cents": e.GrossPayCents,
		}).Error
}

func (r *repository) ReleaseEntries(ctx context.Context, companyID, runID string) error {
	return r.session(ctx).
		Model(&timeentry.TimeEntry{}).
		Scopes(tenant.Scope(companyID)).
		Where("payroll_run_id = ?", runID).
		Updates(map[string]any{
			"payroll_run_id":  nil,
			"regular_hours":   0,
			"overtime_hours":  0,
			"gross_pay_cents": 0,
		}).Error
}

func (r *repository) EmployeeRates(ctx context.Context, companyID string, employeeIDs []string) (map[string]int64, error) {
	type row struct {
		ID              string
		HourlyRateCents int64
	}
	var rows []row
	err := r.session(ctx).
		Table("employees").
		Select("id::text AS id, hourly_rate_cents").
		Scopes(tenant.Scope(companyID)).
		Where("id IN ?", employeeIDs).
		Where("deleted_at IS NULL").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	rates := make(map[string]int64, len(rows))
	for _, rec := range rows {
		rates[rec.ID] = rec.HourlyRateCents
	}
	return rates, nil
}

func (r *repository) UpsertStub(ctx context.Context, stub *PayStub) error {
	return r.session(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "payroll_run_id"}, {Name: "employee_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"regular_hours", "overtime_hours", "hourly_rate_cents", "gross_pay_cents", "updated_at",
			}),
		}).
		Create(stub).Error
}

func (r *repository) FindStubsByRun(ctx context.Context, companyID, runID string) ([]PayStub, error) {
	var stubs []PayStub
	err := r.session(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("payroll_run_id = ?", runID).
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("work_date ASC")
		}).
		Order("employee_id ASC").
		Find(&stubs).Error
	return stubs, err
}

func (r *repository) FindStubByRunAndEmployee(ctx context.Context, companyID, runID, employeeID string) (*PayStub, error) {
	var stub PayStub
	err := r.session(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("payroll_run_id = ?", runID).
		Where("employee_id = ?", employeeID).
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("work_date ASC")
		}).
		First(&stub).Error
	return &stub, err
}

func (r *repository) DeleteStubEntries(ctx context.Context, stubID string) error {
	return r.session(ctx).
		Delete(&PayStubEntry{}, "pay_stub_id = ?", stubID).Error
}

func (r *repository) CreateStubEntries(ctx context.Context, entries []PayStubEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.session(ctx).Create(&entries).Error
}

func (r *repository) DeleteStubsByRun(ctx context.Context, companyID, runID string) error {
	err := r.session(ctx).
		Exec(`DELETE FROM pay_stub_entries
WHERE pay_stub_id IN (SELECT id FROM pay_stubs WHERE payroll_run_id = ? AND company_id = ?)`,
			runID, companyID).Error
	if err != nil {
		return err
	}
	return r.session(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&PayStub{}, "payroll_run_id = ?", runID).Error
}

func (r *repository) FindSettings(ctx context.Context, companyID string) (*PayrollSettings, error) {
	var settings PayrollSettings
	err := r.session(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&settings).Error
	return &settings, err
}

func (r *repository) UpsertSettings(ctx context.Context, settings *PayrollSettings) error {
	return r.session(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "company_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"period_start_day", "period_end_day", "auto_generate", "last_generated_end_date", "updated_at",
			}),
		}).
		Create(settings).Error
}

func (r *repository) FindAutoGenerateCompanies(ctx context.Context) ([]PayrollSettings, error) {
	var rows []PayrollSettings
	err := r.session(ctx).
		Where("auto_generate = TRUE").
		Find(&rows).Error
	return rows, err
}
