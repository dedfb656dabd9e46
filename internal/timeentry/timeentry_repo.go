package timeentry

import (
	"context"
	"database/sql"

	"fieldserve/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=timeentry_repo.go -destination=mock/timeentry_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *TimeEntry) error
	FindOpenByEmployee(ctx context.Context, companyID, employeeID string) (*TimeEntry, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*TimeEntry, error)
	FindByIDsAndCompany(ctx context.Context, companyID string, ids []string) ([]TimeEntry, error)
	FindAllByCompany(ctx context.Context, companyID string, employeeID string) ([]TimeEntry, error)
	Update(ctx context.Context, e *TimeEntry) error
	CreateAdjustment(ctx context.Context, a *TimeEntryAdjustment) error
	ListAdjustments(ctx context.Context, companyID, timeEntryID string) ([]TimeEntryAdjustment, error)
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

func (r *repository) Create(ctx context.Context, e *TimeEntry) error {
	return r.session(ctx).Create(e).Error
}

func (r *repository) FindOpenByEmployee(ctx context.Context, companyID, employeeID string) (*TimeEntry, error) {
	var e TimeEntry
	err := r.session(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("clock_out_reported_at IS NULL").
		Where("status <> ?", StatusRejected).
		First(&e).Error
	return &e, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*TimeEntry, error) {
	var e TimeEntry
	err := r.session(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) FindByIDsAndCompany(ctx context.Context, companyID string, ids []string) ([]TimeEntry, error) {
	var rows []TimeEntry
	err := r.session(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id IN ?", ids).
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, employeeID string) ([]TimeEntry, error) {
	db := r.session(ctx).
		Scopes(tenant.Scope(companyID))
	if employeeID != "" {
		db = db.Where("employee_id = ?", employeeID)
	}
	var rows []TimeEntry
	err := db.Order("clock_in_reported_at DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, e *TimeEntry) error {
	return r.session(ctx).Save(e).Error
}

func (r *repository) CreateAdjustment(ctx context.Context, a *TimeEntryAdjustment) error {
	return r.session(ctx).Create(a).Error
}

func (r *repository) ListAdjustments(ctx context.Context, companyID, timeEntryID string) ([]TimeEntryAdjustment, error) {
	var rows []TimeEntryAdjustment
	err := r.session(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("time_entry_id = ?", timeEntryID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}
