package schedule

import (
	"context"
	"errors"
	"time"

	"fieldserve/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=schedule_repo.go -destination=mock/schedule_repo_mock.go -package=mock
type Repository interface {
	FindForEmployeeOnDate(ctx context.Context, companyID, employeeID string, date time.Time) (*Schedule, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// FindForEmployeeOnDate returns nil without error when no schedule exists;
// an unscheduled clock-in is normal.
func (r *repository) FindForEmployeeOnDate(ctx context.Context, companyID, employeeID string, date time.Time) (*Schedule, error) {
	var s Schedule
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("schedule_date = ?", date.Format("2006-01-02")).
		Order("start_time ASC").
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
