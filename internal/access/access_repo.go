package access

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=access_repo.go -destination=mock/access_repo_mock.go -package=mock
type Repository interface {
	FindByActor(ctx context.Context, actorID string) ([]CompanyMembership, error)
	FindActiveByActor(ctx context.Context, actorID string) (*CompanyMembership, error)
	FindRole(ctx context.Context, companyID, employeeID string) (string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByActor(ctx context.Context, actorID string) ([]CompanyMembership, error) {
	var rows []CompanyMembership
	err := r.db.WithContext(ctx).
		Where("user_id = ?", actorID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindActiveByActor(ctx context.Context, actorID string) (*CompanyMembership, error) {
	var m CompanyMembership
	err := r.db.WithContext(ctx).
		Where("user_id = ?", actorID).
		Where("active = ?", true).
		First(&m).Error
	return &m, err
}

func (r *repository) FindRole(ctx context.Context, companyID, employeeID string) (string, error) {
	var m CompanyMembership
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		First(&m).Error
	if err != nil {
		return "", err
	}
	return m.Role, nil
}
