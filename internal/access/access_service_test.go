package access_test

import (
	"context"
	"testing"

	"fieldserve/internal/access"
	"fieldserve/internal/access/infra"
	"fieldserve/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeAccessRepository struct {
	findByActorFn       func(ctx context.Context, actorID string) ([]access.CompanyMembership, error)
	findActiveByActorFn func(ctx context.Context, actorID string) (*access.CompanyMembership, error)
	findRoleFn          func(ctx context.Context, companyID, employeeID string) (string, error)
}

func (f *fakeAccessRepository) FindByActor(ctx context.Context, actorID string) ([]access.CompanyMembership, error) {
	if f.findByActorFn != nil {
		return f.findByActorFn(ctx, actorID)
	}
	return nil, nil
}

func (f *fakeAccessRepository) FindActiveByActor(ctx context.Context, actorID string) (*access.CompanyMembership, error) {
	if f.findActiveByActorFn != nil {
		return f.findActiveByActorFn(ctx, actorID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAccessRepository) FindRole(ctx context.Context, companyID, employeeID string) (string, error) {
	if f.findRoleFn != nil {
		return f.findRoleFn(ctx, companyID, employeeID)
	}
	return "", gorm.ErrRecordNotFound
}

func newAccessService(t *testing.T, role string) access.Service {
	t.Helper()

	enforcer, err := infra.NewEnforcer()
	assert.NoError(t, err)

	repo := &fakeAccessRepository{
		findRoleFn: func(ctx context.Context, companyID, employeeID string) (string, error) {
			return role, nil
		},
	}
	return access.NewService(repo, enforcer)
}

func enforceReq(resource, action string) domain.EnforceRequest {
	return domain.EnforceRequest{
		EmployeeID: uuid.New().String(),
		CompanyID:  uuid.New().String(),
		Resource:   resource,
		Action:     action,
	}
}

func TestEnforce_RoleGrants(t *testing.T) {
	cases := []struct {
		name     string
		role     string
		resource string
		action   string
		allowed  bool
	}{
		{"employee clocks in", "EMPLOYEE", "time_entry", "create", true},
		{"employee cannot approve", "EMPLOYEE", "time_entry", "approve", false},
		{"employee cannot read runs", "EMPLOYEE", "payroll_run", "read", false},
		{"manager approves entries", "MANAGER", "time_entry", "approve", true},
		{"manager inherits clock in", "MANAGER", "time_entry", "create", true},
		{"manager reads runs", "MANAGER", "payroll_run", "read", true},
		{"manager cannot create runs", "MANAGER", "payroll_run", "create", false},
		{"admin creates runs", "ADMIN", "payroll_run", "create", true},
		{"admin finalizes runs", "ADMIN", "payroll_run", "finalize", true},
		{"admin updates settings", "ADMIN", "payroll_settings", "update", true},
		{"admin inherits manager reads", "ADMIN", "pay_stub", "read", true},
		{"super admin inherits everything", "SUPER_ADMIN", "payroll_run", "delete", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newAccessService(t, tc.role)

			allowed, err := svc.Enforce(enforceReq(tc.resource, tc.action))

			assert.NoError(t, err)
			assert.Equal(t, tc.allowed, allowed)
		})
	}
}

func TestEnforce_NoMembership(t *testing.T) {
	enforcer, err := infra.NewEnforcer()
	assert.NoError(t, err)

	svc := access.NewService(&fakeAccessRepository{}, enforcer)

	allowed, err := svc.Enforce(enforceReq("time_entry", "create"))

	assert.NoError(t, err)
	assert.False(t, allowed)
}

func TestActiveContext(t *testing.T) {
	companyID := uuid.New()

	t.Run("returns the active membership", func(t *testing.T) {
		enforcer, err := infra.NewEnforcer()
		assert.NoError(t, err)

		repo := &fakeAccessRepository{
			findActiveByActorFn: func(ctx context.Context, actorID string) (*access.CompanyMembership, error) {
				return &access.CompanyMembership{
					ID:        uuid.New(),
					UserID:    uuid.New(),
					CompanyID: companyID,
					Role:      "MANAGER",
					Active:    true,
				}, nil
			},
		}
		svc := access.NewService(repo, enforcer)

		active, err := svc.ActiveContext(context.Background(), uuid.New().String())

		assert.NoError(t, err)
		assert.Equal(t, companyID.String(), active.CompanyID)
		assert.Equal(t, "MANAGER", active.Role)
	})

	t.Run("forbids an actor without one", func(t *testing.T) {
		enforcer, err := infra.NewEnforcer()
		assert.NoError(t, err)

		svc := access.NewService(&fakeAccessRepository{}, enforcer)

		_, err = svc.ActiveContext(context.Background(), uuid.New().String())

		assert.Error(t, err)
	})
}
