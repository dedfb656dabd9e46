package access

import (
	"context"
	"errors"

	"fieldserve/internal/domain"
	"fieldserve/internal/shared/apperror"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=access_service.go -destination=mock/access_service_mock.go -package=mock
type Service interface {
	ResolveActorCompanies(ctx context.Context, actorID string) ([]string, error)
	ActiveContext(ctx context.Context, actorID string) (ActiveContext, error)
	Enforce(req domain.EnforceRequest) (bool, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	logger   *zap.Logger
}

func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("access.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("access.service")
	}
	return &service{repo: repo, enforcer: enforcer, logger: l}
}

func (s *service) ResolveActorCompanies(ctx context.Context, actorID string) ([]string, error) {
	memberships, err := s.repo.FindByActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	companies := make([]string, 0, len(memberships))
	for _, m := range memberships {
		companies = append(companies, m.CompanyID.String())
	}
	return companies, nil
}

func (s *service) ActiveContext(ctx context.Context, actorID string) (ActiveContext, error) {
	m, err := s.repo.FindActiveByActor(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ActiveContext{}, apperror.ErrForbidden
		}
		return ActiveContext{}, err
	}
	return ActiveContext{CompanyID: m.CompanyID.String(), Role: m.Role}, nil
}

// Enforce resolves the actor's role within the company and checks it against
// the casbin policy set.
func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	role, err := s.repo.FindRole(context.Background(), req.CompanyID, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	allowed, err := s.enforcer.Enforce(role, req.Resource, req.Action)
	if err != nil {
		return false, err
	}
	if !allowed {
		s.logger.Debug("rbac denied",
			zap.String("role", role),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
		)
	}
	return allowed, nil
}
