package company

import (
	"context"
	"strings"

	companyerrors "go-hrms/internal/company/errors"
	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/contextutil"
	"go-hrms/internal/shared/dberr"

	"go.uber.org/zap"
)

//go:generate mockgen -source=company_service.go -destination=mock/company_service_mock.go -package=mock
type Service interface {
	GetByID(ctx context.Context, id uint) (CompanyResponse, error)
	Update(ctx context.Context, id uint, req UpdateCompanyRequest) (CompanyResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("company.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("company.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) GetByID(ctx context.Context, id uint) (CompanyResponse, error) {
	comp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return CompanyResponse{}, mapRepositoryError(err)
	}
	return ToResponse(comp), nil
}

func (s *service) Update(ctx context.Context, id uint, req UpdateCompanyRequest) (CompanyResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	comp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return CompanyResponse{}, mapRepositoryError(err)
	}

	if req.Name.Set {
		name := strings.TrimSpace(req.Name.Value)
		if req.Name.Null || name == "" {
			return CompanyResponse{}, companyerrors.ErrCompanyNameRequired
		}
		comp.Name = name
	}
	if req.Phone.Set {
		comp.Phone = req.Phone.Ptr()
	}
	if req.Address.Set {
		comp.Address = req.Address.Ptr()
	}

	if err := s.repo.Update(ctx, comp); err != nil {
		log.Error("update company failed", zap.Uint("company_id", id), zap.Error(err))
		return CompanyResponse{}, mapRepositoryError(err)
	}

	log.Info("company updated", zap.Uint("company_id", id))
	return ToResponse(comp), nil
}

func mapRepositoryError(err error) error {
	if dberr.IsNotFound(err) {
		return companyerrors.ErrCompanyNotFound
	}
	return apperror.Internal(err)
}
