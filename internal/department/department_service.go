package department

import (
	"context"
	"errors"
	"strings"

	departmenterrors "go-hrms/internal/department/errors"
	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/contextutil"
	"go-hrms/internal/shared/dberr"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=department_service.go -destination=mock/department_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID uint, req CreateDepartmentRequest) (DepartmentResponse, error)
	GetAll(ctx context.Context, companyID uint, q ListDepartmentsQuery) ([]DepartmentResponse, error)
	GetByID(ctx context.Context, companyID, id uint) (DepartmentResponse, error)
	Update(ctx context.Context, companyID, id uint, req UpdateDepartmentRequest) (DepartmentResponse, error)
	Deactivate(ctx context.Context, companyID, id uint) error
}

type service struct {
	db     *gorm.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("department.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("department.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, companyID uint, req CreateDepartmentRequest) (DepartmentResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return DepartmentResponse{}, departmenterrors.ErrDepartmentNameRequired
	}

	exists, err := s.repo.ExistsByName(ctx, companyID, name, 0)
	if err != nil {
		log.Error("check department name failed", zap.Error(err))
		return DepartmentResponse{}, mapRepositoryError(err)
	}
	if exists {
		return DepartmentResponse{}, departmenterrors.ErrDepartmentNameExists
	}

	dept := &Department{
		CompanyID:   companyID,
		Name:        name,
		Description: req.Description,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, dept); err != nil {
		log.Error("create department failed", zap.Uint("company_id", companyID), zap.Error(err))
		return DepartmentResponse{}, mapRepositoryError(err)
	}

	log.Info("department created", zap.Uint("company_id", companyID), zap.Uint("department_id", dept.ID))
	return mapToResponse(*dept), nil
}

func (s *service) GetAll(ctx context.Context, companyID uint, q ListDepartmentsQuery) ([]DepartmentResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	depts, err := s.repo.FindAllByCompany(ctx, companyID, q.IsActive)
	if err != nil {
		log.Error("list departments failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(depts), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id uint) (DepartmentResponse, error) {
	dept, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return DepartmentResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*dept), nil
}

func (s *service) Update(ctx context.Context, companyID, id uint, req UpdateDepartmentRequest) (DepartmentResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	var updated Department

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		dept, err := qtx.FindByIDAndCompany(ctx, companyID, id)
		if err != nil {
			return mapRepositoryError(err)
		}

		if req.Name.Set {
			name := strings.TrimSpace(req.Name.Value)
			if req.Name.Null || name == "" {
				return departmenterrors.ErrDepartmentNameRequired
			}
			if name != dept.Name {
				exists, err := qtx.ExistsByName(ctx, companyID, name, dept.ID)
				if err != nil {
					return mapRepositoryError(err)
				}
				if exists {
					return departmenterrors.ErrDepartmentNameExists
				}
			}
			dept.Name = name
		}
		if req.Description.Set {
			dept.Description = req.Description.Ptr()
		}
		if req.IsActive.Set {
			if req.IsActive.Null {
				return apperror.Validation("is_active cannot be null")
			}
			dept.IsActive = req.IsActive.Value
		}

		if err := qtx.Update(ctx, dept); err != nil {
			return mapRepositoryError(err)
		}
		updated = *dept
		return nil
	})
	if err != nil {
		log.Warn("update department failed", zap.Uint("department_id", id), zap.Error(err))
		return DepartmentResponse{}, err
	}

	log.Info("department updated", zap.Uint("department_id", id))
	return mapToResponse(updated), nil
}

func (s *service) Deactivate(ctx context.Context, companyID, id uint) error {
	log := contextutil.GetLogger(ctx, s.logger)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		dept, err := qtx.FindByIDAndCompany(ctx, companyID, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		dept.IsActive = false
		if err := qtx.Update(ctx, dept); err != nil {
			return mapRepositoryError(err)
		}
		return nil
	})
	if err != nil {
		log.Warn("deactivate department failed", zap.Uint("department_id", id), zap.Error(err))
		return err
	}

	log.Info("department deactivated", zap.Uint("department_id", id))
	return nil
}

func mapRepositoryError(err error) error {
	var appErr *apperror.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case dberr.IsNotFound(err):
		return departmenterrors.ErrDepartmentNotFound
	case dberr.IsUniqueViolation(err):
		return departmenterrors.ErrDepartmentNameExists
	default:
		return apperror.Internal(err)
	}
}
