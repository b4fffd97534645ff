package employee

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	departmenterrors "go-hrms/internal/department/errors"
	employeeerrors "go-hrms/internal/employee/errors"
	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/contextutil"
	"go-hrms/internal/shared/response"
	"go-hrms/internal/user"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	EmployeeOptionsKeyPrefix = "employees:options:"
	employeeOptionsTTL       = time.Hour
)

func GetEmployeeOptionsKey(companyID uint) string {
	return EmployeeOptionsKeyPrefix + uintToString(companyID)
}

// Onboarder persists an employee together with its login account.
type Onboarder interface {
	CreateEmployee(ctx context.Context, companyID uint, req CreateEmployeeRequest) (*OnboardResult, error)
}

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID uint, req CreateEmployeeRequest) (OnboardResponse, error)
	GetAll(ctx context.Context, companyID uint, q ListEmployeesQuery) ([]EmployeeResponse, response.PaginationMeta, error)
	GetOptions(ctx context.Context, companyID uint) ([]EmployeeOption, error)
	GetByID(ctx context.Context, companyID, id uint) (EmployeeResponse, error)
	Update(ctx context.Context, companyID, id uint, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Deactivate(ctx context.Context, companyID, id uint) error
}

type service struct {
	db        *gorm.DB
	repo      Repository
	users     user.Repository
	onboarder Onboarder
	rdb       *redis.Client
	sf        *singleflight.Group
	logger    *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	users user.Repository,
	onboarder Onboarder,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		users:     users,
		onboarder: onboarder,
		rdb:       rdb,
		sf:        &singleflight.Group{},
		logger:    l,
	}
}

func (s *service) Create(ctx context.Context, companyID uint, req CreateEmployeeRequest) (OnboardResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	rid := contextutil.GetRequestID(ctx)
	log.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.Uint("company_id", companyID),
		zap.String("email", req.Email),
	)

	res, err := s.onboarder.CreateEmployee(ctx, companyID, req)
	if err != nil {
		log.Warn("create employee failed", zap.String("request_id", rid), zap.Error(err))
		return OnboardResponse{}, err
	}

	s.invalidateOptions(ctx, companyID)

	log.Info("create employee success",
		zap.String("request_id", rid),
		zap.Uint("employee_id", res.Employee.ID),
		zap.String("code", res.Employee.Code),
	)
	return OnboardResponse{
		Employee:     ToResponse(*res.Employee),
		UserID:       res.User.ID,
		Username:     res.User.Username,
		TempPassword: res.TempPassword,
	}, nil
}

func (s *service) GetAll(ctx context.Context, companyID uint, q ListEmployeesQuery) ([]EmployeeResponse, response.PaginationMeta, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	q.normalize()
	log.Debug("get all employees requested", zap.Uint("company_id", companyID), zap.Int("page", q.Page))

	emps, total, err := s.repo.FindAllByCompany(ctx, companyID, q)
	if err != nil {
		log.Error("get all employees failed", zap.Error(err))
		return nil, response.PaginationMeta{}, mapRepositoryError(err)
	}

	return mapToListResponse(emps), response.NewPaginationMeta(total, q.Page, q.Limit), nil
}

func (s *service) GetOptions(ctx context.Context, companyID uint) ([]EmployeeOption, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	cacheKey := GetEmployeeOptionsKey(companyID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []EmployeeOption
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		emps, err := s.repo.FindOptionsByCompany(ctx, companyID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToOptions(emps)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, jsonData, employeeOptionsTTL).Err(); err != nil {
					log.Warn("cache employee options failed", zap.String("key", cacheKey), zap.Error(err))
				}
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]EmployeeOption), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id uint) (EmployeeResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("get employee by id requested",
		zap.Uint("company_id", companyID),
		zap.Uint("employee_id", id),
	)
	emp, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	return ToResponse(*emp), nil
}

func (s *service) Update(ctx context.Context, companyID, id uint, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("update employee requested",
		zap.Uint("company_id", companyID),
		zap.Uint("employee_id", id),
	)

	var updated Employee
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		emp, err := qtx.FindByIDAndCompany(ctx, companyID, id)
		if err != nil {
			return mapRepositoryError(err)
		}

		if err := s.applyPatch(ctx, qtx, emp, req); err != nil {
			return err
		}
		if req.IsActive.Set {
			if req.IsActive.Null {
				return apperror.Validation("is_active cannot be null")
			}
			if err := applyActiveState(ctx, s.users.WithTx(tx), emp, req.IsActive.Value); err != nil {
				return mapRepositoryError(err)
			}
		}

		if err := qtx.Update(ctx, emp); err != nil {
			return mapRepositoryError(err)
		}
		updated = *emp
		return nil
	})
	if err != nil {
		log.Warn("update employee failed", zap.Uint("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptions(ctx, companyID)

	log.Info("update employee success", zap.Uint("employee_id", id))
	return ToResponse(updated), nil
}

func (s *service) Deactivate(ctx context.Context, companyID, id uint) error {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("deactivate employee requested",
		zap.Uint("company_id", companyID),
		zap.Uint("employee_id", id),
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		emp, err := qtx.FindByIDAndCompany(ctx, companyID, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		if err := applyActiveState(ctx, s.users.WithTx(tx), emp, false); err != nil {
			return mapRepositoryError(err)
		}
		return mapRepositoryError(qtx.Update(ctx, emp))
	})
	if err != nil {
		log.Warn("deactivate employee failed", zap.Uint("employee_id", id), zap.Error(err))
		return err
	}

	s.invalidateOptions(ctx, companyID)

	log.Info("deactivate employee success", zap.Uint("employee_id", id))
	return nil
}

// applyActiveState is the only place an employee's active flag changes. The
// linked login account always follows it.
func applyActiveState(ctx context.Context, users user.Repository, emp *Employee, active bool) error {
	emp.IsActive = active
	return users.SetActiveByEmployee(ctx, emp.CompanyID, emp.ID, active)
}

func (s *service) applyPatch(ctx context.Context, repo Repository, emp *Employee, req UpdateEmployeeRequest) error {
	if req.FirstName.Set {
		v := strings.TrimSpace(req.FirstName.Value)
		if req.FirstName.Null || v == "" {
			return apperror.RequiredField("First Name")
		}
		emp.FirstName = v
	}
	if req.LastName.Set {
		v := strings.TrimSpace(req.LastName.Value)
		if req.LastName.Null || v == "" {
			return apperror.RequiredField("Last Name")
		}
		emp.LastName = v
	}
	if req.Email.Set {
		v := strings.TrimSpace(req.Email.Value)
		if req.Email.Null || v == "" {
			return apperror.RequiredField("Email")
		}
		if v != emp.Email {
			exists, err := repo.ExistsByEmail(ctx, v, emp.ID)
			if err != nil {
				return mapRepositoryError(err)
			}
			if exists {
				return employeeerrors.ErrEmployeeAlreadyExists
			}
		}
		emp.Email = v
	}
	if req.Phone.Set {
		emp.Phone = req.Phone.Ptr()
	}
	if req.Position.Set {
		emp.Position = req.Position.Ptr()
	}
	if req.DateOfBirth.Set {
		if req.DateOfBirth.Null {
			emp.DateOfBirth = nil
		} else {
			d, err := parseDate("date_of_birth", req.DateOfBirth.Value)
			if err != nil {
				return err
			}
			emp.DateOfBirth = &d
		}
	}
	if req.HireDate.Set {
		if req.HireDate.Null {
			return apperror.RequiredField("Hire Date")
		}
		d, err := parseDate("hire_date", req.HireDate.Value)
		if err != nil {
			return err
		}
		emp.HireDate = d
	}
	if req.Salary.Set {
		if req.Salary.Null {
			emp.Salary = decimal.NullDecimal{}
		} else {
			if req.Salary.Value.IsNegative() {
				return apperror.Validation("salary cannot be negative")
			}
			emp.Salary = decimal.NewNullDecimal(req.Salary.Value.Round(2))
		}
	}
	if req.DepartmentID.Set {
		if req.DepartmentID.Null {
			emp.DepartmentID = nil
		} else {
			exists, err := repo.DepartmentExists(ctx, emp.CompanyID, req.DepartmentID.Value)
			if err != nil {
				return mapRepositoryError(err)
			}
			if !exists {
				return departmenterrors.ErrDepartmentNotFound
			}
			emp.DepartmentID = req.DepartmentID.Ptr()
		}
	}
	return nil
}

func (s *service) invalidateOptions(ctx context.Context, companyID uint) {
	log := contextutil.GetLogger(ctx, s.logger)
	if s.rdb == nil {
		return
	}
	cacheKey := GetEmployeeOptionsKey(companyID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		log.Error("failed to invalidate employee options cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}
