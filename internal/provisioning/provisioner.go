// Package provisioning creates accounts together with the records they log in
// for: a company with its first admin, and an employee with its login.
package provisioning

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go-hrms/internal/company"
	companyerrors "go-hrms/internal/company/errors"
	"go-hrms/internal/credential"
	departmenterrors "go-hrms/internal/department/errors"
	"go-hrms/internal/employee"
	employeeerrors "go-hrms/internal/employee/errors"
	"go-hrms/internal/idgen"
	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/contextutil"
	"go-hrms/internal/shared/counter"
	"go-hrms/internal/shared/dberr"
	"go-hrms/internal/user"
	usererrors "go-hrms/internal/user/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
}

type Provisioner struct {
	db          *gorm.DB
	companies   company.Repository
	users       user.Repository
	employees   employee.Repository
	counter     counter.Repository
	hasher      PasswordHasher
	maxAttempts int
	now         func() time.Time
	logger      *zap.Logger
}

func NewProvisioner(
	db *gorm.DB,
	companies company.Repository,
	users user.Repository,
	employees employee.Repository,
	counterRepo counter.Repository,
	hasher PasswordHasher,
	maxAttempts int,
	logger ...*zap.Logger,
) *Provisioner {
	l := zap.L().Named("provisioning")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("provisioning")
	}
	return &Provisioner{
		db:          db,
		companies:   companies,
		users:       users,
		employees:   employees,
		counter:     counterRepo,
		hasher:      hasher,
		maxAttempts: maxAttempts,
		now:         time.Now,
		logger:      l,
	}
}

// RegisterCompany creates a tenant and its first admin in one transaction.
func (p *Provisioner) RegisterCompany(ctx context.Context, req company.RegisterRequest) (*company.Company, *user.User, error) {
	log := contextutil.GetLogger(ctx, p.logger)
	log.Debug("register company requested",
		zap.String("company_email", req.CompanyEmail),
		zap.String("admin_username", req.AdminUsername),
	)

	companyType, ok := company.ParseCompanyType(req.CompanyType)
	if !ok {
		return nil, nil, companyerrors.ErrInvalidCompanyType
	}

	if err := p.checkRegistration(ctx, req); err != nil {
		log.Warn("register company rejected", zap.Error(err))
		return nil, nil, err
	}

	hash, err := p.hasher.Hash(req.AdminPassword)
	if err != nil {
		return nil, nil, hashError(err)
	}

	var (
		createdCompany *company.Company
		createdAdmin   *user.User
	)
	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		companies := p.companies.WithTx(tx)
		users := p.users.WithTx(tx)

		code, err := idgen.Generate(ctx, idgen.Family{
			Prefix: company.CodePrefix,
			Next: func(ctx context.Context) (int64, error) {
				latest, err := companies.LatestCode(ctx)
				if err != nil {
					return 0, err
				}
				return idgen.NextAfter(company.CodePrefix, latest), nil
			},
			Exists: companies.ExistsByCode,
		}, p.maxAttempts)
		if err != nil {
			return err
		}

		c := &company.Company{
			Code:        code,
			Name:        strings.TrimSpace(req.CompanyName),
			Email:       strings.TrimSpace(req.CompanyEmail),
			Phone:       optional(req.CompanyPhone),
			Address:     optional(req.CompanyAddress),
			CompanyType: companyType,
			GSTNumber:   optional(req.GSTNumber),
			PANNumber:   optional(req.PANNumber),
			IsActive:    true,
		}
		if companyType == company.TypeOther {
			c.CompanyTypeOther = optional(req.CompanyTypeOther)
		}
		if err := companies.Create(ctx, c); err != nil {
			return err
		}

		admin := &user.User{
			CompanyID:    c.ID,
			Email:        strings.TrimSpace(req.AdminEmail),
			Username:     strings.TrimSpace(req.AdminUsername),
			FullName:     strings.TrimSpace(req.AdminFullName),
			PasswordHash: hash,
			Role:         user.RoleAdmin,
			IsActive:     true,
		}
		if err := users.Create(ctx, admin); err != nil {
			return err
		}

		createdCompany, createdAdmin = c, admin
		return nil
	})
	if err != nil {
		log.Error("register company failed", zap.Error(err))
		return nil, nil, mapError(err)
	}

	log.Info("company registered",
		zap.Uint("company_id", createdCompany.ID),
		zap.String("code", createdCompany.Code),
		zap.Uint("admin_user_id", createdAdmin.ID),
	)
	return createdCompany, createdAdmin, nil
}

func (p *Provisioner) checkRegistration(ctx context.Context, req company.RegisterRequest) error {
	exists, err := p.companies.ExistsByEmail(ctx, strings.TrimSpace(req.CompanyEmail))
	if err != nil {
		return apperror.Internal(err)
	}
	if exists {
		return companyerrors.ErrCompanyEmailExists
	}

	exists, err = p.users.ExistsByUsername(ctx, strings.TrimSpace(req.AdminUsername))
	if err != nil {
		return apperror.Internal(err)
	}
	if exists {
		return usererrors.ErrUsernameExists
	}

	exists, err = p.users.ExistsByEmail(ctx, strings.TrimSpace(req.AdminEmail))
	if err != nil {
		return apperror.Internal(err)
	}
	if exists {
		return usererrors.ErrEmailExists
	}
	return nil
}

// CreateEmployee onboards an employee and its linked login in one
// transaction. The plaintext initial password is returned once.
func (p *Provisioner) CreateEmployee(ctx context.Context, companyID uint, req employee.CreateEmployeeRequest) (*employee.OnboardResult, error) {
	log := contextutil.GetLogger(ctx, p.logger)
	log.Debug("onboard employee requested",
		zap.Uint("company_id", companyID),
		zap.String("email", req.Email),
	)

	emp, err := employee.BuildEmployee(companyID, req, p.now())
	if err != nil {
		return nil, err
	}

	suppliedCode := ""
	if req.Code != nil {
		suppliedCode = strings.TrimSpace(*req.Code)
	}
	if err := p.checkOnboarding(ctx, companyID, suppliedCode, emp); err != nil {
		log.Warn("onboard employee rejected", zap.Error(err))
		return nil, err
	}

	hash, err := p.hasher.Hash(req.InitialPassword)
	if err != nil {
		return nil, hashError(err)
	}

	var login *user.User
	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		employees := p.employees.WithTx(tx)
		users := p.users.WithTx(tx)
		counterRepo := p.counter.WithTx(tx)

		code := suppliedCode
		if code == "" {
			prefix := employee.CodePrefix(companyID)
			code, err = idgen.Generate(ctx, idgen.Family{
				Prefix: prefix,
				Next: func(ctx context.Context) (int64, error) {
					return counterRepo.GetNextValue(ctx, companyID, counter.TypeEmployeeCode)
				},
				Exists: employees.ExistsByCode,
			}, p.maxAttempts)
			if err != nil {
				return err
			}
		}
		emp.Code = code

		if err := employees.Create(ctx, emp); err != nil {
			return err
		}

		username := usernameFromCode(code)
		taken, err := users.ExistsByUsername(ctx, username)
		if err != nil {
			return err
		}
		if taken {
			username = username + "_" + strconv.FormatUint(uint64(emp.ID), 10)
		}

		employeeID := emp.ID
		login = &user.User{
			CompanyID:           companyID,
			EmployeeID:          &employeeID,
			Email:               emp.Email,
			Username:            username,
			FullName:            emp.FullName(),
			PasswordHash:        hash,
			Role:                user.RoleEmployee,
			IsActive:            true,
			ForcePasswordChange: true,
		}
		return users.Create(ctx, login)
	})
	if err != nil {
		log.Error("onboard employee failed", zap.Error(err))
		return nil, mapError(err)
	}

	log.Info("employee onboarded",
		zap.Uint("company_id", companyID),
		zap.Uint("employee_id", emp.ID),
		zap.String("code", emp.Code),
		zap.String("username", login.Username),
	)
	return &employee.OnboardResult{
		Employee:     emp,
		User:         login,
		TempPassword: req.InitialPassword,
	}, nil
}

func (p *Provisioner) checkOnboarding(ctx context.Context, companyID uint, code string, emp *employee.Employee) error {
	if code != "" {
		exists, err := p.employees.ExistsByCode(ctx, code)
		if err != nil {
			return apperror.Internal(err)
		}
		if exists {
			return employeeerrors.ErrEmployeeCodeAlreadyExists
		}
	}

	exists, err := p.employees.ExistsByEmail(ctx, emp.Email, 0)
	if err != nil {
		return apperror.Internal(err)
	}
	if exists {
		return employeeerrors.ErrEmployeeAlreadyExists
	}

	exists, err = p.users.ExistsByEmail(ctx, emp.Email)
	if err != nil {
		return apperror.Internal(err)
	}
	if exists {
		return employeeerrors.ErrLoginEmailAlreadyExists
	}

	if emp.DepartmentID != nil {
		exists, err := p.employees.DepartmentExists(ctx, companyID, *emp.DepartmentID)
		if err != nil {
			return apperror.Internal(err)
		}
		if !exists {
			return departmenterrors.ErrDepartmentNotFound
		}
	}
	return nil
}

// usernameFromCode lowercases code and replaces spaces with underscores.
func usernameFromCode(code string) string {
	return strings.ReplaceAll(strings.ToLower(code), " ", "_")
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// hashError keeps over-long passwords a caller error. The binding limit counts
// characters, bcrypt counts bytes.
func hashError(err error) error {
	if errors.Is(err, credential.ErrPasswordTooLong) {
		return usererrors.ErrPasswordTooLong
	}
	return apperror.Internal(err)
}

func mapError(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if dberr.IsUniqueViolation(err) {
		switch dberr.Constraint(err) {
		case "uq_companies_email":
			return companyerrors.ErrCompanyEmailExists
		case "uq_companies_code":
			return companyerrors.ErrCompanyCodeExists
		case "uq_users_username":
			return usererrors.ErrUsernameExists
		case "uq_users_email":
			return usererrors.ErrEmailExists
		case "uq_employees_code":
			return employeeerrors.ErrEmployeeCodeAlreadyExists
		case "uq_employees_email":
			return employeeerrors.ErrEmployeeAlreadyExists
		default:
			return apperror.Conflict("Record conflicts with an existing one")
		}
	}

	return apperror.Internal(err)
}
