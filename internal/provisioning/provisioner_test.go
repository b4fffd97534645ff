package provisioning_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"go-hrms/internal/company"
	companyerrors "go-hrms/internal/company/errors"
	"go-hrms/internal/credential"
	"go-hrms/internal/department"
	departmenterrors "go-hrms/internal/department/errors"
	"go-hrms/internal/employee"
	employeeerrors "go-hrms/internal/employee/errors"
	"go-hrms/internal/provisioning"
	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/counter"
	counterMock "go-hrms/internal/shared/counter/mock"
	"go-hrms/internal/shared/testdb"
	"go-hrms/internal/user"
	usererrors "go-hrms/internal/user/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type fixture struct {
	db          *gorm.DB
	provisioner *provisioning.Provisioner
	hasher      *credential.Hasher
	users       user.Repository
}

func setup(t *testing.T) fixture {
	db := testdb.Open(t,
		&company.Company{},
		&user.User{},
		&employee.Employee{},
		&department.Department{},
		&counter.CompanyCounter{},
	)
	hasher := credential.NewHasher(bcrypt.MinCost)
	users := user.NewRepository(db)
	p := provisioning.NewProvisioner(
		db,
		company.NewRepository(db),
		users,
		employee.NewRepository(db),
		counter.NewRepository(db),
		hasher,
		10,
	)
	return fixture{db: db, provisioner: p, hasher: hasher, users: users}
}

func registerRequest(suffix string) company.RegisterRequest {
	return company.RegisterRequest{
		CompanyName:   "Acme " + suffix,
		CompanyEmail:  "hr@acme" + suffix + ".test",
		CompanyType:   "private_limited",
		AdminFullName: "Admin One",
		AdminEmail:    "admin@acme" + suffix + ".test",
		AdminUsername: "admin" + suffix,
		AdminPassword: "secret123",
	}
}

// failInserts makes every insert into table fail.
func failInserts(t *testing.T, db *gorm.DB, table string) {
	err := db.Callback().Create().Before("gorm:create").Register("test:fail_"+table, func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			_ = tx.AddError(errors.New("injected insert failure"))
		}
	})
	require.NoError(t, err)
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestProvisioner_RegisterCompany(t *testing.T) {
	ctx := context.Background()

	t.Run("creates company and admin", func(t *testing.T) {
		f := setup(t)

		c, admin, err := f.provisioner.RegisterCompany(ctx, registerRequest("1"))

		require.NoError(t, err)
		assert.Equal(t, "CMP00000001", c.Code)
		assert.Equal(t, company.TypePrivateLimited, c.CompanyType)
		assert.True(t, c.IsActive)
		assert.Equal(t, c.ID, admin.CompanyID)
		assert.Equal(t, user.RoleAdmin, admin.Role)
		assert.True(t, admin.IsActive)
		assert.False(t, admin.ForcePasswordChange)
		assert.Nil(t, admin.EmployeeID)
		assert.True(t, f.hasher.Verify("secret123", admin.PasswordHash))
	})

	t.Run("codes follow the latest company", func(t *testing.T) {
		f := setup(t)

		_, _, err := f.provisioner.RegisterCompany(ctx, registerRequest("1"))
		require.NoError(t, err)
		c, _, err := f.provisioner.RegisterCompany(ctx, registerRequest("2"))
		require.NoError(t, err)

		assert.Equal(t, "CMP00000002", c.Code)
	})

	t.Run("duplicate company email", func(t *testing.T) {
		f := setup(t)
		_, _, err := f.provisioner.RegisterCompany(ctx, registerRequest("1"))
		require.NoError(t, err)

		req := registerRequest("2")
		req.CompanyEmail = "hr@acme1.test"
		_, _, err = f.provisioner.RegisterCompany(ctx, req)

		assert.ErrorIs(t, err, companyerrors.ErrCompanyEmailExists)
	})

	t.Run("duplicate admin username", func(t *testing.T) {
		f := setup(t)
		_, _, err := f.provisioner.RegisterCompany(ctx, registerRequest("1"))
		require.NoError(t, err)

		req := registerRequest("2")
		req.AdminUsername = "admin1"
		_, _, err = f.provisioner.RegisterCompany(ctx, req)

		assert.ErrorIs(t, err, usererrors.ErrUsernameExists)
	})

	t.Run("unknown company type", func(t *testing.T) {
		f := setup(t)
		req := registerRequest("1")
		req.CompanyType = "COOPERATIVE"

		_, _, err := f.provisioner.RegisterCompany(ctx, req)

		assert.ErrorIs(t, err, companyerrors.ErrInvalidCompanyType)
	})

	t.Run("other type keeps its description", func(t *testing.T) {
		f := setup(t)
		req := registerRequest("1")
		req.CompanyType = ""
		req.CompanyTypeOther = "Trust"

		c, _, err := f.provisioner.RegisterCompany(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, company.TypeOther, c.CompanyType)
		require.NotNil(t, c.CompanyTypeOther)
		assert.Equal(t, "Trust", *c.CompanyTypeOther)
	})

	t.Run("admin insert failure rolls back the company", func(t *testing.T) {
		f := setup(t)
		failInserts(t, f.db, "users")

		_, _, err := f.provisioner.RegisterCompany(ctx, registerRequest("1"))

		require.Error(t, err)
		assert.Equal(t, apperror.CodeInternalError, apperror.CodeOf(err))
		assert.Zero(t, count(t, f.db, &company.Company{}))
		assert.Zero(t, count(t, f.db, &user.User{}))
	})

	t.Run("multibyte password over 72 bytes is a caller error", func(t *testing.T) {
		f := setup(t)
		req := registerRequest("1")
		req.AdminPassword = strings.Repeat("é", 40)

		_, _, err := f.provisioner.RegisterCompany(ctx, req)

		assert.ErrorIs(t, err, usererrors.ErrPasswordTooLong)
		assert.Equal(t, apperror.CodeInvalidInput, apperror.CodeOf(err))
		assert.Zero(t, count(t, f.db, &company.Company{}))
	})
}

func employeeRequest(email string) employee.CreateEmployeeRequest {
	return employee.CreateEmployeeRequest{
		FirstName:       "Jane",
		LastName:        "Doe",
		Email:           email,
		InitialPassword: "welcome1",
	}
}

func TestProvisioner_CreateEmployee(t *testing.T) {
	ctx := context.Background()

	t.Run("creates employee and linked login", func(t *testing.T) {
		f := setup(t)

		res, err := f.provisioner.CreateEmployee(ctx, 1, employeeRequest("jane@acme.test"))

		require.NoError(t, err)
		assert.Equal(t, "EMP1-00000001", res.Employee.Code)
		assert.Equal(t, "emp1-00000001", res.User.Username)
		assert.Equal(t, "welcome1", res.TempPassword)
		assert.Equal(t, user.RoleEmployee, res.User.Role)
		assert.True(t, res.User.ForcePasswordChange)
		assert.Equal(t, "Jane Doe", res.User.FullName)
		require.NotNil(t, res.User.EmployeeID)
		assert.Equal(t, res.Employee.ID, *res.User.EmployeeID)
		assert.Equal(t, time.Now().UTC().Format("2006-01-02"), res.Employee.HireDate.Format("2006-01-02"))
		assert.True(t, f.hasher.Verify("welcome1", res.User.PasswordHash))
	})

	t.Run("supplied code with spaces", func(t *testing.T) {
		f := setup(t)
		req := employeeRequest("jane@acme.test")
		code := "ACME 7"
		req.Code = &code

		res, err := f.provisioner.CreateEmployee(ctx, 1, req)

		require.NoError(t, err)
		assert.Equal(t, "ACME 7", res.Employee.Code)
		assert.Equal(t, "acme_7", res.User.Username)
	})

	t.Run("supplied code already used", func(t *testing.T) {
		f := setup(t)
		req := employeeRequest("jane@acme.test")
		code := "X-1"
		req.Code = &code
		_, err := f.provisioner.CreateEmployee(ctx, 1, req)
		require.NoError(t, err)

		req = employeeRequest("john@acme.test")
		req.Code = &code
		_, err = f.provisioner.CreateEmployee(ctx, 2, req)

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeCodeAlreadyExists)
	})

	t.Run("duplicate employee email", func(t *testing.T) {
		f := setup(t)
		_, err := f.provisioner.CreateEmployee(ctx, 1, employeeRequest("jane@acme.test"))
		require.NoError(t, err)

		_, err = f.provisioner.CreateEmployee(ctx, 1, employeeRequest("jane@acme.test"))

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeAlreadyExists)
	})

	t.Run("email already used by a login", func(t *testing.T) {
		f := setup(t)
		_, _, err := f.provisioner.RegisterCompany(ctx, registerRequest("1"))
		require.NoError(t, err)

		_, err = f.provisioner.CreateEmployee(ctx, 1, employeeRequest("admin@acme1.test"))

		assert.ErrorIs(t, err, employeeerrors.ErrLoginEmailAlreadyExists)
	})

	t.Run("department from another tenant", func(t *testing.T) {
		f := setup(t)
		dept := &department.Department{CompanyID: 2, Name: "Ops", IsActive: true}
		require.NoError(t, f.db.Create(dept).Error)

		req := employeeRequest("jane@acme.test")
		req.DepartmentID = &dept.ID
		_, err := f.provisioner.CreateEmployee(ctx, 1, req)

		assert.ErrorIs(t, err, departmenterrors.ErrDepartmentNotFound)
	})

	t.Run("username collision gets the employee id", func(t *testing.T) {
		f := setup(t)
		require.NoError(t, f.users.Create(ctx, &user.User{
			CompanyID:    1,
			Email:        "squatter@acme.test",
			Username:     "emp1-00000001",
			FullName:     "Squatter",
			PasswordHash: "h",
			Role:         user.RoleAdmin,
			IsActive:     true,
		}))

		res, err := f.provisioner.CreateEmployee(ctx, 1, employeeRequest("jane@acme.test"))

		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("emp1-00000001_%d", res.Employee.ID), res.User.Username)
	})

	t.Run("login insert failure rolls back the employee", func(t *testing.T) {
		f := setup(t)
		failInserts(t, f.db, "users")

		_, err := f.provisioner.CreateEmployee(ctx, 1, employeeRequest("jane@acme.test"))

		require.Error(t, err)
		assert.Zero(t, count(t, f.db, &employee.Employee{}))
	})

	t.Run("multibyte password over 72 bytes is a caller error", func(t *testing.T) {
		f := setup(t)
		req := employeeRequest("jane@acme.test")
		req.InitialPassword = strings.Repeat("é", 40)

		_, err := f.provisioner.CreateEmployee(ctx, 1, req)

		assert.ErrorIs(t, err, usererrors.ErrPasswordTooLong)
		assert.Zero(t, count(t, f.db, &employee.Employee{}))
	})

	t.Run("counter failure rolls back", func(t *testing.T) {
		f := setup(t)
		ctrl := gomock.NewController(t)
		counters := counterMock.NewMockRepository(ctrl)
		counters.EXPECT().WithTx(gomock.Any()).Return(counters)
		counters.EXPECT().
			GetNextValue(gomock.Any(), uint(1), counter.TypeEmployeeCode).
			Return(int64(0), errors.New("counter unavailable"))

		p := provisioning.NewProvisioner(
			f.db,
			company.NewRepository(f.db),
			f.users,
			employee.NewRepository(f.db),
			counters,
			f.hasher,
			10,
		)
		_, err := p.CreateEmployee(ctx, 1, employeeRequest("jane@acme.test"))

		assert.Equal(t, apperror.CodeInternalError, apperror.CodeOf(err))
		assert.Zero(t, count(t, f.db, &employee.Employee{}))
		assert.Zero(t, count(t, f.db, &user.User{}))
	})

	t.Run("concurrent onboardings get distinct codes", func(t *testing.T) {
		f := setup(t)
		const n = 8

		codes := make([]string, n)
		var g errgroup.Group
		for i := 0; i < n; i++ {
			g.Go(func() error {
				res, err := f.provisioner.CreateEmployee(ctx, 1, employeeRequest(fmt.Sprintf("e%d@acme.test", i)))
				if err != nil {
					return err
				}
				codes[i] = res.Employee.Code
				return nil
			})
		}
		require.NoError(t, g.Wait())

		seen := map[string]bool{}
		for _, c := range codes {
			assert.False(t, seen[c], "duplicate code %s", c)
			seen[c] = true
		}
		assert.Len(t, seen, n)
		assert.True(t, seen["EMP1-00000001"])
		assert.True(t, seen[fmt.Sprintf("EMP1-%08d", n)])
	})
}
