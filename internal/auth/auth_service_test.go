package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"go-hrms/internal/access"
	"go-hrms/internal/auth"
	autherrors "go-hrms/internal/auth/errors"
	"go-hrms/internal/company"
	companyerrors "go-hrms/internal/company/errors"
	companyMock "go-hrms/internal/company/mock"
	"go-hrms/internal/config"
	"go-hrms/internal/credential"
	"go-hrms/internal/token"
	"go-hrms/internal/user"
	usererrors "go-hrms/internal/user/errors"
	userMock "go-hrms/internal/user/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeRegistrar struct {
	RegisterCompanyFn func(ctx context.Context, req company.RegisterRequest) (*company.Company, *user.User, error)
}

func (f *fakeRegistrar) RegisterCompany(ctx context.Context, req company.RegisterRequest) (*company.Company, *user.User, error) {
	return f.RegisterCompanyFn(ctx, req)
}

type serviceDeps struct {
	users     *userMock.MockRepository
	companies *companyMock.MockRepository
	hasher    *credential.Hasher
	tokens    *token.Service
	registrar *fakeRegistrar
	service   auth.Service
}

func setupService(t *testing.T) serviceDeps {
	ctrl := gomock.NewController(t)
	d := serviceDeps{
		users:     userMock.NewMockRepository(ctrl),
		companies: companyMock.NewMockRepository(ctrl),
		hasher:    credential.NewHasher(bcrypt.MinCost),
		tokens:    token.NewService(config.JWTConfig{Secret: "auth-secret", AccessTokenTTL: 30 * time.Minute}),
		registrar: &fakeRegistrar{},
	}
	d.service = auth.NewService(d.users, d.companies, d.hasher, d.tokens, d.registrar)
	return d
}

func (d serviceDeps) user(t *testing.T, password string) *user.User {
	hash, err := d.hasher.Hash(password)
	require.NoError(t, err)
	return &user.User{
		ID: 3, CompanyID: 1, Username: "emp1-00000001", PasswordHash: hash,
		Role: user.RoleEmployee, IsActive: true, ForcePasswordChange: true,
	}
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		d := setupService(t)
		u := d.user(t, "temp123")
		d.users.EXPECT().FindByUsername(ctx, u.Username).Return(u, nil)
		d.companies.EXPECT().FindByID(ctx, uint(1)).Return(&company.Company{ID: 1, IsActive: true}, nil)

		res, err := d.service.Login(ctx, auth.LoginRequest{Username: u.Username, Password: "temp123"})

		require.NoError(t, err)
		assert.Equal(t, "bearer", res.TokenType)
		assert.Equal(t, int64(1800), res.ExpiresIn)
		assert.True(t, res.User.ForcePasswordChange)

		claims, err := d.tokens.Validate(res.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "EMPLOYEE", claims.Role)
		assert.Equal(t, u.Username, claims.Subject)
		assert.Equal(t, uint(1), claims.CompanyID)
	})

	t.Run("unknown username", func(t *testing.T) {
		d := setupService(t)
		d.users.EXPECT().FindByUsername(ctx, "ghost").Return(nil, gorm.ErrRecordNotFound)

		_, err := d.service.Login(ctx, auth.LoginRequest{Username: "ghost", Password: "x"})
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("wrong password gives the same error", func(t *testing.T) {
		d := setupService(t)
		u := d.user(t, "temp123")
		d.users.EXPECT().FindByUsername(ctx, u.Username).Return(u, nil)

		_, err := d.service.Login(ctx, auth.LoginRequest{Username: u.Username, Password: "nope"})
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("inactive user", func(t *testing.T) {
		d := setupService(t)
		u := d.user(t, "temp123")
		u.IsActive = false
		d.users.EXPECT().FindByUsername(ctx, u.Username).Return(u, nil)

		_, err := d.service.Login(ctx, auth.LoginRequest{Username: u.Username, Password: "temp123"})
		assert.ErrorIs(t, err, usererrors.ErrUserInactive)
	})

	t.Run("inactive company", func(t *testing.T) {
		d := setupService(t)
		u := d.user(t, "temp123")
		d.users.EXPECT().FindByUsername(ctx, u.Username).Return(u, nil)
		d.companies.EXPECT().FindByID(ctx, uint(1)).Return(&company.Company{ID: 1, IsActive: false}, nil)

		_, err := d.service.Login(ctx, auth.LoginRequest{Username: u.Username, Password: "temp123"})
		assert.ErrorIs(t, err, companyerrors.ErrCompanyInactive)
	})
}

func TestService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("success clears force flag", func(t *testing.T) {
		d := setupService(t)
		u := d.user(t, "temp123")
		d.users.EXPECT().FindByID(ctx, u.ID).Return(u, nil)
		d.users.EXPECT().Update(ctx, gomock.Any()).DoAndReturn(func(ctx context.Context, got *user.User) error {
			assert.False(t, got.ForcePasswordChange)
			assert.True(t, d.hasher.Verify("newpass1", got.PasswordHash))
			return nil
		})

		err := d.service.ChangePassword(ctx, &access.Principal{UserID: u.ID}, auth.ChangePasswordRequest{
			CurrentPassword: "temp123", NewPassword: "newpass1", ConfirmPassword: "newpass1",
		})
		assert.NoError(t, err)
	})

	t.Run("wrong current password", func(t *testing.T) {
		d := setupService(t)
		u := d.user(t, "temp123")
		d.users.EXPECT().FindByID(ctx, u.ID).Return(u, nil)

		err := d.service.ChangePassword(ctx, &access.Principal{UserID: u.ID}, auth.ChangePasswordRequest{
			CurrentPassword: "bad", NewPassword: "newpass1", ConfirmPassword: "newpass1",
		})
		assert.ErrorIs(t, err, usererrors.ErrWrongPassword)
	})

	t.Run("same password rejected", func(t *testing.T) {
		d := setupService(t)
		u := d.user(t, "temp123")
		d.users.EXPECT().FindByID(ctx, u.ID).Return(u, nil)

		err := d.service.ChangePassword(ctx, &access.Principal{UserID: u.ID}, auth.ChangePasswordRequest{
			CurrentPassword: "temp123", NewPassword: "temp123", ConfirmPassword: "temp123",
		})
		assert.ErrorIs(t, err, autherrors.ErrSamePassword)
	})

	t.Run("multibyte password over 72 bytes", func(t *testing.T) {
		d := setupService(t)
		u := d.user(t, "temp123")
		d.users.EXPECT().FindByID(ctx, u.ID).Return(u, nil)

		long := strings.Repeat("é", 40)
		err := d.service.ChangePassword(ctx, &access.Principal{UserID: u.ID}, auth.ChangePasswordRequest{
			CurrentPassword: "temp123", NewPassword: long, ConfirmPassword: long,
		})
		assert.ErrorIs(t, err, usererrors.ErrPasswordTooLong)
	})
}

func TestService_RegisterCompany(t *testing.T) {
	d := setupService(t)
	d.registrar.RegisterCompanyFn = func(ctx context.Context, req company.RegisterRequest) (*company.Company, *user.User, error) {
		return &company.Company{ID: 1, Code: "CMP00000001", Name: req.CompanyName, IsActive: true},
			&user.User{ID: 1, CompanyID: 1, Username: req.AdminUsername, Role: user.RoleAdmin, IsActive: true},
			nil
	}

	res, err := d.service.RegisterCompany(context.Background(), company.RegisterRequest{CompanyName: "Acme", AdminUsername: "admin1"})

	require.NoError(t, err)
	assert.Equal(t, "CMP00000001", res.Company.Code)
	assert.Equal(t, "admin1", res.Admin.Username)
	assert.Equal(t, user.RoleAdmin, res.Admin.Role)
}
