package access_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-hrms/internal/access"
	"go-hrms/internal/company"
	companyMock "go-hrms/internal/company/mock"
	"go-hrms/internal/config"
	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/token"
	"go-hrms/internal/user"
	userMock "go-hrms/internal/user/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type fixture struct {
	gate      *access.Gate
	tokens    *token.Service
	users     *userMock.MockRepository
	companies *companyMock.MockRepository
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)
	tokens := token.NewService(config.JWTConfig{Secret: "gate-secret", AccessTokenTTL: time.Minute})
	users := userMock.NewMockRepository(ctrl)
	companies := companyMock.NewMockRepository(ctrl)
	return fixture{
		gate:      access.NewGate(tokens, users, companies),
		tokens:    tokens,
		users:     users,
		companies: companies,
	}
}

func (f fixture) issue(t *testing.T, u *user.User) string {
	raw, err := f.tokens.Issue(token.Claims{
		Subject:   u.Username,
		UserID:    u.ID,
		CompanyID: u.CompanyID,
		Role:      string(u.Role),
	}, 0)
	require.NoError(t, err)
	return raw
}

func activeAdmin() *user.User {
	return &user.User{ID: 1, CompanyID: 10, Username: "admin1", Role: user.RoleAdmin, IsActive: true}
}

func TestGate_Authenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		f := newFixture(t)
		u := activeAdmin()
		f.users.EXPECT().FindByUsername(ctx, "admin1").Return(u, nil)
		f.companies.EXPECT().FindByID(ctx, uint(10)).Return(&company.Company{ID: 10, IsActive: true}, nil)

		p, err := f.gate.Authenticate(ctx, f.issue(t, u))

		require.NoError(t, err)
		assert.Equal(t, uint(1), p.UserID)
		assert.Equal(t, uint(10), p.CompanyID)
		assert.True(t, p.IsAdmin())
	})

	t.Run("garbage token", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.gate.Authenticate(ctx, "not-a-token")
		assert.Equal(t, apperror.CodeUnauthorized, apperror.CodeOf(err))
	})

	t.Run("empty token", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.gate.Authenticate(ctx, "")
		assert.ErrorIs(t, err, access.ErrUnauthenticated)
	})

	t.Run("unknown subject", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().FindByUsername(ctx, "admin1").Return(nil, gorm.ErrRecordNotFound)

		_, err := f.gate.Authenticate(ctx, f.issue(t, activeAdmin()))
		assert.ErrorIs(t, err, access.ErrUnauthenticated)
	})

	t.Run("inactive user", func(t *testing.T) {
		f := newFixture(t)
		u := activeAdmin()
		u.IsActive = false
		f.users.EXPECT().FindByUsername(ctx, "admin1").Return(u, nil)

		_, err := f.gate.Authenticate(ctx, f.issue(t, u))
		assert.ErrorIs(t, err, access.ErrInactiveUser)
		assert.Equal(t, apperror.CodeForbidden, apperror.CodeOf(err))
	})

	t.Run("inactive company", func(t *testing.T) {
		f := newFixture(t)
		u := activeAdmin()
		f.users.EXPECT().FindByUsername(ctx, "admin1").Return(u, nil)
		f.companies.EXPECT().FindByID(ctx, uint(10)).Return(&company.Company{ID: 10, IsActive: false}, nil)

		_, err := f.gate.Authenticate(ctx, f.issue(t, u))
		assert.ErrorIs(t, err, access.ErrInactiveCompany)
	})

	t.Run("store failure", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().FindByUsername(ctx, "admin1").Return(nil, errors.New("conn refused"))

		_, err := f.gate.Authenticate(ctx, f.issue(t, activeAdmin()))
		assert.Equal(t, apperror.CodeInternalError, apperror.CodeOf(err))
	})
}

func TestGate_RoleCompositions(t *testing.T) {
	ctx := context.Background()

	t.Run("admin passes RequireAdmin", func(t *testing.T) {
		f := newFixture(t)
		u := activeAdmin()
		f.users.EXPECT().FindByUsername(ctx, "admin1").Return(u, nil)
		f.companies.EXPECT().FindByID(ctx, uint(10)).Return(&company.Company{ID: 10, IsActive: true}, nil)

		_, err := f.gate.RequireAdmin(ctx, f.issue(t, u))
		assert.NoError(t, err)
	})

	t.Run("admin fails RequireEmployeeRole", func(t *testing.T) {
		f := newFixture(t)
		u := activeAdmin()
		f.users.EXPECT().FindByUsername(ctx, "admin1").Return(u, nil)
		f.companies.EXPECT().FindByID(ctx, uint(10)).Return(&company.Company{ID: 10, IsActive: true}, nil)

		_, err := f.gate.RequireEmployeeRole(ctx, f.issue(t, u))
		assert.ErrorIs(t, err, access.ErrRoleMismatch)
	})
}

func TestRequireRole(t *testing.T) {
	p := &access.Principal{Role: user.RoleEmployee}

	assert.NoError(t, access.RequireRole(p, user.RoleEmployee))
	assert.ErrorIs(t, access.RequireRole(p, user.RoleAdmin), access.ErrRoleMismatch)
	assert.ErrorIs(t, access.RequireRole(nil, user.RoleAdmin), access.ErrUnauthenticated)
}
