// Package access resolves bearer tokens into principals and gates them by
// role. Every failure is an *apperror.AppError.
package access

import (
	"context"

	"go-hrms/internal/company"
	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/contextutil"
	"go-hrms/internal/shared/dberr"
	"go-hrms/internal/token"
	"go-hrms/internal/user"

	"go.uber.org/zap"
)

var (
	ErrUnauthenticated = apperror.Unauthenticated("Could not validate credentials")
	ErrInactiveUser    = apperror.Forbidden("inactive user")
	ErrInactiveCompany = apperror.Forbidden("inactive company")
	ErrRoleMismatch    = apperror.ErrForbidden
)

type TokenValidator interface {
	Validate(raw string) (token.Claims, error)
}

// Gate is stateless; it re-reads the user and company on every call so that
// deactivation takes effect on the next request.
type Gate struct {
	tokens    TokenValidator
	users     user.Repository
	companies company.Repository
	logger    *zap.Logger
}

func NewGate(tokens TokenValidator, users user.Repository, companies company.Repository, logger ...*zap.Logger) *Gate {
	l := zap.L().Named("access.gate")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("access.gate")
	}
	return &Gate{tokens: tokens, users: users, companies: companies, logger: l}
}

func (g *Gate) Authenticate(ctx context.Context, raw string) (*Principal, error) {
	log := contextutil.GetLogger(ctx, g.logger)
	if raw == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := g.tokens.Validate(raw)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	u, err := g.users.FindByUsername(ctx, claims.Subject)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, ErrUnauthenticated
		}
		log.Error("user lookup failed", zap.String("subject", claims.Subject), zap.Error(err))
		return nil, apperror.Internal(err)
	}
	if u.ID != claims.UserID || u.CompanyID != claims.CompanyID {
		return nil, ErrUnauthenticated
	}
	if !u.IsActive {
		return nil, ErrInactiveUser
	}

	comp, err := g.companies.FindByID(ctx, u.CompanyID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, ErrInactiveCompany
		}
		log.Error("company lookup failed", zap.Uint("company_id", u.CompanyID), zap.Error(err))
		return nil, apperror.Internal(err)
	}
	if !comp.IsActive {
		return nil, ErrInactiveCompany
	}

	return principalFromUser(u), nil
}

// RequireRole fails with Forbidden unless p holds role.
func RequireRole(p *Principal, role user.Role) error {
	if p == nil {
		return ErrUnauthenticated
	}
	if p.Role != role {
		return ErrRoleMismatch
	}
	return nil
}

func (g *Gate) RequireAdmin(ctx context.Context, raw string) (*Principal, error) {
	return g.authenticateAs(ctx, raw, user.RoleAdmin)
}

func (g *Gate) RequireEmployeeRole(ctx context.Context, raw string) (*Principal, error) {
	return g.authenticateAs(ctx, raw, user.RoleEmployee)
}

func (g *Gate) authenticateAs(ctx context.Context, raw string, role user.Role) (*Principal, error) {
	p, err := g.Authenticate(ctx, raw)
	if err != nil {
		return nil, err
	}
	if err := RequireRole(p, role); err != nil {
		return nil, err
	}
	return p, nil
}
