package auth

import (
	"context"
	"errors"
	"time"

	"go-hrms/internal/access"
	autherrors "go-hrms/internal/auth/errors"
	"go-hrms/internal/company"
	companyerrors "go-hrms/internal/company/errors"
	"go-hrms/internal/credential"
	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/contextutil"
	"go-hrms/internal/shared/dberr"
	"go-hrms/internal/token"
	"go-hrms/internal/user"
	usererrors "go-hrms/internal/user/errors"

	"go.uber.org/zap"
)

const tokenTypeBearer = "bearer"

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

type TokenIssuer interface {
	Issue(c token.Claims, ttl time.Duration) (string, error)
	TTL() time.Duration
}

// CompanyRegistrar provisions a tenant and its admin atomically.
type CompanyRegistrar interface {
	RegisterCompany(ctx context.Context, req company.RegisterRequest) (*company.Company, *user.User, error)
}

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Me(ctx context.Context, p *access.Principal) (user.UserResponse, error)
	ChangePassword(ctx context.Context, p *access.Principal, req ChangePasswordRequest) error
	RegisterCompany(ctx context.Context, req company.RegisterRequest) (RegisterCompanyResponse, error)
}

type service struct {
	users     user.Repository
	companies company.Repository
	hasher    PasswordHasher
	tokens    TokenIssuer
	registrar CompanyRegistrar
	logger    *zap.Logger
}

func NewService(
	users user.Repository,
	companies company.Repository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	registrar CompanyRegistrar,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{
		users:     users,
		companies: companies,
		hasher:    hasher,
		tokens:    tokens,
		registrar: registrar,
		logger:    l,
	}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	u, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if dberr.IsNotFound(err) {
			return LoginResponse{}, autherrors.ErrInvalidCredentials
		}
		log.Error("find user failed", zap.Error(err))
		return LoginResponse{}, apperror.Internal(err)
	}

	if !s.hasher.Verify(req.Password, u.PasswordHash) {
		log.Debug("login rejected", zap.Uint("user_id", u.ID))
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}
	if !u.IsActive {
		return LoginResponse{}, usererrors.ErrUserInactive
	}

	comp, err := s.companies.FindByID(ctx, u.CompanyID)
	if err != nil && !dberr.IsNotFound(err) {
		log.Error("find company failed", zap.Uint("company_id", u.CompanyID), zap.Error(err))
		return LoginResponse{}, apperror.Internal(err)
	}
	if comp == nil || !comp.IsActive {
		return LoginResponse{}, companyerrors.ErrCompanyInactive
	}

	accessToken, err := s.tokens.Issue(token.Claims{
		Subject:   u.Username,
		UserID:    u.ID,
		CompanyID: u.CompanyID,
		Role:      string(u.Role),
	}, 0)
	if err != nil {
		log.Error("issue token failed", zap.Uint("user_id", u.ID), zap.Error(err))
		return LoginResponse{}, apperror.Internal(err)
	}

	log.Info("user logged in", zap.Uint("user_id", u.ID), zap.Uint("company_id", u.CompanyID))
	return LoginResponse{
		AccessToken: accessToken,
		TokenType:   tokenTypeBearer,
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
		User:        user.ToResponse(u),
	}, nil
}

func (s *service) Me(ctx context.Context, p *access.Principal) (user.UserResponse, error) {
	u, err := s.users.FindByID(ctx, p.UserID)
	if err != nil {
		return user.UserResponse{}, mapRepositoryError(err)
	}
	return user.ToResponse(u), nil
}

func (s *service) ChangePassword(ctx context.Context, p *access.Principal, req ChangePasswordRequest) error {
	log := contextutil.GetLogger(ctx, s.logger)
	u, err := s.users.FindByID(ctx, p.UserID)
	if err != nil {
		return mapRepositoryError(err)
	}

	if !s.hasher.Verify(req.CurrentPassword, u.PasswordHash) {
		return usererrors.ErrWrongPassword
	}
	if req.NewPassword == req.CurrentPassword {
		return autherrors.ErrSamePassword
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		if errors.Is(err, credential.ErrPasswordTooLong) {
			return usererrors.ErrPasswordTooLong
		}
		return apperror.Internal(err)
	}

	u.PasswordHash = hash
	u.ForcePasswordChange = false
	if err := s.users.Update(ctx, u); err != nil {
		log.Error("update password failed", zap.Uint("user_id", u.ID), zap.Error(err))
		return apperror.Internal(err)
	}

	log.Info("password changed", zap.Uint("user_id", u.ID))
	return nil
}

func (s *service) RegisterCompany(ctx context.Context, req company.RegisterRequest) (RegisterCompanyResponse, error) {
	comp, admin, err := s.registrar.RegisterCompany(ctx, req)
	if err != nil {
		return RegisterCompanyResponse{}, err
	}
	return RegisterCompanyResponse{
		Company: company.ToResponse(comp),
		Admin:   user.ToResponse(admin),
	}, nil
}

func mapRepositoryError(err error) error {
	if dberr.IsNotFound(err) {
		return usererrors.ErrUserNotFound
	}
	return apperror.Internal(err)
}
