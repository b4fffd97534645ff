package token

import (
	"errors"
	"time"

	"go-hrms/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalid is the only failure Validate reports, whatever the cause.
var ErrInvalid = errors.New("invalid token")

// Claims is the identity carried by an access token.
type Claims struct {
	Subject   string
	UserID    uint
	CompanyID uint
	Role      string
	ExpiresAt time.Time
}

type jwtClaims struct {
	UserID    uint   `json:"user_id"`
	CompanyID uint   `json:"company_id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// Service issues and validates HS256 access tokens.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Service)

// WithClock replaces the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(cfg config.JWTConfig, opts ...Option) *Service {
	s := &Service{
		secret: []byte(cfg.Secret),
		ttl:    cfg.AccessTokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL is the configured access token lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue signs claims valid for ttl. A non-positive ttl uses the configured one.
func (s *Service) Issue(c Claims, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.ttl
	}
	now := s.now()
	claims := jwtClaims{
		UserID:    c.UserID,
		CompanyID: c.CompanyID,
		Role:      c.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.Subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Validate checks signature, algorithm and expiry.
func (s *Service) Validate(raw string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &jwtClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalid
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Claims{}, ErrInvalid
	}

	claims, ok := parsed.Claims.(*jwtClaims)
	if !ok || !parsed.Valid || claims.Subject == "" || claims.ExpiresAt == nil {
		return Claims{}, ErrInvalid
	}

	return Claims{
		Subject:   claims.Subject,
		UserID:    claims.UserID,
		CompanyID: claims.CompanyID,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
