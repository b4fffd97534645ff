package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config is built once at process start and handed to constructors.
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Security SecurityConfig
}

type AppConfig struct {
	Env             string `env:"APP_ENV" envDefault:"development"`
	CodeMaxAttempts int    `env:"CODE_MAX_ATTEMPTS" envDefault:"10"`
	MigrateOnStart  bool   `env:"MIGRATE_ON_START" envDefault:"false"`
}

func (c AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// ServerConfig timeouts are read as whole seconds and resolved by Load.
type ServerConfig struct {
	Port            string `env:"PORT" envDefault:"8000"`
	ReadTimeoutSec  int    `env:"READ_TIMEOUT_SEC" envDefault:"5"`
	WriteTimeoutSec int    `env:"WRITE_TIMEOUT_SEC" envDefault:"10"`
	IdleTimeoutSec  int    `env:"IDLE_TIMEOUT_SEC" envDefault:"60"`

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL          string `env:"DATABASE_URL"` // if set, used as-is
	Host         string `env:"DB_HOST" envDefault:"localhost"`
	Port         string `env:"DB_PORT" envDefault:"5432"`
	User         string `env:"DB_USER" envDefault:"postgres"`
	Password     string `env:"DB_PASSWORD" envDefault:"postgres"`
	Name         string `env:"DB_NAME" envDefault:"hrms"`
	SSLMode      string `env:"DB_SSLMODE" envDefault:"disable"`
	MaxRetries   int    `env:"DB_MAX_RETRIES" envDefault:"5"`
	MaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns int    `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
}

// RedisConfig holds Redis settings. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type JWTConfig struct {
	Secret               string `env:"JWT_SECRET,notEmpty"`
	AccessTokenExpireMin int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"30"`

	AccessTokenTTL time.Duration
}

type SecurityConfig struct {
	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`
}

// DSN returns the PostgreSQL connection string.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

// Load reads configuration from the environment, with an optional .env file.
// A malformed value fails instead of falling back to its default.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg.Server.ReadTimeout = time.Duration(cfg.Server.ReadTimeoutSec) * time.Second
	cfg.Server.WriteTimeout = time.Duration(cfg.Server.WriteTimeoutSec) * time.Second
	cfg.Server.IdleTimeout = time.Duration(cfg.Server.IdleTimeoutSec) * time.Second
	cfg.JWT.AccessTokenTTL = time.Duration(cfg.JWT.AccessTokenExpireMin) * time.Minute

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if c.JWT.AccessTokenTTL <= 0 {
		return errors.New("config: ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	if c.Security.BcryptCost < bcrypt.MinCost || c.Security.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("config: BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.App.CodeMaxAttempts < 1 {
		return errors.New("config: CODE_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}
