package app

import (
	"go-hrms/internal/config"
	"go-hrms/internal/shared/connection"
	"go-hrms/internal/shared/migration"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const redisMaxRetries = 5

// BuildApp connects the infrastructure described by cfg and returns the
// router plus a cleanup func that releases it.
func BuildApp(cfg *config.Config, logger *zap.Logger) (*gin.Engine, func(), error) {
	db, err := connection.ConnectGORMWithRetry(cfg.Database, logger)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}

	if cfg.App.MigrateOnStart {
		m, err := migration.New(sqlDB, logger)
		if err != nil {
			_ = sqlDB.Close()
			return nil, nil, err
		}
		if err := m.Up(); err != nil {
			_ = sqlDB.Close()
			return nil, nil, err
		}
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis, redisMaxRetries, logger)
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, err
	}

	router := NewRouter(Dependencies{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		Logger: logger,
	})

	cleanup := func() {
		if rdb != nil {
			_ = rdb.Close()
		}
		_ = sqlDB.Close()
	}
	return router, cleanup, nil
}
