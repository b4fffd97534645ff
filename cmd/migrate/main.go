package main

import (
	"flag"
	"log"

	"go-hrms/internal/config"
	"go-hrms/internal/shared/connection"
	"go-hrms/internal/shared/migration"

	"go.uber.org/zap"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up or down")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	db, err := connection.ConnectGORMWithRetry(cfg.Database, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB failed", zap.Error(err))
	}
	defer sqlDB.Close()

	m, err := migration.New(sqlDB, logger)
	if err != nil {
		logger.Fatal("init migrator failed", zap.Error(err))
	}

	switch *direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	default:
		logger.Fatal("unknown direction", zap.String("direction", *direction))
	}
	if err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	version, dirty, err := m.Version()
	if err != nil {
		logger.Fatal("read migration version failed", zap.Error(err))
	}
	logger.Info("migration finished", zap.String("direction", *direction), zap.Uint("version", version), zap.Bool("dirty", dirty))
}
