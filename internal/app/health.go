package app

import (
	"context"
	"net/http"
	"time"

	"go-hrms/internal/shared/connection"
	"go-hrms/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const healthTimeout = 2 * time.Second

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		if err := connection.Ping(ctx, db); err != nil {
			zap.L().Named("app.health").Error("database ping failed", zap.Error(err))
			response.Error(c, http.StatusServiceUnavailable, "UNHEALTHY", "database unreachable", nil)
			return
		}

		response.Success(c, http.StatusOK, gin.H{"status": "ok", "database": "up"}, nil)
	}
}
