package employee

import (
	"go-hrms/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	gate middleware.Authenticator,
	rdb *redis.Client,
) {
	employees := r.Group("/employees")
	employees.Use(middleware.Authenticate(gate))
	{
		employees.GET("", handler.GetAll)
		employees.GET("/options", handler.GetOptions)
		employees.GET("/:id", handler.GetByID)

		employees.POST("",
			middleware.RequireAdmin(),
			middleware.Idempotency(rdb),
			handler.Create,
		)
		employees.PUT("/:id", middleware.RequireAdmin(), handler.Update)
		employees.DELETE("/:id", middleware.RequireAdmin(), handler.Deactivate)
	}
}
