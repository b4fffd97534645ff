package department

import (
	"go-hrms/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, gate middleware.Authenticator) {
	departments := r.Group("/departments")
	departments.Use(middleware.Authenticate(gate))
	{
		departments.GET("", h.GetAll)
		departments.GET("/:id", h.GetByID)
		departments.POST("", middleware.RequireAdmin(), h.Create)
		departments.PUT("/:id", middleware.RequireAdmin(), h.Update)
		departments.DELETE("/:id", middleware.RequireAdmin(), h.Deactivate)
	}
}
