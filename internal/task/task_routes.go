package task

import (
	"go-hrms/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, gate middleware.Authenticator) {
	tasks := r.Group("/tasks")
	tasks.Use(middleware.Authenticate(gate))
	{
		tasks.GET("", h.List)
		tasks.GET("/:id", h.Get)
		tasks.POST("", middleware.RequireAdmin(), h.Create)
		tasks.PUT("/:id", h.Update)
		tasks.POST("/:id/close", h.Close)
	}
}
