package auth

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authn, idempotency gin.HandlerFunc) {
	auth := r.Group("/auth")
	{
		auth.POST("/register-company", idempotency, handler.RegisterCompany)
		auth.POST("/login", handler.Login)
		auth.GET("/me", authn, handler.Me)
		auth.POST("/change-password", authn, handler.ChangePassword)
	}
}
