package company

import "github.com/gin-gonic/gin"

// RegisterRoutes takes its guards as handlers; the access layer depends on
// this package, so it cannot import the middleware itself.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authn, requireAdmin gin.HandlerFunc) {
	company := r.Group("/companies")
	company.Use(authn)
	{
		company.GET("/me", handler.GetMe)
		company.PUT("/me", requireAdmin, handler.UpdateMe)
	}
}
