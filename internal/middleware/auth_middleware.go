package middleware

import (
	"context"
	"strings"

	"go-hrms/internal/access"
	"go-hrms/internal/shared/contextutil"
	"go-hrms/internal/shared/response"
	"go-hrms/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Authenticator resolves a raw bearer token. *access.Gate implements it.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*access.Principal, error)
}

// Authenticate runs the access gate on the bearer token and stores the
// principal on the gin context.
func Authenticate(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			raw = ""
		}

		p, err := a.Authenticate(c.Request.Context(), strings.TrimSpace(raw))
		if err != nil {
			response.FromError(c, err)
			return
		}

		access.ToGin(c, p)

		ctx := contextutil.WithIdentity(c.Request.Context(), p.UserID, p.CompanyID)
		reqLogger := contextutil.GetLogger(ctx, zap.L()).With(
			zap.Uint("user_id", p.UserID),
			zap.Uint("company_id", p.CompanyID),
		)
		c.Request = c.Request.WithContext(contextutil.WithLogger(ctx, reqLogger))

		c.Next()
	}
}

// RequireRole must run after Authenticate.
func RequireRole(role user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := access.FromGin(c)
		if err := access.RequireRole(p, role); err != nil {
			response.FromError(c, err)
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return RequireRole(user.RoleAdmin)
}
