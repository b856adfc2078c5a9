package routers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"khawam-pro/models/khawam"
	"khawam-pro/pkg/middleware/render"
	"khawam-pro/internal/service"
)

// AuthRequired verifies the bearer token and stores the caller's identity
// on the context.
func AuthRequired(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			render.Unauthorized(c, errMissingToken)
			c.Abort()
			return
		}

		claims, err := auth.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			render.Unauthorized(c, err.Error())
			c.Abort()
			return
		}

		c.Set(ctxKeyUserID, claims.UserID)
		c.Set(ctxKeyRole, claims.Role)
		c.Next()
	}
}

// AdminRequired gates dashboard mutations. Must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(ctxKeyRole)
		if role != khawam.RoleAdmin {
			render.Forbidden(c, errAdminOnly)
			c.Abort()
			return
		}
		c.Next()
	}
}

// callerName returns a label for status-history attribution.
func callerName(c *gin.Context) string {
	if role, ok := c.Get(ctxKeyRole); ok && role == khawam.RoleAdmin {
		return "admin"
	}
	return "customer"
}
