package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tally/internal/models"
)

// RequireAdmin gates a route group to administrators. It must run after
// AuthMiddleware, which puts the token's role claim on the context.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		roleValue, exists := c.Get(ContextRole)
		if !exists {
			abortForbidden(c)
			return
		}
		role, ok := models.ParseRole(roleValue.(string))
		if !ok || role != models.RoleAdmin {
			abortForbidden(c)
			return
		}
		c.Next()
	}
}

func abortForbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden,
		gin.H{"error": gin.H{"code": "FORBIDDEN", "message": "Access denied"}})
}
