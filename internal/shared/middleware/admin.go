package middleware

import (
	"github.com/gin-gonic/gin"

	"greencart-backend/internal/shared/response"
)

// AdminMiddleware rejects requests from non-admin users.
// Must run after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			response.Forbidden(c, "Access denied: admin role required")
			c.Abort()
			return
		}

		c.Next()
	}
}
