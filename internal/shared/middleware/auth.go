package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"greencart-backend/internal/shared/response"
	"greencart-backend/pkg/jwt"
)

// Context keys set by the auth middlewares.
const (
	ContextKeyUserID  = "user_id"
	ContextKeyEmail   = "email"
	ContextKeyIsAdmin = "is_admin"
)

// AuthMiddleware requires a valid bearer access token.
func AuthMiddleware(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearerToken(c, manager)
		if !ok {
			c.Abort()
			return
		}

		setAuthContext(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware sets the auth context when a valid token is present
// but lets anonymous requests through. Used on cart routes, where anonymous
// users are identified by their session cookie instead.
func OptionalAuthMiddleware(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		if claims, ok := parseBearerToken(c, manager); ok {
			setAuthContext(c, claims)
		} else {
			// An invalid token on an optional route is still an error:
			// the client thinks it is authenticated.
			c.Abort()
			return
		}
		c.Next()
	}
}

func parseBearerToken(c *gin.Context, manager *jwt.Manager) (*jwt.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		response.Unauthorized(c, "missing authorization header")
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		response.Unauthorized(c, "invalid authorization header format")
		return nil, false
	}

	claims, err := manager.ValidateAccessToken(parts[1])
	if err != nil {
		response.Unauthorized(c, "invalid token")
		return nil, false
	}

	if _, err := uuid.Parse(claims.UserID); err != nil {
		response.Unauthorized(c, "invalid user ID in token")
		return nil, false
	}

	return claims, true
}

func setAuthContext(c *gin.Context, claims *jwt.Claims) {
	userID, _ := uuid.Parse(claims.UserID)
	c.Set(ContextKeyUserID, userID)
	c.Set(ContextKeyEmail, claims.Email)
	c.Set(ContextKeyIsAdmin, claims.IsAdmin)
}

// GetAuthenticatedUserID returns the user ID set by the auth middleware.
func GetAuthenticatedUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ContextKeyUserID)
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := v.(uuid.UUID)
	return userID, ok
}

// IsAdmin reports whether the authenticated user has the admin flag.
func IsAdmin(c *gin.Context) bool {
	v, exists := c.Get(ContextKeyIsAdmin)
	if !exists {
		return false
	}
	isAdmin, ok := v.(bool)
	return ok && isAdmin
}
