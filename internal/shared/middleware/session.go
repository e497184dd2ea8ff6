package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// Cookie settings
	SessionCookieName = "session_id"
	SessionMaxAge     = 60 * 60 * 24 * 30 // 30 days in seconds

	ContextKeySessionID = "session_id"
)

// SessionConfig holds cookie configuration for anonymous cart sessions.
type SessionConfig struct {
	CookieDomain string
	CookiePath   string
	CookieSecure bool
}

// DefaultSessionConfig returns secure defaults. Set CookieSecure=false for
// localhost development.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		CookieDomain: "",
		CookiePath:   "/",
		CookieSecure: true,
	}
}

// SessionMiddleware guarantees every request carries a session key so
// anonymous users can own a cart. Authenticated requests keep their cookie
// too; the cart service prefers the user identity when both are present.
//
// Flow:
// 1. Read session_id cookie; keep it if it parses as a UUID.
// 2. Otherwise generate a new UUID and set the cookie.
// 3. Store the session key in the request context for handlers.
func SessionMiddleware(config SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookieName)
		if err != nil || sessionID == "" {
			sessionID = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(
				SessionCookieName,
				sessionID,
				SessionMaxAge,
				config.CookiePath,
				config.CookieDomain,
				config.CookieSecure,
				true, // httpOnly
			)
		} else if _, parseErr := uuid.Parse(sessionID); parseErr != nil {
			// Tampered cookie: replace it.
			sessionID = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(
				SessionCookieName,
				sessionID,
				SessionMaxAge,
				config.CookiePath,
				config.CookieDomain,
				config.CookieSecure,
				true,
			)
		}

		c.Set(ContextKeySessionID, sessionID)
		c.Next()
	}
}

// GetSessionID returns the session key set by SessionMiddleware.
func GetSessionID(c *gin.Context) string {
	return c.GetString(ContextKeySessionID)
}
