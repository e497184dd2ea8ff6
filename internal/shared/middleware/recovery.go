package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"greencart-backend/internal/shared/response"
)

// Recovery turns a handler panic into the standard error envelope
// instead of a dropped connection.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("request_id", c.GetString("request_id")).
					Str("path", c.Request.URL.Path).
					Interface("panic", err).
					Msg("Recovered from handler panic")

				response.InternalServerError(c, "Something went wrong")
				c.Abort()
			}
		}()

		c.Next()
	}
}
