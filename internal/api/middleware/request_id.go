package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"einsatzplan/internal/api/handler"
)

// requestIDMaxLen bounds client-supplied ids before they reach the logs.
const requestIDMaxLen = 64

// RequestID reuses X-Request-ID or generates a UUID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" || len(rid) > requestIDMaxLen {
			rid = uuid.New().String()
		}

		c.Set(handler.RequestIDKey, rid)
		c.Header("X-Request-ID", rid)

		c.Next()
	}
}
