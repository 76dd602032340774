package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"einsatzplan/pkg/response"
)

// BodyLimit caps request bodies; a full month grid stays well below 1 MB.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "Anfrage zu groß")
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
