package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"einsatzplan/internal/dto"
	"einsatzplan/internal/service"
	"einsatzplan/pkg/response"
)

// Context keys set by middleware.JWTAuth.
const (
	SessionKey   = "session"
	TokenKey     = "access_token"
	RequestIDKey = "request_id"
)

// MustGetSession extracts the session placed by the JWT middleware.
// On failure it writes a 401 and the caller should return.
func MustGetSession(c *gin.Context) (service.Session, bool) {
	v, exists := c.Get(SessionKey)
	if !exists {
		response.Unauthorized(c, 10002, "Nicht angemeldet")
		return service.Session{}, false
	}
	sess, ok := v.(service.Session)
	if !ok || sess.UserID == "" {
		response.Unauthorized(c, 10002, "Nicht angemeldet")
		return service.Session{}, false
	}
	return sess, true
}

// bindMonth reads ?year=&month=; writes a 400 on failure.
func bindMonth(c *gin.Context, code int) (int, int, bool) {
	var req dto.MonthRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, code, "Jahr und Monat erforderlich", err.Error())
		return 0, 0, false
	}
	return req.Year, req.Month, true
}
