package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"einsatzplan/internal/api/handler"
	"einsatzplan/internal/service"
	"einsatzplan/pkg/jwt"
	"einsatzplan/pkg/response"
)

// JWTAuth validates "Authorization: Bearer <token>" and places the
// service.Session in the context. blacklist may be nil.
func JWTAuth(jwtMgr *jwt.Manager, blacklist service.TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "Anmeldung erforderlich")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "ungültiger Authorization-Header")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "Token ungültig oder abgelaufen")
			c.Abort()
			return
		}

		if claims.TokenType != "access" {
			response.Unauthorized(c, 10002, "falscher Token-Typ")
			c.Abort()
			return
		}

		// a blacklist outage lets the request through
		if blacklist != nil {
			if revoked, err := blacklist.IsBlacklisted(c.Request.Context(), claims.ID); err == nil && revoked {
				response.Unauthorized(c, 10002, "Token wurde widerrufen")
				c.Abort()
				return
			}
		}

		c.Set(handler.SessionKey, service.Session{
			UserID:     claims.UserID,
			Name:       claims.Name,
			Role:       claims.Role,
			EmployeeID: claims.EmployeeID,
		})
		c.Set(handler.TokenKey, parts[1])

		c.Next()
	}
}

// RoleAuth lets the request through only for the given roles.
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(handler.SessionKey)
		if !exists {
			response.Unauthorized(c, 10002, "Anmeldung erforderlich")
			c.Abort()
			return
		}

		sess, _ := v.(service.Session)
		for _, r := range allowedRoles {
			if sess.Role == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "keine Berechtigung")
		c.Abort()
	}
}
