package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"einsatzplan/internal/dto"
	"einsatzplan/internal/service"
	"einsatzplan/pkg/response"
)

// AuthHandler login, refresh, logout and session info
type AuthHandler struct {
	authSvc service.AuthService
	planSvc service.PlanService
}

// NewAuthHandler creates an AuthHandler
func NewAuthHandler(authSvc service.AuthService, planSvc service.PlanService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, planSvc: planSvc}
}

// Login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Eingaben unvollständig")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// Refresh exchanges a refresh token for a new token pair.
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Refresh-Token fehlt")
		return
	}

	result, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// Logout revokes the access token used for this request.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString(TokenKey)
	if err := h.authSvc.Logout(c.Request.Context(), token); err != nil {
		h.handleAuthError(c, err)
		return
	}
	response.OK(c, nil)
}

// Me
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	sess, ok := MustGetSession(c)
	if !ok {
		return
	}
	response.OK(c, h.authSvc.Me(sess))
}

// MyAssignments own assignments of the current and the next month
// GET /api/v1/me/assignments
func (h *AuthHandler) MyAssignments(c *gin.Context) {
	sess, ok := MustGetSession(c)
	if !ok {
		return
	}

	list, err := h.planSvc.MyAssignments(c.Request.Context(), sess, now())
	if err != nil {
		if errors.Is(err, service.ErrNoEmployeeIdentity) {
			response.BadRequest(c, 11004, "Diese Anmeldung ist keinem Mitarbeiter zugeordnet")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, dto.ListResponse{List: list})
}

func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, 11001, "Benutzername oder Kennwort falsch")
	case errors.Is(err, service.ErrAccountInactive):
		response.Forbidden(c, 11002, "Zugang ist deaktiviert")
	case errors.Is(err, service.ErrInvalidToken):
		response.Unauthorized(c, 11003, "Token ungültig oder abgelaufen")
	default:
		response.InternalError(c)
	}
}
