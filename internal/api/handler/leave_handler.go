package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"einsatzplan/internal/dto"
	"einsatzplan/internal/service"
	"einsatzplan/pkg/response"
)

// LeaveHandler leave and sickness register
type LeaveHandler struct {
	leaveSvc service.LeaveService
}

// NewLeaveHandler creates a LeaveHandler
func NewLeaveHandler(leaveSvc service.LeaveService) *LeaveHandler {
	return &LeaveHandler{leaveSvc: leaveSvc}
}

// ListMonth
// GET /api/v1/leave?year=&month=
func (h *LeaveHandler) ListMonth(c *gin.Context) {
	year, month, ok := bindMonth(c, 14001)
	if !ok {
		return
	}

	list, err := h.leaveSvc.ListMonth(c.Request.Context(), year, month)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}
	response.OK(c, dto.ListResponse{List: list})
}

// SetRange marks a date range; existing days are overwritten.
// POST /api/v1/leave
func (h *LeaveHandler) SetRange(c *gin.Context) {
	var req dto.LeaveRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 14001, "Eingaben ungültig", err.Error())
		return
	}

	result, err := h.leaveSvc.SetRange(c.Request.Context(), &req)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}
	response.OK(c, result)
}

// DeleteRange
// DELETE /api/v1/leave
func (h *LeaveHandler) DeleteRange(c *gin.Context) {
	var req dto.LeaveDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 14001, "Eingaben ungültig", err.Error())
		return
	}

	result, err := h.leaveSvc.DeleteRange(c.Request.Context(), &req)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *LeaveHandler) handleLeaveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmployeeNotFound):
		response.NotFound(c, 14101, "Mitarbeiter nicht gefunden")
	case errors.Is(err, service.ErrLeaveStatusMissing):
		response.BadRequest(c, 14102, "Abwesenheitsstatus fehlt")
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 14103, "ungültiger Datumsbereich (höchstens ein Jahr, Ende nicht vor Beginn)")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 14104, "ungültiges Datum")
	case errors.Is(err, service.ErrInvalidMonth):
		response.BadRequest(c, 14105, "ungültiger Monat")
	default:
		response.InternalError(c)
	}
}
