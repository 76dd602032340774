package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"einsatzplan/internal/dto"
	"einsatzplan/internal/service"
	"einsatzplan/pkg/response"
)

// PlanHandler monthly plan grid, commit and ad hoc conflict check
type PlanHandler struct {
	planSvc     service.PlanService
	conflictSvc service.ConflictService
}

// NewPlanHandler creates a PlanHandler
func NewPlanHandler(planSvc service.PlanService, conflictSvc service.ConflictService) *PlanHandler {
	return &PlanHandler{planSvc: planSvc, conflictSvc: conflictSvc}
}

// Get
// GET /api/v1/plans/:site_id?year=&month=
func (h *PlanHandler) Get(c *gin.Context) {
	year, month, ok := bindMonth(c, 15001)
	if !ok {
		return
	}

	plan, err := h.planSvc.GetPlan(c.Request.Context(), c.Param("site_id"), year, month)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}
	response.OK(c, plan)
}

// Commit replaces the site's month with the submitted grid, all or nothing.
// PUT /api/v1/plans/:site_id
func (h *PlanHandler) Commit(c *gin.Context) {
	var req dto.CommitPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 15001, "Eingaben ungültig", err.Error())
		return
	}

	result, err := h.planSvc.CommitPlan(c.Request.Context(), c.Param("site_id"), &req)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}
	response.OK(c, result)
}

// Check runs the conflict checks for one cell without saving.
// POST /api/v1/plans/check
func (h *PlanHandler) Check(c *gin.Context) {
	var req dto.CheckCellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 15001, "Eingaben ungültig", err.Error())
		return
	}

	result, err := h.conflictSvc.Check(c.Request.Context(), &req)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *PlanHandler) handlePlanError(c *gin.Context, err error) {
	var conflicts *service.PlanConflictError
	switch {
	case errors.As(err, &conflicts):
		response.ErrorWithData(c, http.StatusConflict, 30001, "Plan enthält Konflikte und wurde nicht gespeichert",
			gin.H{"conflicts": conflicts.Responses()})
	case errors.Is(err, service.ErrPlanCommitFailed):
		response.Error(c, http.StatusInternalServerError, 15102,
			"Plan konnte nicht gespeichert werden, es wurde nichts geändert. Bitte erneut versuchen.")
	case errors.Is(err, service.ErrSiteNotFound):
		response.NotFound(c, 15101, "Objekt nicht gefunden")
	case errors.Is(err, service.ErrEmployeeNotFound):
		response.ErrorWithDetails(c, http.StatusBadRequest, 15103, "Mitarbeiter nicht gefunden", err.Error())
	case errors.Is(err, service.ErrSlotNotInSite):
		response.ErrorWithDetails(c, http.StatusBadRequest, 15104, "Position gehört nicht zu diesem Objekt", err.Error())
	case errors.Is(err, service.ErrDateOutsideMonth):
		response.ErrorWithDetails(c, http.StatusBadRequest, 15105, "Datum liegt außerhalb des Monats", err.Error())
	case errors.Is(err, service.ErrDuplicateCell):
		response.ErrorWithDetails(c, http.StatusBadRequest, 15106, "Zelle mehrfach übermittelt", err.Error())
	case errors.Is(err, service.ErrInvalidBreak):
		response.ErrorWithDetails(c, http.StatusBadRequest, 15107, "ungültige Pause", err.Error())
	case errors.Is(err, service.ErrInvalidMonth):
		response.BadRequest(c, 15108, "ungültiger Monat")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 15109, "ungültiges Datum")
	default:
		response.InternalError(c)
	}
}
