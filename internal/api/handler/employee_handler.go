package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"einsatzplan/internal/dto"
	"einsatzplan/internal/service"
	"einsatzplan/pkg/response"
)

// EmployeeHandler employee directory
type EmployeeHandler struct {
	employeeSvc service.EmployeeService
}

// NewEmployeeHandler creates an EmployeeHandler
func NewEmployeeHandler(employeeSvc service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeSvc: employeeSvc}
}

// List
// GET /api/v1/employees?include_inactive=&keyword=
func (h *EmployeeHandler) List(c *gin.Context) {
	var req dto.EmployeeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "ungültige Filterparameter")
		return
	}

	list, err := h.employeeSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}
	response.OK(c, dto.ListResponse{List: list})
}

// Get
// GET /api/v1/employees/:id
func (h *EmployeeHandler) Get(c *gin.Context) {
	emp, err := h.employeeSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}
	response.OK(c, emp)
}

// Create
// POST /api/v1/employees
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req dto.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 12001, "Eingaben ungültig", err.Error())
		return
	}

	emp, err := h.employeeSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}
	response.Created(c, emp)
}

// Update
// PUT /api/v1/employees/:id
func (h *EmployeeHandler) Update(c *gin.Context) {
	var req dto.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 12001, "Eingaben ungültig", err.Error())
		return
	}

	emp, err := h.employeeSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}
	response.OK(c, emp)
}

// Delete
// DELETE /api/v1/employees/:id
func (h *EmployeeHandler) Delete(c *gin.Context) {
	if err := h.employeeSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleEmployeeError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *EmployeeHandler) handleEmployeeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmployeeNotFound):
		response.NotFound(c, 12101, "Mitarbeiter nicht gefunden")
	case errors.Is(err, service.ErrEmployeeNameTaken):
		response.Conflict(c, 12102, "Mitarbeitername bereits vergeben")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 12103, "ungültiges Datum")
	default:
		response.InternalError(c)
	}
}
