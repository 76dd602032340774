package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"einsatzplan/internal/dto"
	"einsatzplan/internal/service"
	"einsatzplan/pkg/response"
)

// SiteHandler sites and their slots
type SiteHandler struct {
	siteSvc service.SiteService
}

// NewSiteHandler creates a SiteHandler
func NewSiteHandler(siteSvc service.SiteService) *SiteHandler {
	return &SiteHandler{siteSvc: siteSvc}
}

// List
// GET /api/v1/sites
func (h *SiteHandler) List(c *gin.Context) {
	list, err := h.siteSvc.List(c.Request.Context())
	if err != nil {
		h.handleSiteError(c, err)
		return
	}
	response.OK(c, dto.ListResponse{List: list})
}

// Get
// GET /api/v1/sites/:id
func (h *SiteHandler) Get(c *gin.Context) {
	site, err := h.siteSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleSiteError(c, err)
		return
	}
	response.OK(c, site)
}

// Create
// POST /api/v1/sites
func (h *SiteHandler) Create(c *gin.Context) {
	var req dto.CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 13001, "Eingaben ungültig", err.Error())
		return
	}

	site, err := h.siteSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleSiteError(c, err)
		return
	}
	response.Created(c, site)
}

// Update
// PUT /api/v1/sites/:id
func (h *SiteHandler) Update(c *gin.Context) {
	var req dto.UpdateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 13001, "Eingaben ungültig", err.Error())
		return
	}

	site, err := h.siteSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleSiteError(c, err)
		return
	}
	response.OK(c, site)
}

// Delete
// DELETE /api/v1/sites/:id
func (h *SiteHandler) Delete(c *gin.Context) {
	if err := h.siteSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleSiteError(c, err)
		return
	}
	response.OK(c, nil)
}

// AddSlot
// POST /api/v1/sites/:id/slots
func (h *SiteHandler) AddSlot(c *gin.Context) {
	var req dto.SlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 13001, "Positionsbezeichnung fehlt")
		return
	}

	slot, err := h.siteSvc.AddSlot(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleSiteError(c, err)
		return
	}
	response.Created(c, slot)
}

// RenameSlot
// PUT /api/v1/sites/:id/slots/:slot_id
func (h *SiteHandler) RenameSlot(c *gin.Context) {
	var req dto.SlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 13001, "Positionsbezeichnung fehlt")
		return
	}

	slot, err := h.siteSvc.RenameSlot(c.Request.Context(), c.Param("id"), c.Param("slot_id"), &req)
	if err != nil {
		h.handleSiteError(c, err)
		return
	}
	response.OK(c, slot)
}

// DeleteSlot
// DELETE /api/v1/sites/:id/slots/:slot_id
func (h *SiteHandler) DeleteSlot(c *gin.Context) {
	if err := h.siteSvc.DeleteSlot(c.Request.Context(), c.Param("id"), c.Param("slot_id")); err != nil {
		h.handleSiteError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *SiteHandler) handleSiteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSiteNotFound):
		response.NotFound(c, 13101, "Objekt nicht gefunden")
	case errors.Is(err, service.ErrSiteNameTaken):
		response.Conflict(c, 13102, "Objektname bereits vergeben")
	case errors.Is(err, service.ErrSlotNotFound):
		response.NotFound(c, 13103, "Position nicht gefunden")
	case errors.Is(err, service.ErrSlotLabelTaken):
		response.Conflict(c, 13104, "Position existiert bereits in diesem Objekt")
	case errors.Is(err, service.ErrSlotLabelEmpty):
		response.BadRequest(c, 13105, "Positionsbezeichnung fehlt")
	default:
		response.InternalError(c)
	}
}
