package handler

import (
	"bytes"
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"einsatzplan/internal/service"
	"einsatzplan/pkg/response"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler file downloads
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates an ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// PlanCSV
// GET /api/v1/export/plan.csv?site_id=&year=&month=
func (h *ExportHandler) PlanCSV(c *gin.Context) {
	h.plan(c, contentTypeCSV, h.exportSvc.PlanCSV)
}

// PlanXLSX
// GET /api/v1/export/plan.xlsx?site_id=&year=&month=
func (h *ExportHandler) PlanXLSX(c *gin.Context) {
	h.plan(c, contentTypeXLSX, h.exportSvc.PlanXLSX)
}

// ReportXLSX
// GET /api/v1/export/report.xlsx?year=&month=
func (h *ExportHandler) ReportXLSX(c *gin.Context) {
	year, month, ok := bindMonth(c, 17001)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ReportXLSX(c.Request.Context(), year, month)
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	response.File(c, filename, contentTypeXLSX, buf.Bytes())
}

// MyAssignmentsICS own assignments as a calendar feed
// GET /api/v1/me/assignments.ics
func (h *ExportHandler) MyAssignmentsICS(c *gin.Context) {
	sess, ok := MustGetSession(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.MyAssignmentsICS(c.Request.Context(), sess, now())
	if err != nil {
		if errors.Is(err, service.ErrNoEmployeeIdentity) {
			response.BadRequest(c, 11004, "Diese Anmeldung ist keinem Mitarbeiter zugeordnet")
			return
		}
		h.handleExportError(c, err)
		return
	}
	response.File(c, filename, contentTypeICS, buf.Bytes())
}

type planExporter func(ctx context.Context, siteID string, year, month int) (*bytes.Buffer, string, error)

func (h *ExportHandler) plan(c *gin.Context, contentType string, export planExporter) {
	siteID := c.Query("site_id")
	if siteID == "" {
		response.BadRequest(c, 17001, "site_id fehlt")
		return
	}
	year, month, ok := bindMonth(c, 17001)
	if !ok {
		return
	}

	buf, filename, err := export(c.Request.Context(), siteID, year, month)
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	response.File(c, filename, contentType, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSiteNotFound):
		response.NotFound(c, 17101, "Objekt nicht gefunden")
	case errors.Is(err, service.ErrInvalidMonth):
		response.BadRequest(c, 17102, "ungültiger Monat")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
