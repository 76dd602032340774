package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"einsatzplan/internal/service"
	"einsatzplan/pkg/response"
)

// ReportHandler monthly hours report
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler creates a ReportHandler
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// Monthly
// GET /api/v1/reports/monthly?year=&month=
func (h *ReportHandler) Monthly(c *gin.Context) {
	year, month, ok := bindMonth(c, 16001)
	if !ok {
		return
	}

	report, err := h.reportSvc.MonthlyReport(c.Request.Context(), year, month)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMonth) {
			response.BadRequest(c, 16101, "ungültiger Monat")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, report)
}
