package handler

import (
	"time"

	"einsatzplan/internal/service"
)

// now is replaced in tests.
var now = time.Now

// Handler aggregates all HTTP handlers
type Handler struct {
	Auth     *AuthHandler
	Employee *EmployeeHandler
	Site     *SiteHandler
	Leave    *LeaveHandler
	Plan     *PlanHandler
	Report   *ReportHandler
	Export   *ExportHandler
	Health   *HealthHandler
}

// NewHandler wires handlers to their services
func NewHandler(svc *service.Service, health *HealthHandler) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(svc.Auth, svc.Plan),
		Employee: NewEmployeeHandler(svc.Employee),
		Site:     NewSiteHandler(svc.Site),
		Leave:    NewLeaveHandler(svc.Leave),
		Plan:     NewPlanHandler(svc.Plan, svc.Conflict),
		Report:   NewReportHandler(svc.Report),
		Export:   NewExportHandler(svc.Export),
		Health:   health,
	}
}
