package service

import (
	"time"

	"go.uber.org/zap"

	"einsatzplan/config"
	"einsatzplan/internal/repository"
	"einsatzplan/pkg/jwt"
)

// Service aggregates every service
type Service struct {
	Auth     AuthService
	Employee EmployeeService
	Site     SiteService
	Leave    LeaveService
	Conflict ConflictService
	Plan     PlanService
	Report   ReportService
	Export   ExportService
}

// NewService wires the services. blacklist may be nil when Redis is unavailable.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) *Service {
	conflicts := NewConflictService(repo, logger)
	plans := NewPlanService(repo, conflicts, &cfg.Planning, logger)
	reports := NewReportService(repo, logger)
	loc, err := cfg.Planning.Location()
	if err != nil {
		logger.Warn("planning timezone not resolvable, calendar feed uses UTC", zap.String("timezone", cfg.Planning.Timezone), zap.Error(err))
		loc = time.UTC
	}

	return &Service{
		Auth:     NewAuthService(NewIdentityProvider(&cfg.Auth, repo), repo, jwtMgr, blacklist, logger),
		Employee: NewEmployeeService(repo, logger),
		Site:     NewSiteService(repo, logger),
		Leave:    NewLeaveService(repo, logger),
		Conflict: conflicts,
		Plan:     plans,
		Report:   reports,
		Export:   NewExportService(plans, reports, loc, logger),
	}
}
