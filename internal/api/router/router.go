package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"einsatzplan/config"
	"einsatzplan/internal/api/handler"
	"einsatzplan/internal/api/middleware"
	"einsatzplan/internal/service"
	"einsatzplan/pkg/jwt"
)

const (
	maxBodyBytes = 1 << 20
	loginLimit   = 10
	loginWindow  = time.Minute
)

// Setup builds the gin engine. blacklist and limiter may be nil when Redis
// is not available.
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	blacklist service.TokenBlacklist,
	limiter middleware.RateLimiter,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	r.GET("/health", h.Health.Health)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// public
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(limiter, loginLimit, loginWindow, logger), h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, blacklist))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.GET("/me/assignments", h.Auth.MyAssignments)
			authorized.GET("/me/assignments.ics", h.Export.MyAssignmentsICS)

			admin := authorized.Group("")
			admin.Use(middleware.RoleAuth(service.RoleAdmin))

			employees := admin.Group("/employees")
			{
				employees.GET("", h.Employee.List)
				employees.GET("/:id", h.Employee.Get)
				employees.POST("", h.Employee.Create)
				employees.PUT("/:id", h.Employee.Update)
				employees.DELETE("/:id", h.Employee.Delete)
			}

			sites := admin.Group("/sites")
			{
				sites.GET("", h.Site.List)
				sites.GET("/:id", h.Site.Get)
				sites.POST("", h.Site.Create)
				sites.PUT("/:id", h.Site.Update)
				sites.DELETE("/:id", h.Site.Delete)
				sites.POST("/:id/slots", h.Site.AddSlot)
				sites.PUT("/:id/slots/:slot_id", h.Site.RenameSlot)
				sites.DELETE("/:id/slots/:slot_id", h.Site.DeleteSlot)
			}

			leave := admin.Group("/leave")
			{
				leave.GET("", h.Leave.ListMonth)
				leave.POST("", h.Leave.SetRange)
				leave.DELETE("", h.Leave.DeleteRange)
			}

			plans := admin.Group("/plans")
			{
				plans.POST("/check", h.Plan.Check)
				plans.GET("/:site_id", h.Plan.Get)
				plans.PUT("/:site_id", h.Plan.Commit)
			}

			admin.GET("/reports/monthly", h.Report.Monthly)

			export := admin.Group("/export")
			{
				export.GET("/plan.csv", h.Export.PlanCSV)
				export.GET("/plan.xlsx", h.Export.PlanXLSX)
				export.GET("/report.xlsx", h.Export.ReportXLSX)
			}
		}
	}

	return r
}
