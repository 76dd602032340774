package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger checks a backing service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

// Ping implements Pinger.
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler liveness plus dependency checks
type HealthHandler struct {
	db    Pinger
	cache Pinger // optional
}

// NewHealthHandler creates a HealthHandler; cache may be nil.
func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Health
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := gin.H{"status": "ok", "database": "ok"}
	code := http.StatusOK

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			status["status"] = "degraded"
			status["database"] = "down"
			code = http.StatusServiceUnavailable
		}
	}
	if h.cache != nil {
		status["redis"] = "ok"
		if err := h.cache.Ping(ctx); err != nil {
			// the cache is optional; requests still work without it
			status["redis"] = "down"
		}
	}

	c.JSON(code, status)
}
