package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ReadinessCheck reports whether one dependency is reachable.
type ReadinessCheck func(ctx context.Context) error

// SystemHandler answers the service banner and the liveness and readiness probes.
type SystemHandler struct {
	version string
	checks  map[string]ReadinessCheck
}

func NewSystemHandler(version string, checks map[string]ReadinessCheck) *SystemHandler {
	return &SystemHandler{version: version, checks: checks}
}

func (h *SystemHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Home)
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
}

var endpoints = []string{
	"GET /events",
	"GET /events/:id",
	"POST /events",
	"PUT /events/:id",
	"DELETE /events/:id",
	"POST /events/:id/images",
	"GET /event-types",
	"GET /uploads/:filename",
	"GET /thumbnails/:filename",
}

func (h *SystemHandler) Home(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{
		"server":    "Event Gallery API",
		"version":   h.version,
		"endpoints": endpoints,
	}, "Event Gallery API is running")
}

func (h *SystemHandler) Health(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{"status": "ok"}, "ok")
}

func (h *SystemHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
	defer cancel()

	failed := make(map[string]string)
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			failed[name] = "unreachable"
		}
	}

	if len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, Response{
			Success: false,
			Data:    gin.H{"status": "not_ready", "checks": failed},
			Message: "Service not ready",
		})
		return
	}
	respond(c, http.StatusOK, gin.H{"status": "ready"}, "ready")
}
