package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecker probes one dependency.
type HealthChecker func(ctx context.Context) error

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	version  string
	checkers map[string]HealthChecker
}

// NewHealthHandler builds the handler.  Checkers run only on the readiness
// probe; liveness always answers 200 while the process is up.
func NewHealthHandler(version string, checkers map[string]HealthChecker) *HealthHandler {
	return &HealthHandler{version: version, checkers: checkers}
}

// Liveness handles GET /healthz.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.version})
}

// Readiness handles GET /readyz, probing every registered dependency.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	components := make(map[string]string, len(h.checkers))
	healthy := true
	for name, check := range h.checkers {
		if err := check(ctx); err != nil {
			components[name] = err.Error()
			healthy = false
		} else {
			components[name] = "ok"
		}
	}

	status := http.StatusOK
	state := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(status, gin.H{"status": state, "components": components})
}
