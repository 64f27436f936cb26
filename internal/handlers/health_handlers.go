package handlers

import (
	"context"
	"net/http"
	"time"

	"salon_crm_backend/internal/repositories"
	"salon_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports whether the storage backend is reachable.
type HealthHandler struct {
	pinger  repositories.Pinger
	backend string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(p repositories.Pinger, backend string) *HealthHandler {
	return &HealthHandler{pinger: p, backend: backend}
}

// Ping is the liveness probe.
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// CheckDatabase pings the store with a short deadline.
func (h *HealthHandler) CheckDatabase(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		utils.LogError(err, "CheckDatabase: storage ping failed", map[string]interface{}{"backend": h.backend})
		c.JSON(http.StatusServiceUnavailable, gin.H{"backend": h.backend, "status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"backend": h.backend, "status": "ok"})
}
