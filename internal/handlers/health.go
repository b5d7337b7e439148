package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const readinessTimeout = 2 * time.Second

// @Summary      Liveness probe
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Router       /api/health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// @Summary      Readiness probe
// @Description  Pings the database.
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /api/health/ready [get]
func (h *Handler) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	if err := h.services.Health.Ping(ctx); err != nil {
		h.log.Errorw("readiness_ping_failed", "err", err, "request_id", requestIDFrom(c))
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "database": "down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "database": "up"})
}
