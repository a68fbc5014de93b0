package obs

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health answers liveness and readiness probes. Readiness is tied to
// the configured store backend: the service is ready once the backend
// it was started against answers, and the probe names that backend so
// a misconfigured deployment is visible from the response alone.
type Health struct {
	Backend string
	Check   func(ctx context.Context) error
}

func (h Health) Livez(c *gin.Context) {
	c.Status(http.StatusOK)
}

func (h Health) Readyz(c *gin.Context) {
	if h.Check != nil {
		if err := h.Check(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unavailable",
				"backend": h.Backend,
				"error":   err.Error(),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "backend": h.Backend})
}
