package handlers

import (
	"crypto/subtle"
	"net/http"

	"soil_monitor"

	"github.com/gin-gonic/gin"
)

const deviceKeyHeader = "X-Device-Key"

// deviceKeyMiddleware guards the ingest endpoint with a shared secret.
// When no key is configured the check is disabled (local development,
// simulator-only deployments).
func (h *Handler) deviceKeyMiddleware(c *gin.Context) {
	if h.deviceKey == "" {
		c.Next()
		return
	}

	got := c.GetHeader(deviceKeyHeader)
	if subtle.ConstantTimeCompare([]byte(got), []byte(h.deviceKey)) != 1 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, soil_monitor.IngestResponse{
			Success: false,
			Error:   "missing or invalid device key",
		})
		return
	}
	c.Next()
}
