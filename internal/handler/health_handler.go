package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/printshop-os/inventory_api/internal/utils"
	"github.com/printshop-os/inventory_api/pkg/strapi"
)

var startTime = time.Now()

// HealthHandler provides health endpoint.
type HealthHandler struct {
	cms *strapi.Client
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(cms *strapi.Client) *HealthHandler {
	return &HealthHandler{cms: cms}
}

// GetHealth responds with service and CMS status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	cmsStatus := "connected"
	if !h.cms.Health(c.Request.Context()) {
		cmsStatus = "disconnected"
	}

	utils.Success(c, 200, "Service is healthy", gin.H{
		"status":  "healthy",
		"version": "1.0.0",
		"uptime":  int(time.Since(startTime).Seconds()),
		"cms": gin.H{
			"status": cmsStatus,
		},
	})
}
