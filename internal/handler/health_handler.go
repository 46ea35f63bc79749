package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/shoplane/storefront_api/internal/service"
	"github.com/shoplane/storefront_api/internal/utils"
)

// HealthHandler reports service and upstream health.
type HealthHandler struct {
	upstream service.UpstreamCatalog
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(upstream service.UpstreamCatalog) *HealthHandler {
	return &HealthHandler{upstream: upstream}
}

// GetHealth pings the upstream catalog API with a minimal request.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	upstreamStatus := "ok"
	if _, err := h.upstream.ListProducts(c.Request.Context(), 1, 0); err != nil {
		upstreamStatus = "unreachable"
	}

	utils.Success(c, 200, "Health check", gin.H{
		"status":   "ok",
		"upstream": upstreamStatus,
	})
}
