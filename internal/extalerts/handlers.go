package extalerts

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler serves the cached external alert feed.
type Handler struct {
	cache *Cache
}

// NewHandler creates a new external-alerts handler.
func NewHandler(cache *Cache) *Handler {
	return &Handler{cache: cache}
}

// RegisterRoutes sets up the external-alerts route under the given group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/alerts/external", h.ExternalAlerts)
}

// ExternalAlerts returns the advisory feed. Always 200: upstream failure
// degrades to an empty list.
func (h *Handler) ExternalAlerts(c *gin.Context) {
	alerts := h.cache.Get(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"alerts": alerts,
		"count":  len(alerts),
	})
}
