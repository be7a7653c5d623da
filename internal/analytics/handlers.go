package analytics

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ritee123/loginsight/internal/logging"
)

// Handler provides the analytics JSON API endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new analytics handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes sets up analytics routes under the given group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/dashboard/metrics", h.DashboardMetrics)
	r.GET("/alerts", h.SecurityAlerts)
	r.GET("/logins", h.LoginAttempts)
	r.GET("/summary", h.SuspiciousSummary)
}

// DashboardMetrics returns the aggregate dashboard view for a day.
func (h *Handler) DashboardMetrics(c *gin.Context) {
	ctx := c.Request.Context()

	m, err := h.svc.GetDashboardMetrics(ctx, c.Query("date"))
	if err != nil {
		h.fail(c, err, "compute dashboard metrics")
		return
	}

	c.JSON(http.StatusOK, m)
}

// SecurityAlerts returns the alert feed for a day, newest first.
func (h *Handler) SecurityAlerts(c *gin.Context) {
	ctx := c.Request.Context()

	alerts, err := h.svc.GetSecurityAlerts(ctx, c.Query("date"))
	if err != nil {
		h.fail(c, err, "load security alerts")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

// LoginAttempts returns novelty-annotated login attempts for a day.
func (h *Handler) LoginAttempts(c *gin.Context) {
	ctx := c.Request.Context()

	attempts, err := h.svc.GetLoginAttempts(ctx, c.Query("date"))
	if err != nil {
		h.fail(c, err, "load login attempts")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attempts": attempts,
		"count":    len(attempts),
	})
}

// SuspiciousSummary returns the actionable-alert text report.
func (h *Handler) SuspiciousSummary(c *gin.Context) {
	ctx := c.Request.Context()

	window := c.DefaultQuery("window", "24-hour")
	category := c.Query("category")

	summary, err := h.svc.GetSuspiciousSummary(ctx, window, category)
	if err != nil {
		h.fail(c, err, "generate suspicious summary")
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// fail maps engine errors to the JSON error envelope: invalid input is
// the client's fault, anything else is a collaborator failure.
func (h *Handler) fail(c *gin.Context, err error, action string) {
	if errors.Is(err, ErrInvalidDate) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_date",
			"message": "date must be formatted YYYY-MM-DD",
		})
		return
	}

	logging.L(c.Request.Context()).Error("analytics request failed", "action", action, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
}
