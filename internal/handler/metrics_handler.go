package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/synco-dev/booking-admin-api/internal/service"
	"github.com/synco-dev/booking-admin-api/pkg/response"
)

// MetricsHandler serves the runtime metrics snapshot.
type MetricsHandler struct {
	metrics *service.MetricsService
}

// NewMetricsHandler constructs a metrics handler.
func NewMetricsHandler(metrics *service.MetricsService) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Snapshot godoc
// @Summary Runtime metrics snapshot
// @Tags Metrics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /metrics/snapshot [get]
func (h *MetricsHandler) Snapshot(c *gin.Context) {
	response.OK(c, "Metrics fetched successfully", h.metrics.Snapshot())
}
