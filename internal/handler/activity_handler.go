package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/synco-dev/booking-admin-api/internal/service"
	"github.com/synco-dev/booking-admin-api/pkg/response"
)

// ActivityHandler exposes the activity log.
type ActivityHandler struct {
	service *service.ActivityService
}

// NewActivityHandler constructs an activity handler.
func NewActivityHandler(svc *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: svc}
}

// List godoc
// @Summary List recent activity
// @Tags Activity
// @Produce json
// @Param adminId query int false "Filter by admin"
// @Param limit query int false "Row cap"
// @Success 200 {object} response.Envelope
// @Router /activity [get]
func (h *ActivityHandler) List(c *gin.Context) {
	var adminID int64
	if raw := c.Query("adminId"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			adminID = parsed
		}
	}
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	entries, err := h.service.List(c.Request.Context(), adminID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Activity fetched successfully", entries)
}
