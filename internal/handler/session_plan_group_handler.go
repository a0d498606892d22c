package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/synco-dev/booking-admin-api/internal/service"
	appErrors "github.com/synco-dev/booking-admin-api/pkg/errors"
	"github.com/synco-dev/booking-admin-api/pkg/response"
)

// SessionPlanGroupHandler exposes session plan group endpoints.
type SessionPlanGroupHandler struct {
	service *service.SessionPlanGroupService
}

// NewSessionPlanGroupHandler constructs a plan group handler.
func NewSessionPlanGroupHandler(svc *service.SessionPlanGroupService) *SessionPlanGroupHandler {
	return &SessionPlanGroupHandler{service: svc}
}

// List godoc
// @Summary List session plan groups
// @Description List plan groups with parsed levels and resolved exercises
// @Tags SessionPlanGroups
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /session-plan-groups [get]
func (h *SessionPlanGroupHandler) List(c *gin.Context) {
	groups, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Session plan groups fetched successfully", groups)
}

// Get godoc
// @Summary Get session plan group
// @Tags SessionPlanGroups
// @Produce json
// @Param id path int true "Plan group ID"
// @Success 200 {object} response.Envelope
// @Router /session-plan-groups/{id} [get]
func (h *SessionPlanGroupHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	group, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Session plan group fetched successfully", group)
}

// Create godoc
// @Summary Create session plan group
// @Tags SessionPlanGroups
// @Accept json
// @Produce json
// @Param payload body service.CreateSessionPlanGroupRequest true "Plan group payload"
// @Success 201 {object} response.Envelope
// @Router /session-plan-groups [post]
func (h *SessionPlanGroupHandler) Create(c *gin.Context) {
	var req service.CreateSessionPlanGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	group, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Session plan group created successfully", group)
}

// Update godoc
// @Summary Update session plan group
// @Tags SessionPlanGroups
// @Accept json
// @Produce json
// @Param id path int true "Plan group ID"
// @Param payload body service.UpdateSessionPlanGroupRequest true "Plan group payload"
// @Success 200 {object} response.Envelope
// @Router /session-plan-groups/{id} [put]
func (h *SessionPlanGroupHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateSessionPlanGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	group, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Session plan group updated successfully", group)
}

// UploadBanner godoc
// @Summary Upload plan group banner
// @Tags SessionPlanGroups
// @Accept mpfd
// @Produce json
// @Param id path int true "Plan group ID"
// @Param banner formData file true "Banner image"
// @Success 200 {object} response.Envelope
// @Router /session-plan-groups/{id}/banner [patch]
func (h *SessionPlanGroupHandler) UploadBanner(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	name, data, err := readUpload(c, "banner")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid banner upload"))
		return
	}
	if len(data) == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "banner file is required"))
		return
	}
	group, err := h.service.UploadBanner(c.Request.Context(), id, name, data)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Banner uploaded successfully", group)
}

// Delete godoc
// @Summary Delete session plan group
// @Tags SessionPlanGroups
// @Produce json
// @Param id path int true "Plan group ID"
// @Success 200 {object} response.Envelope
// @Router /session-plan-groups/{id} [delete]
func (h *SessionPlanGroupHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Session plan group deleted successfully", nil)
}
