package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/synco-dev/booking-admin-api/internal/service"
	appErrors "github.com/synco-dev/booking-admin-api/pkg/errors"
	"github.com/synco-dev/booking-admin-api/pkg/response"
)

// TermGroupHandler exposes term group endpoints.
type TermGroupHandler struct {
	service *service.TermGroupService
}

// NewTermGroupHandler constructs a term group handler.
func NewTermGroupHandler(svc *service.TermGroupService) *TermGroupHandler {
	return &TermGroupHandler{service: svc}
}

// List godoc
// @Summary List term groups
// @Tags TermGroups
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /term-groups [get]
func (h *TermGroupHandler) List(c *gin.Context) {
	groups, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Term groups fetched successfully", groups)
}

// Get godoc
// @Summary Get term group
// @Tags TermGroups
// @Produce json
// @Param id path int true "Term group ID"
// @Success 200 {object} response.Envelope
// @Router /term-groups/{id} [get]
func (h *TermGroupHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	group, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Term group fetched successfully", group)
}

// Create godoc
// @Summary Create term group
// @Tags TermGroups
// @Accept json
// @Produce json
// @Param payload body service.TermGroupRequest true "Term group payload"
// @Success 201 {object} response.Envelope
// @Router /term-groups [post]
func (h *TermGroupHandler) Create(c *gin.Context) {
	var req service.TermGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	group, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Term group created successfully", group)
}

// Update godoc
// @Summary Update term group
// @Tags TermGroups
// @Accept json
// @Produce json
// @Param id path int true "Term group ID"
// @Param payload body service.TermGroupRequest true "Term group payload"
// @Success 200 {object} response.Envelope
// @Router /term-groups/{id} [put]
func (h *TermGroupHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.TermGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	group, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Term group updated successfully", group)
}

// Delete godoc
// @Summary Delete term group
// @Tags TermGroups
// @Produce json
// @Param id path int true "Term group ID"
// @Success 200 {object} response.Envelope
// @Router /term-groups/{id} [delete]
func (h *TermGroupHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Term group deleted successfully", nil)
}
