package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/synco-dev/booking-admin-api/internal/service"
	appErrors "github.com/synco-dev/booking-admin-api/pkg/errors"
	"github.com/synco-dev/booking-admin-api/pkg/response"
)

// AdminHandler exposes panel account endpoints.
type AdminHandler struct {
	service *service.AdminService
}

// NewAdminHandler constructs an admin handler.
func NewAdminHandler(svc *service.AdminService) *AdminHandler {
	return &AdminHandler{service: svc}
}

// List godoc
// @Summary List admin accounts
// @Tags Admins
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admins [get]
func (h *AdminHandler) List(c *gin.Context) {
	admins, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Admins fetched successfully", admins)
}

// Get godoc
// @Summary Get admin account
// @Tags Admins
// @Produce json
// @Param id path int true "Admin ID"
// @Success 200 {object} response.Envelope
// @Router /admins/{id} [get]
func (h *AdminHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	admin, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Admin fetched successfully", admin)
}

// Create godoc
// @Summary Create admin account
// @Description Without a password the account starts locked and a set-password link goes out by email
// @Tags Admins
// @Accept json
// @Produce json
// @Param payload body service.CreateAdminRequest true "Admin payload"
// @Success 201 {object} response.Envelope
// @Router /admins [post]
func (h *AdminHandler) Create(c *gin.Context) {
	var req service.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	admin, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Admin created successfully", admin)
}

// Update godoc
// @Summary Update admin account
// @Tags Admins
// @Accept json
// @Produce json
// @Param id path int true "Admin ID"
// @Param payload body service.UpdateAdminRequest true "Admin payload"
// @Success 200 {object} response.Envelope
// @Router /admins/{id} [put]
func (h *AdminHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	admin, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Admin updated successfully", admin)
}

// UploadProfile godoc
// @Summary Upload admin profile image
// @Tags Admins
// @Accept mpfd
// @Produce json
// @Param id path int true "Admin ID"
// @Param profile formData file true "Profile image"
// @Success 200 {object} response.Envelope
// @Router /admins/{id}/profile [patch]
func (h *AdminHandler) UploadProfile(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	name, data, err := readUpload(c, "profile")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid profile upload"))
		return
	}
	if len(data) == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "profile file is required"))
		return
	}
	admin, err := h.service.UploadProfile(c.Request.Context(), id, name, data)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Profile uploaded successfully", admin)
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetStatus godoc
// @Summary Change admin account status
// @Tags Admins
// @Accept json
// @Produce json
// @Param id path int true "Admin ID"
// @Param payload body setStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Router /admins/{id}/status [patch]
func (h *AdminHandler) SetStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	admin, err := h.service.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Admin status updated successfully", admin)
}

// Delete godoc
// @Summary Delete admin account
// @Tags Admins
// @Produce json
// @Param id path int true "Admin ID"
// @Success 200 {object} response.Envelope
// @Router /admins/{id} [delete]
func (h *AdminHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Admin deleted successfully", nil)
}
