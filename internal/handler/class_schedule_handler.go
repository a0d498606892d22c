package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/synco-dev/booking-admin-api/internal/service"
	appErrors "github.com/synco-dev/booking-admin-api/pkg/errors"
	"github.com/synco-dev/booking-admin-api/pkg/response"
)

// ClassScheduleHandler exposes class schedule and cancellation endpoints.
type ClassScheduleHandler struct {
	service *service.ClassScheduleService
}

// NewClassScheduleHandler constructs a class schedule handler.
func NewClassScheduleHandler(svc *service.ClassScheduleService) *ClassScheduleHandler {
	return &ClassScheduleHandler{service: svc}
}

// List godoc
// @Summary List class schedules
// @Tags ClassSchedules
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /class-schedules [get]
func (h *ClassScheduleHandler) List(c *gin.Context) {
	schedules, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Class schedules fetched successfully", schedules)
}

// Get godoc
// @Summary Get class schedule
// @Tags ClassSchedules
// @Produce json
// @Param id path int true "Class schedule ID"
// @Success 200 {object} response.Envelope
// @Router /class-schedules/{id} [get]
func (h *ClassScheduleHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	schedule, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Class schedule fetched successfully", schedule)
}

// Create godoc
// @Summary Create class schedule
// @Tags ClassSchedules
// @Accept json
// @Produce json
// @Param payload body service.CreateClassScheduleRequest true "Schedule payload"
// @Success 201 {object} response.Envelope
// @Router /class-schedules [post]
func (h *ClassScheduleHandler) Create(c *gin.Context) {
	var req service.CreateClassScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	schedule, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Class schedule created successfully", schedule)
}

// Update godoc
// @Summary Update class schedule
// @Tags ClassSchedules
// @Accept json
// @Produce json
// @Param id path int true "Class schedule ID"
// @Param payload body service.UpdateClassScheduleRequest true "Schedule payload"
// @Success 200 {object} response.Envelope
// @Router /class-schedules/{id} [put]
func (h *ClassScheduleHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateClassScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	schedule, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Class schedule updated successfully", schedule)
}

// Delete godoc
// @Summary Delete class schedule
// @Tags ClassSchedules
// @Produce json
// @Param id path int true "Class schedule ID"
// @Success 200 {object} response.Envelope
// @Router /class-schedules/{id} [delete]
func (h *ClassScheduleHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Class schedule deleted successfully", nil)
}

// Cancel godoc
// @Summary Cancel one occurrence of a schedule
// @Tags ClassSchedules
// @Accept json
// @Produce json
// @Param id path int true "Class schedule ID"
// @Param payload body service.CancelSessionRequest true "Cancellation payload"
// @Success 201 {object} response.Envelope
// @Router /class-schedules/{id}/cancel [post]
func (h *ClassScheduleHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.CancelSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	session, err := h.service.Cancel(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Class session cancelled successfully", session)
}

// ListCancelled godoc
// @Summary List cancellations for a schedule
// @Tags ClassSchedules
// @Produce json
// @Param id path int true "Class schedule ID"
// @Success 200 {object} response.Envelope
// @Router /class-schedules/{id}/cancelled [get]
func (h *ClassScheduleHandler) ListCancelled(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	sessions, err := h.service.ListCancelled(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cancelled sessions fetched successfully", sessions)
}
