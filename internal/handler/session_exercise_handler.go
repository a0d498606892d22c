package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/synco-dev/booking-admin-api/internal/service"
	appErrors "github.com/synco-dev/booking-admin-api/pkg/errors"
	"github.com/synco-dev/booking-admin-api/pkg/response"
)

// SessionExerciseHandler exposes exercise endpoints. Create accepts multipart
// form data so an image can ride along with the fields.
type SessionExerciseHandler struct {
	service *service.SessionExerciseService
}

// NewSessionExerciseHandler constructs an exercise handler.
func NewSessionExerciseHandler(svc *service.SessionExerciseService) *SessionExerciseHandler {
	return &SessionExerciseHandler{service: svc}
}

// List godoc
// @Summary List session exercises
// @Tags SessionExercises
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /session-exercises [get]
func (h *SessionExerciseHandler) List(c *gin.Context) {
	exercises, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Session exercises fetched successfully", exercises)
}

// Get godoc
// @Summary Get session exercise
// @Tags SessionExercises
// @Produce json
// @Param id path int true "Exercise ID"
// @Success 200 {object} response.Envelope
// @Router /session-exercises/{id} [get]
func (h *SessionExerciseHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	exercise, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Session exercise fetched successfully", exercise)
}

// Create godoc
// @Summary Create session exercise
// @Description Accepts JSON, or multipart form data with an optional image file
// @Tags SessionExercises
// @Accept json
// @Accept mpfd
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /session-exercises [post]
func (h *SessionExerciseHandler) Create(c *gin.Context) {
	var req service.CreateSessionExerciseRequest
	var imageName string
	var imageData []byte

	if isMultipart(c) {
		if payload := c.PostForm("payload"); payload != "" {
			if err := json.Unmarshal([]byte(payload), &req); err != nil {
				response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
				return
			}
		} else {
			req.Title = c.PostForm("title")
			if v := c.PostForm("description"); v != "" {
				req.Description = &v
			}
			if v := c.PostForm("duration"); v != "" {
				req.Duration = &v
			}
		}
		name, data, err := readUpload(c, "image")
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid image upload"))
			return
		}
		imageName, imageData = name, data
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
			return
		}
	}

	exercise, err := h.service.Create(c.Request.Context(), req, imageName, imageData)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Session exercise created successfully", exercise)
}

// Update godoc
// @Summary Update session exercise
// @Tags SessionExercises
// @Accept json
// @Produce json
// @Param id path int true "Exercise ID"
// @Param payload body service.UpdateSessionExerciseRequest true "Exercise payload"
// @Success 200 {object} response.Envelope
// @Router /session-exercises/{id} [put]
func (h *SessionExerciseHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateSessionExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	exercise, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Session exercise updated successfully", exercise)
}

// Delete godoc
// @Summary Delete session exercise
// @Tags SessionExercises
// @Produce json
// @Param id path int true "Exercise ID"
// @Success 200 {object} response.Envelope
// @Router /session-exercises/{id} [delete]
func (h *SessionExerciseHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Session exercise deleted successfully", nil)
}

func isMultipart(c *gin.Context) bool {
	contentType := c.ContentType()
	return contentType == "multipart/form-data"
}
