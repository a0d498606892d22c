package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/synco-dev/booking-admin-api/internal/service"
	appErrors "github.com/synco-dev/booking-admin-api/pkg/errors"
	"github.com/synco-dev/booking-admin-api/pkg/response"
)

// DiscountHandler exposes discount endpoints.
type DiscountHandler struct {
	service *service.DiscountService
}

// NewDiscountHandler constructs a discount handler.
func NewDiscountHandler(svc *service.DiscountService) *DiscountHandler {
	return &DiscountHandler{service: svc}
}

// List godoc
// @Summary List discounts
// @Tags Discounts
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /discounts [get]
func (h *DiscountHandler) List(c *gin.Context) {
	discounts, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Discounts fetched successfully", discounts)
}

// Get godoc
// @Summary Get discount
// @Tags Discounts
// @Produce json
// @Param id path int true "Discount ID"
// @Success 200 {object} response.Envelope
// @Router /discounts/{id} [get]
func (h *DiscountHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	discount, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Discount fetched successfully", discount)
}

// Create godoc
// @Summary Create discount
// @Tags Discounts
// @Accept json
// @Produce json
// @Param payload body service.CreateDiscountRequest true "Discount payload"
// @Success 201 {object} response.Envelope
// @Router /discounts [post]
func (h *DiscountHandler) Create(c *gin.Context) {
	var req service.CreateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	discount, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Discount created successfully", discount)
}

// Update godoc
// @Summary Update discount
// @Tags Discounts
// @Accept json
// @Produce json
// @Param id path int true "Discount ID"
// @Param payload body service.UpdateDiscountRequest true "Discount payload"
// @Success 200 {object} response.Envelope
// @Router /discounts/{id} [put]
func (h *DiscountHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	discount, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Discount updated successfully", discount)
}

// Delete godoc
// @Summary Delete discount
// @Tags Discounts
// @Produce json
// @Param id path int true "Discount ID"
// @Success 200 {object} response.Envelope
// @Router /discounts/{id} [delete]
func (h *DiscountHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Discount deleted successfully", nil)
}
