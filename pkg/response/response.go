package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/synco-dev/booking-admin-api/pkg/errors"
)

// Envelope is the uniform response contract of the admin panel: a status
// flag, a human-readable message and an optional data payload.
type Envelope struct {
	Status  bool             `json:"status"`
	Message string           `json:"message"`
	Data    interface{}      `json:"data,omitempty"`
	Error   *appErrors.Error `json:"error,omitempty"`
}

// JSON sends a success response with the given message and payload.
func JSON(c *gin.Context, status int, message string, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, Envelope{Status: true, Message: message, Data: data})
}

// OK responds with HTTP 200.
func OK(c *gin.Context, message string, data interface{}) {
	JSON(c, http.StatusOK, message, data)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, message string, data interface{}) {
	JSON(c, http.StatusCreated, message, data)
}

// Error sends an error response converting the error to the common envelope.
// Error details (such as missing reference IDs) surface through the data
// field so form layers can highlight the offending values.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	envelope := Envelope{Status: false, Message: appErr.Message, Error: appErr}
	if appErr.Details != nil {
		envelope.Data = appErr.Details
	}
	c.JSON(appErr.Status, envelope)
}
