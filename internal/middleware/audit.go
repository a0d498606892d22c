package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/synco-dev/booking-admin-api/internal/models"
	"github.com/synco-dev/booking-admin-api/internal/service"
)

// Audit records an activity entry after every request on the wrapped route,
// success or failure alike; the Success flag carries the outcome.
func Audit(activity *service.ActivityService, module, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		var adminID *int64
		if claims, ok := c.Get(ContextAdminKey); ok {
			if admin, ok := claims.(*models.AdminClaims); ok {
				adminID = &admin.AdminID
			}
		}

		status := c.Writer.Status()
		activity.Record(c.Request.Context(), models.ActivityLog{
			AdminID:   adminID,
			Panel:     "admin",
			Module:    module,
			Action:    action,
			Message:   fmt.Sprintf("%s %s -> %d", c.Request.Method, c.FullPath(), status),
			Success:   status < 400,
			IPAddress: c.ClientIP(),
			UserAgent: c.GetHeader("User-Agent"),
		})
	}
}
