package models

import "time"

// ActivityLog is one append-only record of an admin action's outcome. Both
// successes and failures are recorded.
type ActivityLog struct {
	ID        int64     `db:"id" json:"id"`
	AdminID   *int64    `db:"admin_id" json:"adminId,omitempty"`
	Panel     string    `db:"panel" json:"panel"`
	Module    string    `db:"module" json:"module"`
	Action    string    `db:"action" json:"action"`
	Message   string    `db:"message" json:"message"`
	Success   bool      `db:"success" json:"success"`
	IPAddress string    `db:"ip_address" json:"ipAddress"`
	UserAgent string    `db:"user_agent" json:"userAgent"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
