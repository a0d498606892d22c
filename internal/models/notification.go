package models

import "time"

// Notification is a panel-wide event entry grouped by category.
type Notification struct {
	ID          int64     `db:"id" json:"id"`
	Title       *string   `db:"title" json:"title,omitempty"`
	Description *string   `db:"description" json:"description,omitempty"`
	Category    string    `db:"category" json:"category"`
	AdminID     *int64    `db:"admin_id" json:"adminId,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// NotificationRead marks a notification as seen by one admin.
type NotificationRead struct {
	ID             int64     `db:"id" json:"id"`
	AdminID        int64     `db:"admin_id" json:"adminId"`
	NotificationID int64     `db:"notification_id" json:"notificationId"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

// NotificationView augments a notification with the reader's state.
type NotificationView struct {
	Notification
	Read bool `json:"read"`
}
