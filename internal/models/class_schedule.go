package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// ClassSchedule is a recurring weekly class slot at a venue. Deleting the
// venue removes its schedules (CASCADE).
type ClassSchedule struct {
	ID             int64     `db:"id" json:"id"`
	ClassName      string    `db:"class_name" json:"className"`
	Capacity       *int      `db:"capacity" json:"capacity,omitempty"`
	Day            string    `db:"day" json:"day"`
	StartTime      string    `db:"start_time" json:"startTime"`
	EndTime        string    `db:"end_time" json:"endTime"`
	AllowFreeTrial bool      `db:"allow_free_trial" json:"allowFreeTrial"`
	Facility       *string   `db:"facility" json:"facility,omitempty"`
	VenueID        int64     `db:"venue_id" json:"venueId"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// ClassSession records a cancelled occurrence of a schedule. NotifyGroups is
// an embedded JSON document of per-audience notification settings.
type ClassSession struct {
	ID              int64          `db:"id" json:"id"`
	ClassScheduleID int64          `db:"class_schedule_id" json:"classScheduleId"`
	CancelReason    *string        `db:"cancel_reason" json:"cancelReason,omitempty"`
	CreditMembers   bool           `db:"credit_members" json:"creditMembers"`
	CancelledAt     time.Time      `db:"cancelled_at" json:"cancelledAt"`
	NotifyGroups    types.JSONText `db:"notify_groups" json:"notifyGroups,omitempty"`
	CreatedAt       time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updatedAt"`
}
