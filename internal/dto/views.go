// Package dto holds the denormalized read shapes assembled by the services:
// entities augmented in place with their resolved relationship graph.
package dto

import (
	"time"

	"github.com/synco-dev/booking-admin-api/internal/models"
)

// SessionPlanGroupView carries the parsed levels document plus the flat list
// of resolved exercises. Exercises sit beside levels; the embedded ID lists
// are never rewritten.
type SessionPlanGroupView struct {
	ID        int64                    `json:"id"`
	GroupName string                   `json:"groupName"`
	BannerURL *string                  `json:"bannerUrl,omitempty"`
	VideoURL  *string                  `json:"videoUrl,omitempty"`
	Levels    models.LevelsDocument    `json:"levels"`
	Exercises []models.ExerciseSummary `json:"exercises"`
	CreatedAt time.Time                `json:"createdAt"`
	UpdatedAt time.Time                `json:"updatedAt"`
}

// TermView is a term with its optional group and resolved plan group.
type TermView struct {
	models.Term
	TermGroup        *models.TermGroup     `json:"termGroup,omitempty"`
	SessionPlanGroup *SessionPlanGroupView `json:"sessionPlanGroup,omitempty"`
}

// VenueView is a venue with its full nested term context.
type VenueView struct {
	models.Venue
	Term *TermView `json:"term,omitempty"`
}

// ClassScheduleView is a class schedule with its full venue context.
type ClassScheduleView struct {
	models.ClassSchedule
	Venue *VenueView `json:"venue,omitempty"`
}

// ScheduleSummary is the compact shape attached to cancellation listings.
type ScheduleSummary struct {
	ID             int64         `json:"id"`
	ClassName      string        `json:"className"`
	Capacity       *int          `json:"capacity,omitempty"`
	Day            string        `json:"day"`
	StartTime      string        `json:"startTime"`
	EndTime        string        `json:"endTime"`
	AllowFreeTrial bool          `json:"allowFreeTrial"`
	Venue          *VenueSummary `json:"venue,omitempty"`
}

// VenueSummary is the compact venue shape used inside nested listings.
type VenueSummary struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// CancelledSessionView is a cancellation with its parsed notify-groups
// document and schedule context. NotifyGroups is left as the raw stored value
// when it cannot be parsed.
type CancelledSessionView struct {
	ID              int64            `json:"id"`
	ClassScheduleID int64            `json:"classScheduleId"`
	CancelReason    *string          `json:"cancelReason,omitempty"`
	CreditMembers   bool             `json:"creditMembers"`
	CancelledAt     string           `json:"cancelledAt"`
	NotifyGroups    interface{}      `json:"notifyGroups,omitempty"`
	ClassSchedule   *ScheduleSummary `json:"classSchedule,omitempty"`
}

// DiscountView is a discount with the targets it applies to.
type DiscountView struct {
	models.Discount
	AppliesTo []string `json:"appliesTo"`
}
