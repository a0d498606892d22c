package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// SessionExercise is a reusable drill referenced by ID from inside a session
// plan group's levels document.
type SessionExercise struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description,omitempty"`
	Duration    *string   `db:"duration" json:"duration,omitempty"`
	ImageURL    *string   `db:"image_url" json:"imageUrl,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// ExerciseSummary is the minimal projection attached to resolved views.
type ExerciseSummary struct {
	ID          int64   `db:"id" json:"id"`
	Title       string  `db:"title" json:"title"`
	Description *string `db:"description" json:"description,omitempty"`
	Duration    *string `db:"duration" json:"duration,omitempty"`
}

// SessionPlanGroup stores its per-level exercise plan as an embedded JSON
// document rather than a join table; the raw column is kept opaque here and
// parsed by the levels resolver.
type SessionPlanGroup struct {
	ID        int64          `db:"id" json:"id"`
	GroupName string         `db:"group_name" json:"groupName"`
	BannerURL *string        `db:"banner_url" json:"bannerUrl,omitempty"`
	VideoURL  *string        `db:"video_url" json:"videoUrl,omitempty"`
	Levels    types.JSONText `db:"levels" json:"levels,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time      `db:"updated_at" json:"updatedAt"`
}
