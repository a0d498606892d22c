package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// TermGroup bundles terms under a shared label.
type TermGroup struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// DateList is a JSON-encoded array of date strings stored in a single column.
type DateList []string

// Value implements driver.Valuer.
func (l DateList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *DateList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported date list type %T", src)
	}
	if len(raw) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(raw, l)
}

// Term is a dated slice of the season, optionally linked to a term group and
// a session plan group.
type Term struct {
	ID                 int64     `db:"id" json:"id"`
	TermName           string    `db:"term_name" json:"termName"`
	StartDate          string    `db:"start_date" json:"startDate"`
	EndDate            string    `db:"end_date" json:"endDate"`
	ExclusionDates     DateList  `db:"exclusion_dates" json:"exclusionDates,omitempty"`
	TotalSessions      *int      `db:"total_sessions" json:"totalSessions,omitempty"`
	SessionPlanGroupID *int64    `db:"session_plan_group_id" json:"sessionPlanGroupId,omitempty"`
	TermGroupID        *int64    `db:"term_group_id" json:"termGroupId,omitempty"`
	CreatedAt          time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time `db:"updated_at" json:"updatedAt"`
}
