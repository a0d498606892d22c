package models

import "time"

// Facility values accepted for venues.
const (
	FacilityIndoor  = "Indoor"
	FacilityOutdoor = "Outdoor"
)

// Venue represents a bookable location. A venue owns at most one term; the
// link is soft (SET NULL on term delete).
type Venue struct {
	ID             int64     `db:"id" json:"id"`
	Area           string    `db:"area" json:"area"`
	Name           string    `db:"name" json:"name"`
	Address        string    `db:"address" json:"address"`
	Facility       string    `db:"facility" json:"facility"`
	ParkingNote    *string   `db:"parking_note" json:"parkingNote,omitempty"`
	CongestionNote *string   `db:"congestion_note" json:"congestionNote,omitempty"`
	PaymentPlanID  *int64    `db:"payment_plan_id" json:"paymentPlanId,omitempty"`
	TermID         *int64    `db:"term_id" json:"termId,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}
