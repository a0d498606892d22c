package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/synco-dev/booking-admin-api/internal/models"
)

const venueColumns = "id, area, name, address, facility, parking_note, congestion_note, payment_plan_id, term_id, created_at, updated_at"

// VenueRepository manages persistence for venues.
type VenueRepository struct {
	db *sqlx.DB
}

// NewVenueRepository constructs a VenueRepository.
func NewVenueRepository(db *sqlx.DB) *VenueRepository {
	return &VenueRepository{db: db}
}

// List returns all venues ordered by primary key.
func (r *VenueRepository) List(ctx context.Context) ([]models.Venue, error) {
	query := fmt.Sprintf("SELECT %s FROM venues ORDER BY id ASC", venueColumns)
	var venues []models.Venue
	if err := r.db.SelectContext(ctx, &venues, query); err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	return venues, nil
}

// FindByID fetches a venue by ID.
func (r *VenueRepository) FindByID(ctx context.Context, id int64) (*models.Venue, error) {
	query := fmt.Sprintf("SELECT %s FROM venues WHERE id = $1", venueColumns)
	var venue models.Venue
	if err := r.db.GetContext(ctx, &venue, query, id); err != nil {
		return nil, err
	}
	return &venue, nil
}

// Exists reports whether a venue row exists.
func (r *VenueRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM venues WHERE id = $1 LIMIT 1", id)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check venue: %w", err)
	}
	return true, nil
}

// Create inserts a new venue record.
func (r *VenueRepository) Create(ctx context.Context, venue *models.Venue) error {
	now := time.Now().UTC()
	venue.CreatedAt = now
	venue.UpdatedAt = now

	const query = `INSERT INTO venues (area, name, address, facility, parking_note, congestion_note, payment_plan_id, term_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		venue.Area, venue.Name, venue.Address, venue.Facility,
		venue.ParkingNote, venue.CongestionNote, venue.PaymentPlanID, venue.TermID,
		venue.CreatedAt, venue.UpdatedAt,
	).Scan(&venue.ID); err != nil {
		return fmt.Errorf("create venue: %w", err)
	}
	return nil
}

// Update rewrites an existing venue record.
func (r *VenueRepository) Update(ctx context.Context, venue *models.Venue) error {
	venue.UpdatedAt = time.Now().UTC()
	const query = `UPDATE venues SET area = $2, name = $3, address = $4, facility = $5, parking_note = $6, congestion_note = $7, payment_plan_id = $8, term_id = $9, updated_at = $10 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query,
		venue.ID, venue.Area, venue.Name, venue.Address, venue.Facility,
		venue.ParkingNote, venue.CongestionNote, venue.PaymentPlanID, venue.TermID,
		venue.UpdatedAt,
	); err != nil {
		return fmt.Errorf("update venue: %w", err)
	}
	return nil
}

// Delete removes a venue. Dependent class schedules go with it via the
// CASCADE rule on class_schedules.venue_id.
func (r *VenueRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM venues WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete venue: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete venue result: %w", err)
	}
	return affected > 0, nil
}
