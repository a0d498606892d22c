package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/synco-dev/booking-admin-api/internal/models"
)

const termColumns = "id, term_name, start_date, end_date, exclusion_dates, total_sessions, session_plan_group_id, term_group_id, created_at, updated_at"

// TermRepository manages persistence for terms.
type TermRepository struct {
	db *sqlx.DB
}

// NewTermRepository constructs a TermRepository.
func NewTermRepository(db *sqlx.DB) *TermRepository {
	return &TermRepository{db: db}
}

// List returns all terms ordered by primary key.
func (r *TermRepository) List(ctx context.Context) ([]models.Term, error) {
	query := fmt.Sprintf("SELECT %s FROM terms ORDER BY id ASC", termColumns)
	var terms []models.Term
	if err := r.db.SelectContext(ctx, &terms, query); err != nil {
		return nil, fmt.Errorf("list terms: %w", err)
	}
	return terms, nil
}

// FindByID fetches a term by ID.
func (r *TermRepository) FindByID(ctx context.Context, id int64) (*models.Term, error) {
	query := fmt.Sprintf("SELECT %s FROM terms WHERE id = $1", termColumns)
	var term models.Term
	if err := r.db.GetContext(ctx, &term, query, id); err != nil {
		return nil, err
	}
	return &term, nil
}

// Create inserts a new term record.
func (r *TermRepository) Create(ctx context.Context, term *models.Term) error {
	now := time.Now().UTC()
	term.CreatedAt = now
	term.UpdatedAt = now

	const query = `INSERT INTO terms (term_name, start_date, end_date, exclusion_dates, total_sessions, session_plan_group_id, term_group_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		term.TermName, term.StartDate, term.EndDate, term.ExclusionDates,
		term.TotalSessions, term.SessionPlanGroupID, term.TermGroupID,
		term.CreatedAt, term.UpdatedAt,
	).Scan(&term.ID); err != nil {
		return fmt.Errorf("create term: %w", err)
	}
	return nil
}

// Update rewrites an existing term record.
func (r *TermRepository) Update(ctx context.Context, term *models.Term) error {
	term.UpdatedAt = time.Now().UTC()
	const query = `UPDATE terms SET term_name = $2, start_date = $3, end_date = $4, exclusion_dates = $5, total_sessions = $6, session_plan_group_id = $7, term_group_id = $8, updated_at = $9 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query,
		term.ID, term.TermName, term.StartDate, term.EndDate, term.ExclusionDates,
		term.TotalSessions, term.SessionPlanGroupID, term.TermGroupID, term.UpdatedAt,
	); err != nil {
		return fmt.Errorf("update term: %w", err)
	}
	return nil
}

// Delete removes a term. Venues pointing at it fall back to NULL via the
// SET NULL rule on venues.term_id.
func (r *TermRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM terms WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete term: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete term result: %w", err)
	}
	return affected > 0, nil
}
