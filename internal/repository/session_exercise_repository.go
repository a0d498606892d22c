package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/synco-dev/booking-admin-api/internal/models"
)

const sessionExerciseColumns = "id, title, description, duration, image_url, created_at, updated_at"

// SessionExerciseRepository manages persistence for session exercises.
type SessionExerciseRepository struct {
	db *sqlx.DB
}

// NewSessionExerciseRepository constructs a SessionExerciseRepository.
func NewSessionExerciseRepository(db *sqlx.DB) *SessionExerciseRepository {
	return &SessionExerciseRepository{db: db}
}

// List returns all exercises ordered by primary key.
func (r *SessionExerciseRepository) List(ctx context.Context) ([]models.SessionExercise, error) {
	query := fmt.Sprintf("SELECT %s FROM session_exercises ORDER BY id ASC", sessionExerciseColumns)
	var exercises []models.SessionExercise
	if err := r.db.SelectContext(ctx, &exercises, query); err != nil {
		return nil, fmt.Errorf("list session exercises: %w", err)
	}
	return exercises, nil
}

// FindByID fetches an exercise by ID.
func (r *SessionExerciseRepository) FindByID(ctx context.Context, id int64) (*models.SessionExercise, error) {
	query := fmt.Sprintf("SELECT %s FROM session_exercises WHERE id = $1", sessionExerciseColumns)
	var exercise models.SessionExercise
	if err := r.db.GetContext(ctx, &exercise, query, id); err != nil {
		return nil, err
	}
	return &exercise, nil
}

// FindExistingIDs returns the subset of the given IDs that exist.
func (r *SessionExerciseRepository) FindExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []int64
	if err := r.db.SelectContext(ctx, &found, "SELECT id FROM session_exercises WHERE id = ANY($1)", pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("find exercise ids: %w", err)
	}
	return found, nil
}

// FindSummariesByIDs fetches minimal projections for the given IDs in one
// batch, ordered by primary key.
func (r *SessionExerciseRepository) FindSummariesByIDs(ctx context.Context, ids []int64) ([]models.ExerciseSummary, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var summaries []models.ExerciseSummary
	const query = "SELECT id, title, description, duration FROM session_exercises WHERE id = ANY($1) ORDER BY id ASC"
	if err := r.db.SelectContext(ctx, &summaries, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("find exercise summaries: %w", err)
	}
	return summaries, nil
}

// Create inserts a new exercise.
func (r *SessionExerciseRepository) Create(ctx context.Context, exercise *models.SessionExercise) error {
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now

	const query = `INSERT INTO session_exercises (title, description, duration, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		exercise.Title, exercise.Description, exercise.Duration, exercise.ImageURL,
		exercise.CreatedAt, exercise.UpdatedAt,
	).Scan(&exercise.ID); err != nil {
		return fmt.Errorf("create session exercise: %w", err)
	}
	return nil
}

// Update rewrites an existing exercise.
func (r *SessionExerciseRepository) Update(ctx context.Context, exercise *models.SessionExercise) error {
	exercise.UpdatedAt = time.Now().UTC()
	const query = `UPDATE session_exercises SET title = $2, description = $3, duration = $4, image_url = $5, updated_at = $6 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query,
		exercise.ID, exercise.Title, exercise.Description, exercise.Duration, exercise.ImageURL, exercise.UpdatedAt,
	); err != nil {
		return fmt.Errorf("update session exercise: %w", err)
	}
	return nil
}

// Delete removes an exercise.
func (r *SessionExerciseRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM session_exercises WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete session exercise: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete session exercise result: %w", err)
	}
	return affected > 0, nil
}
