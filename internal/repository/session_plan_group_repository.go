package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/synco-dev/booking-admin-api/internal/models"
)

const sessionPlanGroupColumns = "id, group_name, banner_url, video_url, levels, created_at, updated_at"

// SessionPlanGroupRepository manages persistence for session plan groups.
// Writes that carry a levels document verify the referenced exercise IDs in
// the same transaction as the row write, so a concurrently deleted exercise
// cannot slip into a committed document.
type SessionPlanGroupRepository struct {
	db *sqlx.DB
}

// NewSessionPlanGroupRepository constructs a SessionPlanGroupRepository.
func NewSessionPlanGroupRepository(db *sqlx.DB) *SessionPlanGroupRepository {
	return &SessionPlanGroupRepository{db: db}
}

// List returns all groups ordered by primary key.
func (r *SessionPlanGroupRepository) List(ctx context.Context) ([]models.SessionPlanGroup, error) {
	query := fmt.Sprintf("SELECT %s FROM session_plan_groups ORDER BY id ASC", sessionPlanGroupColumns)
	var groups []models.SessionPlanGroup
	if err := r.db.SelectContext(ctx, &groups, query); err != nil {
		return nil, fmt.Errorf("list session plan groups: %w", err)
	}
	return groups, nil
}

// FindByID fetches a group by ID.
func (r *SessionPlanGroupRepository) FindByID(ctx context.Context, id int64) (*models.SessionPlanGroup, error) {
	query := fmt.Sprintf("SELECT %s FROM session_plan_groups WHERE id = $1", sessionPlanGroupColumns)
	var group models.SessionPlanGroup
	if err := r.db.GetContext(ctx, &group, query, id); err != nil {
		return nil, err
	}
	return &group, nil
}

// Create inserts a new group after verifying every referenced exercise ID
// inside one transaction. A dangling reference aborts with
// *MissingExercisesError carrying the absent IDs.
func (r *SessionPlanGroupRepository) Create(ctx context.Context, group *models.SessionPlanGroup, exerciseIDs []int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create session plan group: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := verifyExerciseIDs(ctx, tx, exerciseIDs); err != nil {
		return err
	}

	now := time.Now().UTC()
	group.CreatedAt = now
	group.UpdatedAt = now

	const query = `INSERT INTO session_plan_groups (group_name, banner_url, video_url, levels, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := tx.QueryRowxContext(ctx, query,
		group.GroupName, group.BannerURL, group.VideoURL, group.Levels,
		group.CreatedAt, group.UpdatedAt,
	).Scan(&group.ID); err != nil {
		return fmt.Errorf("create session plan group: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create session plan group: %w", err)
	}
	return nil
}

// Update rewrites an existing group with the same in-transaction reference
// check as Create.
func (r *SessionPlanGroupRepository) Update(ctx context.Context, group *models.SessionPlanGroup, exerciseIDs []int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update session plan group: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := verifyExerciseIDs(ctx, tx, exerciseIDs); err != nil {
		return err
	}

	group.UpdatedAt = time.Now().UTC()
	const query = `UPDATE session_plan_groups SET group_name = $2, banner_url = $3, video_url = $4, levels = $5, updated_at = $6 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, query,
		group.ID, group.GroupName, group.BannerURL, group.VideoURL, group.Levels, group.UpdatedAt,
	); err != nil {
		return fmt.Errorf("update session plan group: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update session plan group: %w", err)
	}
	return nil
}

// SetBannerURL stores the saved banner path after an upload.
func (r *SessionPlanGroupRepository) SetBannerURL(ctx context.Context, id int64, bannerURL string) error {
	const query = `UPDATE session_plan_groups SET banner_url = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, bannerURL, time.Now().UTC()); err != nil {
		return fmt.Errorf("set session plan group banner: %w", err)
	}
	return nil
}

// Delete removes a group. Terms pointing at it keep their row with a NULL
// link (SET NULL rule on terms.session_plan_group_id).
func (r *SessionPlanGroupRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM session_plan_groups WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete session plan group: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete session plan group result: %w", err)
	}
	return affected > 0, nil
}

func verifyExerciseIDs(ctx context.Context, tx *sqlx.Tx, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	var found []int64
	if err := tx.SelectContext(ctx, &found, "SELECT id FROM session_exercises WHERE id = ANY($1) FOR SHARE", pq.Array(ids)); err != nil {
		return fmt.Errorf("verify exercise ids: %w", err)
	}
	if len(found) == len(ids) {
		return nil
	}
	existing := make(map[int64]struct{}, len(found))
	for _, id := range found {
		existing[id] = struct{}{}
	}
	var missing []int64
	for _, id := range ids {
		if _, ok := existing[id]; !ok {
			missing = append(missing, id)
		}
	}
	return &MissingExercisesError{IDs: missing}
}
