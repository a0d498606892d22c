package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/synco-dev/booking-admin-api/internal/models"
)

// TermGroupRepository manages persistence for term groups.
type TermGroupRepository struct {
	db *sqlx.DB
}

// NewTermGroupRepository constructs a TermGroupRepository.
func NewTermGroupRepository(db *sqlx.DB) *TermGroupRepository {
	return &TermGroupRepository{db: db}
}

// List returns all term groups ordered by primary key.
func (r *TermGroupRepository) List(ctx context.Context) ([]models.TermGroup, error) {
	var groups []models.TermGroup
	if err := r.db.SelectContext(ctx, &groups, "SELECT id, name, created_at, updated_at FROM term_groups ORDER BY id ASC"); err != nil {
		return nil, fmt.Errorf("list term groups: %w", err)
	}
	return groups, nil
}

// FindByID fetches a term group by ID.
func (r *TermGroupRepository) FindByID(ctx context.Context, id int64) (*models.TermGroup, error) {
	var group models.TermGroup
	if err := r.db.GetContext(ctx, &group, "SELECT id, name, created_at, updated_at FROM term_groups WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &group, nil
}

// Create inserts a new term group.
func (r *TermGroupRepository) Create(ctx context.Context, group *models.TermGroup) error {
	now := time.Now().UTC()
	group.CreatedAt = now
	group.UpdatedAt = now

	const query = `INSERT INTO term_groups (name, created_at, updated_at) VALUES ($1, $2, $3) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, group.Name, group.CreatedAt, group.UpdatedAt).Scan(&group.ID); err != nil {
		return fmt.Errorf("create term group: %w", err)
	}
	return nil
}

// Update renames a term group.
func (r *TermGroupRepository) Update(ctx context.Context, group *models.TermGroup) error {
	group.UpdatedAt = time.Now().UTC()
	if _, err := r.db.ExecContext(ctx, "UPDATE term_groups SET name = $2, updated_at = $3 WHERE id = $1", group.ID, group.Name, group.UpdatedAt); err != nil {
		return fmt.Errorf("update term group: %w", err)
	}
	return nil
}

// Delete removes a term group.
func (r *TermGroupRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM term_groups WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete term group: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete term group result: %w", err)
	}
	return affected > 0, nil
}
