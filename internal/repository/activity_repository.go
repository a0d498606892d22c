package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/synco-dev/booking-admin-api/internal/models"
)

const activityColumns = "id, admin_id, panel, module, action, message, success, ip_address, user_agent, created_at"

// ActivityRepository appends to the audit trail.
type ActivityRepository struct {
	db *sqlx.DB
}

// NewActivityRepository constructs an ActivityRepository.
func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create appends one activity entry.
func (r *ActivityRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	entry.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO activity_logs (admin_id, panel, module, action, message, success, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		entry.AdminID, entry.Panel, entry.Module, entry.Action, entry.Message,
		entry.Success, entry.IPAddress, entry.UserAgent, entry.CreatedAt,
	).Scan(&entry.ID); err != nil {
		return fmt.Errorf("create activity log: %w", err)
	}
	return nil
}

// List returns recent activity, newest first, optionally filtered by admin.
func (r *ActivityRepository) List(ctx context.Context, adminID int64, limit int) ([]models.ActivityLog, error) {
	if limit <= 0 {
		limit = 100
	}
	query := fmt.Sprintf("SELECT %s FROM activity_logs", activityColumns)
	args := []interface{}{}
	if adminID > 0 {
		query += " WHERE admin_id = $1 ORDER BY created_at DESC LIMIT $2"
		args = append(args, adminID, limit)
	} else {
		query += " ORDER BY created_at DESC LIMIT $1"
		args = append(args, limit)
	}
	var entries []models.ActivityLog
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}
	return entries, nil
}
