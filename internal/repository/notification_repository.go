package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/synco-dev/booking-admin-api/internal/models"
)

const notificationColumns = "id, title, description, category, admin_id, created_at"

// NotificationRepository manages panel notifications and per-admin read marks.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository constructs a NotificationRepository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a notification.
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	n.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO notifications (title, description, category, admin_id, created_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		n.Title, n.Description, n.Category, n.AdminID, n.CreatedAt,
	).Scan(&n.ID); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// List returns notifications, newest first, optionally filtered by category.
func (r *NotificationRepository) List(ctx context.Context, category string) ([]models.Notification, error) {
	query := fmt.Sprintf("SELECT %s FROM notifications", notificationColumns)
	var args []interface{}
	if category != "" {
		query += " WHERE category = $1"
		args = append(args, category)
	}
	query += " ORDER BY created_at DESC"

	var notifications []models.Notification
	if err := r.db.SelectContext(ctx, &notifications, query, args...); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

// ListReadIDs returns the notification IDs the admin has already read.
func (r *NotificationRepository) ListReadIDs(ctx context.Context, adminID int64) ([]int64, error) {
	var ids []int64
	const query = "SELECT notification_id FROM notification_reads WHERE admin_id = $1"
	if err := r.db.SelectContext(ctx, &ids, query, adminID); err != nil {
		return nil, fmt.Errorf("list notification reads: %w", err)
	}
	return ids, nil
}

// MarkRead records read marks for the given notifications. Marks that already
// exist are left untouched.
func (r *NotificationRepository) MarkRead(ctx context.Context, adminID int64, notificationIDs []int64) error {
	if len(notificationIDs) == 0 {
		return nil
	}
	const query = `INSERT INTO notification_reads (admin_id, notification_id, created_at)
		SELECT $1, id, $3 FROM notifications WHERE id = ANY($2)
		ON CONFLICT (admin_id, notification_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, adminID, pq.Array(notificationIDs), time.Now().UTC()); err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	return nil
}
