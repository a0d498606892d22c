package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/synco-dev/booking-admin-api/internal/models"
)

const classSessionColumns = "id, class_schedule_id, cancel_reason, credit_members, cancelled_at, notify_groups, created_at, updated_at"

// ClassSessionRepository manages cancelled class sessions.
type ClassSessionRepository struct {
	db *sqlx.DB
}

// NewClassSessionRepository constructs a ClassSessionRepository.
func NewClassSessionRepository(db *sqlx.DB) *ClassSessionRepository {
	return &ClassSessionRepository{db: db}
}

// Create records a cancellation.
func (r *ClassSessionRepository) Create(ctx context.Context, session *models.ClassSession) error {
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now
	if session.CancelledAt.IsZero() {
		session.CancelledAt = now
	}

	const query = `INSERT INTO class_sessions (class_schedule_id, cancel_reason, credit_members, cancelled_at, notify_groups, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		session.ClassScheduleID, session.CancelReason, session.CreditMembers,
		session.CancelledAt, session.NotifyGroups, session.CreatedAt, session.UpdatedAt,
	).Scan(&session.ID); err != nil {
		return fmt.Errorf("create class session: %w", err)
	}
	return nil
}

// ListBySchedule returns cancellations for a schedule, most recent first.
func (r *ClassSessionRepository) ListBySchedule(ctx context.Context, classScheduleID int64) ([]models.ClassSession, error) {
	query := fmt.Sprintf("SELECT %s FROM class_sessions WHERE class_schedule_id = $1 ORDER BY cancelled_at DESC", classSessionColumns)
	var sessions []models.ClassSession
	if err := r.db.SelectContext(ctx, &sessions, query, classScheduleID); err != nil {
		return nil, fmt.Errorf("list class sessions: %w", err)
	}
	return sessions, nil
}
