package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/synco-dev/booking-admin-api/internal/models"
)

const classScheduleColumns = "id, class_name, capacity, day, start_time, end_time, allow_free_trial, facility, venue_id, created_at, updated_at"

// ClassScheduleRepository manages persistence for class schedules.
type ClassScheduleRepository struct {
	db *sqlx.DB
}

// NewClassScheduleRepository constructs a ClassScheduleRepository.
func NewClassScheduleRepository(db *sqlx.DB) *ClassScheduleRepository {
	return &ClassScheduleRepository{db: db}
}

// List returns all class schedules ordered by primary key.
func (r *ClassScheduleRepository) List(ctx context.Context) ([]models.ClassSchedule, error) {
	query := fmt.Sprintf("SELECT %s FROM class_schedules ORDER BY id ASC", classScheduleColumns)
	var schedules []models.ClassSchedule
	if err := r.db.SelectContext(ctx, &schedules, query); err != nil {
		return nil, fmt.Errorf("list class schedules: %w", err)
	}
	return schedules, nil
}

// FindByID fetches a class schedule by ID.
func (r *ClassScheduleRepository) FindByID(ctx context.Context, id int64) (*models.ClassSchedule, error) {
	query := fmt.Sprintf("SELECT %s FROM class_schedules WHERE id = $1", classScheduleColumns)
	var schedule models.ClassSchedule
	if err := r.db.GetContext(ctx, &schedule, query, id); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// Create inserts a new class schedule.
func (r *ClassScheduleRepository) Create(ctx context.Context, schedule *models.ClassSchedule) error {
	now := time.Now().UTC()
	schedule.CreatedAt = now
	schedule.UpdatedAt = now

	const query = `INSERT INTO class_schedules (class_name, capacity, day, start_time, end_time, allow_free_trial, facility, venue_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		schedule.ClassName, schedule.Capacity, schedule.Day, schedule.StartTime, schedule.EndTime,
		schedule.AllowFreeTrial, schedule.Facility, schedule.VenueID,
		schedule.CreatedAt, schedule.UpdatedAt,
	).Scan(&schedule.ID); err != nil {
		return fmt.Errorf("create class schedule: %w", err)
	}
	return nil
}

// Update rewrites an existing class schedule.
func (r *ClassScheduleRepository) Update(ctx context.Context, schedule *models.ClassSchedule) error {
	schedule.UpdatedAt = time.Now().UTC()
	const query = `UPDATE class_schedules SET class_name = $2, capacity = $3, day = $4, start_time = $5, end_time = $6, allow_free_trial = $7, facility = $8, venue_id = $9, updated_at = $10 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query,
		schedule.ID, schedule.ClassName, schedule.Capacity, schedule.Day, schedule.StartTime, schedule.EndTime,
		schedule.AllowFreeTrial, schedule.Facility, schedule.VenueID, schedule.UpdatedAt,
	); err != nil {
		return fmt.Errorf("update class schedule: %w", err)
	}
	return nil
}

// Delete removes a class schedule. Its cancellations go with it via the
// CASCADE rule on class_sessions.class_schedule_id.
func (r *ClassScheduleRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM class_schedules WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete class schedule: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete class schedule result: %w", err)
	}
	return affected > 0, nil
}
