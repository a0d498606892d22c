package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/synco-dev/booking-admin-api/internal/dto"
	"github.com/synco-dev/booking-admin-api/internal/models"
	appErrors "github.com/synco-dev/booking-admin-api/pkg/errors"
)

type classScheduleRepository interface {
	List(ctx context.Context) ([]models.ClassSchedule, error)
	FindByID(ctx context.Context, id int64) (*models.ClassSchedule, error)
	Create(ctx context.Context, schedule *models.ClassSchedule) error
	Update(ctx context.Context, schedule *models.ClassSchedule) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type classSessionRepository interface {
	Create(ctx context.Context, session *models.ClassSession) error
	ListBySchedule(ctx context.Context, classScheduleID int64) ([]models.ClassSession, error)
}

type venueReader interface {
	FindByID(ctx context.Context, id int64) (*models.Venue, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type notificationWriter interface {
	Create(ctx context.Context, n *models.Notification) error
}

// CreateClassScheduleRequest describes payload for creating class schedules.
type CreateClassScheduleRequest struct {
	ClassName      string  `json:"className" validate:"required"`
	Capacity       *int    `json:"capacity"`
	Day            string  `json:"day" validate:"required"`
	StartTime      string  `json:"startTime" validate:"required"`
	EndTime        string  `json:"endTime" validate:"required"`
	AllowFreeTrial bool    `json:"allowFreeTrial"`
	Facility       *string `json:"facility"`
	VenueID        int64   `json:"venueId" validate:"required"`
}

// UpdateClassScheduleRequest updates a schedule; absent fields keep their
// stored values.
type UpdateClassScheduleRequest struct {
	ClassName      *string `json:"className"`
	Capacity       *int    `json:"capacity"`
	Day            *string `json:"day"`
	StartTime      *string `json:"startTime"`
	EndTime        *string `json:"endTime"`
	AllowFreeTrial *bool   `json:"allowFreeTrial"`
	Facility       *string `json:"facility"`
	VenueID        *int64  `json:"venueId"`
}

// CancelSessionRequest records one cancelled occurrence of a schedule.
type CancelSessionRequest struct {
	CancelReason  *string         `json:"cancelReason"`
	CreditMembers bool            `json:"creditMembers"`
	CancelledAt   *time.Time      `json:"cancelledAt"`
	NotifyGroups  json.RawMessage `json:"notifyGroups"`
}

// ClassScheduleService orchestrates class schedule and cancellation workflows.
type ClassScheduleService struct {
	repo          classScheduleRepository
	sessions      classSessionRepository
	venues        venueReader
	assembler     *ViewAssembler
	notifications notificationWriter
	cache         *CacheService
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewClassScheduleService creates a new class schedule service instance.
func NewClassScheduleService(repo classScheduleRepository, sessions classSessionRepository, venues venueReader, assembler *ViewAssembler, notifications notificationWriter, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ClassScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassScheduleService{
		repo:          repo,
		sessions:      sessions,
		venues:        venues,
		assembler:     assembler,
		notifications: notifications,
		cache:         cache,
		validator:     validate,
		logger:        logger,
	}
}

// List returns all schedules with their full venue context.
func (s *ClassScheduleService) List(ctx context.Context) ([]*dto.ClassScheduleView, error) {
	const cacheKey = "class-schedules:list"
	var cached []*dto.ClassScheduleView
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return cached, nil
	}

	schedules, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list class schedules")
	}

	views := make([]*dto.ClassScheduleView, 0, len(schedules))
	for i := range schedules {
		view, err := s.assemble(ctx, &schedules[i])
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	if err := s.cache.Set(ctx, cacheKey, views, 0); err != nil {
		s.logger.Debug("class schedule list not cached", zap.Error(err))
	}
	return views, nil
}

// Get returns one schedule with its venue context.
func (s *ClassScheduleService) Get(ctx context.Context, id int64) (*dto.ClassScheduleView, error) {
	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class schedule")
	}
	return s.assemble(ctx, schedule)
}

// Create adds a new schedule after verifying the venue exists.
func (s *ClassScheduleService) Create(ctx context.Context, req CreateClassScheduleRequest) (*dto.ClassScheduleView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class schedule payload")
	}

	exists, err := s.venues.Exists(ctx, req.VenueID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify venue")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrDependency, "venue does not exist")
	}

	schedule := &models.ClassSchedule{
		ClassName:      req.ClassName,
		Capacity:       req.Capacity,
		Day:            req.Day,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		AllowFreeTrial: req.AllowFreeTrial,
		Facility:       req.Facility,
		VenueID:        req.VenueID,
	}

	if err := s.repo.Create(ctx, schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class schedule")
	}

	s.invalidate(ctx)
	return s.assemble(ctx, schedule)
}

// Update modifies a schedule, merging absent fields from the stored row.
func (s *ClassScheduleService) Update(ctx context.Context, id int64, req UpdateClassScheduleRequest) (*dto.ClassScheduleView, error) {
	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class schedule")
	}

	if req.VenueID != nil {
		exists, err := s.venues.Exists(ctx, *req.VenueID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify venue")
		}
		if !exists {
			return nil, appErrors.Clone(appErrors.ErrDependency, "venue does not exist")
		}
		schedule.VenueID = *req.VenueID
	}
	if req.ClassName != nil {
		schedule.ClassName = *req.ClassName
	}
	if req.Capacity != nil {
		schedule.Capacity = req.Capacity
	}
	if req.Day != nil {
		schedule.Day = *req.Day
	}
	if req.StartTime != nil {
		schedule.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		schedule.EndTime = *req.EndTime
	}
	if req.AllowFreeTrial != nil {
		schedule.AllowFreeTrial = *req.AllowFreeTrial
	}
	if req.Facility != nil {
		schedule.Facility = req.Facility
	}

	if err := s.repo.Update(ctx, schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update class schedule")
	}

	s.invalidate(ctx)
	return s.assemble(ctx, schedule)
}

// Delete removes a schedule and, via CASCADE, its cancellations.
func (s *ClassScheduleService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete class schedule")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "class schedule not found")
	}
	s.invalidate(ctx)
	return nil
}

// Cancel records a cancelled occurrence of the schedule and drops a panel
// notification. A notification failure does not undo the cancellation.
func (s *ClassScheduleService) Cancel(ctx context.Context, id int64, req CancelSessionRequest) (*models.ClassSession, error) {
	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class schedule")
	}

	session := &models.ClassSession{
		ClassScheduleID: schedule.ID,
		CancelReason:    req.CancelReason,
		CreditMembers:   req.CreditMembers,
	}
	if req.CancelledAt != nil {
		session.CancelledAt = *req.CancelledAt
	}
	if len(req.NotifyGroups) > 0 {
		session.NotifyGroups = types.JSONText(req.NotifyGroups)
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record cancellation")
	}

	if s.notifications != nil {
		title := "Class session cancelled"
		description := schedule.ClassName + " on " + schedule.Day + " was cancelled"
		notification := &models.Notification{
			Title:       &title,
			Description: &description,
			Category:    "system",
		}
		if err := s.notifications.Create(ctx, notification); err != nil {
			s.logger.Warn("cancellation notification not recorded",
				zap.Int64("classScheduleId", schedule.ID),
				zap.Error(err),
			)
		}
	}

	s.invalidate(ctx)
	return session, nil
}

// ListCancelled returns cancellations for a schedule, newest first, each with
// its parsed notify-groups document and schedule summary.
func (s *ClassScheduleService) ListCancelled(ctx context.Context, id int64) ([]*dto.CancelledSessionView, error) {
	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class schedule")
	}

	sessions, err := s.sessions.ListBySchedule(ctx, schedule.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list cancellations")
	}

	summary := s.scheduleSummary(ctx, schedule)
	views := make([]*dto.CancelledSessionView, 0, len(sessions))
	for i := range sessions {
		views = append(views, cancelledSessionView(&sessions[i], summary))
	}
	return views, nil
}

func (s *ClassScheduleService) assemble(ctx context.Context, schedule *models.ClassSchedule) (*dto.ClassScheduleView, error) {
	view := &dto.ClassScheduleView{ClassSchedule: *schedule}

	venue, err := s.venues.FindByID(ctx, schedule.VenueID)
	if err != nil {
		if err == sql.ErrNoRows {
			s.logger.Warn("class schedule references missing venue",
				zap.Int64("classScheduleId", schedule.ID),
				zap.Int64("venueId", schedule.VenueID),
			)
			return view, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule venue")
	}

	venueView, err := s.assembler.VenueView(ctx, venue)
	if err != nil {
		return nil, err
	}
	view.Venue = venueView
	return view, nil
}

func (s *ClassScheduleService) scheduleSummary(ctx context.Context, schedule *models.ClassSchedule) *dto.ScheduleSummary {
	summary := &dto.ScheduleSummary{
		ID:             schedule.ID,
		ClassName:      schedule.ClassName,
		Capacity:       schedule.Capacity,
		Day:            schedule.Day,
		StartTime:      schedule.StartTime,
		EndTime:        schedule.EndTime,
		AllowFreeTrial: schedule.AllowFreeTrial,
	}
	if venue, err := s.venues.FindByID(ctx, schedule.VenueID); err == nil {
		summary.Venue = &dto.VenueSummary{ID: venue.ID, Name: venue.Name, Address: venue.Address}
	}
	return summary
}

func cancelledSessionView(session *models.ClassSession, summary *dto.ScheduleSummary) *dto.CancelledSessionView {
	view := &dto.CancelledSessionView{
		ID:              session.ID,
		ClassScheduleID: session.ClassScheduleID,
		CancelReason:    session.CancelReason,
		CreditMembers:   session.CreditMembers,
		CancelledAt:     session.CancelledAt.UTC().Format(time.RFC3339),
		ClassSchedule:   summary,
	}
	if len(session.NotifyGroups) > 0 {
		var parsed interface{}
		if err := json.Unmarshal(session.NotifyGroups, &parsed); err == nil {
			view.NotifyGroups = parsed
		} else {
			view.NotifyGroups = string(session.NotifyGroups)
		}
	}
	return view
}

func (s *ClassScheduleService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, "class-schedules:*"); err != nil {
		s.logger.Debug("class schedule cache not invalidated", zap.Error(err))
	}
}
