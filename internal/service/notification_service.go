package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/synco-dev/booking-admin-api/internal/models"
	appErrors "github.com/synco-dev/booking-admin-api/pkg/errors"
)

type notificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, category string) ([]models.Notification, error)
	ListReadIDs(ctx context.Context, adminID int64) ([]int64, error)
	MarkRead(ctx context.Context, adminID int64, notificationIDs []int64) error
}

// CreateNotificationRequest describes payload for creating notifications.
type CreateNotificationRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    string  `json:"category" validate:"required"`
	AdminID     *int64  `json:"adminId"`
}

// MarkReadRequest marks notifications as read for the calling admin.
type MarkReadRequest struct {
	NotificationIDs []int64 `json:"notificationIds" validate:"required,min=1"`
}

// NotificationService orchestrates panel notification workflows.
type NotificationService struct {
	repo      notificationRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewNotificationService creates a new notification service instance.
func NewNotificationService(repo notificationRepository, validate *validator.Validate, logger *zap.Logger) *NotificationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{repo: repo, validator: validate, logger: logger}
}

// Create records a notification.
func (s *NotificationService) Create(ctx context.Context, req CreateNotificationRequest) (*models.Notification, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid notification payload")
	}

	notification := &models.Notification{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		AdminID:     req.AdminID,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create notification")
	}
	return notification, nil
}

// List returns notifications, newest first, flagged with the caller's read
// state and optionally filtered by category.
func (s *NotificationService) List(ctx context.Context, adminID int64, category string) ([]models.NotificationView, error) {
	notifications, err := s.repo.List(ctx, category)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}

	readIDs, err := s.repo.ListReadIDs(ctx, adminID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load read state")
	}
	read := make(map[int64]struct{}, len(readIDs))
	for _, id := range readIDs {
		read[id] = struct{}{}
	}

	views := make([]models.NotificationView, 0, len(notifications))
	for _, n := range notifications {
		_, seen := read[n.ID]
		views = append(views, models.NotificationView{Notification: n, Read: seen})
	}
	return views, nil
}

// MarkRead records read marks for the calling admin. IDs of notifications
// that do not exist are silently skipped.
func (s *NotificationService) MarkRead(ctx context.Context, adminID int64, req MarkReadRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mark read payload")
	}
	if err := s.repo.MarkRead(ctx, adminID, req.NotificationIDs); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notifications read")
	}
	return nil
}
