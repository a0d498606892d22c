package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/synco-dev/booking-admin-api/internal/models"
	appErrors "github.com/synco-dev/booking-admin-api/pkg/errors"
)

type activityRepository interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
	List(ctx context.Context, adminID int64, limit int) ([]models.ActivityLog, error)
}

// ActivityService records and serves the append-only audit trail. Recording
// never fails a request; a write error is logged and swallowed.
type ActivityService struct {
	repo   activityRepository
	logger *zap.Logger
}

// NewActivityService creates a new activity service instance.
func NewActivityService(repo activityRepository, logger *zap.Logger) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityService{repo: repo, logger: logger}
}

// Record appends one entry. Failures and successes are both recorded; the
// Success flag tells them apart.
func (s *ActivityService) Record(ctx context.Context, entry models.ActivityLog) {
	if err := s.repo.Create(ctx, &entry); err != nil {
		s.logger.Warn("activity entry not recorded",
			zap.String("module", entry.Module),
			zap.String("action", entry.Action),
			zap.Error(err),
		)
	}
}

// List returns recent activity, newest first, optionally filtered by admin.
func (s *ActivityService) List(ctx context.Context, adminID int64, limit int) ([]models.ActivityLog, error) {
	entries, err := s.repo.List(ctx, adminID, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list activity")
	}
	return entries, nil
}
