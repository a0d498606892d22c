package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/synco-dev/booking-admin-api/internal/dto"
	"github.com/synco-dev/booking-admin-api/internal/models"
	"github.com/synco-dev/booking-admin-api/internal/repository"
	appErrors "github.com/synco-dev/booking-admin-api/pkg/errors"
)

type sessionPlanGroupRepository interface {
	List(ctx context.Context) ([]models.SessionPlanGroup, error)
	FindByID(ctx context.Context, id int64) (*models.SessionPlanGroup, error)
	Create(ctx context.Context, group *models.SessionPlanGroup, exerciseIDs []int64) error
	Update(ctx context.Context, group *models.SessionPlanGroup, exerciseIDs []int64) error
	SetBannerURL(ctx context.Context, id int64, bannerURL string) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type fileStore interface {
	Save(filename string, data []byte) (string, error)
	Delete(filename string) error
}

// CreateSessionPlanGroupRequest describes payload for creating a plan group.
type CreateSessionPlanGroupRequest struct {
	GroupName string                `json:"groupName" validate:"required"`
	BannerURL *string               `json:"bannerUrl"`
	VideoURL  *string               `json:"videoUrl"`
	Levels    models.LevelsDocument `json:"levels"`
}

// UpdateSessionPlanGroupRequest updates a plan group; absent fields keep
// their stored values.
type UpdateSessionPlanGroupRequest struct {
	GroupName *string               `json:"groupName"`
	BannerURL *string               `json:"bannerUrl"`
	VideoURL  *string               `json:"videoUrl"`
	Levels    models.LevelsDocument `json:"levels"`
}

// SessionPlanGroupService orchestrates plan group workflows.
type SessionPlanGroupService struct {
	repo      sessionPlanGroupRepository
	resolver  *LevelsResolver
	files     fileStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSessionPlanGroupService creates a new plan group service instance.
func NewSessionPlanGroupService(repo sessionPlanGroupRepository, resolver *LevelsResolver, files fileStore, validate *validator.Validate, logger *zap.Logger) *SessionPlanGroupService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionPlanGroupService{repo: repo, resolver: resolver, files: files, validator: validate, logger: logger}
}

// List returns every plan group with levels parsed and exercises resolved.
func (s *SessionPlanGroupService) List(ctx context.Context) ([]*dto.SessionPlanGroupView, error) {
	groups, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list session plan groups")
	}
	views := make([]*dto.SessionPlanGroupView, 0, len(groups))
	for i := range groups {
		view, err := s.resolver.Resolve(ctx, &groups[i])
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// Get returns one plan group with its resolved view.
func (s *SessionPlanGroupService) Get(ctx context.Context, id int64) (*dto.SessionPlanGroupView, error) {
	group, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session plan group not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session plan group")
	}
	return s.resolver.Resolve(ctx, group)
}

// Create adds a plan group. Exercise references in the levels document are
// verified in the same transaction as the insert; a dangling ID rejects the
// whole write with the missing list.
func (s *SessionPlanGroupService) Create(ctx context.Context, req CreateSessionPlanGroupRequest) (*dto.SessionPlanGroupView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session plan group payload")
	}

	levels, err := encodeLevels(req.Levels)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid levels document")
	}

	group := &models.SessionPlanGroup{
		GroupName: req.GroupName,
		BannerURL: req.BannerURL,
		VideoURL:  req.VideoURL,
		Levels:    levels,
	}

	if err := s.repo.Create(ctx, group, req.Levels.ExerciseIDs()); err != nil {
		return nil, s.mapWriteError(err, "failed to create session plan group")
	}

	return s.resolver.Resolve(ctx, group)
}

// Update modifies a plan group, merging absent fields from the stored row.
// When the request carries a levels document its references are verified in
// the same transaction as the rewrite.
func (s *SessionPlanGroupService) Update(ctx context.Context, id int64, req UpdateSessionPlanGroupRequest) (*dto.SessionPlanGroupView, error) {
	group, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session plan group not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session plan group")
	}

	if req.GroupName != nil {
		group.GroupName = *req.GroupName
	}
	if req.BannerURL != nil {
		group.BannerURL = req.BannerURL
	}
	if req.VideoURL != nil {
		group.VideoURL = req.VideoURL
	}

	exerciseIDs := []int64(nil)
	if req.Levels != nil {
		levels, err := encodeLevels(req.Levels)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid levels document")
		}
		group.Levels = levels
		exerciseIDs = req.Levels.ExerciseIDs()
	}

	if err := s.repo.Update(ctx, group, exerciseIDs); err != nil {
		return nil, s.mapWriteError(err, "failed to update session plan group")
	}

	return s.resolver.Resolve(ctx, group)
}

// UploadBanner stores a banner image and records its path. When the record
// write fails the stored file is removed again so nothing orphaned stays on
// disk.
func (s *SessionPlanGroupService) UploadBanner(ctx context.Context, id int64, filename string, data []byte) (*dto.SessionPlanGroupView, error) {
	group, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session plan group not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session plan group")
	}

	stored := fmt.Sprintf("session-plan-groups/%d/banner-%d%s", id, time.Now().UnixNano(), filepath.Ext(filename))
	if _, err := s.files.Save(stored, data); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store banner")
	}

	if err := s.repo.SetBannerURL(ctx, id, stored); err != nil {
		if cleanupErr := s.files.Delete(stored); cleanupErr != nil {
			s.logger.Warn("orphaned banner left on disk",
				zap.String("path", stored),
				zap.Error(cleanupErr),
			)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record banner")
	}

	group.BannerURL = &stored
	return s.resolver.Resolve(ctx, group)
}

// Delete removes a plan group. Terms that pointed at it keep their rows with
// the link cleared.
func (s *SessionPlanGroupService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete session plan group")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "session plan group not found")
	}
	return nil
}

func (s *SessionPlanGroupService) mapWriteError(err error, message string) error {
	var missing *repository.MissingExercisesError
	if errors.As(err, &missing) {
		return missingExercisesError(missing.IDs)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func encodeLevels(doc models.LevelsDocument) (types.JSONText, error) {
	if doc == nil {
		return types.JSONText("{}"), nil
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return types.JSONText(raw), nil
}
