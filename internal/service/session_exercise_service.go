package service

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/synco-dev/booking-admin-api/internal/models"
	appErrors "github.com/synco-dev/booking-admin-api/pkg/errors"
)

type sessionExerciseRepository interface {
	List(ctx context.Context) ([]models.SessionExercise, error)
	FindByID(ctx context.Context, id int64) (*models.SessionExercise, error)
	Create(ctx context.Context, exercise *models.SessionExercise) error
	Update(ctx context.Context, exercise *models.SessionExercise) error
	Delete(ctx context.Context, id int64) (bool, error)
}

// CreateSessionExerciseRequest describes payload for creating exercises.
type CreateSessionExerciseRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	Duration    *string `json:"duration"`
	ImageURL    *string `json:"imageUrl"`
}

// UpdateSessionExerciseRequest updates an exercise; absent fields keep their
// stored values.
type UpdateSessionExerciseRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Duration    *string `json:"duration"`
	ImageURL    *string `json:"imageUrl"`
}

// SessionExerciseService orchestrates exercise workflows.
type SessionExerciseService struct {
	repo      sessionExerciseRepository
	files     fileStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSessionExerciseService creates a new exercise service instance.
func NewSessionExerciseService(repo sessionExerciseRepository, files fileStore, validate *validator.Validate, logger *zap.Logger) *SessionExerciseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionExerciseService{repo: repo, files: files, validator: validate, logger: logger}
}

// List returns all exercises.
func (s *SessionExerciseService) List(ctx context.Context) ([]models.SessionExercise, error) {
	exercises, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list session exercises")
	}
	return exercises, nil
}

// Get returns an exercise by ID.
func (s *SessionExerciseService) Get(ctx context.Context, id int64) (*models.SessionExercise, error) {
	exercise, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session exercise not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session exercise")
	}
	return exercise, nil
}

// Create adds a new exercise. When image bytes are provided they are stored
// first; a failed insert removes the stored file again.
func (s *SessionExerciseService) Create(ctx context.Context, req CreateSessionExerciseRequest, imageName string, imageData []byte) (*models.SessionExercise, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session exercise payload")
	}

	exercise := &models.SessionExercise{
		Title:       req.Title,
		Description: req.Description,
		Duration:    req.Duration,
		ImageURL:    req.ImageURL,
	}

	var stored string
	if len(imageData) > 0 {
		stored = fmt.Sprintf("session-exercises/image-%d%s", time.Now().UnixNano(), filepath.Ext(imageName))
		if _, err := s.files.Save(stored, imageData); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store exercise image")
		}
		exercise.ImageURL = &stored
	}

	if err := s.repo.Create(ctx, exercise); err != nil {
		if stored != "" {
			if cleanupErr := s.files.Delete(stored); cleanupErr != nil {
				s.logger.Warn("orphaned exercise image left on disk",
					zap.String("path", stored),
					zap.Error(cleanupErr),
				)
			}
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session exercise")
	}
	return exercise, nil
}

// Update modifies an exercise, merging absent fields from the stored row.
func (s *SessionExerciseService) Update(ctx context.Context, id int64, req UpdateSessionExerciseRequest) (*models.SessionExercise, error) {
	exercise, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session exercise not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session exercise")
	}

	if req.Title != nil {
		exercise.Title = *req.Title
	}
	if req.Description != nil {
		exercise.Description = req.Description
	}
	if req.Duration != nil {
		exercise.Duration = req.Duration
	}
	if req.ImageURL != nil {
		exercise.ImageURL = req.ImageURL
	}

	if err := s.repo.Update(ctx, exercise); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update session exercise")
	}
	return exercise, nil
}

// Delete removes an exercise. Levels documents that still reference the ID
// keep the reference; reads drop it from their resolved lists.
func (s *SessionExerciseService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete session exercise")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "session exercise not found")
	}
	return nil
}
