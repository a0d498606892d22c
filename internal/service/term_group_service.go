package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/synco-dev/booking-admin-api/internal/models"
	appErrors "github.com/synco-dev/booking-admin-api/pkg/errors"
)

type termGroupRepository interface {
	List(ctx context.Context) ([]models.TermGroup, error)
	FindByID(ctx context.Context, id int64) (*models.TermGroup, error)
	Create(ctx context.Context, group *models.TermGroup) error
	Update(ctx context.Context, group *models.TermGroup) error
	Delete(ctx context.Context, id int64) (bool, error)
}

// TermGroupRequest carries the single mutable field of a term group.
type TermGroupRequest struct {
	Name string `json:"name" validate:"required"`
}

// TermGroupService orchestrates term group workflows.
type TermGroupService struct {
	repo      termGroupRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTermGroupService creates a new term group service instance.
func NewTermGroupService(repo termGroupRepository, validate *validator.Validate, logger *zap.Logger) *TermGroupService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TermGroupService{repo: repo, validator: validate, logger: logger}
}

// List returns all term groups.
func (s *TermGroupService) List(ctx context.Context) ([]models.TermGroup, error) {
	groups, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list term groups")
	}
	return groups, nil
}

// Get returns a term group by ID.
func (s *TermGroupService) Get(ctx context.Context, id int64) (*models.TermGroup, error) {
	group, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "term group not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load term group")
	}
	return group, nil
}

// Create adds a new term group.
func (s *TermGroupService) Create(ctx context.Context, req TermGroupRequest) (*models.TermGroup, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid term group payload")
	}

	group := &models.TermGroup{Name: req.Name}
	if err := s.repo.Create(ctx, group); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create term group")
	}
	return group, nil
}

// Update renames a term group.
func (s *TermGroupService) Update(ctx context.Context, id int64, req TermGroupRequest) (*models.TermGroup, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid term group payload")
	}

	group, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "term group not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load term group")
	}

	group.Name = req.Name
	if err := s.repo.Update(ctx, group); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update term group")
	}
	return group, nil
}

// Delete removes a term group. Terms in the group keep their rows with the
// link cleared (SET NULL).
func (s *TermGroupService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete term group")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "term group not found")
	}
	return nil
}
