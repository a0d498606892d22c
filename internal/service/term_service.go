package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/synco-dev/booking-admin-api/internal/dto"
	"github.com/synco-dev/booking-admin-api/internal/models"
	appErrors "github.com/synco-dev/booking-admin-api/pkg/errors"
)

const termDateLayout = "2006-01-02"

type termRepository interface {
	List(ctx context.Context) ([]models.Term, error)
	FindByID(ctx context.Context, id int64) (*models.Term, error)
	Create(ctx context.Context, term *models.Term) error
	Update(ctx context.Context, term *models.Term) error
	Delete(ctx context.Context, id int64) (bool, error)
}

// CreateTermRequest describes payload for creating terms.
type CreateTermRequest struct {
	TermName           string   `json:"termName" validate:"required"`
	StartDate          string   `json:"startDate" validate:"required"`
	EndDate            string   `json:"endDate" validate:"required"`
	ExclusionDates     []string `json:"exclusionDates"`
	TotalSessions      *int     `json:"totalSessions"`
	SessionPlanGroupID *int64   `json:"sessionPlanGroupId"`
	TermGroupID        *int64   `json:"termGroupId"`
}

// UpdateTermRequest updates a term; absent fields keep their stored values.
type UpdateTermRequest struct {
	TermName           *string  `json:"termName"`
	StartDate          *string  `json:"startDate"`
	EndDate            *string  `json:"endDate"`
	ExclusionDates     []string `json:"exclusionDates"`
	TotalSessions      *int     `json:"totalSessions"`
	SessionPlanGroupID *int64   `json:"sessionPlanGroupId"`
	TermGroupID        *int64   `json:"termGroupId"`
}

// TermService orchestrates term workflows.
type TermService struct {
	repo      termRepository
	assembler *ViewAssembler
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTermService creates a new term service instance.
func NewTermService(repo termRepository, assembler *ViewAssembler, validate *validator.Validate, logger *zap.Logger) *TermService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TermService{repo: repo, assembler: assembler, validator: validate, logger: logger}
}

// List returns all terms with their group and plan group context.
func (s *TermService) List(ctx context.Context) ([]*dto.TermView, error) {
	terms, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list terms")
	}
	views := make([]*dto.TermView, 0, len(terms))
	for i := range terms {
		view, err := s.assembler.TermView(ctx, &terms[i])
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// Get returns one term with its context.
func (s *TermService) Get(ctx context.Context, id int64) (*dto.TermView, error) {
	term, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "term not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load term")
	}
	return s.assembler.TermView(ctx, term)
}

// Create adds a new term after date validation.
func (s *TermService) Create(ctx context.Context, req CreateTermRequest) (*dto.TermView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid term payload")
	}
	if err := validateTermDates(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	term := &models.Term{
		TermName:           req.TermName,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		ExclusionDates:     models.DateList(req.ExclusionDates),
		TotalSessions:      req.TotalSessions,
		SessionPlanGroupID: req.SessionPlanGroupID,
		TermGroupID:        req.TermGroupID,
	}

	if err := s.repo.Create(ctx, term); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create term")
	}
	return s.assembler.TermView(ctx, term)
}

// Update modifies a term, merging absent fields from the stored row.
func (s *TermService) Update(ctx context.Context, id int64, req UpdateTermRequest) (*dto.TermView, error) {
	term, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "term not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load term")
	}

	if req.TermName != nil {
		term.TermName = *req.TermName
	}
	if req.StartDate != nil {
		term.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		term.EndDate = *req.EndDate
	}
	if req.ExclusionDates != nil {
		term.ExclusionDates = models.DateList(req.ExclusionDates)
	}
	if req.TotalSessions != nil {
		term.TotalSessions = req.TotalSessions
	}
	if req.SessionPlanGroupID != nil {
		term.SessionPlanGroupID = req.SessionPlanGroupID
	}
	if req.TermGroupID != nil {
		term.TermGroupID = req.TermGroupID
	}

	if err := validateTermDates(term.StartDate, term.EndDate); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, term); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update term")
	}
	return s.assembler.TermView(ctx, term)
}

// Delete removes a term. Venues linked to it keep their rows with the link
// cleared (SET NULL).
func (s *TermService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete term")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "term not found")
	}
	return nil
}

func validateTermDates(start, end string) error {
	startDate, err := time.Parse(termDateLayout, start)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "startDate must be YYYY-MM-DD")
	}
	endDate, err := time.Parse(termDateLayout, end)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "endDate must be YYYY-MM-DD")
	}
	if endDate.Before(startDate) {
		return appErrors.Clone(appErrors.ErrValidation, "endDate must not be before startDate")
	}
	return nil
}
