package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/synco-dev/booking-admin-api/internal/dto"
	"github.com/synco-dev/booking-admin-api/internal/models"
	appErrors "github.com/synco-dev/booking-admin-api/pkg/errors"
)

const venueCachePattern = "venues:*"

type venueRepository interface {
	List(ctx context.Context) ([]models.Venue, error)
	FindByID(ctx context.Context, id int64) (*models.Venue, error)
	Create(ctx context.Context, venue *models.Venue) error
	Update(ctx context.Context, venue *models.Venue) error
	Delete(ctx context.Context, id int64) (bool, error)
}

// CreateVenueRequest describes payload for creating venues.
type CreateVenueRequest struct {
	Area           string  `json:"area" validate:"required"`
	Name           string  `json:"name" validate:"required"`
	Address        string  `json:"address" validate:"required"`
	Facility       string  `json:"facility" validate:"required,oneof=Indoor Outdoor"`
	ParkingNote    *string `json:"parkingNote"`
	CongestionNote *string `json:"congestionNote"`
	PaymentPlanID  *int64  `json:"paymentPlanId"`
	TermID         *int64  `json:"termId"`
}

// UpdateVenueRequest updates a venue; absent fields keep their stored values.
type UpdateVenueRequest struct {
	Area           *string `json:"area"`
	Name           *string `json:"name"`
	Address        *string `json:"address"`
	Facility       *string `json:"facility" validate:"omitempty,oneof=Indoor Outdoor"`
	ParkingNote    *string `json:"parkingNote"`
	CongestionNote *string `json:"congestionNote"`
	PaymentPlanID  *int64  `json:"paymentPlanId"`
	TermID         *int64  `json:"termId"`
}

// VenueService orchestrates venue workflows.
type VenueService struct {
	repo      venueRepository
	assembler *ViewAssembler
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewVenueService creates a new venue service instance.
func NewVenueService(repo venueRepository, assembler *ViewAssembler, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *VenueService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VenueService{repo: repo, assembler: assembler, cache: cache, validator: validate, logger: logger}
}

// List returns all venues with their nested term context.
func (s *VenueService) List(ctx context.Context) ([]*dto.VenueView, error) {
	const cacheKey = "venues:list"
	var cached []*dto.VenueView
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return cached, nil
	}

	venues, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list venues")
	}

	views := make([]*dto.VenueView, 0, len(venues))
	for i := range venues {
		view, err := s.assembler.VenueView(ctx, &venues[i])
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	if err := s.cache.Set(ctx, cacheKey, views, 0); err != nil {
		s.logger.Debug("venue list not cached", zap.Error(err))
	}
	return views, nil
}

// Get returns one venue with its nested term context.
func (s *VenueService) Get(ctx context.Context, id int64) (*dto.VenueView, error) {
	venue, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "venue not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load venue")
	}
	return s.assembler.VenueView(ctx, venue)
}

// Create adds a new venue.
func (s *VenueService) Create(ctx context.Context, req CreateVenueRequest) (*dto.VenueView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid venue payload")
	}

	venue := &models.Venue{
		Area:           req.Area,
		Name:           req.Name,
		Address:        req.Address,
		Facility:       req.Facility,
		ParkingNote:    req.ParkingNote,
		CongestionNote: req.CongestionNote,
		PaymentPlanID:  req.PaymentPlanID,
		TermID:         req.TermID,
	}

	if err := s.repo.Create(ctx, venue); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create venue")
	}

	s.invalidate(ctx)
	return s.assembler.VenueView(ctx, venue)
}

// Update modifies a venue, merging absent fields from the stored row.
func (s *VenueService) Update(ctx context.Context, id int64, req UpdateVenueRequest) (*dto.VenueView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid venue payload")
	}

	venue, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "venue not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load venue")
	}

	if req.Area != nil {
		venue.Area = *req.Area
	}
	if req.Name != nil {
		venue.Name = *req.Name
	}
	if req.Address != nil {
		venue.Address = *req.Address
	}
	if req.Facility != nil {
		venue.Facility = *req.Facility
	}
	if req.ParkingNote != nil {
		venue.ParkingNote = req.ParkingNote
	}
	if req.CongestionNote != nil {
		venue.CongestionNote = req.CongestionNote
	}
	if req.PaymentPlanID != nil {
		venue.PaymentPlanID = req.PaymentPlanID
	}
	if req.TermID != nil {
		venue.TermID = req.TermID
	}

	if err := s.repo.Update(ctx, venue); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update venue")
	}

	s.invalidate(ctx)
	return s.assembler.VenueView(ctx, venue)
}

// Delete removes a venue. Its class schedules go with it (CASCADE).
func (s *VenueService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete venue")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "venue not found")
	}
	s.invalidate(ctx)
	return nil
}

func (s *VenueService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, venueCachePattern); err != nil {
		s.logger.Debug("venue cache not invalidated", zap.Error(err))
	}
}
