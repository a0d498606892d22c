package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/synco-dev/booking-admin-api/internal/dto"
	"github.com/synco-dev/booking-admin-api/internal/models"
	"github.com/synco-dev/booking-admin-api/internal/repository"
	appErrors "github.com/synco-dev/booking-admin-api/pkg/errors"
)

type discountRepository interface {
	List(ctx context.Context) ([]models.Discount, error)
	FindByID(ctx context.Context, id int64) (*models.Discount, error)
	ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error)
	Create(ctx context.Context, discount *models.Discount, targets []string) error
	Update(ctx context.Context, discount *models.Discount) error
	ListTargets(ctx context.Context, discountID int64) ([]string, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// CreateDiscountRequest describes payload for creating discounts.
type CreateDiscountRequest struct {
	Type              string    `json:"type" validate:"required"`
	Code              string    `json:"code" validate:"required"`
	ValueType         string    `json:"valueType" validate:"required,oneof=percentage fixed"`
	Value             float64   `json:"value" validate:"gte=0"`
	ApplyOncePerOrder bool      `json:"applyOncePerOrder"`
	LimitTotalUses    *int      `json:"limitTotalUses"`
	LimitPerCustomer  *int      `json:"limitPerCustomer"`
	StartDatetime     time.Time `json:"startDatetime" validate:"required"`
	EndDatetime       time.Time `json:"endDatetime" validate:"required"`
	AppliesTo         []string  `json:"appliesTo"`
}

// UpdateDiscountRequest updates a discount; absent fields keep their stored
// values.
type UpdateDiscountRequest struct {
	Type              *string    `json:"type"`
	Code              *string    `json:"code"`
	ValueType         *string    `json:"valueType" validate:"omitempty,oneof=percentage fixed"`
	Value             *float64   `json:"value" validate:"omitempty,gte=0"`
	ApplyOncePerOrder *bool      `json:"applyOncePerOrder"`
	LimitTotalUses    *int       `json:"limitTotalUses"`
	LimitPerCustomer  *int       `json:"limitPerCustomer"`
	StartDatetime     *time.Time `json:"startDatetime"`
	EndDatetime       *time.Time `json:"endDatetime"`
}

// DiscountService orchestrates discount workflows.
type DiscountService struct {
	repo      discountRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDiscountService creates a new discount service instance.
func NewDiscountService(repo discountRepository, validate *validator.Validate, logger *zap.Logger) *DiscountService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiscountService{repo: repo, validator: validate, logger: logger}
}

// List returns all discounts with their application targets.
func (s *DiscountService) List(ctx context.Context) ([]*dto.DiscountView, error) {
	discounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list discounts")
	}
	views := make([]*dto.DiscountView, 0, len(discounts))
	for i := range discounts {
		view, err := s.view(ctx, &discounts[i])
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// Get returns one discount with its targets.
func (s *DiscountService) Get(ctx context.Context, id int64) (*dto.DiscountView, error) {
	discount, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "discount not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load discount")
	}
	return s.view(ctx, discount)
}

// Create adds a discount and its targets in one transaction. The code
// pre-check gives a friendly rejection; the unique constraint catches racing
// writers.
func (s *DiscountService) Create(ctx context.Context, req CreateDiscountRequest) (*dto.DiscountView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid discount payload")
	}
	if req.EndDatetime.Before(req.StartDatetime) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endDatetime must not be before startDatetime")
	}

	exists, err := s.repo.ExistsByCode(ctx, req.Code, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check discount code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "discount code already in use")
	}

	discount := &models.Discount{
		Type:              req.Type,
		Code:              req.Code,
		ValueType:         req.ValueType,
		Value:             req.Value,
		ApplyOncePerOrder: req.ApplyOncePerOrder,
		LimitTotalUses:    req.LimitTotalUses,
		LimitPerCustomer:  req.LimitPerCustomer,
		StartDatetime:     req.StartDatetime,
		EndDatetime:       req.EndDatetime,
	}

	if err := s.repo.Create(ctx, discount, req.AppliesTo); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "discount code already in use")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create discount")
	}
	return s.view(ctx, discount)
}

// Update modifies a discount, merging absent fields from the stored row.
func (s *DiscountService) Update(ctx context.Context, id int64, req UpdateDiscountRequest) (*dto.DiscountView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid discount payload")
	}

	discount, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "discount not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load discount")
	}

	if req.Code != nil && *req.Code != discount.Code {
		exists, err := s.repo.ExistsByCode(ctx, *req.Code, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check discount code")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "discount code already in use")
		}
		discount.Code = *req.Code
	}
	if req.Type != nil {
		discount.Type = *req.Type
	}
	if req.ValueType != nil {
		discount.ValueType = *req.ValueType
	}
	if req.Value != nil {
		discount.Value = *req.Value
	}
	if req.ApplyOncePerOrder != nil {
		discount.ApplyOncePerOrder = *req.ApplyOncePerOrder
	}
	if req.LimitTotalUses != nil {
		discount.LimitTotalUses = req.LimitTotalUses
	}
	if req.LimitPerCustomer != nil {
		discount.LimitPerCustomer = req.LimitPerCustomer
	}
	if req.StartDatetime != nil {
		discount.StartDatetime = *req.StartDatetime
	}
	if req.EndDatetime != nil {
		discount.EndDatetime = *req.EndDatetime
	}
	if discount.EndDatetime.Before(discount.StartDatetime) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endDatetime must not be before startDatetime")
	}

	if err := s.repo.Update(ctx, discount); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "discount code already in use")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update discount")
	}
	return s.view(ctx, discount)
}

// Delete removes a discount and, via CASCADE, its application rows.
func (s *DiscountService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete discount")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "discount not found")
	}
	return nil
}

func (s *DiscountService) view(ctx context.Context, discount *models.Discount) (*dto.DiscountView, error) {
	targets, err := s.repo.ListTargets(ctx, discount.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load discount targets")
	}
	if targets == nil {
		targets = []string{}
	}
	return &dto.DiscountView{Discount: *discount, AppliesTo: targets}, nil
}
