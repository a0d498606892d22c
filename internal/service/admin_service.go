package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/synco-dev/booking-admin-api/internal/models"
	"github.com/synco-dev/booking-admin-api/internal/repository"
	appErrors "github.com/synco-dev/booking-admin-api/pkg/errors"
)

type adminRepository interface {
	List(ctx context.Context) ([]models.Admin, error)
	FindByID(ctx context.Context, id int64) (*models.Admin, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, admin *models.Admin) error
	Update(ctx context.Context, admin *models.Admin) error
	SetProfilePath(ctx context.Context, id int64, path string) error
	SetStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type resetLinkIssuer interface {
	IssueResetLink(ctx context.Context, admin *models.Admin) error
}

// CreateAdminRequest describes payload for creating panel accounts. Password
// is optional; without one the account starts locked and receives a
// set-password link by email.
type CreateAdminRequest struct {
	FirstName   string  `json:"firstName" validate:"required"`
	LastName    *string `json:"lastName"`
	Email       string  `json:"email" validate:"required,email"`
	Password    *string `json:"password" validate:"omitempty,min=8"`
	Position    *string `json:"position"`
	PhoneNumber *string `json:"phoneNumber"`
	RoleID      *int64  `json:"roleId"`
}

// UpdateAdminRequest updates an account; absent fields keep their stored
// values.
type UpdateAdminRequest struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Position    *string `json:"position"`
	PhoneNumber *string `json:"phoneNumber"`
	RoleID      *int64  `json:"roleId"`
	Status      *string `json:"status" validate:"omitempty,oneof=active inactive suspend"`
}

// AdminService orchestrates panel account workflows.
type AdminService struct {
	repo      adminRepository
	reset     resetLinkIssuer
	files     fileStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAdminService creates a new admin service instance.
func NewAdminService(repo adminRepository, reset resetLinkIssuer, files fileStore, validate *validator.Validate, logger *zap.Logger) *AdminService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{repo: repo, reset: reset, files: files, validator: validate, logger: logger}
}

// List returns all admin accounts.
func (s *AdminService) List(ctx context.Context) ([]models.Admin, error) {
	admins, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list admins")
	}
	return admins, nil
}

// Get returns an admin by ID.
func (s *AdminService) Get(ctx context.Context, id int64) (*models.Admin, error) {
	admin, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "admin not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load admin")
	}
	return admin, nil
}

// Create adds a panel account. With a password the account is immediately
// usable; without one it is created locked and a set-password link goes out
// by email.
func (s *AdminService) Create(ctx context.Context, req CreateAdminRequest) (*models.Admin, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid admin payload")
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check admin email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already in use")
	}

	admin := &models.Admin{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Position:    req.Position,
		PhoneNumber: req.PhoneNumber,
		RoleID:      req.RoleID,
		Status:      models.AdminStatusActive,
	}

	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
		}
		admin.PasswordHash = string(hash)
	} else {
		// Unusable placeholder; login stays impossible until the reset
		// link below is followed.
		placeholder, err := bcrypt.GenerateFromPassword([]byte(fmt.Sprintf("locked-%d", time.Now().UnixNano())), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash placeholder password")
		}
		admin.PasswordHash = string(placeholder)
	}

	if err := s.repo.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email already in use")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create admin")
	}

	if req.Password == nil && s.reset != nil {
		if err := s.reset.IssueResetLink(ctx, admin); err != nil {
			s.logger.Warn("set-password link not sent", zap.Int64("adminId", admin.ID), zap.Error(err))
		}
	}

	return admin, nil
}

// Update modifies an account, merging absent fields from the stored row.
func (s *AdminService) Update(ctx context.Context, id int64, req UpdateAdminRequest) (*models.Admin, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid admin payload")
	}

	admin, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "admin not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load admin")
	}

	if req.Email != nil && *req.Email != admin.Email {
		exists, err := s.repo.ExistsByEmail(ctx, *req.Email, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check admin email")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email already in use")
		}
		admin.Email = *req.Email
	}
	if req.FirstName != nil {
		admin.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		admin.LastName = req.LastName
	}
	if req.Position != nil {
		admin.Position = req.Position
	}
	if req.PhoneNumber != nil {
		admin.PhoneNumber = req.PhoneNumber
	}
	if req.RoleID != nil {
		admin.RoleID = req.RoleID
	}
	if req.Status != nil {
		admin.Status = *req.Status
	}

	if err := s.repo.Update(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email already in use")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update admin")
	}
	return admin, nil
}

// UploadProfile stores a profile image and records its path. When the record
// write fails the stored file is removed again.
func (s *AdminService) UploadProfile(ctx context.Context, id int64, filename string, data []byte) (*models.Admin, error) {
	admin, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "admin not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load admin")
	}

	stored := fmt.Sprintf("admins/%d/profile-%d%s", id, time.Now().UnixNano(), filepath.Ext(filename))
	if _, err := s.files.Save(stored, data); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store profile image")
	}

	if err := s.repo.SetProfilePath(ctx, id, stored); err != nil {
		if cleanupErr := s.files.Delete(stored); cleanupErr != nil {
			s.logger.Warn("orphaned profile image left on disk",
				zap.String("path", stored),
				zap.Error(cleanupErr),
			)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record profile image")
	}

	admin.ProfilePath = &stored
	return admin, nil
}

// SetStatus changes the account status.
func (s *AdminService) SetStatus(ctx context.Context, id int64, status string) (*models.Admin, error) {
	switch status {
	case models.AdminStatusActive, models.AdminStatusInactive, models.AdminStatusSuspended:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be active, inactive or suspend")
	}

	admin, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "admin not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load admin")
	}

	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to set admin status")
	}
	admin.Status = status
	return admin, nil
}

// Delete removes an account.
func (s *AdminService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete admin")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "admin not found")
	}
	return nil
}
