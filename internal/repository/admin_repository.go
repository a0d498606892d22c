package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/synco-dev/booking-admin-api/internal/models"
)

const adminColumns = "id, first_name, last_name, email, password_hash, position, phone_number, role_id, profile_path, status, reset_token, reset_token_expiry, last_login_at, created_at, updated_at"

// AdminRepository manages panel accounts.
type AdminRepository struct {
	db *sqlx.DB
}

// NewAdminRepository constructs an AdminRepository.
func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// List returns all admins ordered by primary key.
func (r *AdminRepository) List(ctx context.Context) ([]models.Admin, error) {
	query := fmt.Sprintf("SELECT %s FROM admins ORDER BY id ASC", adminColumns)
	var admins []models.Admin
	if err := r.db.SelectContext(ctx, &admins, query); err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return admins, nil
}

// FindByID fetches an admin by ID.
func (r *AdminRepository) FindByID(ctx context.Context, id int64) (*models.Admin, error) {
	query := fmt.Sprintf("SELECT %s FROM admins WHERE id = $1", adminColumns)
	var admin models.Admin
	if err := r.db.GetContext(ctx, &admin, query, id); err != nil {
		return nil, err
	}
	return &admin, nil
}

// FindByEmail fetches an admin by email, case-insensitively.
func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	query := fmt.Sprintf("SELECT %s FROM admins WHERE LOWER(email) = LOWER($1)", adminColumns)
	var admin models.Admin
	if err := r.db.GetContext(ctx, &admin, query, email); err != nil {
		return nil, err
	}
	return &admin, nil
}

// ExistsByEmail checks if another admin uses the same email.
func (r *AdminRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM admins WHERE LOWER(email) = LOWER($1)"
	args := []interface{}{email}
	if excludeID > 0 {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check admin email: %w", err)
	}
	return true, nil
}

// Create inserts a new admin. A duplicate email surfaces as ErrDuplicate from
// the unique constraint.
func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	now := time.Now().UTC()
	admin.CreatedAt = now
	admin.UpdatedAt = now

	const query = `INSERT INTO admins (first_name, last_name, email, password_hash, position, phone_number, role_id, profile_path, status, reset_token, reset_token_expiry, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		admin.FirstName, admin.LastName, admin.Email, admin.PasswordHash,
		admin.Position, admin.PhoneNumber, admin.RoleID, admin.ProfilePath, admin.Status,
		admin.ResetToken, admin.ResetTokenExpiry, admin.CreatedAt, admin.UpdatedAt,
	).Scan(&admin.ID); err != nil {
		return translateUnique(err, "create admin")
	}
	return nil
}

// Update rewrites an admin's profile fields.
func (r *AdminRepository) Update(ctx context.Context, admin *models.Admin) error {
	admin.UpdatedAt = time.Now().UTC()
	const query = `UPDATE admins SET first_name = $2, last_name = $3, email = $4, position = $5, phone_number = $6, role_id = $7, profile_path = $8, status = $9, updated_at = $10 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query,
		admin.ID, admin.FirstName, admin.LastName, admin.Email,
		admin.Position, admin.PhoneNumber, admin.RoleID, admin.ProfilePath, admin.Status,
		admin.UpdatedAt,
	); err != nil {
		return translateUnique(err, "update admin")
	}
	return nil
}

// SetResetToken stores a fresh reset token and its expiry.
func (r *AdminRepository) SetResetToken(ctx context.Context, id int64, token string, expiry time.Time) error {
	const query = `UPDATE admins SET reset_token = $2, reset_token_expiry = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, token, expiry, time.Now().UTC()); err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}
	return nil
}

// UpdatePassword stores a new password hash and clears the reset token in
// the same statement, making the token single use.
func (r *AdminRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	const query = `UPDATE admins SET password_hash = $2, reset_token = NULL, reset_token_expiry = NULL, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, passwordHash, time.Now().UTC()); err != nil {
		return fmt.Errorf("update admin password: %w", err)
	}
	return nil
}

// SetProfilePath stores the saved profile image path.
func (r *AdminRepository) SetProfilePath(ctx context.Context, id int64, path string) error {
	const query = `UPDATE admins SET profile_path = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, path, time.Now().UTC()); err != nil {
		return fmt.Errorf("set admin profile path: %w", err)
	}
	return nil
}

// SetStatus updates the account status.
func (r *AdminRepository) SetStatus(ctx context.Context, id int64, status string) error {
	const query = `UPDATE admins SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("set admin status: %w", err)
	}
	return nil
}

// UpdateLastLogin records a successful login timestamp.
func (r *AdminRepository) UpdateLastLogin(ctx context.Context, id int64, ts time.Time) error {
	const query = `UPDATE admins SET last_login_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, ts); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// Delete removes an admin account.
func (r *AdminRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM admins WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete admin: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete admin result: %w", err)
	}
	return affected > 0, nil
}
