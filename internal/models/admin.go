package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Admin account statuses.
const (
	AdminStatusActive    = "active"
	AdminStatusInactive  = "inactive"
	AdminStatusSuspended = "suspend"
)

// Admin is a panel account. An account created without a password keeps a
// placeholder hash and is unusable for login until the reset link is
// followed; ResetToken/ResetTokenExpiry drive that flow and are cleared on a
// successful reset.
type Admin struct {
	ID               int64      `db:"id" json:"id"`
	FirstName        string     `db:"first_name" json:"firstName"`
	LastName         *string    `db:"last_name" json:"lastName,omitempty"`
	Email            string     `db:"email" json:"email"`
	PasswordHash     string     `db:"password_hash" json:"-"`
	Position         *string    `db:"position" json:"position,omitempty"`
	PhoneNumber      *string    `db:"phone_number" json:"phoneNumber,omitempty"`
	RoleID           *int64     `db:"role_id" json:"roleId,omitempty"`
	ProfilePath      *string    `db:"profile_path" json:"profile,omitempty"`
	Status           string     `db:"status" json:"status"`
	ResetToken       *string    `db:"reset_token" json:"-"`
	ResetTokenExpiry *time.Time `db:"reset_token_expiry" json:"-"`
	LastLoginAt      *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updatedAt"`
}

// AdminClaims are the JWT claims issued at login.
type AdminClaims struct {
	AdminID int64  `json:"admin_id"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}
