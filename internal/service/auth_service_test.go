package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/synco-dev/booking-admin-api/internal/models"
	appErrors "github.com/synco-dev/booking-admin-api/pkg/errors"
	"github.com/synco-dev/booking-admin-api/pkg/mailer"
)

type mockAuthRepo struct {
	adminByEmail      *models.Admin
	findByEmailErr    error
	setResetTokenErr  error
	updatePasswordErr error

	storedToken       string
	storedExpiry      time.Time
	updatedPassword   string
	updatedPasswordID int64
	lastLoginUpdated  bool
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	if m.findByEmailErr != nil {
		return nil, m.findByEmailErr
	}
	return m.adminByEmail, nil
}

func (m *mockAuthRepo) SetResetToken(ctx context.Context, id int64, token string, expiry time.Time) error {
	if m.setResetTokenErr != nil {
		return m.setResetTokenErr
	}
	m.storedToken = token
	m.storedExpiry = expiry
	return nil
}

func (m *mockAuthRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	if m.updatePasswordErr != nil {
		return m.updatePasswordErr
	}
	m.updatedPasswordID = id
	m.updatedPassword = passwordHash
	return nil
}

func (m *mockAuthRepo) UpdateLastLogin(ctx context.Context, id int64, ts time.Time) error {
	m.lastLoginUpdated = true
	return nil
}

type mockResetMailer struct {
	sent    []mailer.Message
	sendErr error
}

func (m *mockResetMailer) Send(ctx context.Context, msg mailer.Message) (string, error) {
	if m.sendErr != nil {
		return "", m.sendErr
	}
	m.sent = append(m.sent, msg)
	return "msg-1", nil
}

func (m *mockResetMailer) PasswordResetEmail(name, email, resetLink string, ttl time.Duration) mailer.Message {
	return mailer.Message{To: []string{email}, Subject: "Reset your password", HTML: resetLink}
}

func newAuthService(repo *mockAuthRepo, mail *mockResetMailer) *AuthService {
	return NewAuthService(repo, mail, validator.New(), zap.NewNop(), AuthConfig{
		TokenSecret:      "secret",
		TokenExpiry:      time.Hour,
		Issuer:           "booking-admin-api",
		ResetLinkBaseURL: "https://admin.example.com/reset-password",
		ResetTokenTTL:    24 * time.Hour,
	})
}

func activeAdmin(t *testing.T, password string) *models.Admin {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	return &models.Admin{ID: 7, FirstName: "Jamie", Email: "jamie@example.com", PasswordHash: string(hash), Status: models.AdminStatusActive}
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	repo := &mockAuthRepo{adminByEmail: activeAdmin(t, "password123")}
	svc := newAuthService(repo, &mockResetMailer{})

	res, err := svc.Login(context.Background(), LoginRequest{Email: "jamie@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, int64(3600), res.ExpiresIn)
	assert.True(t, repo.lastLoginUpdated)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.AdminID)
	assert.Equal(t, "jamie@example.com", claims.Email)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	repo := &mockAuthRepo{adminByEmail: activeAdmin(t, "password123")}
	svc := newAuthService(repo, &mockResetMailer{})

	_, err := svc.Login(context.Background(), LoginRequest{Email: "jamie@example.com", Password: "wrong-pass"})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthServiceLoginUnknownEmailFailsIdentically(t *testing.T) {
	known := &mockAuthRepo{adminByEmail: activeAdmin(t, "password123")}
	unknown := &mockAuthRepo{findByEmailErr: sql.ErrNoRows}

	_, knownErr := newAuthService(known, &mockResetMailer{}).Login(context.Background(), LoginRequest{Email: "jamie@example.com", Password: "wrong-pass"})
	_, unknownErr := newAuthService(unknown, &mockResetMailer{}).Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "wrong-pass"})

	var a, b *appErrors.Error
	require.ErrorAs(t, knownErr, &a)
	require.ErrorAs(t, unknownErr, &b)
	assert.Equal(t, a.Code, b.Code)
	assert.Equal(t, a.Message, b.Message)
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	admin := activeAdmin(t, "password123")
	admin.Status = models.AdminStatusSuspended
	svc := newAuthService(&mockAuthRepo{adminByEmail: admin}, &mockResetMailer{})

	_, err := svc.Login(context.Background(), LoginRequest{Email: "jamie@example.com", Password: "password123"})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErr.Code)
}

func TestAuthServiceForgotPasswordSendsLink(t *testing.T) {
	repo := &mockAuthRepo{adminByEmail: activeAdmin(t, "password123")}
	mail := &mockResetMailer{}
	svc := newAuthService(repo, mail)

	require.NoError(t, svc.ForgotPassword(context.Background(), ForgotPasswordRequest{Email: "jamie@example.com"}))
	assert.NotEmpty(t, repo.storedToken)
	assert.WithinDuration(t, time.Now().UTC().Add(24*time.Hour), repo.storedExpiry, time.Minute)
	require.Len(t, mail.sent, 1)
	// The link must carry both identifiers the reset form needs.
	assert.Contains(t, mail.sent[0].HTML, "?email=jamie%40example.com&token="+repo.storedToken)
}

func TestAuthServiceForgotPasswordUnknownEmail(t *testing.T) {
	svc := newAuthService(&mockAuthRepo{findByEmailErr: sql.ErrNoRows}, &mockResetMailer{})

	err := svc.ForgotPassword(context.Background(), ForgotPasswordRequest{Email: "nobody@example.com"})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func adminWithResetToken(t *testing.T, token string, expiry time.Time) *models.Admin {
	t.Helper()
	admin := activeAdmin(t, "old-password")
	admin.ResetToken = &token
	admin.ResetTokenExpiry = &expiry
	return admin
}

func validResetRequest(token string) ResetPasswordRequest {
	return ResetPasswordRequest{
		Email:           "jamie@example.com",
		Token:           token,
		Password:        "new-password",
		ConfirmPassword: "new-password",
	}
}

func TestAuthServiceResetPasswordSuccess(t *testing.T) {
	admin := adminWithResetToken(t, "reset-token", time.Now().UTC().Add(time.Hour))
	repo := &mockAuthRepo{adminByEmail: admin}
	svc := newAuthService(repo, &mockResetMailer{})

	require.NoError(t, svc.ResetPassword(context.Background(), validResetRequest("reset-token")))
	assert.Equal(t, admin.ID, repo.updatedPasswordID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.updatedPassword), []byte("new-password")))
}

func TestAuthServiceResetPasswordWrongToken(t *testing.T) {
	admin := adminWithResetToken(t, "reset-token", time.Now().UTC().Add(time.Hour))
	svc := newAuthService(&mockAuthRepo{adminByEmail: admin}, &mockResetMailer{})

	err := svc.ResetPassword(context.Background(), validResetRequest("bogus"))
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "invalid reset token", appErr.Message)
}

func TestAuthServiceResetPasswordUnknownEmail(t *testing.T) {
	svc := newAuthService(&mockAuthRepo{findByEmailErr: sql.ErrNoRows}, &mockResetMailer{})

	err := svc.ResetPassword(context.Background(), validResetRequest("reset-token"))
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, "admin not found", appErr.Message)
}

func TestAuthServiceResetPasswordExpiredToken(t *testing.T) {
	admin := adminWithResetToken(t, "stale-token", time.Now().UTC().Add(-time.Minute))
	svc := newAuthService(&mockAuthRepo{adminByEmail: admin}, &mockResetMailer{})

	err := svc.ResetPassword(context.Background(), validResetRequest("stale-token"))
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "reset token has expired", appErr.Message)
}

func TestAuthServiceResetPasswordMismatchedPasswords(t *testing.T) {
	admin := adminWithResetToken(t, "reset-token", time.Now().UTC().Add(time.Hour))
	repo := &mockAuthRepo{adminByEmail: admin}
	svc := newAuthService(repo, &mockResetMailer{})

	req := validResetRequest("reset-token")
	req.ConfirmPassword = "another-password"
	err := svc.ResetPassword(context.Background(), req)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "passwords do not match", appErr.Message)
	assert.Empty(t, repo.updatedPassword)
}

func TestAuthServiceResetPasswordMissingIdentifiers(t *testing.T) {
	svc := newAuthService(&mockAuthRepo{}, &mockResetMailer{})

	err := svc.ResetPassword(context.Background(), ResetPasswordRequest{Password: "new-password", ConfirmPassword: "new-password"})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "email and reset token are required", appErr.Message)
}

func TestAuthServiceResetPasswordTooShort(t *testing.T) {
	svc := newAuthService(&mockAuthRepo{}, &mockResetMailer{})

	req := validResetRequest("tok")
	req.Password, req.ConfirmPassword = "short", "short"
	err := svc.ResetPassword(context.Background(), req)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAuthServiceValidateTokenRejectsTampered(t *testing.T) {
	repo := &mockAuthRepo{adminByEmail: activeAdmin(t, "password123")}
	svc := newAuthService(repo, &mockResetMailer{})

	res, err := svc.Login(context.Background(), LoginRequest{Email: "jamie@example.com", Password: "password123"})
	require.NoError(t, err)

	tampered := strings.TrimSuffix(res.AccessToken, "a") + "b"
	_, err = svc.ValidateToken(tampered)
	assert.Error(t, err)
}
