package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"

	"github.com/synco-dev/booking-admin-api/pkg/config"
)

// Message describes a single outbound email.
type Message struct {
	To      []string
	Subject string
	HTML    string
}

// Mailer sends transactional email through the Resend API.
type Mailer struct {
	client  *resend.Client
	from    string
	appName string
	logger  *zap.Logger
}

// New constructs a Mailer from configuration.
func New(cfg config.MailerConfig, logger *zap.Logger) *Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mailer{
		client:  resend.NewClient(cfg.APIKey),
		from:    cfg.From,
		appName: cfg.AppName,
		logger:  logger,
	}
}

// Send delivers a single message and returns the provider message id.
func (m *Mailer) Send(ctx context.Context, msg Message) (string, error) {
	if len(msg.To) == 0 {
		return "", fmt.Errorf("mail requires at least one recipient")
	}

	sent, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		m.logger.Warn("mail send failed", zap.Strings("to", msg.To), zap.String("subject", msg.Subject), zap.Error(err))
		return "", fmt.Errorf("send mail: %w", err)
	}

	m.logger.Info("mail sent", zap.String("message_id", sent.Id), zap.Strings("to", msg.To))
	return sent.Id, nil
}

// PasswordResetEmail renders the account-created / reset-password message with
// the secure link the recipient must follow within the token TTL.
func (m *Mailer) PasswordResetEmail(name, email, resetLink string, ttl time.Duration) Message {
	hours := int(ttl.Hours())
	if hours <= 0 {
		hours = 24
	}
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Hello %s,</p>", name)
	fmt.Fprintf(&b, "<p>Your admin account for <strong>%s</strong> has been created.</p>", m.appName)
	b.WriteString("<p>Please set your password using the secure link below:</p>")
	fmt.Fprintf(&b, `<p><a href="%s" target="_blank">%s</a></p>`, resetLink, resetLink)
	fmt.Fprintf(&b, "<p>This link will expire in <strong>%d hours</strong>.</p>", hours)
	fmt.Fprintf(&b, "<p>Regards,<br>%s Team<br>&copy; %d</p>", m.appName, time.Now().Year())

	return Message{
		To:      []string{email},
		Subject: fmt.Sprintf("Set your %s admin password", m.appName),
		HTML:    b.String(),
	}
}
