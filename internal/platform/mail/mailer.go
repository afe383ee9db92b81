// Package mail implements the setup-email collaborator over SMTP.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	gomail "github.com/wneessen/go-mail"

	"github.com/inkhq/inkwell-api/internal/config"
)

// SMTPMailer sends password-setup notifications through an SMTP server.
// Callers treat delivery as best effort; errors are returned for logging
// but must not fail the surrounding operation.
type SMTPMailer struct {
	client  *gomail.Client
	from    string
	baseURL string
	logger  *slog.Logger
}

// NewSMTPMailer creates an SMTPMailer from configuration. Connection
// problems surface on send, not here.
func NewSMTPMailer(cfg config.SMTPConfig, log *slog.Logger) (*SMTPMailer, error) {
	if log == nil {
		log = slog.Default()
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return &SMTPMailer{
		client:  client,
		from:    cfg.From,
		baseURL: cfg.BaseURL,
		logger:  log.With(slog.String("component", "smtp_mailer")),
	}, nil
}

// SendSetupEmail composes and transmits the password-setup notification
// with a link embedding the opaque token.
func (m *SMTPMailer) SendSetupEmail(ctx context.Context, toEmail, displayName, token string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}

	msg.Subject("Set up your account password")
	msg.SetBodyString(gomail.TypeTextPlain, setupBody(displayName, m.setupLink(token)))

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send setup email: %w", err)
	}

	m.logger.Debug("setup email sent", slog.String("to", toEmail))
	return nil
}

func (m *SMTPMailer) setupLink(token string) string {
	return fmt.Sprintf("%s/set-password?token=%s", m.baseURL, url.QueryEscape(token))
}

func setupBody(displayName, link string) string {
	return fmt.Sprintf(
		"Hello %s,\n\n"+
			"An account was created for you. Use the link below to choose a password.\n"+
			"The link is valid for 24 hours and can be used once.\n\n"+
			"%s\n",
		displayName, link,
	)
}

// NoopMailer discards every message. Used when email delivery is disabled
// and in tests.
type NoopMailer struct{}

// SendSetupEmail implements the Mailer contract by doing nothing.
func (NoopMailer) SendSetupEmail(ctx context.Context, toEmail, displayName, token string) error {
	return nil
}
