// Package mailer sends transactional email over SMTP. Delivery is retried
// with exponential backoff because storefront mail providers flake under load.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/mazraaty/backend/pkg/config"
	"github.com/mazraaty/backend/pkg/logger"
)

// Mailer is the delivery surface used by services and cron jobs.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type smtpMailer struct {
	cfg  config.SMTPConfig
	logg *logger.Logger
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// New builds an SMTP-backed Mailer. When SMTP is not configured it returns a
// no-op mailer so callers never need to branch on configuration.
func New(cfg config.SMTPConfig, logg *logger.Logger) Mailer {
	if !cfg.Enabled() {
		return &noopMailer{logg: logg}
	}
	return &smtpMailer{cfg: cfg, logg: logg, send: smtp.SendMail}
}

func (m *smtpMailer) Send(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("recipient is required")
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	msg := buildMessage(m.cfg.From, to, subject, body)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	backoff := retry.WithMaxRetries(3, retry.NewExponential(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if sendErr := m.send(addr, auth, m.cfg.From, []string{to}, msg); sendErr != nil {
			return retry.RetryableError(sendErr)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}

	if m.logg != nil {
		m.logg.Info(m.logg.WithField(ctx, "recipient", to), "email delivered")
	}
	return nil
}

// buildMessage assembles an RFC 5322 message with UTF-8 plain text so Arabic
// subject lines and bodies survive transport.
func buildMessage(from, to, subject, body string) []byte {
	msg := "From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n\r\n" +
		body
	return []byte(msg)
}

type noopMailer struct {
	logg *logger.Logger
}

func (n *noopMailer) Send(ctx context.Context, to, subject, body string) error {
	if n.logg != nil {
		n.logg.Warn(n.logg.WithField(ctx, "recipient", to), "smtp disabled, dropping email")
	}
	return nil
}
