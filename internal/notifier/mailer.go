package notifier

import (
	"context"
	"fmt"
	"net/smtp"

	"swiftcart/internal/config"

	"github.com/rs/zerolog"
)

// Email is a rendered message ready for delivery.
type Email struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers rendered emails. Implementations must be safe for
// concurrent use by the dispatcher's workers.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// smtpMailer delivers through a plain SMTP relay.
type smtpMailer struct {
	addr   string
	from   string
	auth   smtp.Auth
	logger zerolog.Logger
}

// NewSMTPMailer creates a mailer for the configured SMTP relay. Auth is only
// applied when a username is configured.
func NewSMTPMailer(cfg config.SMTPConfig, logger zerolog.Logger) Mailer {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &smtpMailer{
		addr:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		from:   cfg.From,
		auth:   auth,
		logger: logger.With().Str("component", "smtp-mailer").Logger(),
	}
}

func (m *smtpMailer) Send(ctx context.Context, email Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s",
		m.from, email.To, email.Subject, email.Body)

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{email.To}, []byte(msg)); err != nil {
		m.logger.Warn().Err(err).Str("to", email.To).Msg("smtp delivery failed")
		return fmt.Errorf("smtp send to %s: %w", email.To, err)
	}

	m.logger.Debug().Str("to", email.To).Str("subject", email.Subject).Msg("email delivered")
	return nil
}

// logMailer writes emails to the log instead of a relay. Used when SMTP is
// disabled so the delivery pipeline still runs end to end.
type logMailer struct {
	logger zerolog.Logger
}

// NewLogMailer creates a mailer that records deliveries in the log.
func NewLogMailer(logger zerolog.Logger) Mailer {
	return &logMailer{logger: logger.With().Str("component", "log-mailer").Logger()}
}

func (m *logMailer) Send(ctx context.Context, email Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.logger.Info().
		Str("to", email.To).
		Str("subject", email.Subject).
		Msg("email delivery (log only)")
	return nil
}
