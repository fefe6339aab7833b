package notifications

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/zatekoja/goldenhour/internal/infrastructure/observability"
	"github.com/zatekoja/goldenhour/pkg/config"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender delivers plain-text email through an SMTP relay.
// With no host configured it runs in dev mode and only logs the message.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
	sendMail sendMailFunc
}

// NewSMTPSender creates a new SMTP sender
func NewSMTPSender(cfg *config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     cfg.From,
		sendMail: smtp.SendMail,
	}
}

// SendEmail sends one message to all recipients
func (s *SMTPSender) SendEmail(ctx context.Context, to []string, subject, body string) error {
	if len(to) == 0 {
		return nil
	}

	if s.host == "" {
		observability.LoggerFromContext(ctx).Info().
			Strs("to", to).
			Str("subject", subject).
			Msg("alert email (dev mode, SMTP not configured)")
		return nil
	}

	msg := buildMessage(s.from, to, subject, body)
	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	// net/smtp has no context support; the send keeps running after ctx ends but the caller is released.
	done := make(chan error, 1)
	go func() {
		done <- s.sendMail(addr, auth, s.from, to, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email via %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("email to %s not confirmed: %w", strings.Join(to, ", "), ctx.Err())
	}
}

func buildMessage(from string, to []string, subject, body string) []byte {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\n", "\r\n")
	return []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		headerValue(from), headerValue(strings.Join(to, ", ")), headerValue(subject), body,
	))
}

// headerValue strips line breaks so values cannot inject extra headers
func headerValue(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}
