// Package mailer is the outbound email transport for activation and
// password-reset links.
package mailer

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

type Mailer interface {
	SendActivationEmail(ctx context.Context, to, activationLink string) error
	SendPasswordResetEmail(ctx context.Context, to, resetLink string) error
}

// SMTPMailer delivers mail through a plain SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (m *SMTPMailer) SendActivationEmail(_ context.Context, to, activationLink string) error {
	body := fmt.Sprintf(
		"Welcome!\n\nClick the link below to activate your account:\n%s\n\n"+
			"If you did not register, you can ignore this message.\n", activationLink)

	return m.send(to, "Activate Your Account", body)
}

func (m *SMTPMailer) SendPasswordResetEmail(_ context.Context, to, resetLink string) error {
	body := fmt.Sprintf("Click the link below to reset your password:\n%s\n", resetLink)

	return m.send(to, "Reset Your Password", body)
}

func (m *SMTPMailer) send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	return nil
}

// LogMailer only logs the links instead of delivering them. Used in
// development when no SMTP relay is configured.
type LogMailer struct {
	logger *zap.Logger
}

func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendActivationEmail(_ context.Context, to, activationLink string) error {
	m.logger.Info("activation email", zap.String("to", to), zap.String("link", activationLink))
	return nil
}

func (m *LogMailer) SendPasswordResetEmail(_ context.Context, to, resetLink string) error {
	m.logger.Info("password reset email", zap.String("to", to), zap.String("link", resetLink))
	return nil
}
