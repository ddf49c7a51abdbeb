// Package notify delivers the side effects of matched rules: outbound
// email and meeting scheduling.
package notify

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer sends an email to a lead.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer records the email instead of sending it. This is the active
// mode in the current deployment.
type LogMailer struct {
	from string
}

// NewLogMailer creates a log-only mailer.
func NewLogMailer(from string) *LogMailer {
	zap.L().Info("mailer initialized in logging mode")
	return &LogMailer{from: from}
}

func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	zap.L().Info("email would be sent",
		zap.String("from", m.from),
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
		zap.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	)
	return nil
}

// SMTPMailer delivers email through an SMTP relay.
type SMTPMailer struct {
	from   string
	dialer *gomail.Dialer
}

// NewSMTPMailer creates a mailer that sends through the given relay.
func NewSMTPMailer(from, host string, port int, user, password string) *SMTPMailer {
	return &SMTPMailer{
		from:   from,
		dialer: gomail.NewDialer(host, port, user, password),
	}
}

func (m *SMTPMailer) Send(_ context.Context, to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return eris.Wrap(err, "notify: send email")
	}
	return nil
}
