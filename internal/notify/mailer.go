package notify

import (
	"fmt"

	"github.com/quizportal/quizportal-backend/internal/config"
	gomail "gopkg.in/gomail.v2"
)

// Mailer sends a single email. The worker depends on this interface so
// tests can capture sends without an SMTP server.
type Mailer interface {
	Send(to, subject, html string) error
}

// SMTPSender is the production Mailer backed by gomail.
type SMTPSender struct {
	host string
	port int
	user string
	pass string
	from string
}

// NewSMTPSender builds a sender from the configured SMTP settings.
func NewSMTPSender(cfg *config.Config) *SMTPSender {
	return &SMTPSender{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		from: cfg.SMTPFrom,
	}
}

func (s *SMTPSender) Send(to, subject, html string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	d := gomail.NewDialer(s.host, s.port, s.user, s.pass)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// NopMailer discards every send. Used when SMTP is not configured so
// publish notifications degrade to log lines instead of errors.
type NopMailer struct{}

func (NopMailer) Send(to, subject, html string) error { return nil }
