package mailer

import (
	"context"

	gomail "gopkg.in/gomail.v2"
)

// SMTPSender delivers email through a plain SMTP transport.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (s *SMTPSender) Send(_ context.Context, to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	return s.dialer.DialAndSend(m)
}

// NoopSender discards email. Used in tests and local setups without SMTP.
type NoopSender struct{}

func (NoopSender) Send(_ context.Context, _, _, _ string) error { return nil }
