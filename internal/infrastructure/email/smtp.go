package email

import (
	"gopkg.in/gomail.v2"

	sharedConfig "nmqueue/internal/shared/config"
)

// Sender delivers a single message. Satisfied by SMTPSender in production
// and by fakes in tests.
type Sender interface {
	Send(to []string, subject, plainBody string) error
}

type SMTPSender struct {
	cfg    *sharedConfig.EmailConfig
	dialer *gomail.Dialer
}

func NewSMTPSender(cfg *sharedConfig.EmailConfig) *SMTPSender {
	return &SMTPSender{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (s *SMTPSender) Send(to []string, subject, plainBody string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.FromAddress, s.cfg.FromName)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)

	return s.dialer.DialAndSend(m)
}
