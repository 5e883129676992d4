package smtp

import (
	"github.com/Manemax937/HostelApp/internal/config"
	mail "gopkg.in/mail.v2"
)

// Mailer sends HTML emails.
type Mailer interface {
	SendEmail(to, subject, htmlBody string) error
}

type mailer struct {
	dialer *mail.Dialer
	from   string
}

func NewMailer(cfg *config.Config) Mailer {
	d := mail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	return &mailer{dialer: d, from: cfg.SMTPFrom}
}

func (m *mailer) SendEmail(to, subject, htmlBody string) error {
	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	return m.dialer.DialAndSend(msg)
}
