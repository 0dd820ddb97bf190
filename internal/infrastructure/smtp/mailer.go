package smtp

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer delivers plain-text mail over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func New(host string, port int, username, password, from string) *Mailer {
	return &Mailer{dialer: gomail.NewDialer(host, port, username, password), from: from}
}

func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	// gomail does not take a context; honor cancellation before dialing.
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
