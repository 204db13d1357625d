package notify

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

// Sender delivers one rendered email. Implemented by Mailer; tests substitute
// a recording fake.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

// Mailer sends email over SMTP. There is no retry or backoff at this layer;
// a transport failure propagates to the caller.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewMailer configures an SMTP mailer.
func NewMailer(host string, port int, user, password, from string) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

// Send delivers a single message.
func (m *Mailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}
