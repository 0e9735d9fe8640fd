package mailer

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPSender sends plain-text mail over SMTP. It is the fallback outbound
// channel when Gmail OAuth credentials are not configured.
type SMTPSender struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewSMTPSender(host string, port int, username, password, senderName string) *SMTPSender {
	return &SMTPSender{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: username,
		senderName:  senderName,
	}
}

// Send satisfies the same contract as the Gmail client's Send. SMTP has no
// message id to report, so the returned id is empty.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body, cc, bcc string) (string, error) {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", to)
	if cc != "" {
		m.SetHeader("Cc", cc)
	}
	if bcc != "" {
		m.SetHeader("Bcc", bcc)
	}
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return "", fmt.Errorf("smtp send failed: %w", err)
	}
	return "", nil
}
