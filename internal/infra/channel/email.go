// internal/infra/channel/email.go
package channel

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"subscription_reminder_bot/internal/domain/notification"
)

// EmailSender delivers reminders over SMTP. The dispatcher bounds the send
// time; net/smtp itself carries no context support.
type EmailSender struct{}

func NewEmailSender() *EmailSender {
	return &EmailSender{}
}

func (s *EmailSender) Send(_ context.Context, content notification.Content, cfg *notification.Config) error {
	ec := cfg.Email
	if err := ec.Validate(); err != nil {
		return err
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", ec.From)
	fmt.Fprintf(&msg, "To: %s\r\n", ec.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", content.Title)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(content.Body)
	msg.WriteString("\r\n")

	addr := fmt.Sprintf("%s:%d", ec.Host, ec.Port)
	var auth smtp.Auth
	if ec.Username != "" {
		auth = smtp.PlainAuth("", ec.Username, ec.Password, ec.Host)
	}

	if err := smtp.SendMail(addr, auth, ec.From, []string{ec.To}, []byte(msg.String())); err != nil {
		return fmt.Errorf("email: send failed: %w", err)
	}
	return nil
}
