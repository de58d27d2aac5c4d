package mailingservices

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

type Mailgun struct {
	Client *mailgun.MailgunImpl
	From   string
}

func (m *Mailgun) Init() {
	domain := os.Getenv("TALKPOINT_MG_DOMAIN")
	apiKey := os.Getenv("TALKPOINT_MG_PUBLIC_API_KEY")
	m.From = os.Getenv("TALKPOINT_EMAIL_FROM")
	if m.From == "" {
		m.From = fmt.Sprintf("TalkPoint <no-reply@%s>", domain)
	}
	m.Client = mailgun.NewMailgun(domain, apiKey)
	log.Println("Mailgun client initialized")
}

// SendWelcomeMessage mails a new user after signup. Failures are logged by
// the caller and never block the signup flow.
func (m *Mailgun) SendWelcomeMessage(recipient string, subject string) (string, error) {
	body := "Welcome to TalkPoint! Your account is ready - log in and start a conversation."
	return m.send(recipient, subject, body)
}

// SendResetPassword mails the password reset link to the user.
func (m *Mailgun) SendResetPassword(recipient string, resetLink string) (string, error) {
	subject := "Reset your TalkPoint password"
	body := fmt.Sprintf("A password reset was requested for your account.\n\nFollow this link to set a new password: %s\n\nIf you didn't request this, ignore this email.", resetLink)
	return m.send(recipient, subject, body)
}

func (m *Mailgun) send(recipient, subject, body string) (string, error) {
	message := m.Client.NewMessage(m.From, subject, body, recipient)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, id, err := m.Client.Send(ctx, message)
	if err != nil {
		return "", fmt.Errorf("mailgun send failed: %w", err)
	}
	return id, nil
}
