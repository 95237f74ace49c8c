// Package mailer delivers password reset email through an HTTP mail API.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Mailer sends the out-of-band password reset message.
type Mailer interface {
	SendPasswordReset(ctx context.Context, toEmail, toName, resetToken string) error
}

// Recipient identifies a mail sender or receiver.
type Recipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type mailRequest struct {
	From     Recipient   `json:"from"`
	To       []Recipient `json:"to"`
	Subject  string      `json:"subject"`
	Text     string      `json:"text"`
	Category string      `json:"category,omitempty"`
}

// APIClient sends mail through a Mailtrap-style JSON API.
type APIClient struct {
	apiURL   string
	apiKey   string
	from     string
	resetURL string
	client   *http.Client
}

// NewAPIClient creates a mail API client. resetURL is the frontend page the
// emailed link points at; the token is appended as a query parameter.
func NewAPIClient(apiURL, apiKey, from, resetURL string) *APIClient {
	return &APIClient{
		apiURL:   apiURL,
		apiKey:   apiKey,
		from:     from,
		resetURL: resetURL,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// SendPasswordReset emails a reset link carrying the signed token.
func (m *APIClient) SendPasswordReset(ctx context.Context, toEmail, toName, resetToken string) error {
	link := fmt.Sprintf("%s?token=%s", m.resetURL, resetToken)
	body := mailRequest{
		From:    Recipient{Email: m.from, Name: "Vote App"},
		To:      []Recipient{{Email: toEmail, Name: toName}},
		Subject: "Password reset request",
		Text: fmt.Sprintf(
			"Hello %s,\n\nWe received a request to reset your password. "+
				"Open the link below within 15 minutes to choose a new one:\n\n%s\n\n"+
				"If you did not request this, you can ignore this message.\n",
			displayName(toName, toEmail), link),
		Category: "password_reset",
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal mail request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("mail API returned status %d", resp.StatusCode)
	}
	return nil
}

// LogMailer logs reset tokens instead of sending mail. Used when no mail API
// is configured, e.g. local development.
type LogMailer struct{}

// SendPasswordReset logs the token.
func (LogMailer) SendPasswordReset(_ context.Context, toEmail, _, resetToken string) error {
	log.Printf("password reset requested for %s, token: %s", toEmail, resetToken)
	return nil
}

func displayName(name, email string) string {
	if name != "" {
		return name
	}
	return email
}
