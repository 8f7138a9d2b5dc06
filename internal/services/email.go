package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"eventflow/internal/config"
)

const mailerEndpoint = "https://api.resend.com/emails"

// HTTPEmailService sends mail through the Resend HTTP API
type HTTPEmailService struct {
	config config.MailerConfig
	client *http.Client
}

// NewHTTPEmailService creates a new HTTP-backed email service
func NewHTTPEmailService(cfg config.MailerConfig) *HTTPEmailService {
	return &HTTPEmailService{
		config: cfg,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type emailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

// Send delivers a plain-text email. Failures come back as a single error;
// callers decide whether delivery is critical.
func (s *HTTPEmailService) Send(to, subject, body string) error {
	payload := emailRequest{
		From:    fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail),
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode email: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, mailerEndpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("mailer returned status %d", resp.StatusCode)
	}

	return nil
}

// LogEmailService logs messages instead of sending them. Used in
// development when no mailer API key is configured.
type LogEmailService struct{}

// NewLogEmailService creates a logging email service
func NewLogEmailService() *LogEmailService {
	return &LogEmailService{}
}

// Send logs the message and reports success
func (s *LogEmailService) Send(to, subject, body string) error {
	log.Printf("email (not sent, no mailer configured) to=%s subject=%q\n%s", to, subject, body)
	return nil
}
