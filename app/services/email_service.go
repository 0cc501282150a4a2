package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/resend/resend-go/v2"
)

// ErrEmailDisabled is returned when outbound email is switched off
var ErrEmailDisabled = errors.New("email sender is disabled")

// EmailMessage is a single outbound email
type EmailMessage struct {
	To      string
	Subject string
	HTML    string
	Text    string
	ReplyTo string
	Tags    map[string]string
}

// EmailSender sends transactional email and returns the provider message id
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) (string, error)
	IsEnabled() bool
}

// ResendConfig holds the Resend client configuration
type ResendConfig struct {
	Enabled     bool
	APIKey      string
	FromAddress string
	ReplyTo     string
	Timeout     time.Duration
	RetryCount  int
}

// ResendEmailSender implements EmailSender on top of the Resend API
type ResendEmailSender struct {
	client      *resend.Client
	enabled     bool
	fromAddress string
	replyTo     string
}

// NewResendEmailSender creates a Resend-backed sender. Transient HTTP failures are retried by the
// underlying retryable client.
func NewResendEmailSender(cfg ResendConfig) EmailSender {
	if !cfg.Enabled || cfg.APIKey == "" {
		return &ResendEmailSender{enabled: false}
	}

	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = cfg.RetryCount
	httpClient.RetryWaitMin = 200 * time.Millisecond
	httpClient.RetryWaitMax = 2 * time.Second
	httpClient.Logger = nil
	if cfg.Timeout > 0 {
		httpClient.HTTPClient.Timeout = cfg.Timeout
	}

	return &ResendEmailSender{
		client:      resend.NewCustomClient(httpClient.StandardClient(), cfg.APIKey),
		enabled:     true,
		fromAddress: cfg.FromAddress,
		replyTo:     cfg.ReplyTo,
	}
}

func (s *ResendEmailSender) IsEnabled() bool {
	return s.enabled
}

// Send sends a plain text and/or HTML email
func (s *ResendEmailSender) Send(ctx context.Context, msg EmailMessage) (string, error) {
	if !s.enabled {
		return "", ErrEmailDisabled
	}
	if strings.TrimSpace(msg.To) == "" {
		return "", fmt.Errorf("recipient is required")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromAddress,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}

	replyTo := msg.ReplyTo
	if replyTo == "" {
		replyTo = s.replyTo
	}
	if replyTo != "" {
		params.ReplyTo = replyTo
	}

	for name, value := range msg.Tags {
		params.Tags = append(params.Tags, resend.Tag{Name: name, Value: value})
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	return sent.Id, nil
}

// MockEmailSender implements EmailSender for testing
type MockEmailSender struct {
	mu           sync.Mutex
	SentMessages []EmailMessage
	FailWith     error
	counter      int
}

// NewMockEmailSender creates a new mock email sender
func NewMockEmailSender() *MockEmailSender {
	return &MockEmailSender{SentMessages: make([]EmailMessage, 0)}
}

func (m *MockEmailSender) IsEnabled() bool {
	return true
}

func (m *MockEmailSender) Send(ctx context.Context, msg EmailMessage) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWith != nil {
		return "", m.FailWith
	}

	m.counter++
	m.SentMessages = append(m.SentMessages, msg)
	return fmt.Sprintf("mock-email-%d", m.counter), nil
}

// GetSentMessages returns a copy of all sent messages
func (m *MockEmailSender) GetSentMessages() []EmailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]EmailMessage(nil), m.SentMessages...)
}

// ClearSentMessages clears all sent messages
func (m *MockEmailSender) ClearSentMessages() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentMessages = make([]EmailMessage, 0)
}
