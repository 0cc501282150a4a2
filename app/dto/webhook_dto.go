package dto

import "encoding/json"

// ResendWebhookEvent is the envelope Resend posts for email events
type ResendWebhookEvent struct {
	Type      string            `json:"type"`
	CreatedAt string            `json:"created_at"`
	Data      ResendWebhookData `json:"data"`
}

// ResendWebhookData is the email-specific part of a Resend event
type ResendWebhookData struct {
	EmailID   string            `json:"email_id"`
	From      string            `json:"from,omitempty"`
	To        []string          `json:"to,omitempty"`
	Subject   string            `json:"subject,omitempty"`
	CreatedAt string            `json:"created_at,omitempty"`
	Bounce    *ResendBounce     `json:"bounce,omitempty"`
	Click     json.RawMessage   `json:"click,omitempty"`
	Tags      map[string]string `json:"tags,omitempty"`
}

// ResendBounce describes why an email bounced
type ResendBounce struct {
	Message string `json:"message,omitempty"`
	Type    string `json:"type,omitempty"`
	SubType string `json:"subType,omitempty"`
}

// WebhookAckResponse is returned to the provider for every accepted event
type WebhookAckResponse struct {
	Outcome   string `json:"outcome"`
	EventType string `json:"eventType"`
	EmailID   string `json:"emailId,omitempty"`
	Status    string `json:"status,omitempty"`
	Warning   string `json:"warning,omitempty"`
}

// EmailDeliveryDTO is the API view of an email delivery record
type EmailDeliveryDTO struct {
	ID                string  `json:"id"`
	ProviderMessageID *string `json:"providerMessageId,omitempty"`
	Recipient         string  `json:"recipient"`
	Subject           string  `json:"subject"`
	Template          string  `json:"template"`
	Status            string  `json:"status"`
	SentAt            *string `json:"sentAt,omitempty"`
	DeliveredAt       *string `json:"deliveredAt,omitempty"`
	BouncedAt         *string `json:"bouncedAt,omitempty"`
	FailedAt          *string `json:"failedAt,omitempty"`
	ComplainedAt      *string `json:"complainedAt,omitempty"`
	LastEvent         *string `json:"lastEvent,omitempty"`
	LastEventAt       *string `json:"lastEventAt,omitempty"`
	ErrorMessage      *string `json:"errorMessage,omitempty"`
	CreatedAt         string  `json:"createdAt"`
}
