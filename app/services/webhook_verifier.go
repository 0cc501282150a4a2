package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	svix "github.com/svix/svix-webhooks/go"
)

// Webhook verification errors
var (
	ErrWebhookSignatureInvalid = errors.New("webhook signature is invalid")
	ErrWebhookNotConfigured    = errors.New("webhook secret is not configured")
)

const (
	ResendSignatureHeader = "resend-signature"
	svixSignatureHeader   = "svix-signature"
)

// WebhookVerifier checks that an inbound webhook body was signed by the provider
type WebhookVerifier interface {
	Verify(payload []byte, headers http.Header) error
	// Insecure reports whether verification is switched off by explicit opt-in
	Insecure() bool
}

// ResendWebhookVerifier accepts either a hex HMAC-SHA256 of the raw body in resend-signature,
// or Svix-style svix-id/svix-timestamp/svix-signature headers when the secret is a whsec_ secret.
type ResendWebhookVerifier struct {
	secret   []byte
	insecure bool
	svix     *svix.Webhook
}

// NewResendWebhookVerifier creates a verifier. With an empty secret every request is rejected with
// ErrWebhookNotConfigured unless insecure is set.
func NewResendWebhookVerifier(secret string, insecure bool) *ResendWebhookVerifier {
	v := &ResendWebhookVerifier{
		secret:   []byte(secret),
		insecure: insecure,
	}
	if strings.HasPrefix(secret, "whsec_") {
		if wh, err := svix.NewWebhook(secret); err == nil {
			v.svix = wh
		}
	}
	return v
}

func (v *ResendWebhookVerifier) Insecure() bool {
	return len(v.secret) == 0 && v.insecure
}

func (v *ResendWebhookVerifier) Verify(payload []byte, headers http.Header) error {
	if len(v.secret) == 0 {
		if v.insecure {
			return nil
		}
		return ErrWebhookNotConfigured
	}

	if v.svix != nil && headers.Get(svixSignatureHeader) != "" {
		if err := v.svix.Verify(payload, headers); err != nil {
			return ErrWebhookSignatureInvalid
		}
		return nil
	}

	signature := strings.TrimSpace(headers.Get(ResendSignatureHeader))
	signature = strings.TrimPrefix(signature, "sha256=")
	if signature == "" {
		return ErrWebhookSignatureInvalid
	}

	received, err := hex.DecodeString(signature)
	if err != nil {
		return ErrWebhookSignatureInvalid
	}

	if !hmac.Equal(received, SignWebhookPayload(v.secret, payload)) {
		return ErrWebhookSignatureInvalid
	}
	return nil
}

// SignWebhookPayload returns the raw HMAC-SHA256 of payload under secret
func SignWebhookPayload(secret, payload []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return mac.Sum(nil)
}
