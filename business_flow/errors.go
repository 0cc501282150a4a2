// Package businessflow contains the core business logic and use cases of the charter brokerage
package businessflow

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Business flow error constants
var (
	// Input errors
	ErrValidation    = errors.New("validation failed")
	ErrInvalidUUID   = errors.New("invalid identifier")
	ErrUnknownStatus = errors.New("unknown status")

	// Admin authentication errors
	ErrAdminUnauthorized = errors.New("admin token is missing, invalid or expired")
	ErrAdminForbidden    = errors.New("admin is not permitted to perform this action")

	// Entity errors
	ErrQuoteNotFound   = errors.New("quote not found")
	ErrContactNotFound = errors.New("contact not found")
	ErrPaymentNotFound = errors.New("payment not found")

	// Payment errors
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrRefundNotAllowed    = errors.New("refund is only permitted for completed payments")
	ErrRefundExceedsAmount = errors.New("refund exceeds the refundable amount")

	// Rate limiting
	ErrRateLimited = errors.New("rate limit exceeded")

	// Webhook errors
	ErrInvalidWebhookSignature = errors.New("invalid webhook signature")
	ErrWebhookNotConfigured    = errors.New("webhook signature secret is not configured")
	ErrMalformedWebhook        = errors.New("malformed webhook payload")

	// Content errors
	ErrUnsupportedLocale = errors.New("unsupported locale")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

// InvalidTransitionError is returned when a requested status is not a legal next status.
// Allowed carries the legal next statuses for client hinting.
type InvalidTransitionError struct {
	EntityType string
	From       string
	To         string
	Allowed    []string
}

func (e *InvalidTransitionError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("invalid %s status transition %s -> %s: %s is terminal", e.EntityType, e.From, e.To, e.From)
	}
	return fmt.Sprintf("invalid %s status transition %s -> %s (allowed: %s)", e.EntityType, e.From, e.To, strings.Join(e.Allowed, ", "))
}

// RateLimitExceededError carries how long the caller should wait before retrying
type RateLimitExceededError struct {
	Scope      string
	RetryAfter time.Duration
}

func (e *RateLimitExceededError) Error() string {
	return fmt.Sprintf("%s rate limit exceeded, retry after %s", e.Scope, e.RetryAfter.Round(time.Second))
}

func (e *RateLimitExceededError) Unwrap() error {
	return ErrRateLimited
}

// RetryAfterSeconds rounds up so clients never retry early
func (e *RateLimitExceededError) RetryAfterSeconds() int {
	secs := int((e.RetryAfter + time.Second - 1) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsInvalidUUID(err error) bool {
	return errors.Is(err, ErrInvalidUUID)
}

func IsUnknownStatus(err error) bool {
	return errors.Is(err, ErrUnknownStatus)
}

func IsAdminUnauthorized(err error) bool {
	return errors.Is(err, ErrAdminUnauthorized)
}

func IsAdminForbidden(err error) bool {
	return errors.Is(err, ErrAdminForbidden)
}

func IsQuoteNotFound(err error) bool {
	return errors.Is(err, ErrQuoteNotFound)
}

func IsContactNotFound(err error) bool {
	return errors.Is(err, ErrContactNotFound)
}

func IsPaymentNotFound(err error) bool {
	return errors.Is(err, ErrPaymentNotFound)
}

func IsInvalidAmount(err error) bool {
	return errors.Is(err, ErrInvalidAmount)
}

func IsRefundNotAllowed(err error) bool {
	return errors.Is(err, ErrRefundNotAllowed)
}

func IsRefundExceedsAmount(err error) bool {
	return errors.Is(err, ErrRefundExceedsAmount)
}

func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

func IsInvalidWebhookSignature(err error) bool {
	return errors.Is(err, ErrInvalidWebhookSignature)
}

func IsWebhookNotConfigured(err error) bool {
	return errors.Is(err, ErrWebhookNotConfigured)
}

func IsMalformedWebhook(err error) bool {
	return errors.Is(err, ErrMalformedWebhook)
}

func IsUnsupportedLocale(err error) bool {
	return errors.Is(err, ErrUnsupportedLocale)
}

// AsInvalidTransition extracts an InvalidTransitionError from err
func AsInvalidTransition(err error) (*InvalidTransitionError, bool) {
	var target *InvalidTransitionError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// AsRateLimitExceeded extracts a RateLimitExceededError from err
func AsRateLimitExceeded(err error) (*RateLimitExceededError, bool) {
	var target *RateLimitExceededError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}
