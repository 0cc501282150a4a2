package dto

import "github.com/shopspring/decimal"

// CreatePaymentRequest is the body of POST /quotes/:id/payments
type CreatePaymentRequest struct {
	AdminCredentials
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency" validate:"required,len=3,alpha"`
	Method            string          `json:"method" validate:"required,oneof=wire_transfer card crypto"`
	ProviderReference *string         `json:"providerReference,omitempty" validate:"omitempty,max=255"`

	QuoteID string `json:"-"`
}

// UpdatePaymentStatusRequest is the body of PATCH /payments/:id/status
type UpdatePaymentStatusRequest struct {
	AdminCredentials
	Status            string  `json:"status" validate:"required,oneof=pending processing completed failed"`
	AdminNote         *string `json:"adminNote,omitempty" validate:"omitempty,max=2000"`
	ProviderReference *string `json:"providerReference,omitempty" validate:"omitempty,max=255"`
	FailureReason     *string `json:"failureReason,omitempty" validate:"omitempty,max=2000"`

	PaymentID string `json:"-"`
}

// RefundPaymentRequest is the body of POST /payments/:id/refund
type RefundPaymentRequest struct {
	AdminCredentials
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason" validate:"required,max=2000"`

	PaymentID string `json:"-"`
}

// PaymentDTO is the API view of a payment
type PaymentDTO struct {
	ID                string  `json:"id"`
	QuoteID           string  `json:"quoteId,omitempty"`
	Amount            string  `json:"amount"`
	Currency          string  `json:"currency"`
	Method            string  `json:"method"`
	Status            string  `json:"status"`
	ProviderReference *string `json:"providerReference,omitempty"`
	PaidAt            *string `json:"paidAt,omitempty"`
	FailureReason     *string `json:"failureReason,omitempty"`
	RefundAmount      string  `json:"refundAmount"`
	RefundReason      *string `json:"refundReason,omitempty"`
	RefundedAt        *string `json:"refundedAt,omitempty"`
	CreatedAt         string  `json:"createdAt"`
	UpdatedAt         string  `json:"updatedAt"`
}

// PaymentResponse is returned by every payment mutation
type PaymentResponse struct {
	Message             string           `json:"message"`
	Payment             PaymentDTO       `json:"payment"`
	History             []StatusEventDTO `json:"history"`
	AllowedNextStatuses []string         `json:"allowedNextStatuses"`
}
