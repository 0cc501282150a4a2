package models

import (
	"time"

	"github.com/amirphl/jetcharter/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment methods
const (
	PaymentMethodWireTransfer = "wire_transfer"
	PaymentMethodCard         = "card"
	PaymentMethodCrypto       = "crypto"
)

// Payment is a payment collected against a confirmed quote
type Payment struct {
	ID                uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID              uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`
	QuoteRequestID    uint            `gorm:"not null;index" json:"quote_request_id"`
	Amount            decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Currency          string          `gorm:"type:varchar(3);not null" json:"currency"`
	Method            string          `gorm:"type:varchar(30);not null" json:"method"`
	Status            PaymentStatus   `gorm:"type:varchar(30);not null;index" json:"status"`
	ProviderReference *string         `gorm:"type:varchar(255);index" json:"provider_reference,omitempty"`
	PaidAt            *time.Time      `json:"paid_at,omitempty"`
	FailureReason     *string         `gorm:"type:text" json:"failure_reason,omitempty"`

	// Refund sub-record
	RefundAmount decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"refund_amount"`
	RefundReason *string         `gorm:"type:text" json:"refund_reason,omitempty"`
	RefundedAt   *time.Time      `json:"refunded_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	QuoteRequest *QuoteRequest `gorm:"foreignKey:QuoteRequestID;references:ID" json:"-"`
}

func (Payment) TableName() string { return "payments" }

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	if p.Status == "" {
		p.Status = PaymentStatus(InitialStatus(EntityTypePayment))
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = utils.UTCNow()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	return nil
}

// RefundableAmount is what can still be refunded
func (p *Payment) RefundableAmount() decimal.Decimal {
	return p.Amount.Sub(p.RefundAmount)
}

// PaymentFilter represents filter criteria for payment queries
type PaymentFilter struct {
	ID             *uint          `json:"id,omitempty"`
	UUID           *uuid.UUID     `json:"uuid,omitempty"`
	QuoteRequestID *uint          `json:"quote_request_id,omitempty"`
	Status         *PaymentStatus `json:"status,omitempty"`
}
