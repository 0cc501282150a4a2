// Package models contains domain entities for the charter brokerage backend
package models

import (
	"time"

	"github.com/amirphl/jetcharter/utils"
	"gorm.io/gorm"
)

// AuditLog records admin actions and inbound webhook receipts
type AuditLog struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Action       string      `gorm:"type:varchar(64);not null;index:idx_audit_action" json:"action"`
	ActorEmail   *string     `gorm:"type:varchar(255);index:idx_audit_actor" json:"actor_email,omitempty"`
	EntityType   *EntityType `gorm:"type:varchar(20)" json:"entity_type,omitempty"`
	EntityID     *string     `gorm:"type:varchar(255);index:idx_audit_entity" json:"entity_id,omitempty"`
	Description  *string     `gorm:"type:text" json:"description,omitempty"`
	Payload      *string     `gorm:"type:text" json:"payload,omitempty"`
	Outcome      *string     `gorm:"type:varchar(20);index:idx_audit_outcome" json:"outcome,omitempty"`
	IPAddress    *string     `gorm:"type:varchar(64)" json:"ip_address,omitempty"`
	UserAgent    *string     `gorm:"type:text" json:"user_agent,omitempty"`
	RequestID    *string     `gorm:"size:255;index:idx_audit_request_id" json:"request_id,omitempty"`
	Success      *bool       `gorm:"default:true;index:idx_audit_success" json:"success"`
	ErrorMessage *string     `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time   `gorm:"index:idx_audit_created_at" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = utils.UTCNow()
	}
	return nil
}

// Audit action constants
const (
	AuditActionQuoteCreated          = "quote_created"
	AuditActionQuoteStatusChanged    = "quote_status_changed"
	AuditActionContactCreated        = "contact_created"
	AuditActionContactStatusChanged  = "contact_status_changed"
	AuditActionPaymentCreated        = "payment_created"
	AuditActionPaymentStatusChanged  = "payment_status_changed"
	AuditActionPaymentRefunded       = "payment_refunded"
	AuditActionResendWebhookReceived = "resend_webhook_received"
	AuditActionAdminAuthFailed       = "admin_auth_failed"
)

// Webhook processing outcomes
const (
	AuditOutcomeProcessed = "processed"
	AuditOutcomeIgnored   = "ignored"
	AuditOutcomeError     = "error"
)

// AuditLogFilter represents filter criteria for audit log queries
type AuditLogFilter struct {
	ID            *uint
	Action        *string
	ActorEmail    *string
	EntityID      *string
	Outcome       *string
	Success       *bool
	RequestID     *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

func (a *AuditLog) IsFailed() bool {
	return a.Success != nil && !*a.Success
}
