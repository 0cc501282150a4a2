package models

import (
	"slices"
	"time"

	"github.com/amirphl/jetcharter/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmailDeliveryStatus tracks an outbound email through the provider
type EmailDeliveryStatus string

const (
	EmailDeliveryStatusPending    EmailDeliveryStatus = "pending"
	EmailDeliveryStatusSent       EmailDeliveryStatus = "sent"
	EmailDeliveryStatusDelivered  EmailDeliveryStatus = "delivered"
	EmailDeliveryStatusBounced    EmailDeliveryStatus = "bounced"
	EmailDeliveryStatusFailed     EmailDeliveryStatus = "failed"
	EmailDeliveryStatusComplained EmailDeliveryStatus = "complained"
)

// deliveryTransitions only moves forward; bounced, failed and complained are absorbing
var deliveryTransitions = map[EmailDeliveryStatus][]EmailDeliveryStatus{
	EmailDeliveryStatusPending: {
		EmailDeliveryStatusSent, EmailDeliveryStatusDelivered, EmailDeliveryStatusBounced, EmailDeliveryStatusFailed,
	},
	EmailDeliveryStatusSent: {
		EmailDeliveryStatusDelivered, EmailDeliveryStatusBounced, EmailDeliveryStatusFailed, EmailDeliveryStatusComplained,
	},
	EmailDeliveryStatusDelivered: {
		EmailDeliveryStatusComplained,
	},
}

// CanAdvanceTo reports whether the delivery status may move to next
func (s EmailDeliveryStatus) CanAdvanceTo(next EmailDeliveryStatus) bool {
	return slices.Contains(deliveryTransitions[s], next)
}

// IsFinal reports whether no further status-advancing update applies
func (s EmailDeliveryStatus) IsFinal() bool {
	return s == EmailDeliveryStatusBounced || s == EmailDeliveryStatusFailed || s == EmailDeliveryStatusComplained
}

// EmailDeliveryRecord is one outbound email and its provider-reported delivery state
type EmailDeliveryRecord struct {
	ID                uint                `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID              uuid.UUID           `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`
	ProviderMessageID *string             `gorm:"type:varchar(255);uniqueIndex" json:"provider_message_id,omitempty"`
	Recipient         string              `gorm:"type:varchar(255);not null;index" json:"recipient"`
	Subject           string              `gorm:"type:varchar(500);not null" json:"subject"`
	Template          string              `gorm:"type:varchar(100);not null" json:"template"`
	EntityType        *EntityType         `gorm:"type:varchar(20)" json:"entity_type,omitempty"`
	EntityID          *uuid.UUID          `gorm:"type:uuid;index" json:"entity_id,omitempty"`
	Status            EmailDeliveryStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	SentAt            *time.Time          `json:"sent_at,omitempty"`
	DeliveredAt       *time.Time          `json:"delivered_at,omitempty"`
	BouncedAt         *time.Time          `json:"bounced_at,omitempty"`
	FailedAt          *time.Time          `json:"failed_at,omitempty"`
	ComplainedAt      *time.Time          `json:"complained_at,omitempty"`
	LastEvent         *string             `gorm:"type:varchar(50)" json:"last_event,omitempty"`
	LastEventAt       *time.Time          `json:"last_event_at,omitempty"`
	ErrorMessage      *string             `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt         time.Time           `gorm:"not null;index" json:"created_at"`
	UpdatedAt         time.Time           `gorm:"not null" json:"updated_at"`
}

func (EmailDeliveryRecord) TableName() string { return "email_deliveries" }

func (r *EmailDeliveryRecord) BeforeCreate(tx *gorm.DB) error {
	if r.UUID == uuid.Nil {
		r.UUID = uuid.New()
	}
	if r.Status == "" {
		r.Status = EmailDeliveryStatusPending
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = utils.UTCNow()
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = r.CreatedAt
	}
	return nil
}

// IsTerminal reports whether the record is in an absorbing state
func (r *EmailDeliveryRecord) IsTerminal() bool {
	return r.Status.IsFinal() || r.BouncedAt != nil || r.FailedAt != nil
}

// Advance applies a status change at the given time. It returns false and
// leaves the record untouched when the change would regress or leave an
// absorbing state.
func (r *EmailDeliveryRecord) Advance(next EmailDeliveryStatus, at time.Time) bool {
	if r.IsTerminal() || !r.Status.CanAdvanceTo(next) {
		return false
	}
	r.Status = next
	switch next {
	case EmailDeliveryStatusSent:
		r.SentAt = &at
	case EmailDeliveryStatusDelivered:
		r.DeliveredAt = &at
	case EmailDeliveryStatusBounced:
		r.BouncedAt = &at
	case EmailDeliveryStatusFailed:
		r.FailedAt = &at
	case EmailDeliveryStatusComplained:
		r.ComplainedAt = &at
	}
	r.UpdatedAt = at
	return true
}

// EmailDeliveryRecordFilter represents filter criteria for delivery queries
type EmailDeliveryRecordFilter struct {
	ID                *uint                `json:"id,omitempty"`
	UUID              *uuid.UUID           `json:"uuid,omitempty"`
	ProviderMessageID *string              `json:"provider_message_id,omitempty"`
	Recipient         *string              `json:"recipient,omitempty"`
	Status            *EmailDeliveryStatus `json:"status,omitempty"`
	EntityType        *EntityType          `json:"entity_type,omitempty"`
	EntityID          *uuid.UUID           `json:"entity_id,omitempty"`
}
