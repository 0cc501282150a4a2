package models

import (
	"time"

	"github.com/amirphl/jetcharter/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatusEvent is an immutable record of one lifecycle transition.
// Rows are only ever inserted; the current status of an entity is the
// ToStatus of its most recent event.
type StatusEvent struct {
	ID         uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID       uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`
	EntityType EntityType `gorm:"type:varchar(20);not null;index:idx_status_events_entity,priority:1" json:"entity_type"`
	EntityID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_status_events_entity,priority:2" json:"entity_id"`
	FromStatus string     `gorm:"type:varchar(40);not null" json:"from_status"`
	ToStatus   string     `gorm:"type:varchar(40);not null" json:"to_status"`
	ActorEmail string     `gorm:"type:varchar(255);not null" json:"actor_email"`
	Note       *string    `gorm:"type:text" json:"note,omitempty"`
	RequestID  *string    `gorm:"type:varchar(255)" json:"request_id,omitempty"`
	CreatedAt  time.Time  `gorm:"not null;index" json:"created_at"`
}

func (StatusEvent) TableName() string { return "status_events" }

func (e *StatusEvent) BeforeCreate(tx *gorm.DB) error {
	if e.UUID == uuid.Nil {
		e.UUID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate rejects any mutation of an existing event
func (e *StatusEvent) BeforeUpdate(tx *gorm.DB) error {
	return ErrStatusEventImmutable
}

// BeforeDelete rejects deletion of an existing event
func (e *StatusEvent) BeforeDelete(tx *gorm.DB) error {
	return ErrStatusEventImmutable
}

// StatusEventFilter represents filter criteria for status event queries
type StatusEventFilter struct {
	EntityType    *EntityType `json:"entity_type,omitempty"`
	EntityID      *uuid.UUID  `json:"entity_id,omitempty"`
	ToStatus      *string     `json:"to_status,omitempty"`
	ActorEmail    *string     `json:"actor_email,omitempty"`
	CreatedAfter  *time.Time  `json:"created_after,omitempty"`
	CreatedBefore *time.Time  `json:"created_before,omitempty"`
}
