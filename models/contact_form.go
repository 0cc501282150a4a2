package models

import (
	"time"

	"github.com/amirphl/jetcharter/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactForm is a general inquiry; same lifecycle shape as QuoteRequest with fewer fields
type ContactForm struct {
	ID                uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID              uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`
	Name              string    `gorm:"type:varchar(200);not null" json:"name"`
	Email             string    `gorm:"type:varchar(255);not null;index" json:"email"`
	Phone             *string   `gorm:"type:varchar(50)" json:"phone,omitempty"`
	Subject           string    `gorm:"type:varchar(255);not null" json:"subject"`
	Message           string    `gorm:"type:text;not null" json:"message"`
	ContactPreference string    `gorm:"type:varchar(20);not null;default:'email'" json:"contact_preference"`
	Locale            string    `gorm:"type:varchar(10);not null;default:'en'" json:"locale"`
	Status            string    `gorm:"type:varchar(40);not null;index" json:"status"`
	CreatedAt         time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt         time.Time `gorm:"not null" json:"updated_at"`
}

func (ContactForm) TableName() string { return "contact_forms" }

func (c *ContactForm) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.Status == "" {
		c.Status = InitialStatus(EntityTypeContact)
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = utils.UTCNow()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}
	return nil
}

// ContactFormFilter represents filter criteria for contact queries
type ContactFormFilter struct {
	ID            *uint      `json:"id,omitempty"`
	UUID          *uuid.UUID `json:"uuid,omitempty"`
	Email         *string    `json:"email,omitempty"`
	Status        *string    `json:"status,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}
