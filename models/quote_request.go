package models

import (
	"time"

	"github.com/amirphl/jetcharter/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Trip types accepted on the quote form
const (
	TripTypeOneWay    = "one_way"
	TripTypeRoundTrip = "round_trip"
	TripTypeMultiLeg  = "multi_leg"
)

// QuoteRequest represents a charter trip request submitted through the quote form
// Table: quote_requests
// Status is denormalized from the latest status event for listing
type QuoteRequest struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`

	// Trip details
	TripType           string     `gorm:"type:varchar(20);not null;default:'one_way'" json:"trip_type"`
	Origin             string     `gorm:"type:varchar(255);not null" json:"origin"`
	Destination        string     `gorm:"type:varchar(255);not null" json:"destination"`
	DepartureDate      time.Time  `gorm:"not null;index" json:"departure_date"`
	ReturnDate         *time.Time `json:"return_date,omitempty"`
	Passengers         int        `gorm:"not null" json:"passengers"`
	ServiceType        string     `gorm:"type:varchar(50);not null" json:"service_type"`
	AircraftCategory   *string    `gorm:"type:varchar(50)" json:"aircraft_category,omitempty"`
	AdditionalServices []string   `gorm:"serializer:json;type:text" json:"additional_services"`

	// Contact details
	FirstName         string  `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName          string  `gorm:"type:varchar(100);not null" json:"last_name"`
	Email             string  `gorm:"type:varchar(255);not null;index" json:"email"`
	Phone             *string `gorm:"type:varchar(50)" json:"phone,omitempty"`
	ContactPreference string  `gorm:"type:varchar(20);not null;default:'email'" json:"contact_preference"`
	Locale            string  `gorm:"type:varchar(10);not null;default:'en'" json:"locale"`
	Notes             *string `gorm:"type:text" json:"notes,omitempty"`

	// Admin-managed
	Status         string              `gorm:"type:varchar(40);not null;index" json:"status"`
	EstimatedPrice decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"estimated_price"`
	Currency       string              `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (QuoteRequest) TableName() string { return "quote_requests" }

// BeforeCreate ensures UUID, initial status and timestamps are set
func (q *QuoteRequest) BeforeCreate(tx *gorm.DB) error {
	if q.UUID == uuid.Nil {
		q.UUID = uuid.New()
	}
	if q.Status == "" {
		q.Status = InitialStatus(EntityTypeQuote)
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = utils.UTCNow()
	}
	if q.UpdatedAt.IsZero() {
		q.UpdatedAt = q.CreatedAt
	}
	return nil
}

// FullName returns the requester's display name
func (q *QuoteRequest) FullName() string {
	if q.LastName == "" {
		return q.FirstName
	}
	return q.FirstName + " " + q.LastName
}

// QuoteRequestFilter represents filter criteria for quote queries
type QuoteRequestFilter struct {
	ID            *uint      `json:"id,omitempty"`
	UUID          *uuid.UUID `json:"uuid,omitempty"`
	Email         *string    `json:"email,omitempty"`
	Status        *string    `json:"status,omitempty"`
	Locale        *string    `json:"locale,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}
