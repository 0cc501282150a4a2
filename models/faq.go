package models

import (
	"time"

	"github.com/amirphl/jetcharter/utils"
	"gorm.io/gorm"
)

// FAQ is a localized question/answer pair grouped by category
type FAQ struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Locale    string    `gorm:"type:varchar(10);not null;index:idx_faq_locale_category,priority:1" json:"locale"`
	Category  string    `gorm:"type:varchar(100);not null;index:idx_faq_locale_category,priority:2" json:"category"`
	Question  string    `gorm:"type:text;not null" json:"question"`
	Answer    string    `gorm:"type:text;not null" json:"answer"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (FAQ) TableName() string { return "faqs" }

func (f *FAQ) BeforeCreate(tx *gorm.DB) error {
	if f.IsActive == nil {
		f.IsActive = utils.ToPtr(true)
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = utils.UTCNow()
	}
	if f.UpdatedAt.IsZero() {
		f.UpdatedAt = f.CreatedAt
	}
	return nil
}

// FAQFilter represents filter criteria for FAQ queries
type FAQFilter struct {
	Locale   *string `json:"locale,omitempty"`
	Category *string `json:"category,omitempty"`
	Search   *string `json:"search,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}
