package models

import (
	"time"

	"github.com/amirphl/jetcharter/utils"
	"gorm.io/gorm"
)

// PageContent is one localized content block of a marketing page
type PageContent struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Page      string    `gorm:"type:varchar(100);not null;uniqueIndex:uq_page_content,priority:1" json:"page"`
	Locale    string    `gorm:"type:varchar(10);not null;uniqueIndex:uq_page_content,priority:2" json:"locale"`
	Key       string    `gorm:"type:varchar(150);not null;uniqueIndex:uq_page_content,priority:3" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (PageContent) TableName() string { return "page_contents" }

func (p *PageContent) BeforeCreate(tx *gorm.DB) error {
	if p.IsActive == nil {
		p.IsActive = utils.ToPtr(true)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = utils.UTCNow()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	return nil
}

// PageContentFilter represents filter criteria for page content queries
type PageContentFilter struct {
	Page     *string `json:"page,omitempty"`
	Locale   *string `json:"locale,omitempty"`
	Key      *string `json:"key,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}
