package models

import (
	"time"

	"github.com/amirphl/jetcharter/utils"
	"gorm.io/gorm"
)

// WhatsApp link types
const (
	WhatsAppLinkTypeGeneral = "general"
	WhatsAppLinkTypeQuote   = "quote"
	WhatsAppLinkTypeContact = "contact"
)

// WhatsAppClick is the attribution record written for every generated deep link; never mutated
type WhatsAppClick struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ClickID     string    `gorm:"type:varchar(40);uniqueIndex;not null" json:"click_id"`
	LinkType    string    `gorm:"type:varchar(20);not null;index" json:"link_type"`
	Locale      string    `gorm:"type:varchar(10);not null" json:"locale"`
	SessionID   *string   `gorm:"type:varchar(255);index" json:"session_id,omitempty"`
	UTMSource   *string   `gorm:"type:varchar(255)" json:"utm_source,omitempty"`
	UTMMedium   *string   `gorm:"type:varchar(255)" json:"utm_medium,omitempty"`
	UTMCampaign *string   `gorm:"type:varchar(255);index" json:"utm_campaign,omitempty"`
	UTMTerm     *string   `gorm:"type:varchar(255)" json:"utm_term,omitempty"`
	UTMContent  *string   `gorm:"type:varchar(255)" json:"utm_content,omitempty"`
	PageURL     *string   `gorm:"type:text" json:"page_url,omitempty"`
	Referrer    *string   `gorm:"type:text" json:"referrer,omitempty"`
	IPAddress   *string   `gorm:"type:varchar(64)" json:"ip_address,omitempty"`
	UserAgent   *string   `gorm:"type:text" json:"user_agent,omitempty"`
	CreatedAt   time.Time `gorm:"not null;index" json:"created_at"`
}

func (WhatsAppClick) TableName() string { return "whatsapp_clicks" }

func (w *WhatsAppClick) BeforeCreate(tx *gorm.DB) error {
	if w.ClickID == "" {
		w.ClickID = utils.GenerateULIDWithPrefix(utils.WhatsAppClickIDPrefix)
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = utils.UTCNow()
	}
	return nil
}

// WhatsAppClickFilter represents filter criteria for click queries
type WhatsAppClickFilter struct {
	ClickID       *string    `json:"click_id,omitempty"`
	LinkType      *string    `json:"link_type,omitempty"`
	SessionID     *string    `json:"session_id,omitempty"`
	UTMCampaign   *string    `json:"utm_campaign,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}
