package dto

// GenerateWhatsAppLinkRequest is the body of POST /whatsapp/link.
// Required fields depend on Type: quote needs the trip fields, contact needs subject and message.
type GenerateWhatsAppLinkRequest struct {
	Type   string `json:"type" validate:"required,oneof=general quote contact"`
	Locale string `json:"locale" validate:"omitempty,max=10"`

	// Trip details (quote)
	Origin             string   `json:"origin" validate:"required_if=Type quote,max=255"`
	Destination        string   `json:"destination" validate:"required_if=Type quote,max=255"`
	DepartureDate      string   `json:"departureDate" validate:"required_if=Type quote,omitempty,datetime=2006-01-02"`
	ReturnDate         string   `json:"returnDate" validate:"omitempty,datetime=2006-01-02"`
	Passengers         int      `json:"passengers" validate:"required_if=Type quote,gte=0,max=100"`
	ServiceType        string   `json:"serviceType" validate:"required_if=Type quote,max=50"`
	AdditionalServices []string `json:"additionalServices" validate:"omitempty,max=10,dive,max=50"`

	// Contact details (quote and contact)
	Name    string `json:"name" validate:"required_unless=Type general,max=200"`
	Email   string `json:"email" validate:"omitempty,email,max=255"`
	Phone   string `json:"phone" validate:"omitempty,max=50"`
	Subject string `json:"subject" validate:"required_if=Type contact,max=255"`
	Message string `json:"message" validate:"required_if=Type contact,max=2000"`

	// Attribution
	SessionID   *string `json:"sessionId,omitempty" validate:"omitempty,max=255"`
	UTMSource   *string `json:"utmSource,omitempty" validate:"omitempty,max=255"`
	UTMMedium   *string `json:"utmMedium,omitempty" validate:"omitempty,max=255"`
	UTMCampaign *string `json:"utmCampaign,omitempty" validate:"omitempty,max=255"`
	UTMTerm     *string `json:"utmTerm,omitempty" validate:"omitempty,max=255"`
	UTMContent  *string `json:"utmContent,omitempty" validate:"omitempty,max=255"`
	PageURL     *string `json:"pageUrl,omitempty" validate:"omitempty,max=2048"`
	Referrer    *string `json:"referrer,omitempty" validate:"omitempty,max=2048"`
}

// GenerateWhatsAppLinkResponse carries the attribution id and the deep link
type GenerateWhatsAppLinkResponse struct {
	ClickID     string `json:"clickId"`
	WhatsAppURL string `json:"whatsappUrl"`
	Locale      string `json:"locale"`
}
