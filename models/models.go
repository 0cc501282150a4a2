package models

// AllModels lists every persisted entity in migration order
func AllModels() []any {
	return []any{
		&QuoteRequest{},
		&ContactForm{},
		&StatusEvent{},
		&EmailDeliveryRecord{},
		&Payment{},
		&WhatsAppClick{},
		&PageContent{},
		&FAQ{},
		&AuditLog{},
	}
}
