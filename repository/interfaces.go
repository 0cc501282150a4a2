// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/amirphl/jetcharter/models"
	"github.com/google/uuid"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// QuoteRequestRepository defines operations for quote requests
type QuoteRequestRepository interface {
	Repository[models.QuoteRequest, models.QuoteRequestFilter]
	ByUUID(ctx context.Context, id uuid.UUID) (*models.QuoteRequest, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	UpdateEstimate(ctx context.Context, quote *models.QuoteRequest) error
}

// ContactFormRepository defines operations for contact inquiries
type ContactFormRepository interface {
	Repository[models.ContactForm, models.ContactFormFilter]
	ByUUID(ctx context.Context, id uuid.UUID) (*models.ContactForm, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
}

// StatusEventRepository is append-only: there is no update or delete
type StatusEventRepository interface {
	Repository[models.StatusEvent, models.StatusEventFilter]
	ListByEntity(ctx context.Context, entityType models.EntityType, entityID uuid.UUID, limit, offset int) ([]*models.StatusEvent, error)
	LatestByEntity(ctx context.Context, entityType models.EntityType, entityID uuid.UUID) (*models.StatusEvent, error)
}

// EmailDeliveryRepository defines operations for outbound email tracking
type EmailDeliveryRepository interface {
	Repository[models.EmailDeliveryRecord, models.EmailDeliveryRecordFilter]
	ByProviderMessageID(ctx context.Context, messageID string) (*models.EmailDeliveryRecord, error)
	ByUUID(ctx context.Context, id uuid.UUID) (*models.EmailDeliveryRecord, error)
	ListByEntity(ctx context.Context, entityType models.EntityType, entityID uuid.UUID) ([]*models.EmailDeliveryRecord, error)
	Update(ctx context.Context, record *models.EmailDeliveryRecord) error
}

// PaymentRepository defines operations for payments
type PaymentRepository interface {
	Repository[models.Payment, models.PaymentFilter]
	ByUUID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	ListByQuote(ctx context.Context, quoteID uint) ([]*models.Payment, error)
	Update(ctx context.Context, payment *models.Payment) error
}

// WhatsAppClickRepository defines operations for click attribution rows
type WhatsAppClickRepository interface {
	Repository[models.WhatsAppClick, models.WhatsAppClickFilter]
	ByClickID(ctx context.Context, clickID string) (*models.WhatsAppClick, error)
}

// PageContentRepository defines read operations for localized page content
type PageContentRepository interface {
	Repository[models.PageContent, models.PageContentFilter]
	ListByPage(ctx context.Context, page, locale string, key *string) ([]*models.PageContent, error)
}

// FAQRepository defines read operations for localized FAQs
type FAQRepository interface {
	Repository[models.FAQ, models.FAQFilter]
	ListActive(ctx context.Context, filter models.FAQFilter, limit int) ([]*models.FAQ, error)
}

// AuditLogRepository defines operations for audit logs
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
	ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.AuditLog, error)
	ListByEntity(ctx context.Context, entityID string, limit, offset int) ([]*models.AuditLog, error)
	ListFailedActions(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)
}
