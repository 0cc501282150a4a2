package repository

import (
	"context"

	"github.com/amirphl/jetcharter/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmailDeliveryRepositoryImpl implements EmailDeliveryRepository interface
type EmailDeliveryRepositoryImpl struct {
	*BaseRepository[models.EmailDeliveryRecord, models.EmailDeliveryRecordFilter]
}

// NewEmailDeliveryRepository creates a new email delivery repository
func NewEmailDeliveryRepository(db *gorm.DB) EmailDeliveryRepository {
	return &EmailDeliveryRepositoryImpl{
		BaseRepository: NewBaseRepository[models.EmailDeliveryRecord, models.EmailDeliveryRecordFilter](db),
	}
}

// ByProviderMessageID retrieves the record for a provider message id
func (r *EmailDeliveryRepositoryImpl) ByProviderMessageID(ctx context.Context, messageID string) (*models.EmailDeliveryRecord, error) {
	return r.first(ctx, func(q *gorm.DB) *gorm.DB {
		return r.applyFilter(q, models.EmailDeliveryRecordFilter{ProviderMessageID: &messageID})
	}, "")
}

// ByUUID retrieves a record by its public id
func (r *EmailDeliveryRepositoryImpl) ByUUID(ctx context.Context, id uuid.UUID) (*models.EmailDeliveryRecord, error) {
	return r.first(ctx, func(q *gorm.DB) *gorm.DB {
		return r.applyFilter(q, models.EmailDeliveryRecordFilter{UUID: &id})
	}, "")
}

// ListByEntity lists every email sent about an entity, newest first
func (r *EmailDeliveryRepositoryImpl) ListByEntity(ctx context.Context, entityType models.EntityType, entityID uuid.UUID) ([]*models.EmailDeliveryRecord, error) {
	return r.ByFilter(ctx, models.EmailDeliveryRecordFilter{EntityType: &entityType, EntityID: &entityID}, "", 0, 0)
}

func (r *EmailDeliveryRepositoryImpl) applyFilter(query *gorm.DB, filter models.EmailDeliveryRecordFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.ProviderMessageID != nil {
		query = query.Where("provider_message_id = ?", *filter.ProviderMessageID)
	}
	if filter.Recipient != nil {
		query = query.Where("recipient = ?", *filter.Recipient)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.EntityType != nil {
		query = query.Where("entity_type = ?", *filter.EntityType)
	}
	if filter.EntityID != nil {
		query = query.Where("entity_id = ?", *filter.EntityID)
	}
	return query
}

func (r *EmailDeliveryRepositoryImpl) ByFilter(ctx context.Context, filter models.EmailDeliveryRecordFilter, orderBy string, limit, offset int) ([]*models.EmailDeliveryRecord, error) {
	return r.find(ctx, func(q *gorm.DB) *gorm.DB { return r.applyFilter(q, filter) }, orderBy, limit, offset)
}

func (r *EmailDeliveryRepositoryImpl) Count(ctx context.Context, filter models.EmailDeliveryRecordFilter) (int64, error) {
	return r.count(ctx, func(q *gorm.DB) *gorm.DB { return r.applyFilter(q, filter) })
}

func (r *EmailDeliveryRepositoryImpl) Exists(ctx context.Context, filter models.EmailDeliveryRecordFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
