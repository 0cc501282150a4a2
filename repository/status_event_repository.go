package repository

import (
	"context"

	"github.com/amirphl/jetcharter/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// historyOrder puts the most recent event first; id breaks timestamp ties
const historyOrder = "created_at DESC, id DESC"

// StatusEventRepositoryImpl implements StatusEventRepository interface
type StatusEventRepositoryImpl struct {
	*BaseRepository[models.StatusEvent, models.StatusEventFilter]
}

// NewStatusEventRepository creates a new status event repository
func NewStatusEventRepository(db *gorm.DB) StatusEventRepository {
	return &StatusEventRepositoryImpl{
		BaseRepository: NewBaseRepository[models.StatusEvent, models.StatusEventFilter](db),
	}
}

// ListByEntity returns the entity's events, most recent first
func (r *StatusEventRepositoryImpl) ListByEntity(ctx context.Context, entityType models.EntityType, entityID uuid.UUID, limit, offset int) ([]*models.StatusEvent, error) {
	filter := models.StatusEventFilter{EntityType: &entityType, EntityID: &entityID}
	return r.ByFilter(ctx, filter, historyOrder, limit, offset)
}

// LatestByEntity returns the most recent event or nil when the entity has no history
func (r *StatusEventRepositoryImpl) LatestByEntity(ctx context.Context, entityType models.EntityType, entityID uuid.UUID) (*models.StatusEvent, error) {
	filter := models.StatusEventFilter{EntityType: &entityType, EntityID: &entityID}
	return r.first(ctx, func(q *gorm.DB) *gorm.DB { return r.applyFilter(q, filter) }, historyOrder)
}

func (r *StatusEventRepositoryImpl) applyFilter(query *gorm.DB, filter models.StatusEventFilter) *gorm.DB {
	if filter.EntityType != nil {
		query = query.Where("entity_type = ?", *filter.EntityType)
	}
	if filter.EntityID != nil {
		query = query.Where("entity_id = ?", *filter.EntityID)
	}
	if filter.ToStatus != nil {
		query = query.Where("to_status = ?", *filter.ToStatus)
	}
	if filter.ActorEmail != nil {
		query = query.Where("actor_email = ?", *filter.ActorEmail)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

func (r *StatusEventRepositoryImpl) ByFilter(ctx context.Context, filter models.StatusEventFilter, orderBy string, limit, offset int) ([]*models.StatusEvent, error) {
	return r.find(ctx, func(q *gorm.DB) *gorm.DB { return r.applyFilter(q, filter) }, orderBy, limit, offset)
}

func (r *StatusEventRepositoryImpl) Count(ctx context.Context, filter models.StatusEventFilter) (int64, error) {
	return r.count(ctx, func(q *gorm.DB) *gorm.DB { return r.applyFilter(q, filter) })
}

func (r *StatusEventRepositoryImpl) Exists(ctx context.Context, filter models.StatusEventFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
