package repository

import (
	"context"

	"github.com/amirphl/jetcharter/models"
	"gorm.io/gorm"
)

// WhatsAppClickRepositoryImpl implements WhatsAppClickRepository interface
type WhatsAppClickRepositoryImpl struct {
	*BaseRepository[models.WhatsAppClick, models.WhatsAppClickFilter]
}

// NewWhatsAppClickRepository creates a new click attribution repository
func NewWhatsAppClickRepository(db *gorm.DB) WhatsAppClickRepository {
	return &WhatsAppClickRepositoryImpl{
		BaseRepository: NewBaseRepository[models.WhatsAppClick, models.WhatsAppClickFilter](db),
	}
}

func (r *WhatsAppClickRepositoryImpl) ByClickID(ctx context.Context, clickID string) (*models.WhatsAppClick, error) {
	return r.first(ctx, func(q *gorm.DB) *gorm.DB {
		return r.applyFilter(q, models.WhatsAppClickFilter{ClickID: &clickID})
	}, "")
}

func (r *WhatsAppClickRepositoryImpl) applyFilter(query *gorm.DB, filter models.WhatsAppClickFilter) *gorm.DB {
	if filter.ClickID != nil {
		query = query.Where("click_id = ?", *filter.ClickID)
	}
	if filter.LinkType != nil {
		query = query.Where("link_type = ?", *filter.LinkType)
	}
	if filter.SessionID != nil {
		query = query.Where("session_id = ?", *filter.SessionID)
	}
	if filter.UTMCampaign != nil {
		query = query.Where("utm_campaign = ?", *filter.UTMCampaign)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

func (r *WhatsAppClickRepositoryImpl) ByFilter(ctx context.Context, filter models.WhatsAppClickFilter, orderBy string, limit, offset int) ([]*models.WhatsAppClick, error) {
	return r.find(ctx, func(q *gorm.DB) *gorm.DB { return r.applyFilter(q, filter) }, orderBy, limit, offset)
}

func (r *WhatsAppClickRepositoryImpl) Count(ctx context.Context, filter models.WhatsAppClickFilter) (int64, error) {
	return r.count(ctx, func(q *gorm.DB) *gorm.DB { return r.applyFilter(q, filter) })
}

func (r *WhatsAppClickRepositoryImpl) Exists(ctx context.Context, filter models.WhatsAppClickFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
