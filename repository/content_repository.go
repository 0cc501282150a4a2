package repository

import (
	"context"
	"strings"

	"github.com/amirphl/jetcharter/models"
	"github.com/amirphl/jetcharter/utils"
	"gorm.io/gorm"
)

const contentOrder = "sort_order ASC, id ASC"

// PageContentRepositoryImpl implements PageContentRepository interface
type PageContentRepositoryImpl struct {
	*BaseRepository[models.PageContent, models.PageContentFilter]
}

// NewPageContentRepository creates a new page content repository
func NewPageContentRepository(db *gorm.DB) PageContentRepository {
	return &PageContentRepositoryImpl{
		BaseRepository: NewBaseRepository[models.PageContent, models.PageContentFilter](db),
	}
}

// ListByPage returns the active blocks of a page in one locale, optionally narrowed to one key
func (r *PageContentRepositoryImpl) ListByPage(ctx context.Context, page, locale string, key *string) ([]*models.PageContent, error) {
	filter := models.PageContentFilter{
		Page:     &page,
		Locale:   &locale,
		Key:      key,
		IsActive: utils.ToPtr(true),
	}
	return r.ByFilter(ctx, filter, contentOrder, 0, 0)
}

func (r *PageContentRepositoryImpl) applyFilter(query *gorm.DB, filter models.PageContentFilter) *gorm.DB {
	if filter.Page != nil {
		query = query.Where("page = ?", *filter.Page)
	}
	if filter.Locale != nil {
		query = query.Where("locale = ?", *filter.Locale)
	}
	if filter.Key != nil {
		query = query.Where("key = ?", *filter.Key)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	return query
}

func (r *PageContentRepositoryImpl) ByFilter(ctx context.Context, filter models.PageContentFilter, orderBy string, limit, offset int) ([]*models.PageContent, error) {
	return r.find(ctx, func(q *gorm.DB) *gorm.DB { return r.applyFilter(q, filter) }, orderBy, limit, offset)
}

func (r *PageContentRepositoryImpl) Count(ctx context.Context, filter models.PageContentFilter) (int64, error) {
	return r.count(ctx, func(q *gorm.DB) *gorm.DB { return r.applyFilter(q, filter) })
}

func (r *PageContentRepositoryImpl) Exists(ctx context.Context, filter models.PageContentFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

// FAQRepositoryImpl implements FAQRepository interface
type FAQRepositoryImpl struct {
	*BaseRepository[models.FAQ, models.FAQFilter]
}

// NewFAQRepository creates a new FAQ repository
func NewFAQRepository(db *gorm.DB) FAQRepository {
	return &FAQRepositoryImpl{
		BaseRepository: NewBaseRepository[models.FAQ, models.FAQFilter](db),
	}
}

// ListActive returns active FAQs ordered by category then sort order
func (r *FAQRepositoryImpl) ListActive(ctx context.Context, filter models.FAQFilter, limit int) ([]*models.FAQ, error) {
	filter.IsActive = utils.ToPtr(true)
	return r.ByFilter(ctx, filter, "category ASC, "+contentOrder, limit, 0)
}

func (r *FAQRepositoryImpl) applyFilter(query *gorm.DB, filter models.FAQFilter) *gorm.DB {
	if filter.Locale != nil {
		query = query.Where("locale = ?", *filter.Locale)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		term := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		query = query.Where("(LOWER(question) LIKE ? OR LOWER(answer) LIKE ?)", term, term)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	return query
}

func (r *FAQRepositoryImpl) ByFilter(ctx context.Context, filter models.FAQFilter, orderBy string, limit, offset int) ([]*models.FAQ, error) {
	return r.find(ctx, func(q *gorm.DB) *gorm.DB { return r.applyFilter(q, filter) }, orderBy, limit, offset)
}

func (r *FAQRepositoryImpl) Count(ctx context.Context, filter models.FAQFilter) (int64, error) {
	return r.count(ctx, func(q *gorm.DB) *gorm.DB { return r.applyFilter(q, filter) })
}

func (r *FAQRepositoryImpl) Exists(ctx context.Context, filter models.FAQFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
