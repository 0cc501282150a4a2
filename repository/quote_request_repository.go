package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/jetcharter/models"
	"github.com/amirphl/jetcharter/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuoteRequestRepositoryImpl implements QuoteRequestRepository interface
type QuoteRequestRepositoryImpl struct {
	*BaseRepository[models.QuoteRequest, models.QuoteRequestFilter]
}

// NewQuoteRequestRepository creates a new quote request repository
func NewQuoteRequestRepository(db *gorm.DB) QuoteRequestRepository {
	return &QuoteRequestRepositoryImpl{
		BaseRepository: NewBaseRepository[models.QuoteRequest, models.QuoteRequestFilter](db),
	}
}

// ByUUID retrieves a quote by UUID
func (r *QuoteRequestRepositoryImpl) ByUUID(ctx context.Context, id uuid.UUID) (*models.QuoteRequest, error) {
	return r.first(ctx, func(q *gorm.DB) *gorm.DB {
		return r.applyFilter(q, models.QuoteRequestFilter{UUID: &id})
	}, "")
}

// UpdateStatus sets the denormalized status column
func (r *QuoteRequestRepositoryImpl) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.write(ctx, func(db *gorm.DB) error {
		res := db.Model(&models.QuoteRequest{}).Where("id = ?", id).
			Updates(map[string]any{"status": status, "updated_at": utils.UTCNow()})
		if res.Error != nil {
			return fmt.Errorf("failed to update quote status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("quote %d not found for status update", id)
		}
		return nil
	})
}

// UpdateEstimate stores the admin price estimate
func (r *QuoteRequestRepositoryImpl) UpdateEstimate(ctx context.Context, quote *models.QuoteRequest) error {
	return r.write(ctx, func(db *gorm.DB) error {
		err := db.Model(&models.QuoteRequest{}).Where("id = ?", quote.ID).
			Updates(map[string]any{
				"estimated_price": quote.EstimatedPrice,
				"currency":        quote.Currency,
				"updated_at":      utils.UTCNow(),
			}).Error
		if err != nil {
			return fmt.Errorf("failed to update quote estimate: %w", err)
		}
		return nil
	})
}

// applyFilter applies filter criteria to a GORM query
func (r *QuoteRequestRepositoryImpl) applyFilter(query *gorm.DB, filter models.QuoteRequestFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.Email != nil {
		query = query.Where("email = ?", *filter.Email)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Locale != nil {
		query = query.Where("locale = ?", *filter.Locale)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves quotes based on filter criteria
func (r *QuoteRequestRepositoryImpl) ByFilter(ctx context.Context, filter models.QuoteRequestFilter, orderBy string, limit, offset int) ([]*models.QuoteRequest, error) {
	return r.find(ctx, func(q *gorm.DB) *gorm.DB { return r.applyFilter(q, filter) }, orderBy, limit, offset)
}

// Count returns number of quotes matching filter
func (r *QuoteRequestRepositoryImpl) Count(ctx context.Context, filter models.QuoteRequestFilter) (int64, error) {
	return r.count(ctx, func(q *gorm.DB) *gorm.DB { return r.applyFilter(q, filter) })
}

// Exists checks if any quote matches the filter
func (r *QuoteRequestRepositoryImpl) Exists(ctx context.Context, filter models.QuoteRequestFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
