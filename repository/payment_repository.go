package repository

import (
	"context"

	"github.com/amirphl/jetcharter/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentRepositoryImpl implements PaymentRepository interface
type PaymentRepositoryImpl struct {
	*BaseRepository[models.Payment, models.PaymentFilter]
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &PaymentRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Payment, models.PaymentFilter](db),
	}
}

func (r *PaymentRepositoryImpl) ByUUID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	return r.first(ctx, func(q *gorm.DB) *gorm.DB {
		return r.applyFilter(q, models.PaymentFilter{UUID: &id})
	}, "")
}

// ListByQuote lists payments of a quote, newest first
func (r *PaymentRepositoryImpl) ListByQuote(ctx context.Context, quoteID uint) ([]*models.Payment, error) {
	return r.ByFilter(ctx, models.PaymentFilter{QuoteRequestID: &quoteID}, "", 0, 0)
}

func (r *PaymentRepositoryImpl) applyFilter(query *gorm.DB, filter models.PaymentFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.QuoteRequestID != nil {
		query = query.Where("quote_request_id = ?", *filter.QuoteRequestID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}

func (r *PaymentRepositoryImpl) ByFilter(ctx context.Context, filter models.PaymentFilter, orderBy string, limit, offset int) ([]*models.Payment, error) {
	return r.find(ctx, func(q *gorm.DB) *gorm.DB { return r.applyFilter(q, filter) }, orderBy, limit, offset)
}

func (r *PaymentRepositoryImpl) Count(ctx context.Context, filter models.PaymentFilter) (int64, error) {
	return r.count(ctx, func(q *gorm.DB) *gorm.DB { return r.applyFilter(q, filter) })
}

func (r *PaymentRepositoryImpl) Exists(ctx context.Context, filter models.PaymentFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
