package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/jetcharter/models"
	"github.com/amirphl/jetcharter/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactFormRepositoryImpl implements ContactFormRepository interface
type ContactFormRepositoryImpl struct {
	*BaseRepository[models.ContactForm, models.ContactFormFilter]
}

// NewContactFormRepository creates a new contact form repository
func NewContactFormRepository(db *gorm.DB) ContactFormRepository {
	return &ContactFormRepositoryImpl{
		BaseRepository: NewBaseRepository[models.ContactForm, models.ContactFormFilter](db),
	}
}

func (r *ContactFormRepositoryImpl) ByUUID(ctx context.Context, id uuid.UUID) (*models.ContactForm, error) {
	return r.first(ctx, func(q *gorm.DB) *gorm.DB {
		return r.applyFilter(q, models.ContactFormFilter{UUID: &id})
	}, "")
}

func (r *ContactFormRepositoryImpl) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.write(ctx, func(db *gorm.DB) error {
		res := db.Model(&models.ContactForm{}).Where("id = ?", id).
			Updates(map[string]any{"status": status, "updated_at": utils.UTCNow()})
		if res.Error != nil {
			return fmt.Errorf("failed to update contact status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("contact %d not found for status update", id)
		}
		return nil
	})
}

func (r *ContactFormRepositoryImpl) applyFilter(query *gorm.DB, filter models.ContactFormFilter) *gorm.DB {
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
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

func (r *ContactFormRepositoryImpl) ByFilter(ctx context.Context, filter models.ContactFormFilter, orderBy string, limit, offset int) ([]*models.ContactForm, error) {
	return r.find(ctx, func(q *gorm.DB) *gorm.DB { return r.applyFilter(q, filter) }, orderBy, limit, offset)
}

func (r *ContactFormRepositoryImpl) Count(ctx context.Context, filter models.ContactFormFilter) (int64, error) {
	return r.count(ctx, func(q *gorm.DB) *gorm.DB { return r.applyFilter(q, filter) })
}

func (r *ContactFormRepositoryImpl) Exists(ctx context.Context, filter models.ContactFormFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
