package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/amirphl/jetcharter/models"
	"github.com/amirphl/jetcharter/repository"
	testingutil "github.com/amirphl/jetcharter/testing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusEventRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewStatusEventRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		quoteID := uuid.New()
		otherID := uuid.New()

		steps := [][2]string{
			{"new_request", "reviewing"},
			{"reviewing", "quote_sent"},
			{"quote_sent", "awaiting_confirmation"},
		}
		for _, s := range steps {
			_, err := fixtures.CreateTestStatusEvent(models.EntityTypeQuote, quoteID, s[0], s[1])
			require.NoError(t, err)
		}
		_, err := fixtures.CreateTestStatusEvent(models.EntityTypeQuote, otherID, "new_request", "cancelled")
		require.NoError(t, err)

		t.Run("history is most recent first and scoped to the entity", func(t *testing.T) {
			events, err := repo.ListByEntity(ctx, models.EntityTypeQuote, quoteID, 0, 0)
			require.NoError(t, err)
			require.Len(t, events, 3)
			assert.Equal(t, "awaiting_confirmation", events[0].ToStatus)
			assert.Equal(t, "reviewing", events[2].ToStatus)
		})

		t.Run("latest", func(t *testing.T) {
			latest, err := repo.LatestByEntity(ctx, models.EntityTypeQuote, quoteID)
			require.NoError(t, err)
			require.NotNil(t, latest)
			assert.Equal(t, "awaiting_confirmation", latest.ToStatus)
		})

		t.Run("entity type is part of the key", func(t *testing.T) {
			latest, err := repo.LatestByEntity(ctx, models.EntityTypePayment, quoteID)
			require.NoError(t, err)
			assert.Nil(t, latest)
		})

		t.Run("events cannot be updated", func(t *testing.T) {
			latest, err := repo.LatestByEntity(ctx, models.EntityTypeQuote, quoteID)
			require.NoError(t, err)

			err = testDB.DB.Model(latest).Update("to_status", "confirmed").Error
			assert.True(t, errors.Is(err, models.ErrStatusEventImmutable))

			latest.ToStatus = "confirmed"
			err = testDB.DB.Save(latest).Error
			assert.True(t, errors.Is(err, models.ErrStatusEventImmutable))

			reloaded, err := repo.LatestByEntity(ctx, models.EntityTypeQuote, quoteID)
			require.NoError(t, err)
			assert.Equal(t, "awaiting_confirmation", reloaded.ToStatus)
		})

		t.Run("events cannot be deleted", func(t *testing.T) {
			latest, err := repo.LatestByEntity(ctx, models.EntityTypeQuote, quoteID)
			require.NoError(t, err)

			err = testDB.DB.Delete(latest).Error
			assert.True(t, errors.Is(err, models.ErrStatusEventImmutable))

			count, err := repo.Count(ctx, models.StatusEventFilter{EntityID: &quoteID})
			require.NoError(t, err)
			assert.Equal(t, int64(3), count)
		})

		t.Run("rolled back transaction leaves no event", func(t *testing.T) {
			boom := errors.New("boom")
			err := repository.WithTransaction(ctx, testDB.DB, func(txCtx context.Context) error {
				if err := repo.Save(txCtx, &models.StatusEvent{
					EntityType: models.EntityTypeQuote,
					EntityID:   otherID,
					FromStatus: "cancelled",
					ToStatus:   "reviewing",
					ActorEmail: "ops@example.com",
				}); err != nil {
					return err
				}
				return boom
			})
			assert.ErrorIs(t, err, boom)

			events, err := repo.ListByEntity(ctx, models.EntityTypeQuote, otherID, 0, 0)
			require.NoError(t, err)
			assert.Len(t, events, 1)
		})

		return nil
	})
	require.NoError(t, err)
}
