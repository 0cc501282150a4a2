package businessflow

import (
	"testing"

	"github.com/amirphl/jetcharter/models"
	testingutil "github.com/amirphl/jetcharter/testing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusLog_RejectsEveryIllegalPair(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		env := newTestEnv(t, testDB)
		ctx := testingutil.CreateTestContext()

		entityTypes := []models.EntityType{models.EntityTypeQuote, models.EntityTypeContact, models.EntityTypePayment}
		for _, entityType := range entityTypes {
			statuses := models.KnownStatuses(entityType)
			require.NotEmpty(t, statuses)

			for _, from := range statuses {
				for _, to := range statuses {
					if models.CanTransition(entityType, from, to) {
						continue
					}

					t.Run(string(entityType)+" "+from+" to "+to, func(t *testing.T) {
						id := uuid.New()
						if from != models.InitialStatus(entityType) {
							_, err := env.fixtures.CreateTestStatusEvent(entityType, id, models.InitialStatus(entityType), from)
							require.NoError(t, err)
						}
						before, err := env.statusLog.GetHistory(ctx, entityType, id)
						require.NoError(t, err)

						_, err = env.statusLog.RecordTransition(ctx, entityType, id, testAdminEmail, to, nil)
						transitionErr, ok := AsInvalidTransition(err)
						require.True(t, ok, "expected InvalidTransitionError, got %v", err)
						assert.Equal(t, from, transitionErr.From)
						assert.Equal(t, to, transitionErr.To)

						after, err := env.statusLog.GetHistory(ctx, entityType, id)
						require.NoError(t, err)
						assert.Len(t, after, len(before))

						current, err := env.statusLog.GetCurrentStatus(ctx, entityType, id)
						require.NoError(t, err)
						assert.Equal(t, from, current)
					})
				}
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func TestStatusLog_UnknownStatusIsNeverAccepted(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		env := newTestEnv(t, testDB)
		ctx := testingutil.CreateTestContext()

		id := uuid.New()
		_, err := env.statusLog.RecordTransition(ctx, models.EntityTypeQuote, id, testAdminEmail, "archived", nil)
		_, ok := AsInvalidTransition(err)
		assert.True(t, ok)

		history, err := env.statusLog.GetHistory(ctx, models.EntityTypeQuote, id)
		require.NoError(t, err)
		assert.Empty(t, history)
		return nil
	})
	require.NoError(t, err)
}
