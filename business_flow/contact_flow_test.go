package businessflow

import (
	"testing"

	"github.com/amirphl/jetcharter/app/dto"
	"github.com/amirphl/jetcharter/models"
	testingutil "github.com/amirphl/jetcharter/testing"
	"github.com/amirphl/jetcharter/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		env := newTestEnv(t, testDB)
		ctx := testingutil.CreateTestContext()

		var contactID string

		t.Run("create stores a pending inquiry", func(t *testing.T) {
			resp, err := env.contacts.CreateContact(ctx, &dto.CreateContactRequest{
				Name:    " Marie Dubois ",
				Email:   "Marie@Example.fr",
				Subject: "Empty legs from Geneva",
				Message: "Looking for a one way to Ibiza in July.",
				Locale:  "fr",
			}, testMetadata())
			require.NoError(t, err)

			contactID = resp.Contact.ID
			assert.Equal(t, "pending", resp.Contact.Status)
			assert.Equal(t, "Marie Dubois", resp.Contact.Name)
			assert.Equal(t, "marie@example.fr", resp.Contact.Email)
			assert.Equal(t, "fr", resp.Contact.Locale)

			sent := env.sender.GetSentMessages()
			require.Len(t, sent, 2)
			assert.Equal(t, "marie@example.fr", sent[0].To)
		})

		t.Run("status moves forward and history is recorded", func(t *testing.T) {
			resp, err := env.contacts.UpdateContactStatus(ctx, &dto.UpdateStatusRequest{
				AdminCredentials: env.creds(),
				Status:           "responded",
				EntityID:         contactID,
			}, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, "responded", resp.Contact.Status)
			assert.Equal(t, []string{"closed", "converted"}, resp.AllowedNextStatuses)

			_, err = env.contacts.UpdateContactStatus(ctx, &dto.UpdateStatusRequest{
				AdminCredentials: env.creds(),
				Status:           "pending",
				EntityID:         contactID,
			}, testMetadata())
			_, ok := AsInvalidTransition(err)
			assert.True(t, ok)

			history, err := env.contacts.GetContactHistory(ctx, contactID)
			require.NoError(t, err)
			assert.Equal(t, "responded", history.CurrentStatus)
			assert.Len(t, history.History, 1)
		})

		t.Run("list filters by status", func(t *testing.T) {
			_, err := env.fixtures.CreateTestContact()
			require.NoError(t, err)

			all, err := env.contacts.ListContacts(ctx, &dto.ListContactsRequest{})
			require.NoError(t, err)
			assert.Equal(t, int64(2), all.Pagination.TotalItems)
			assert.Equal(t, 20, all.Pagination.PageSize)

			responded, err := env.contacts.ListContacts(ctx, &dto.ListContactsRequest{Status: utils.ToPtr("responded")})
			require.NoError(t, err)
			require.Len(t, responded.Items, 1)
			assert.Equal(t, contactID, responded.Items[0].ID)

			_, err = env.contacts.ListContacts(ctx, &dto.ListContactsRequest{Status: utils.ToPtr("confirmed")})
			assert.True(t, IsUnknownStatus(err))
		})

		t.Run("unknown inquiry", func(t *testing.T) {
			_, err := env.contacts.GetContactHistory(ctx, uuid.NewString())
			assert.True(t, IsContactNotFound(err))
		})

		t.Run("history of a fresh inquiry starts at pending", func(t *testing.T) {
			contact, err := env.fixtures.CreateTestContact()
			require.NoError(t, err)

			history, err := env.contacts.GetContactHistory(ctx, contact.UUID.String())
			require.NoError(t, err)
			assert.Equal(t, string(models.ContactStatusPending), history.CurrentStatus)
			assert.Empty(t, history.History)
			assert.ElementsMatch(t, []string{"responded", "closed", "converted"}, history.AllowedNextStatuses)
		})

		return nil
	})
	require.NoError(t, err)
}
