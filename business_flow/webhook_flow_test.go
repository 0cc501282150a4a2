package businessflow

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"testing"

	"github.com/amirphl/jetcharter/app/dto"
	"github.com/amirphl/jetcharter/app/logger"
	"github.com/amirphl/jetcharter/app/services"
	"github.com/amirphl/jetcharter/models"
	testingutil "github.com/amirphl/jetcharter/testing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedHeaders(body []byte) http.Header {
	h := http.Header{}
	h.Set(services.ResendSignatureHeader, hex.EncodeToString(services.SignWebhookPayload([]byte(testWebhookKey), body)))
	return h
}

func resendEvent(eventType, emailID string) []byte {
	return []byte(fmt.Sprintf(`{"type":%q,"created_at":"2026-05-04T10:15:00.000Z","data":{"email_id":%q,"to":["client@example.com"]}}`, eventType, emailID))
}

func TestResendWebhookFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		env := newTestEnv(t, testDB)
		ctx := testingutil.CreateTestContext()

		ingest := func(body []byte) error {
			_, err := env.webhooks.IngestResendWebhook(ctx, body, signedHeaders(body), testMetadata())
			return err
		}

		t.Run("delivered advances a sent record", func(t *testing.T) {
			_, err := env.fixtures.CreateTestDelivery("msg-delivered", models.EmailDeliveryStatusSent)
			require.NoError(t, err)

			body := resendEvent("email.delivered", "msg-delivered")
			ack, err := env.webhooks.IngestResendWebhook(ctx, body, signedHeaders(body), testMetadata())
			require.NoError(t, err)
			assert.Equal(t, models.AuditOutcomeProcessed, ack.Outcome)
			assert.Equal(t, "delivered", ack.Status)

			record, err := env.deliveryRepo.ByProviderMessageID(ctx, "msg-delivered")
			require.NoError(t, err)
			assert.Equal(t, models.EmailDeliveryStatusDelivered, record.Status)
			require.NotNil(t, record.DeliveredAt)
			assert.Equal(t, 2026, record.DeliveredAt.Year())
			require.NotNil(t, record.LastEvent)
			assert.Equal(t, "email.delivered", *record.LastEvent)
		})

		t.Run("late sent event does not regress delivered", func(t *testing.T) {
			body := resendEvent("email.sent", "msg-delivered")
			ack, err := env.webhooks.IngestResendWebhook(ctx, body, signedHeaders(body), testMetadata())
			require.NoError(t, err)
			assert.Equal(t, models.AuditOutcomeIgnored, ack.Outcome)

			record, err := env.deliveryRepo.ByProviderMessageID(ctx, "msg-delivered")
			require.NoError(t, err)
			assert.Equal(t, models.EmailDeliveryStatusDelivered, record.Status)
		})

		t.Run("bounce stores the reason", func(t *testing.T) {
			_, err := env.fixtures.CreateTestDelivery("msg-bounce", models.EmailDeliveryStatusSent)
			require.NoError(t, err)

			body := []byte(`{"type":"email.bounced","data":{"email_id":"msg-bounce","bounce":{"message":"Mailbox does not exist","type":"Permanent"}}}`)
			require.NoError(t, ingest(body))

			record, err := env.deliveryRepo.ByProviderMessageID(ctx, "msg-bounce")
			require.NoError(t, err)
			assert.Equal(t, models.EmailDeliveryStatusBounced, record.Status)
			require.NotNil(t, record.ErrorMessage)
			assert.Equal(t, "Mailbox does not exist", *record.ErrorMessage)
		})

		t.Run("delivered after bounce is ignored", func(t *testing.T) {
			_, err := env.fixtures.CreateTestDelivery("msg-bounce-late", models.EmailDeliveryStatusSent)
			require.NoError(t, err)

			bounced := resendEvent("email.bounced", "msg-bounce-late")
			ack, err := env.webhooks.IngestResendWebhook(ctx, bounced, signedHeaders(bounced), testMetadata())
			require.NoError(t, err)
			assert.Equal(t, models.AuditOutcomeProcessed, ack.Outcome)

			delivered := resendEvent("email.delivered", "msg-bounce-late")
			ack, err = env.webhooks.IngestResendWebhook(ctx, delivered, signedHeaders(delivered), testMetadata())
			require.NoError(t, err)
			assert.Equal(t, models.AuditOutcomeIgnored, ack.Outcome)
			assert.Equal(t, "bounced", ack.Status)

			record, err := env.deliveryRepo.ByProviderMessageID(ctx, "msg-bounce-late")
			require.NoError(t, err)
			assert.Equal(t, models.EmailDeliveryStatusBounced, record.Status)
			assert.Nil(t, record.DeliveredAt)
			require.NotNil(t, record.LastEvent)
			assert.Equal(t, "email.bounced", *record.LastEvent)
		})

		t.Run("failed alias maps to failed", func(t *testing.T) {
			_, err := env.fixtures.CreateTestDelivery("msg-failed", models.EmailDeliveryStatusSent)
			require.NoError(t, err)

			require.NoError(t, ingest(resendEvent("email.failed", "msg-failed")))

			record, err := env.deliveryRepo.ByProviderMessageID(ctx, "msg-failed")
			require.NoError(t, err)
			assert.Equal(t, models.EmailDeliveryStatusFailed, record.Status)
			assert.NotNil(t, record.FailedAt)
		})

		t.Run("opened only records the last event", func(t *testing.T) {
			_, err := env.fixtures.CreateTestDelivery("msg-opened", models.EmailDeliveryStatusSent)
			require.NoError(t, err)

			require.NoError(t, ingest(resendEvent("email.opened", "msg-opened")))

			record, err := env.deliveryRepo.ByProviderMessageID(ctx, "msg-opened")
			require.NoError(t, err)
			assert.Equal(t, models.EmailDeliveryStatusSent, record.Status)
			require.NotNil(t, record.LastEvent)
			assert.Equal(t, "email.opened", *record.LastEvent)
		})

		t.Run("delivery tag cannot claim another message", func(t *testing.T) {
			owned, err := env.fixtures.CreateTestDelivery("msg-owned", models.EmailDeliveryStatusSent)
			require.NoError(t, err)

			body := []byte(fmt.Sprintf(`{"type":"email.delivered","data":{"email_id":"msg-other","tags":{"delivery_id":%q}}}`, owned.UUID))
			ack, err := env.webhooks.IngestResendWebhook(ctx, body, signedHeaders(body), testMetadata())
			require.NoError(t, err)
			assert.Equal(t, models.AuditOutcomeIgnored, ack.Outcome)

			record, err := env.deliveryRepo.ByProviderMessageID(ctx, "msg-owned")
			require.NoError(t, err)
			assert.Equal(t, models.EmailDeliveryStatusSent, record.Status)
		})

		t.Run("unknown message id is acknowledged", func(t *testing.T) {
			body := resendEvent("email.delivered", "msg-unknown")
			ack, err := env.webhooks.IngestResendWebhook(ctx, body, signedHeaders(body), testMetadata())
			require.NoError(t, err)
			assert.Equal(t, models.AuditOutcomeIgnored, ack.Outcome)
			assert.NotEmpty(t, ack.Warning)
		})

		t.Run("unsupported event type is acknowledged", func(t *testing.T) {
			body := resendEvent("contact.created", "msg-delivered")
			ack, err := env.webhooks.IngestResendWebhook(ctx, body, signedHeaders(body), testMetadata())
			require.NoError(t, err)
			assert.Equal(t, models.AuditOutcomeIgnored, ack.Outcome)
		})

		t.Run("bad signature is rejected and audited", func(t *testing.T) {
			body := resendEvent("email.delivered", "msg-opened")
			headers := signedHeaders([]byte(`{"type":"other"}`))

			_, err := env.webhooks.IngestResendWebhook(ctx, body, headers, testMetadata())
			assert.True(t, IsInvalidWebhookSignature(err))

			record, err := env.deliveryRepo.ByProviderMessageID(ctx, "msg-opened")
			require.NoError(t, err)
			assert.Equal(t, models.EmailDeliveryStatusSent, record.Status)

			logs, err := env.auditRepo.ListFailedActions(ctx, 50, 0)
			require.NoError(t, err)
			assert.NotEmpty(t, logs)
		})

		t.Run("malformed payloads", func(t *testing.T) {
			for _, body := range [][]byte{[]byte(`{not json`), []byte(`{"type":"email.sent","data":{}}`)} {
				err := ingest(body)
				assert.True(t, IsMalformedWebhook(err), string(body))
			}
		})

		t.Run("missing secret is not configured", func(t *testing.T) {
			flow := NewResendWebhookFlow(services.NewResendWebhookVerifier("", false), env.deliveryRepo, env.auditRepo, logger.NewNop())
			body := resendEvent("email.delivered", "msg-opened")

			_, err := flow.IngestResendWebhook(ctx, body, http.Header{}, testMetadata())
			assert.True(t, IsWebhookNotConfigured(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestEmailTracker_FailsClosedWhenDisabled(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		env := newTestEnv(t, testDB)
		ctx := testingutil.CreateTestContext()

		tracker := NewEmailTracker(services.NewResendEmailSender(services.ResendConfig{}), env.deliveryRepo)
		record, err := tracker.SendTracked(ctx, services.EmailMessage{
			To:      "client@example.com",
			Subject: "Your charter quote",
			Text:    "Thank you",
		}, EmailTemplateQuoteAcknowledgement, "", uuid.Nil)

		assert.ErrorIs(t, err, services.ErrEmailDisabled)
		require.NotNil(t, record)
		assert.Equal(t, models.EmailDeliveryStatusFailed, record.Status)
		assert.Nil(t, record.ProviderMessageID)
		assert.Nil(t, record.EntityType)
		return nil
	})
	require.NoError(t, err)
}

// webhookFirstSender delivers the provider webhook before Send returns
type webhookFirstSender struct {
	messageID string
	onSend    func(msg services.EmailMessage)
}

func (s *webhookFirstSender) Send(_ context.Context, msg services.EmailMessage) (string, error) {
	s.onSend(msg)
	return s.messageID, nil
}

func (s *webhookFirstSender) IsEnabled() bool { return true }

func TestEmailTracker_WebhookArrivesBeforeSendReturns(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		env := newTestEnv(t, testDB)
		ctx := testingutil.CreateTestContext()

		var ack *dto.WebhookAckResponse
		sender := &webhookFirstSender{messageID: "msg-fast"}
		sender.onSend = func(msg services.EmailMessage) {
			body := []byte(fmt.Sprintf(
				`{"type":"email.delivered","created_at":"2026-05-04T10:15:00.000Z","data":{"email_id":"msg-fast","tags":{"delivery_id":%q}}}`,
				msg.Tags[deliveryIDTag]))
			var err error
			ack, err = env.webhooks.IngestResendWebhook(ctx, body, signedHeaders(body), testMetadata())
			require.NoError(t, err)
		}

		record, err := NewEmailTracker(sender, env.deliveryRepo).SendTracked(ctx, services.EmailMessage{
			To:      "client@example.com",
			Subject: "Your charter quote",
			Text:    "Thank you",
		}, EmailTemplateQuoteAcknowledgement, "", uuid.Nil)
		require.NoError(t, err)

		require.NotNil(t, ack)
		assert.Equal(t, models.AuditOutcomeProcessed, ack.Outcome)
		assert.Equal(t, models.EmailDeliveryStatusDelivered, record.Status)

		stored, err := env.deliveryRepo.ByProviderMessageID(ctx, "msg-fast")
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, models.EmailDeliveryStatusDelivered, stored.Status)
		assert.NotNil(t, stored.DeliveredAt)
		require.NotNil(t, stored.LastEvent)
		assert.Equal(t, "email.delivered", *stored.LastEvent)
		return nil
	})
	require.NoError(t, err)
}
