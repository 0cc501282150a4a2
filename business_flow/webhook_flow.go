package businessflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/amirphl/jetcharter/app/dto"
	"github.com/amirphl/jetcharter/app/logger"
	"github.com/amirphl/jetcharter/app/metrics"
	"github.com/amirphl/jetcharter/app/services"
	"github.com/amirphl/jetcharter/models"
	"github.com/amirphl/jetcharter/repository"
	"github.com/amirphl/jetcharter/utils"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// ResendWebhookFlow ingests delivery events posted by Resend
type ResendWebhookFlow interface {
	IngestResendWebhook(ctx context.Context, raw []byte, headers http.Header, metadata *ClientMetadata) (*dto.WebhookAckResponse, error)
}

// ResendWebhookFlowImpl implements ResendWebhookFlow
type ResendWebhookFlowImpl struct {
	verifier     services.WebhookVerifier
	deliveryRepo repository.EmailDeliveryRepository
	auditRepo    repository.AuditLogRepository
	log          *logger.Logger
}

func NewResendWebhookFlow(
	verifier services.WebhookVerifier,
	deliveryRepo repository.EmailDeliveryRepository,
	auditRepo repository.AuditLogRepository,
	log *logger.Logger,
) ResendWebhookFlow {
	return &ResendWebhookFlowImpl{
		verifier:     verifier,
		deliveryRepo: deliveryRepo,
		auditRepo:    auditRepo,
		log:          log,
	}
}

// providerEventMapping maps a Resend event type to a delivery status.
// A nil status marks an informational event that only updates LastEvent.
type providerEventMapping struct {
	status *models.EmailDeliveryStatus
}

var providerEventMappings = map[string]providerEventMapping{
	"email.sent":             {status: utils.ToPtr(models.EmailDeliveryStatusSent)},
	"email.delivered":        {status: utils.ToPtr(models.EmailDeliveryStatusDelivered)},
	"email.bounced":          {status: utils.ToPtr(models.EmailDeliveryStatusBounced)},
	"email.delivery_failed":  {status: utils.ToPtr(models.EmailDeliveryStatusFailed)},
	"email.failed":           {status: utils.ToPtr(models.EmailDeliveryStatusFailed)},
	"email.complained":       {status: utils.ToPtr(models.EmailDeliveryStatusComplained)},
	"email.opened":           {},
	"email.clicked":          {},
	"email.delivery_delayed": {},
}

func (f *ResendWebhookFlowImpl) IngestResendWebhook(ctx context.Context, raw []byte, headers http.Header, metadata *ClientMetadata) (*dto.WebhookAckResponse, error) {
	payload := string(raw)

	if err := f.verifier.Verify(raw, headers); err != nil {
		if errors.Is(err, services.ErrWebhookNotConfigured) {
			f.auditFailure(ctx, "", "", payload, err, metadata)
			metrics.WebhookEvents.WithLabelValues("unknown", "not_configured").Inc()
			return nil, NewBusinessError("WEBHOOK_NOT_CONFIGURED", "Webhook secret is not configured", ErrWebhookNotConfigured)
		}
		f.auditFailure(ctx, "", "", payload, err, metadata)
		metrics.WebhookEvents.WithLabelValues("unknown", "invalid_signature").Inc()
		return nil, NewBusinessError("INVALID_WEBHOOK_SIGNATURE", "Webhook signature is invalid", ErrInvalidWebhookSignature)
	}

	var event dto.ResendWebhookEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		f.auditFailure(ctx, "", "", payload, err, metadata)
		metrics.WebhookEvents.WithLabelValues("unknown", "malformed").Inc()
		return nil, NewBusinessError("MALFORMED_WEBHOOK", "Webhook payload is not valid JSON", ErrMalformedWebhook)
	}
	if strings.TrimSpace(event.Type) == "" || strings.TrimSpace(event.Data.EmailID) == "" {
		err := errors.New("type and data.email_id are required")
		f.auditFailure(ctx, event.Type, event.Data.EmailID, payload, err, metadata)
		metrics.WebhookEvents.WithLabelValues(labelEventType(event.Type), "malformed").Inc()
		return nil, NewBusinessError("MALFORMED_WEBHOOK", "Webhook payload is missing type or data.email_id", ErrMalformedWebhook)
	}

	ack := &dto.WebhookAckResponse{
		EventType: event.Type,
		EmailID:   event.Data.EmailID,
	}

	mapping, known := providerEventMappings[event.Type]
	if !known {
		ack.Outcome = models.AuditOutcomeIgnored
		ack.Warning = fmt.Sprintf("unsupported event type %q", event.Type)
		f.finish(ctx, ack, payload, nil, metadata)
		return ack, nil
	}

	record, err := f.findRecord(ctx, event.Data)
	if err != nil {
		f.log.Errorw("webhook delivery lookup failed", "email_id", event.Data.EmailID, "error", err)
		ack.Outcome = models.AuditOutcomeError
		f.finish(ctx, ack, payload, err, metadata)
		return nil, fmt.Errorf("failed to load email delivery record: %w", err)
	}
	if record == nil {
		ack.Outcome = models.AuditOutcomeIgnored
		ack.Warning = "no delivery record for email id"
		f.finish(ctx, ack, payload, nil, metadata)
		return ack, nil
	}

	at := eventTime(event)
	changed := f.apply(record, event, mapping, at)
	ack.Status = string(record.Status)

	if !changed {
		ack.Outcome = models.AuditOutcomeIgnored
		ack.Warning = fmt.Sprintf("record already %s", record.Status)
		f.finish(ctx, ack, payload, nil, metadata)
		return ack, nil
	}

	if err := f.deliveryRepo.Update(ctx, record); err != nil {
		f.log.Errorw("webhook delivery update failed", "email_id", event.Data.EmailID, "event", event.Type, "error", err)
		ack.Outcome = models.AuditOutcomeError
		f.finish(ctx, ack, payload, err, metadata)
		return nil, fmt.Errorf("failed to update email delivery record: %w", err)
	}

	ack.Outcome = models.AuditOutcomeProcessed
	f.finish(ctx, ack, payload, nil, metadata)
	return ack, nil
}

// findRecord looks up by provider id, then by the delivery tag for records whose
// provider id is not stored yet
func (f *ResendWebhookFlowImpl) findRecord(ctx context.Context, data dto.ResendWebhookData) (*models.EmailDeliveryRecord, error) {
	record, err := f.deliveryRepo.ByProviderMessageID(ctx, data.EmailID)
	if err != nil || record != nil {
		return record, err
	}

	deliveryID, err := uuid.Parse(data.Tags[deliveryIDTag])
	if err != nil {
		return nil, nil
	}
	record, err = f.deliveryRepo.ByUUID(ctx, deliveryID)
	if err != nil || record == nil {
		return nil, err
	}
	if record.ProviderMessageID != nil && *record.ProviderMessageID != data.EmailID {
		return nil, nil
	}
	record.ProviderMessageID = utils.ToPtr(data.EmailID)
	return record, nil
}

// apply mutates the record for the event and reports whether anything changed
func (f *ResendWebhookFlowImpl) apply(record *models.EmailDeliveryRecord, event dto.ResendWebhookEvent, mapping providerEventMapping, at time.Time) bool {
	if mapping.status == nil {
		record.LastEvent = utils.ToPtr(event.Type)
		record.LastEventAt = &at
		record.UpdatedAt = utils.UTCNow()
		return true
	}

	if !record.Advance(*mapping.status, at) {
		return false
	}
	record.LastEvent = utils.ToPtr(event.Type)
	record.LastEventAt = &at

	if *mapping.status == models.EmailDeliveryStatusBounced && event.Data.Bounce != nil && event.Data.Bounce.Message != "" {
		record.ErrorMessage = utils.ToPtr(event.Data.Bounce.Message)
	}
	return true
}

func (f *ResendWebhookFlowImpl) finish(ctx context.Context, ack *dto.WebhookAckResponse, payload string, cause error, metadata *ClientMetadata) {
	entry := auditEntry{
		Action:      models.AuditActionResendWebhookReceived,
		EntityID:    ack.EmailID,
		Description: fmt.Sprintf("Resend %s for %s: %s", ack.EventType, ack.EmailID, ack.Outcome),
		Payload:     &payload,
		Outcome:     ack.Outcome,
		Success:     cause == nil,
	}
	if cause != nil {
		entry.ErrorMsg = utils.ToPtr(cause.Error())
	} else if ack.Warning != "" {
		entry.ErrorMsg = utils.ToPtr(ack.Warning)
	}
	if err := createAuditLog(ctx, f.auditRepo, entry, metadata); err != nil {
		f.log.Warnw("webhook audit log not written", "email_id", ack.EmailID, "error", err)
	}
	metrics.WebhookEvents.WithLabelValues(labelEventType(ack.EventType), ack.Outcome).Inc()
}

func (f *ResendWebhookFlowImpl) auditFailure(ctx context.Context, eventType, emailID, payload string, cause error, metadata *ClientMetadata) {
	entry := auditEntry{
		Action:      models.AuditActionResendWebhookReceived,
		EntityID:    emailID,
		Description: fmt.Sprintf("Resend webhook rejected (%s)", lo.Ternary(eventType == "", "unknown", eventType)),
		Payload:     &payload,
		Outcome:     models.AuditOutcomeError,
		Success:     false,
		ErrorMsg:    utils.ToPtr(cause.Error()),
	}
	if err := createAuditLog(ctx, f.auditRepo, entry, metadata); err != nil {
		f.log.Warnw("webhook audit log not written", "error", err)
	}
}

// eventTime prefers the provider's timestamp over the receive time
func eventTime(event dto.ResendWebhookEvent) time.Time {
	for _, ts := range []string{event.CreatedAt, event.Data.CreatedAt} {
		if ts == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			return t.UTC()
		}
		if t, err := time.Parse("2006-01-02 15:04:05.999999-07", ts); err == nil {
			return t.UTC()
		}
	}
	return utils.UTCNow()
}

// labelEventType bounds metric label cardinality to the known event types
func labelEventType(eventType string) string {
	if _, ok := providerEventMappings[eventType]; ok {
		return eventType
	}
	return "other"
}
