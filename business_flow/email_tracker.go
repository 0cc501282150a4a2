package businessflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirphl/jetcharter/app/metrics"
	"github.com/amirphl/jetcharter/app/services"
	"github.com/amirphl/jetcharter/models"
	"github.com/amirphl/jetcharter/repository"
	"github.com/amirphl/jetcharter/utils"
	"github.com/google/uuid"
)

// Email templates tracked by the delivery tracker
const (
	EmailTemplateQuoteAcknowledgement   = "quote_acknowledgement"
	EmailTemplateContactAcknowledgement = "contact_acknowledgement"
	EmailTemplateOperationsNewQuote     = "operations_new_quote"
	EmailTemplateOperationsNewContact   = "operations_new_contact"
)

// deliveryIDTag carries the record uuid so webhooks can find a record before its provider id is stored
const deliveryIDTag = "delivery_id"

// EmailTracker sends email and keeps one delivery record per message.
// Webhook events later advance the record by provider message id.
type EmailTracker interface {
	SendTracked(ctx context.Context, msg services.EmailMessage, template string, entityType models.EntityType, entityID uuid.UUID) (*models.EmailDeliveryRecord, error)
	ListForEntity(ctx context.Context, entityType models.EntityType, entityID uuid.UUID) ([]*models.EmailDeliveryRecord, error)
}

// EmailTrackerImpl implements EmailTracker
type EmailTrackerImpl struct {
	sender       services.EmailSender
	deliveryRepo repository.EmailDeliveryRepository
}

func NewEmailTracker(sender services.EmailSender, deliveryRepo repository.EmailDeliveryRepository) EmailTracker {
	return &EmailTrackerImpl{sender: sender, deliveryRepo: deliveryRepo}
}

// SendTracked stores a pending record, sends the message and moves the record to sent or failed.
// The record is returned even when sending fails.
func (t *EmailTrackerImpl) SendTracked(ctx context.Context, msg services.EmailMessage, template string, entityType models.EntityType, entityID uuid.UUID) (*models.EmailDeliveryRecord, error) {
	record := &models.EmailDeliveryRecord{
		Recipient: msg.To,
		Subject:   msg.Subject,
		Template:  template,
		Status:    models.EmailDeliveryStatusPending,
	}
	if entityType != "" {
		record.EntityType = &entityType
		record.EntityID = &entityID
	}

	if err := t.deliveryRepo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create email delivery record: %w", err)
	}

	if msg.Tags == nil {
		msg.Tags = map[string]string{}
	}
	msg.Tags["template"] = template
	msg.Tags[deliveryIDTag] = record.UUID.String()

	messageID, sendErr := t.sender.Send(ctx, msg)
	now := utils.UTCNow()

	// a webhook may have advanced the row while Send was in flight
	latest, err := t.deliveryRepo.ByUUID(ctx, record.UUID)
	if err != nil {
		return record, fmt.Errorf("failed to reload email delivery record: %w", err)
	}
	if latest != nil {
		record = latest
	}

	if sendErr != nil {
		record.Advance(models.EmailDeliveryStatusFailed, now)
		errMsg := sendErr.Error()
		record.ErrorMessage = &errMsg
		if errors.Is(sendErr, services.ErrEmailDisabled) {
			metrics.EmailsSent.WithLabelValues(template, "disabled").Inc()
		} else {
			metrics.EmailsSent.WithLabelValues(template, "failed").Inc()
		}
	} else {
		if record.ProviderMessageID == nil {
			record.ProviderMessageID = &messageID
		}
		record.Advance(models.EmailDeliveryStatusSent, now)
		metrics.EmailsSent.WithLabelValues(template, "sent").Inc()
	}

	if err := t.deliveryRepo.Update(ctx, record); err != nil {
		return record, fmt.Errorf("failed to update email delivery record: %w", err)
	}

	return record, sendErr
}

func (t *EmailTrackerImpl) ListForEntity(ctx context.Context, entityType models.EntityType, entityID uuid.UUID) ([]*models.EmailDeliveryRecord, error) {
	return t.deliveryRepo.ListByEntity(ctx, entityType, entityID)
}
