// Package businessflow contains the business logic for the application.
package businessflow

import (
	"context"
	"time"

	"github.com/amirphl/jetcharter/app/dto"
	"github.com/amirphl/jetcharter/models"
	"github.com/amirphl/jetcharter/repository"
	"github.com/amirphl/jetcharter/utils"
	"github.com/google/uuid"
)

// ClientMetadata holds client-related information for audit logging and attribution
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	RequestID  string            `json:"request_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Additional: make(map[string]string),
	}
}

// AddAdditional adds additional custom information to the metadata
func (cm *ClientMetadata) AddAdditional(key, value string) {
	if cm.Additional == nil {
		cm.Additional = make(map[string]string)
	}
	cm.Additional[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// auditEntry describes one audit log row
type auditEntry struct {
	Action      string
	ActorEmail  string
	EntityType  models.EntityType
	EntityID    string
	Description string
	Payload     *string
	Outcome     string
	Success     bool
	ErrorMsg    *string
}

// createAuditLog persists an audit log entry; the request ID is taken from the context when present
func createAuditLog(ctx context.Context, auditRepo repository.AuditLogRepository, entry auditEntry, metadata *ClientMetadata) error {
	audit := &models.AuditLog{
		Action:       entry.Action,
		Description:  &entry.Description,
		Payload:      entry.Payload,
		Success:      utils.ToPtr(entry.Success),
		ErrorMessage: entry.ErrorMsg,
	}
	if entry.ActorEmail != "" {
		audit.ActorEmail = &entry.ActorEmail
	}
	if entry.EntityType != "" {
		audit.EntityType = &entry.EntityType
	}
	if entry.EntityID != "" {
		audit.EntityID = &entry.EntityID
	}
	if entry.Outcome != "" {
		audit.Outcome = &entry.Outcome
	}

	if metadata != nil {
		audit.IPAddress = &metadata.IPAddress
		audit.UserAgent = &metadata.UserAgent
		if metadata.RequestID != "" {
			audit.RequestID = &metadata.RequestID
		}
	}

	if audit.RequestID == nil {
		if requestID, ok := ctx.Value(utils.RequestIDKey).(string); ok && requestID != "" {
			audit.RequestID = &requestID
		}
	}

	return auditRepo.Save(ctx, audit)
}

// parseEntityUUID parses a route identifier into a UUID
func parseEntityUUID(id string) (uuid.UUID, error) {
	parsed, err := utils.ParseUUID(id)
	if err != nil {
		return uuid.Nil, NewBusinessError("INVALID_UUID", "Identifier must be a valid UUID", ErrInvalidUUID)
	}
	return parsed, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatDate(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

// ToStatusEventDTO converts a status event model to its API view
func ToStatusEventDTO(e *models.StatusEvent) dto.StatusEventDTO {
	return dto.StatusEventDTO{
		ID:         e.UUID.String(),
		EntityType: string(e.EntityType),
		EntityID:   e.EntityID.String(),
		FromStatus: e.FromStatus,
		ToStatus:   e.ToStatus,
		ActorEmail: e.ActorEmail,
		Note:       e.Note,
		CreatedAt:  formatTime(e.CreatedAt),
	}
}

// ToStatusEventDTOs converts a history slice, keeping its order
func ToStatusEventDTOs(events []*models.StatusEvent) []dto.StatusEventDTO {
	out := make([]dto.StatusEventDTO, 0, len(events))
	for _, e := range events {
		out = append(out, ToStatusEventDTO(e))
	}
	return out
}

// ToQuoteDTO converts a quote model to its API view
func ToQuoteDTO(q *models.QuoteRequest) dto.QuoteDTO {
	out := dto.QuoteDTO{
		ID:                 q.UUID.String(),
		TripType:           q.TripType,
		Origin:             q.Origin,
		Destination:        q.Destination,
		DepartureDate:      formatDate(q.DepartureDate),
		Passengers:         q.Passengers,
		ServiceType:        q.ServiceType,
		AircraftCategory:   q.AircraftCategory,
		AdditionalServices: q.AdditionalServices,
		FirstName:          q.FirstName,
		LastName:           q.LastName,
		Email:              q.Email,
		Phone:              q.Phone,
		ContactPreference:  q.ContactPreference,
		Locale:             q.Locale,
		Notes:              q.Notes,
		Status:             q.Status,
		Currency:           q.Currency,
		CreatedAt:          formatTime(q.CreatedAt),
		UpdatedAt:          formatTime(q.UpdatedAt),
	}
	if out.AdditionalServices == nil {
		out.AdditionalServices = []string{}
	}
	if q.ReturnDate != nil {
		out.ReturnDate = utils.ToPtr(formatDate(*q.ReturnDate))
	}
	if q.EstimatedPrice.Valid {
		out.EstimatedPrice = utils.ToPtr(q.EstimatedPrice.Decimal.StringFixed(2))
	}
	return out
}

// ToContactDTO converts a contact model to its API view
func ToContactDTO(c *models.ContactForm) dto.ContactDTO {
	return dto.ContactDTO{
		ID:                c.UUID.String(),
		Name:              c.Name,
		Email:             c.Email,
		Phone:             c.Phone,
		Subject:           c.Subject,
		Message:           c.Message,
		ContactPreference: c.ContactPreference,
		Locale:            c.Locale,
		Status:            c.Status,
		CreatedAt:         formatTime(c.CreatedAt),
		UpdatedAt:         formatTime(c.UpdatedAt),
	}
}

// ToPaymentDTO converts a payment model to its API view
func ToPaymentDTO(p *models.Payment, quoteID string) dto.PaymentDTO {
	return dto.PaymentDTO{
		ID:                p.UUID.String(),
		QuoteID:           quoteID,
		Amount:            p.Amount.StringFixed(2),
		Currency:          p.Currency,
		Method:            p.Method,
		Status:            string(p.Status),
		ProviderReference: p.ProviderReference,
		PaidAt:            utils.FormatTimePtr(p.PaidAt),
		FailureReason:     p.FailureReason,
		RefundAmount:      p.RefundAmount.StringFixed(2),
		RefundReason:      p.RefundReason,
		RefundedAt:        utils.FormatTimePtr(p.RefundedAt),
		CreatedAt:         formatTime(p.CreatedAt),
		UpdatedAt:         formatTime(p.UpdatedAt),
	}
}

// ToEmailDeliveryDTO converts a delivery record to its API view
func ToEmailDeliveryDTO(r *models.EmailDeliveryRecord) dto.EmailDeliveryDTO {
	return dto.EmailDeliveryDTO{
		ID:                r.UUID.String(),
		ProviderMessageID: r.ProviderMessageID,
		Recipient:         r.Recipient,
		Subject:           r.Subject,
		Template:          r.Template,
		Status:            string(r.Status),
		SentAt:            utils.FormatTimePtr(r.SentAt),
		DeliveredAt:       utils.FormatTimePtr(r.DeliveredAt),
		BouncedAt:         utils.FormatTimePtr(r.BouncedAt),
		FailedAt:          utils.FormatTimePtr(r.FailedAt),
		ComplainedAt:      utils.FormatTimePtr(r.ComplainedAt),
		LastEvent:         r.LastEvent,
		LastEventAt:       utils.FormatTimePtr(r.LastEventAt),
		ErrorMessage:      r.ErrorMessage,
		CreatedAt:         formatTime(r.CreatedAt),
	}
}
