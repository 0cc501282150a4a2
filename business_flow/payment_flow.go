package businessflow

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/amirphl/jetcharter/app/dto"
	"github.com/amirphl/jetcharter/app/services"
	"github.com/amirphl/jetcharter/models"
	"github.com/amirphl/jetcharter/repository"
	"github.com/amirphl/jetcharter/utils"
	"gorm.io/gorm"
)

// quote statuses under which a payment may be recorded
var payableQuoteStatuses = []string{
	string(models.QuoteStatusConfirmed),
	string(models.QuoteStatusPaymentPending),
	string(models.QuoteStatusPaid),
}

// PaymentFlow handles payments collected against confirmed quotes
type PaymentFlow interface {
	CreatePayment(ctx context.Context, req *dto.CreatePaymentRequest, metadata *ClientMetadata) (*dto.PaymentResponse, error)
	UpdatePaymentStatus(ctx context.Context, req *dto.UpdatePaymentStatusRequest, metadata *ClientMetadata) (*dto.PaymentResponse, error)
	RefundPayment(ctx context.Context, req *dto.RefundPaymentRequest, metadata *ClientMetadata) (*dto.PaymentResponse, error)
	GetPaymentHistory(ctx context.Context, paymentID string) (*dto.StatusHistoryResponse, error)
}

// PaymentFlowImpl implements PaymentFlow
type PaymentFlowImpl struct {
	db          *gorm.DB
	paymentRepo repository.PaymentRepository
	quoteRepo   repository.QuoteRequestRepository
	auditRepo   repository.AuditLogRepository
	statusLog   StatusLog
	tokens      services.AdminTokenService
}

func NewPaymentFlow(
	db *gorm.DB,
	paymentRepo repository.PaymentRepository,
	quoteRepo repository.QuoteRequestRepository,
	auditRepo repository.AuditLogRepository,
	statusLog StatusLog,
	tokens services.AdminTokenService,
) PaymentFlow {
	return &PaymentFlowImpl{
		db:          db,
		paymentRepo: paymentRepo,
		quoteRepo:   quoteRepo,
		auditRepo:   auditRepo,
		statusLog:   statusLog,
		tokens:      tokens,
	}
}

func (f *PaymentFlowImpl) CreatePayment(ctx context.Context, req *dto.CreatePaymentRequest, metadata *ClientMetadata) (*dto.PaymentResponse, error) {
	actor, err := authorizeAdmin(ctx, f.tokens, f.auditRepo, req.AdminCredentials, metadata)
	if err != nil {
		return nil, err
	}

	if !req.Amount.IsPositive() {
		return nil, NewBusinessError("INVALID_AMOUNT", "Amount must be greater than zero", ErrInvalidAmount)
	}

	quoteID, err := parseEntityUUID(req.QuoteID)
	if err != nil {
		return nil, err
	}
	quote, err := f.quoteRepo.ByUUID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, NewBusinessError("QUOTE_NOT_FOUND", "Quote not found", ErrQuoteNotFound)
	}
	if !slices.Contains(payableQuoteStatuses, quote.Status) {
		return nil, NewBusinessErrorf("QUOTE_NOT_PAYABLE", "Quote in status %s cannot take payments", ErrValidation, quote.Status)
	}

	payment := &models.Payment{
		QuoteRequestID:    quote.ID,
		Amount:            req.Amount.Round(2),
		Currency:          strings.ToUpper(req.Currency),
		Method:            req.Method,
		Status:            models.PaymentStatus(models.InitialStatus(models.EntityTypePayment)),
		ProviderReference: req.ProviderReference,
	}

	if err := f.paymentRepo.Save(ctx, payment); err != nil {
		return nil, NewBusinessError("PAYMENT_CREATE_FAILED", "Failed to store payment", err)
	}

	_ = createAuditLog(ctx, f.auditRepo, auditEntry{
		Action:      models.AuditActionPaymentCreated,
		ActorEmail:  actor,
		EntityType:  models.EntityTypePayment,
		EntityID:    payment.UUID.String(),
		Description: fmt.Sprintf("Payment of %s %s recorded for quote %s", payment.Amount.StringFixed(2), payment.Currency, quote.UUID),
		Outcome:     models.AuditOutcomeProcessed,
		Success:     true,
	}, metadata)

	return f.paymentResponse(ctx, "Payment created", payment, quote.UUID.String())
}

func (f *PaymentFlowImpl) UpdatePaymentStatus(ctx context.Context, req *dto.UpdatePaymentStatusRequest, metadata *ClientMetadata) (*dto.PaymentResponse, error) {
	actor, err := authorizeAdmin(ctx, f.tokens, f.auditRepo, req.AdminCredentials, metadata)
	if err != nil {
		return nil, err
	}

	// refunds carry an amount and go through RefundPayment
	switch models.PaymentStatus(req.Status) {
	case models.PaymentStatusRefunded, models.PaymentStatusPartiallyRefunded:
		return nil, NewBusinessErrorf("USE_REFUND_ENDPOINT", "Status %s is set by the refund operation", ErrValidation, req.Status)
	}

	payment, err := f.getPayment(ctx, req.PaymentID)
	if err != nil {
		return nil, err
	}

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		event, err := f.statusLog.RecordTransition(txCtx, models.EntityTypePayment, payment.UUID, actor, req.Status, req.AdminNote)
		if err != nil {
			return err
		}

		payment.Status = models.PaymentStatus(event.ToStatus)
		payment.UpdatedAt = event.CreatedAt
		if req.ProviderReference != nil {
			payment.ProviderReference = req.ProviderReference
		}
		switch payment.Status {
		case models.PaymentStatusCompleted:
			payment.PaidAt = utils.ToPtr(event.CreatedAt)
		case models.PaymentStatusFailed:
			payment.FailureReason = req.FailureReason
		}
		return f.paymentRepo.Update(txCtx, payment)
	})
	if err != nil {
		f.auditPaymentError(ctx, models.AuditActionPaymentStatusChanged, actor, payment, fmt.Sprintf("Payment status change to %s rejected", req.Status), err, metadata)
		return nil, err
	}

	_ = createAuditLog(ctx, f.auditRepo, auditEntry{
		Action:      models.AuditActionPaymentStatusChanged,
		ActorEmail:  actor,
		EntityType:  models.EntityTypePayment,
		EntityID:    payment.UUID.String(),
		Description: fmt.Sprintf("Payment status changed to %s", payment.Status),
		Outcome:     models.AuditOutcomeProcessed,
		Success:     true,
	}, metadata)

	return f.paymentResponse(ctx, "Payment status updated", payment, "")
}

func (f *PaymentFlowImpl) RefundPayment(ctx context.Context, req *dto.RefundPaymentRequest, metadata *ClientMetadata) (*dto.PaymentResponse, error) {
	actor, err := authorizeAdmin(ctx, f.tokens, f.auditRepo, req.AdminCredentials, metadata)
	if err != nil {
		return nil, err
	}

	payment, err := f.getPayment(ctx, req.PaymentID)
	if err != nil {
		return nil, err
	}

	if payment.Status != models.PaymentStatusCompleted {
		return nil, NewBusinessErrorf("REFUND_NOT_ALLOWED", "Payment in status %s cannot be refunded", ErrRefundNotAllowed, payment.Status)
	}
	if !req.Amount.IsPositive() {
		return nil, NewBusinessError("INVALID_AMOUNT", "Refund amount must be greater than zero", ErrInvalidAmount)
	}

	amount := req.Amount.Round(2)
	refundable := payment.RefundableAmount()
	if amount.GreaterThan(refundable) {
		return nil, NewBusinessErrorf("REFUND_EXCEEDS_AMOUNT", "Refund exceeds refundable amount %s", ErrRefundExceedsAmount, refundable.StringFixed(2))
	}

	target := models.PaymentStatusPartiallyRefunded
	if amount.Equal(refundable) {
		target = models.PaymentStatusRefunded
	}

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		event, err := f.statusLog.RecordTransition(txCtx, models.EntityTypePayment, payment.UUID, actor, string(target), &req.Reason)
		if err != nil {
			return err
		}

		payment.Status = target
		payment.RefundAmount = payment.RefundAmount.Add(amount)
		payment.RefundReason = utils.ToPtr(req.Reason)
		payment.RefundedAt = utils.ToPtr(event.CreatedAt)
		payment.UpdatedAt = event.CreatedAt
		return f.paymentRepo.Update(txCtx, payment)
	})
	if err != nil {
		f.auditPaymentError(ctx, models.AuditActionPaymentRefunded, actor, payment, fmt.Sprintf("Refund of %s rejected", amount.StringFixed(2)), err, metadata)
		return nil, err
	}

	_ = createAuditLog(ctx, f.auditRepo, auditEntry{
		Action:      models.AuditActionPaymentRefunded,
		ActorEmail:  actor,
		EntityType:  models.EntityTypePayment,
		EntityID:    payment.UUID.String(),
		Description: fmt.Sprintf("Refunded %s %s (%s)", amount.StringFixed(2), payment.Currency, target),
		Outcome:     models.AuditOutcomeProcessed,
		Success:     true,
	}, metadata)

	return f.paymentResponse(ctx, "Payment refunded", payment, "")
}

func (f *PaymentFlowImpl) GetPaymentHistory(ctx context.Context, paymentID string) (*dto.StatusHistoryResponse, error) {
	payment, err := f.getPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	return buildHistoryResponse(ctx, f.statusLog, models.EntityTypePayment, payment.UUID)
}

func (f *PaymentFlowImpl) getPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	id, err := parseEntityUUID(paymentID)
	if err != nil {
		return nil, err
	}
	payment, err := f.paymentRepo.ByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, NewBusinessError("PAYMENT_NOT_FOUND", "Payment not found", ErrPaymentNotFound)
	}
	return payment, nil
}

// paymentResponse resolves the quote UUID when the caller does not have it
func (f *PaymentFlowImpl) paymentResponse(ctx context.Context, message string, payment *models.Payment, quoteID string) (*dto.PaymentResponse, error) {
	if quoteID == "" {
		quote, err := f.quoteRepo.ByID(ctx, payment.QuoteRequestID)
		if err != nil {
			return nil, err
		}
		if quote != nil {
			quoteID = quote.UUID.String()
		}
	}

	history, err := f.statusLog.GetHistory(ctx, models.EntityTypePayment, payment.UUID)
	if err != nil {
		return nil, err
	}

	return &dto.PaymentResponse{
		Message:             message,
		Payment:             ToPaymentDTO(payment, quoteID),
		History:             ToStatusEventDTOs(history),
		AllowedNextStatuses: models.AllowedNextStatuses(models.EntityTypePayment, string(payment.Status)),
	}, nil
}

func (f *PaymentFlowImpl) auditPaymentError(ctx context.Context, action, actor string, payment *models.Payment, description string, cause error, metadata *ClientMetadata) {
	errMsg := cause.Error()
	_ = createAuditLog(ctx, f.auditRepo, auditEntry{
		Action:      action,
		ActorEmail:  actor,
		EntityType:  models.EntityTypePayment,
		EntityID:    payment.UUID.String(),
		Description: description,
		Outcome:     models.AuditOutcomeError,
		Success:     false,
		ErrorMsg:    &errMsg,
	}, metadata)
}
