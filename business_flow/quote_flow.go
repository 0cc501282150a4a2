package businessflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amirphl/jetcharter/app/dto"
	"github.com/amirphl/jetcharter/app/logger"
	"github.com/amirphl/jetcharter/app/services"
	"github.com/amirphl/jetcharter/config"
	"github.com/amirphl/jetcharter/models"
	"github.com/amirphl/jetcharter/repository"
	"github.com/amirphl/jetcharter/utils"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// QuoteFlow handles the quote request lifecycle
type QuoteFlow interface {
	CreateQuote(ctx context.Context, req *dto.CreateQuoteRequest, metadata *ClientMetadata) (*dto.CreateQuoteResponse, error)
	GetQuote(ctx context.Context, quoteID string) (*dto.QuoteDetailResponse, error)
	ListQuotes(ctx context.Context, req *dto.ListQuotesRequest) (*dto.ListQuotesResponse, error)
	UpdateQuoteStatus(ctx context.Context, req *dto.UpdateStatusRequest, metadata *ClientMetadata) (*dto.QuoteStatusResponse, error)
	GetQuoteHistory(ctx context.Context, quoteID string) (*dto.StatusHistoryResponse, error)
}

// QuoteFlowImpl implements QuoteFlow
type QuoteFlowImpl struct {
	db          *gorm.DB
	quoteRepo   repository.QuoteRequestRepository
	paymentRepo repository.PaymentRepository
	auditRepo   repository.AuditLogRepository
	statusLog   StatusLog
	emails      EmailTracker
	tokens      services.AdminTokenService
	emailCfg    config.EmailConfig
	log         *logger.Logger
}

func NewQuoteFlow(
	db *gorm.DB,
	quoteRepo repository.QuoteRequestRepository,
	paymentRepo repository.PaymentRepository,
	auditRepo repository.AuditLogRepository,
	statusLog StatusLog,
	emails EmailTracker,
	tokens services.AdminTokenService,
	emailCfg config.EmailConfig,
	log *logger.Logger,
) QuoteFlow {
	return &QuoteFlowImpl{
		db:          db,
		quoteRepo:   quoteRepo,
		paymentRepo: paymentRepo,
		auditRepo:   auditRepo,
		statusLog:   statusLog,
		emails:      emails,
		tokens:      tokens,
		emailCfg:    emailCfg,
		log:         log,
	}
}

func (f *QuoteFlowImpl) CreateQuote(ctx context.Context, req *dto.CreateQuoteRequest, metadata *ClientMetadata) (*dto.CreateQuoteResponse, error) {
	departure, returnDate, err := f.validateTripDates(req)
	if err != nil {
		return nil, err
	}

	quote := &models.QuoteRequest{
		TripType:           req.TripType,
		Origin:             strings.TrimSpace(req.Origin),
		Destination:        strings.TrimSpace(req.Destination),
		DepartureDate:      departure,
		ReturnDate:         returnDate,
		Passengers:         req.Passengers,
		ServiceType:        req.ServiceType,
		AircraftCategory:   req.AircraftCategory,
		AdditionalServices: lo.Uniq(req.AdditionalServices),
		FirstName:          strings.TrimSpace(req.FirstName),
		LastName:           strings.TrimSpace(req.LastName),
		Email:              strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:              req.Phone,
		ContactPreference:  lo.Ternary(req.ContactPreference == "", "email", req.ContactPreference),
		Locale:             lo.Ternary(req.Locale == "", utils.DefaultLocale, req.Locale),
		Notes:              req.Notes,
		Status:             models.InitialStatus(models.EntityTypeQuote),
		Currency:           "USD",
	}

	if err := f.quoteRepo.Save(ctx, quote); err != nil {
		return nil, NewBusinessError("QUOTE_CREATE_FAILED", "Failed to store quote request", err)
	}

	_ = createAuditLog(ctx, f.auditRepo, auditEntry{
		Action:      models.AuditActionQuoteCreated,
		ActorEmail:  quote.Email,
		EntityType:  models.EntityTypeQuote,
		EntityID:    quote.UUID.String(),
		Description: fmt.Sprintf("Quote request %s → %s created", quote.Origin, quote.Destination),
		Outcome:     models.AuditOutcomeProcessed,
		Success:     true,
	}, metadata)

	sendIntakeEmails(ctx, f.emails, f.log, models.EntityTypeQuote, quote.UUID, []trackedEmail{
		{msg: quoteAcknowledgementEmail(quote), template: EmailTemplateQuoteAcknowledgement},
		{msg: operationsQuoteEmail(f.emailCfg.OperationsInbox, quote), template: EmailTemplateOperationsNewQuote},
	})

	return &dto.CreateQuoteResponse{
		Message: "Quote request received",
		Quote:   ToQuoteDTO(quote),
	}, nil
}

func (f *QuoteFlowImpl) validateTripDates(req *dto.CreateQuoteRequest) (time.Time, *time.Time, error) {
	departure, err := time.Parse(time.DateOnly, req.DepartureDate)
	if err != nil {
		return time.Time{}, nil, NewBusinessError("INVALID_DEPARTURE_DATE", "Departure date must be YYYY-MM-DD", ErrValidation)
	}

	today := utils.UTCNow().Truncate(24 * time.Hour)
	if departure.Before(today) {
		return time.Time{}, nil, NewBusinessError("DEPARTURE_IN_PAST", "Departure date cannot be in the past", ErrValidation)
	}

	if strings.EqualFold(req.Origin, req.Destination) {
		return time.Time{}, nil, NewBusinessError("SAME_ORIGIN_DESTINATION", "Origin and destination must differ", ErrValidation)
	}

	if req.ReturnDate == nil || *req.ReturnDate == "" {
		if req.TripType == models.TripTypeRoundTrip {
			return time.Time{}, nil, NewBusinessError("RETURN_DATE_REQUIRED", "Return date is required for round trips", ErrValidation)
		}
		return departure, nil, nil
	}

	ret, err := time.Parse(time.DateOnly, *req.ReturnDate)
	if err != nil {
		return time.Time{}, nil, NewBusinessError("INVALID_RETURN_DATE", "Return date must be YYYY-MM-DD", ErrValidation)
	}
	if ret.Before(departure) {
		return time.Time{}, nil, NewBusinessError("RETURN_BEFORE_DEPARTURE", "Return date cannot be before departure", ErrValidation)
	}
	return departure, &ret, nil
}

func (f *QuoteFlowImpl) GetQuote(ctx context.Context, quoteID string) (*dto.QuoteDetailResponse, error) {
	quote, err := f.getQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	history, err := f.statusLog.GetHistory(ctx, models.EntityTypeQuote, quote.UUID)
	if err != nil {
		return nil, err
	}

	payments, err := f.paymentRepo.ListByQuote(ctx, quote.ID)
	if err != nil {
		return nil, err
	}

	emails, err := f.emails.ListForEntity(ctx, models.EntityTypeQuote, quote.UUID)
	if err != nil {
		return nil, err
	}

	return &dto.QuoteDetailResponse{
		Quote:               ToQuoteDTO(quote),
		History:             ToStatusEventDTOs(history),
		AllowedNextStatuses: models.AllowedNextStatuses(models.EntityTypeQuote, quote.Status),
		Payments: lo.Map(payments, func(p *models.Payment, _ int) dto.PaymentDTO {
			return ToPaymentDTO(p, quote.UUID.String())
		}),
		Emails: lo.Map(emails, func(r *models.EmailDeliveryRecord, _ int) dto.EmailDeliveryDTO {
			return ToEmailDeliveryDTO(r)
		}),
	}, nil
}

func (f *QuoteFlowImpl) ListQuotes(ctx context.Context, req *dto.ListQuotesRequest) (*dto.ListQuotesResponse, error) {
	page, pageSize := normalizePagination(req.Page, req.PageSize)
	if err := checkStatusFilter(models.EntityTypeQuote, req.Status); err != nil {
		return nil, err
	}

	filter := models.QuoteRequestFilter{Status: req.Status}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		filter.Email = &email
	}

	total, err := f.quoteRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	quotes, err := f.quoteRepo.ByFilter(ctx, filter, "created_at DESC, id DESC", pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	return &dto.ListQuotesResponse{
		Items: lo.Map(quotes, func(q *models.QuoteRequest, _ int) dto.QuoteDTO {
			return ToQuoteDTO(q)
		}),
		Pagination: paginationInfo(page, pageSize, total),
	}, nil
}

func (f *QuoteFlowImpl) UpdateQuoteStatus(ctx context.Context, req *dto.UpdateStatusRequest, metadata *ClientMetadata) (*dto.QuoteStatusResponse, error) {
	actor, err := authorizeAdmin(ctx, f.tokens, f.auditRepo, req.AdminCredentials, metadata)
	if err != nil {
		return nil, err
	}

	quote, err := f.getQuote(ctx, req.EntityID)
	if err != nil {
		return nil, err
	}

	var event *models.StatusEvent
	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		var err error
		event, err = f.statusLog.RecordTransition(txCtx, models.EntityTypeQuote, quote.UUID, actor, req.Status, req.AdminNote)
		if err != nil {
			return err
		}
		return f.quoteRepo.UpdateStatus(txCtx, quote.ID, event.ToStatus)
	})
	if err != nil {
		errMsg := err.Error()
		_ = createAuditLog(ctx, f.auditRepo, auditEntry{
			Action:      models.AuditActionQuoteStatusChanged,
			ActorEmail:  actor,
			EntityType:  models.EntityTypeQuote,
			EntityID:    quote.UUID.String(),
			Description: fmt.Sprintf("Quote status change to %s rejected", req.Status),
			Outcome:     models.AuditOutcomeError,
			Success:     false,
			ErrorMsg:    &errMsg,
		}, metadata)
		return nil, err
	}

	_ = createAuditLog(ctx, f.auditRepo, auditEntry{
		Action:      models.AuditActionQuoteStatusChanged,
		ActorEmail:  actor,
		EntityType:  models.EntityTypeQuote,
		EntityID:    quote.UUID.String(),
		Description: fmt.Sprintf("Quote status changed %s -> %s", event.FromStatus, event.ToStatus),
		Outcome:     models.AuditOutcomeProcessed,
		Success:     true,
	}, metadata)

	quote.Status = event.ToStatus
	quote.UpdatedAt = event.CreatedAt

	history, err := f.statusLog.GetHistory(ctx, models.EntityTypeQuote, quote.UUID)
	if err != nil {
		return nil, err
	}

	return &dto.QuoteStatusResponse{
		Message:             "Quote status updated",
		Quote:               ToQuoteDTO(quote),
		History:             ToStatusEventDTOs(history),
		AllowedNextStatuses: models.AllowedNextStatuses(models.EntityTypeQuote, event.ToStatus),
	}, nil
}

func (f *QuoteFlowImpl) GetQuoteHistory(ctx context.Context, quoteID string) (*dto.StatusHistoryResponse, error) {
	quote, err := f.getQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	return buildHistoryResponse(ctx, f.statusLog, models.EntityTypeQuote, quote.UUID)
}

func (f *QuoteFlowImpl) getQuote(ctx context.Context, quoteID string) (*models.QuoteRequest, error) {
	id, err := parseEntityUUID(quoteID)
	if err != nil {
		return nil, err
	}
	quote, err := f.quoteRepo.ByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, NewBusinessError("QUOTE_NOT_FOUND", "Quote not found", ErrQuoteNotFound)
	}
	return quote, nil
}

// buildHistoryResponse loads the history of an entity and derives its current status from it
func buildHistoryResponse(ctx context.Context, statusLog StatusLog, entityType models.EntityType, entityID uuid.UUID) (*dto.StatusHistoryResponse, error) {
	history, err := statusLog.GetHistory(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}

	current := models.InitialStatus(entityType)
	if len(history) > 0 {
		current = history[0].ToStatus
	}

	return &dto.StatusHistoryResponse{
		EntityType:          string(entityType),
		EntityID:            entityID.String(),
		CurrentStatus:       current,
		AllowedNextStatuses: models.AllowedNextStatuses(entityType, current),
		History:             ToStatusEventDTOs(history),
	}, nil
}

type trackedEmail struct {
	msg      services.EmailMessage
	template string
}

// sendIntakeEmails sends acknowledgement and operations emails. Failures are logged and never
// fail the intake request.
func sendIntakeEmails(ctx context.Context, tracker EmailTracker, log *logger.Logger, entityType models.EntityType, entityID uuid.UUID, emails []trackedEmail) {
	for _, e := range emails {
		if e.msg.To == "" {
			continue
		}
		if _, err := tracker.SendTracked(ctx, e.msg, e.template, entityType, entityID); err != nil {
			log.Warnw("tracked email not sent",
				"template", e.template,
				"entity_type", entityType,
				"entity_id", entityID.String(),
				"error", err,
			)
		}
	}
}

func normalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// checkStatusFilter rejects list filters naming a status the entity never takes
func checkStatusFilter(entityType models.EntityType, status *string) error {
	if status == nil || models.IsKnownStatus(entityType, *status) {
		return nil
	}
	return NewBusinessErrorf("UNKNOWN_STATUS", "%q is not a %s status", ErrUnknownStatus, *status, entityType)
}

func paginationInfo(page, pageSize int, total int64) dto.PaginationInfo {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return dto.PaginationInfo{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
