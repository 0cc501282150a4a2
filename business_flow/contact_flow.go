package businessflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/amirphl/jetcharter/app/dto"
	"github.com/amirphl/jetcharter/app/logger"
	"github.com/amirphl/jetcharter/app/services"
	"github.com/amirphl/jetcharter/config"
	"github.com/amirphl/jetcharter/models"
	"github.com/amirphl/jetcharter/repository"
	"github.com/amirphl/jetcharter/utils"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// ContactFlow handles general inquiries
type ContactFlow interface {
	CreateContact(ctx context.Context, req *dto.CreateContactRequest, metadata *ClientMetadata) (*dto.CreateContactResponse, error)
	ListContacts(ctx context.Context, req *dto.ListContactsRequest) (*dto.ListContactsResponse, error)
	UpdateContactStatus(ctx context.Context, req *dto.UpdateStatusRequest, metadata *ClientMetadata) (*dto.ContactStatusResponse, error)
	GetContactHistory(ctx context.Context, contactID string) (*dto.StatusHistoryResponse, error)
}

// ContactFlowImpl implements ContactFlow
type ContactFlowImpl struct {
	db          *gorm.DB
	contactRepo repository.ContactFormRepository
	auditRepo   repository.AuditLogRepository
	statusLog   StatusLog
	emails      EmailTracker
	tokens      services.AdminTokenService
	emailCfg    config.EmailConfig
	log         *logger.Logger
}

func NewContactFlow(
	db *gorm.DB,
	contactRepo repository.ContactFormRepository,
	auditRepo repository.AuditLogRepository,
	statusLog StatusLog,
	emails EmailTracker,
	tokens services.AdminTokenService,
	emailCfg config.EmailConfig,
	log *logger.Logger,
) ContactFlow {
	return &ContactFlowImpl{
		db:          db,
		contactRepo: contactRepo,
		auditRepo:   auditRepo,
		statusLog:   statusLog,
		emails:      emails,
		tokens:      tokens,
		emailCfg:    emailCfg,
		log:         log,
	}
}

func (f *ContactFlowImpl) CreateContact(ctx context.Context, req *dto.CreateContactRequest, metadata *ClientMetadata) (*dto.CreateContactResponse, error) {
	contact := &models.ContactForm{
		Name:              strings.TrimSpace(req.Name),
		Email:             strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:             req.Phone,
		Subject:           strings.TrimSpace(req.Subject),
		Message:           req.Message,
		ContactPreference: lo.Ternary(req.ContactPreference == "", "email", req.ContactPreference),
		Locale:            lo.Ternary(req.Locale == "", utils.DefaultLocale, req.Locale),
		Status:            models.InitialStatus(models.EntityTypeContact),
	}

	if err := f.contactRepo.Save(ctx, contact); err != nil {
		return nil, NewBusinessError("CONTACT_CREATE_FAILED", "Failed to store inquiry", err)
	}

	_ = createAuditLog(ctx, f.auditRepo, auditEntry{
		Action:      models.AuditActionContactCreated,
		ActorEmail:  contact.Email,
		EntityType:  models.EntityTypeContact,
		EntityID:    contact.UUID.String(),
		Description: fmt.Sprintf("Inquiry %q created", contact.Subject),
		Outcome:     models.AuditOutcomeProcessed,
		Success:     true,
	}, metadata)

	sendIntakeEmails(ctx, f.emails, f.log, models.EntityTypeContact, contact.UUID, []trackedEmail{
		{msg: contactAcknowledgementEmail(contact), template: EmailTemplateContactAcknowledgement},
		{msg: operationsContactEmail(f.emailCfg.OperationsInbox, contact), template: EmailTemplateOperationsNewContact},
	})

	return &dto.CreateContactResponse{
		Message: "Inquiry received",
		Contact: ToContactDTO(contact),
	}, nil
}

func (f *ContactFlowImpl) ListContacts(ctx context.Context, req *dto.ListContactsRequest) (*dto.ListContactsResponse, error) {
	page, pageSize := normalizePagination(req.Page, req.PageSize)
	if err := checkStatusFilter(models.EntityTypeContact, req.Status); err != nil {
		return nil, err
	}
	filter := models.ContactFormFilter{Status: req.Status}

	total, err := f.contactRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	contacts, err := f.contactRepo.ByFilter(ctx, filter, "created_at DESC, id DESC", pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	return &dto.ListContactsResponse{
		Items: lo.Map(contacts, func(c *models.ContactForm, _ int) dto.ContactDTO {
			return ToContactDTO(c)
		}),
		Pagination: paginationInfo(page, pageSize, total),
	}, nil
}

func (f *ContactFlowImpl) UpdateContactStatus(ctx context.Context, req *dto.UpdateStatusRequest, metadata *ClientMetadata) (*dto.ContactStatusResponse, error) {
	actor, err := authorizeAdmin(ctx, f.tokens, f.auditRepo, req.AdminCredentials, metadata)
	if err != nil {
		return nil, err
	}

	contact, err := f.getContact(ctx, req.EntityID)
	if err != nil {
		return nil, err
	}

	var event *models.StatusEvent
	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		var err error
		event, err = f.statusLog.RecordTransition(txCtx, models.EntityTypeContact, contact.UUID, actor, req.Status, req.AdminNote)
		if err != nil {
			return err
		}
		return f.contactRepo.UpdateStatus(txCtx, contact.ID, event.ToStatus)
	})
	if err != nil {
		errMsg := err.Error()
		_ = createAuditLog(ctx, f.auditRepo, auditEntry{
			Action:      models.AuditActionContactStatusChanged,
			ActorEmail:  actor,
			EntityType:  models.EntityTypeContact,
			EntityID:    contact.UUID.String(),
			Description: fmt.Sprintf("Inquiry status change to %s rejected", req.Status),
			Outcome:     models.AuditOutcomeError,
			Success:     false,
			ErrorMsg:    &errMsg,
		}, metadata)
		return nil, err
	}

	_ = createAuditLog(ctx, f.auditRepo, auditEntry{
		Action:      models.AuditActionContactStatusChanged,
		ActorEmail:  actor,
		EntityType:  models.EntityTypeContact,
		EntityID:    contact.UUID.String(),
		Description: fmt.Sprintf("Inquiry status changed %s -> %s", event.FromStatus, event.ToStatus),
		Outcome:     models.AuditOutcomeProcessed,
		Success:     true,
	}, metadata)

	contact.Status = event.ToStatus
	contact.UpdatedAt = event.CreatedAt

	history, err := f.statusLog.GetHistory(ctx, models.EntityTypeContact, contact.UUID)
	if err != nil {
		return nil, err
	}

	return &dto.ContactStatusResponse{
		Message:             "Inquiry status updated",
		Contact:             ToContactDTO(contact),
		History:             ToStatusEventDTOs(history),
		AllowedNextStatuses: models.AllowedNextStatuses(models.EntityTypeContact, event.ToStatus),
	}, nil
}

func (f *ContactFlowImpl) GetContactHistory(ctx context.Context, contactID string) (*dto.StatusHistoryResponse, error) {
	contact, err := f.getContact(ctx, contactID)
	if err != nil {
		return nil, err
	}
	return buildHistoryResponse(ctx, f.statusLog, models.EntityTypeContact, contact.UUID)
}

func (f *ContactFlowImpl) getContact(ctx context.Context, contactID string) (*models.ContactForm, error) {
	id, err := parseEntityUUID(contactID)
	if err != nil {
		return nil, err
	}
	contact, err := f.contactRepo.ByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, NewBusinessError("CONTACT_NOT_FOUND", "Inquiry not found", ErrContactNotFound)
	}
	return contact, nil
}
