package handlers

import (
	"github.com/amirphl/jetcharter/app/dto"
	"github.com/amirphl/jetcharter/app/logger"
	businessflow "github.com/amirphl/jetcharter/business_flow"
	"github.com/gofiber/fiber/v3"
)

// ContactHandlerInterface defines the contract for contact handlers
type ContactHandlerInterface interface {
	CreateContact(c fiber.Ctx) error
	ListContacts(c fiber.Ctx) error
	UpdateContactStatus(c fiber.Ctx) error
	GetContactHistory(c fiber.Ctx) error
}

// ContactHandler handles general inquiry endpoints
type ContactHandler struct {
	baseHandler
	contactFlow businessflow.ContactFlow
}

func NewContactHandler(contactFlow businessflow.ContactFlow, log *logger.Logger) *ContactHandler {
	return &ContactHandler{
		baseHandler: newBaseHandler(log),
		contactFlow: contactFlow,
	}
}

// CreateContact stores an inquiry from the public contact form
// @Summary Create Contact Inquiry
// @Tags Contacts
// @Accept json
// @Produce json
// @Param request body dto.CreateContactRequest true "Inquiry"
// @Success 201 {object} dto.APIResponse{data=dto.CreateContactResponse}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Router /api/v1/contacts [post]
func (h *ContactHandler) CreateContact(c fiber.Ctx) error {
	var req dto.CreateContactRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if msgs := h.validateRequest(&req); msgs != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", msgs)
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/contacts")
	defer cancel()

	result, err := h.contactFlow.CreateContact(ctx, &req, h.clientMetadata(c))
	if err != nil {
		return h.handleFlowError(c, err, "Failed to create inquiry", "CONTACT_CREATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusCreated, result.Message, result)
}

// ListContacts returns a page of inquiries, newest first
// @Summary List Contacts
// @Tags Contacts
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param page query int false "Page number (1-based)"
// @Param pageSize query int false "Page size (max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.ListContactsResponse}
// @Router /api/v1/contacts [get]
func (h *ContactHandler) ListContacts(c fiber.Ctx) error {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), "INVALID_QUERY", nil)
	}
	pageSize, err := queryInt(c, "pageSize", 20)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), "INVALID_QUERY", nil)
	}

	req := dto.ListContactsRequest{
		Status:   queryString(c, "status"),
		Page:     page,
		PageSize: pageSize,
	}
	if msgs := h.validateRequest(&req); msgs != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", msgs)
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/contacts")
	defer cancel()

	result, err := h.contactFlow.ListContacts(ctx, &req)
	if err != nil {
		return h.handleFlowError(c, err, "Failed to list inquiries", "CONTACT_LIST_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Inquiries retrieved successfully", result)
}

// UpdateContactStatus moves an inquiry to the requested status
// @Summary Update Contact Status
// @Tags Contacts
// @Accept json
// @Produce json
// @Param id path string true "Contact UUID"
// @Param request body dto.UpdateStatusRequest true "Requested status and admin credentials"
// @Success 200 {object} dto.APIResponse{data=dto.ContactStatusResponse}
// @Failure 400 {object} dto.APIResponse "Invalid transition or malformed UUID"
// @Failure 401 {object} dto.APIResponse "Bad admin token"
// @Failure 404 {object} dto.APIResponse "Inquiry not found"
// @Router /api/v1/contacts/{id}/status [patch]
func (h *ContactHandler) UpdateContactStatus(c fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.EntityID = c.Params("id")

	if msgs := h.validateRequest(&req); msgs != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", msgs)
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/contacts/:id/status")
	defer cancel()

	result, err := h.contactFlow.UpdateContactStatus(ctx, &req, h.clientMetadata(c))
	if err != nil {
		return h.handleFlowError(c, err, "Failed to update inquiry status", "CONTACT_STATUS_UPDATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// GetContactHistory returns the status history of an inquiry
// @Summary Get Contact History
// @Tags Contacts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contact UUID"
// @Success 200 {object} dto.APIResponse{data=dto.StatusHistoryResponse}
// @Router /api/v1/contacts/{id}/history [get]
func (h *ContactHandler) GetContactHistory(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/v1/contacts/:id/history")
	defer cancel()

	result, err := h.contactFlow.GetContactHistory(ctx, c.Params("id"))
	if err != nil {
		return h.handleFlowError(c, err, "Failed to load inquiry history", "CONTACT_HISTORY_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Inquiry history retrieved successfully", result)
}
