package handlers

import (
	"github.com/amirphl/jetcharter/app/dto"
	"github.com/amirphl/jetcharter/app/logger"
	businessflow "github.com/amirphl/jetcharter/business_flow"
	"github.com/gofiber/fiber/v3"
)

// QuoteHandlerInterface defines the contract for quote handlers
type QuoteHandlerInterface interface {
	CreateQuote(c fiber.Ctx) error
	GetQuote(c fiber.Ctx) error
	ListQuotes(c fiber.Ctx) error
	UpdateQuoteStatus(c fiber.Ctx) error
	GetQuoteHistory(c fiber.Ctx) error
}

// QuoteHandler handles quote request endpoints
type QuoteHandler struct {
	baseHandler
	quoteFlow businessflow.QuoteFlow
}

// NewQuoteHandler creates a new quote handler
func NewQuoteHandler(quoteFlow businessflow.QuoteFlow, log *logger.Logger) *QuoteHandler {
	return &QuoteHandler{
		baseHandler: newBaseHandler(log),
		quoteFlow:   quoteFlow,
	}
}

// CreateQuote stores a charter quote request from the public form
// @Summary Create Quote Request
// @Tags Quotes
// @Accept json
// @Produce json
// @Param request body dto.CreateQuoteRequest true "Trip and contact details"
// @Success 201 {object} dto.APIResponse{data=dto.CreateQuoteResponse}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/quotes [post]
func (h *QuoteHandler) CreateQuote(c fiber.Ctx) error {
	var req dto.CreateQuoteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if msgs := h.validateRequest(&req); msgs != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", msgs)
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/quotes")
	defer cancel()

	result, err := h.quoteFlow.CreateQuote(ctx, &req, h.clientMetadata(c))
	if err != nil {
		return h.handleFlowError(c, err, "Failed to create quote request", "QUOTE_CREATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusCreated, result.Message, result)
}

// GetQuote returns a quote with its history, payments and email deliveries
// @Summary Get Quote
// @Tags Quotes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quote UUID"
// @Success 200 {object} dto.APIResponse{data=dto.QuoteDetailResponse}
// @Failure 400 {object} dto.APIResponse "Malformed UUID"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Quote not found"
// @Router /api/v1/quotes/{id} [get]
func (h *QuoteHandler) GetQuote(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/v1/quotes/:id")
	defer cancel()

	result, err := h.quoteFlow.GetQuote(ctx, c.Params("id"))
	if err != nil {
		return h.handleFlowError(c, err, "Failed to load quote", "QUOTE_FETCH_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Quote retrieved successfully", result)
}

// ListQuotes returns a page of quotes, newest first
// @Summary List Quotes
// @Tags Quotes
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param email query string false "Filter by requester email"
// @Param page query int false "Page number (1-based)"
// @Param pageSize query int false "Page size (max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.ListQuotesResponse}
// @Failure 400 {object} dto.APIResponse "Invalid query"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /api/v1/quotes [get]
func (h *QuoteHandler) ListQuotes(c fiber.Ctx) error {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), "INVALID_QUERY", nil)
	}
	pageSize, err := queryInt(c, "pageSize", 20)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), "INVALID_QUERY", nil)
	}

	req := dto.ListQuotesRequest{
		Status:   queryString(c, "status"),
		Email:    queryString(c, "email"),
		Page:     page,
		PageSize: pageSize,
	}
	if msgs := h.validateRequest(&req); msgs != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", msgs)
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/quotes")
	defer cancel()

	result, err := h.quoteFlow.ListQuotes(ctx, &req)
	if err != nil {
		return h.handleFlowError(c, err, "Failed to list quotes", "QUOTE_LIST_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Quotes retrieved successfully", result)
}

// UpdateQuoteStatus moves a quote to the requested status
// @Summary Update Quote Status
// @Tags Quotes
// @Accept json
// @Produce json
// @Param id path string true "Quote UUID"
// @Param request body dto.UpdateStatusRequest true "Requested status and admin credentials"
// @Success 200 {object} dto.APIResponse{data=dto.QuoteStatusResponse}
// @Failure 400 {object} dto.APIResponse "Invalid transition or malformed UUID"
// @Failure 401 {object} dto.APIResponse "Bad admin token"
// @Failure 404 {object} dto.APIResponse "Quote not found"
// @Router /api/v1/quotes/{id}/status [patch]
func (h *QuoteHandler) UpdateQuoteStatus(c fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.EntityID = c.Params("id")

	if msgs := h.validateRequest(&req); msgs != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", msgs)
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/quotes/:id/status")
	defer cancel()

	result, err := h.quoteFlow.UpdateQuoteStatus(ctx, &req, h.clientMetadata(c))
	if err != nil {
		return h.handleFlowError(c, err, "Failed to update quote status", "QUOTE_STATUS_UPDATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// GetQuoteHistory returns the status history of a quote, most recent first
// @Summary Get Quote History
// @Tags Quotes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quote UUID"
// @Success 200 {object} dto.APIResponse{data=dto.StatusHistoryResponse}
// @Failure 400 {object} dto.APIResponse "Malformed UUID"
// @Failure 404 {object} dto.APIResponse "Quote not found"
// @Router /api/v1/quotes/{id}/history [get]
func (h *QuoteHandler) GetQuoteHistory(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/v1/quotes/:id/history")
	defer cancel()

	result, err := h.quoteFlow.GetQuoteHistory(ctx, c.Params("id"))
	if err != nil {
		return h.handleFlowError(c, err, "Failed to load quote history", "QUOTE_HISTORY_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Quote history retrieved successfully", result)
}
