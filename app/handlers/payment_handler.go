package handlers

import (
	"github.com/amirphl/jetcharter/app/dto"
	"github.com/amirphl/jetcharter/app/logger"
	businessflow "github.com/amirphl/jetcharter/business_flow"
	"github.com/gofiber/fiber/v3"
)

// PaymentHandlerInterface defines the contract for payment handlers
type PaymentHandlerInterface interface {
	CreatePayment(c fiber.Ctx) error
	UpdatePaymentStatus(c fiber.Ctx) error
	RefundPayment(c fiber.Ctx) error
	GetPaymentHistory(c fiber.Ctx) error
}

// PaymentHandler handles admin payment endpoints
type PaymentHandler struct {
	baseHandler
	paymentFlow businessflow.PaymentFlow
}

func NewPaymentHandler(paymentFlow businessflow.PaymentFlow, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		baseHandler: newBaseHandler(log),
		paymentFlow: paymentFlow,
	}
}

// CreatePayment records a payment against a confirmed quote
// @Summary Create Payment
// @Tags Payments
// @Accept json
// @Produce json
// @Param id path string true "Quote UUID"
// @Param request body dto.CreatePaymentRequest true "Amount, currency and method"
// @Success 201 {object} dto.APIResponse{data=dto.PaymentResponse}
// @Failure 400 {object} dto.APIResponse "Validation error or quote not payable"
// @Failure 401 {object} dto.APIResponse "Bad admin token"
// @Failure 404 {object} dto.APIResponse "Quote not found"
// @Router /api/v1/quotes/{id}/payments [post]
func (h *PaymentHandler) CreatePayment(c fiber.Ctx) error {
	var req dto.CreatePaymentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.QuoteID = c.Params("id")

	if msgs := h.validateRequest(&req); msgs != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", msgs)
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/quotes/:id/payments")
	defer cancel()

	result, err := h.paymentFlow.CreatePayment(ctx, &req, h.clientMetadata(c))
	if err != nil {
		return h.handleFlowError(c, err, "Failed to create payment", "PAYMENT_CREATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusCreated, result.Message, result)
}

// UpdatePaymentStatus moves a payment through processing to completed or failed
// @Summary Update Payment Status
// @Tags Payments
// @Accept json
// @Produce json
// @Param id path string true "Payment UUID"
// @Param request body dto.UpdatePaymentStatusRequest true "Requested status"
// @Success 200 {object} dto.APIResponse{data=dto.PaymentResponse}
// @Failure 400 {object} dto.APIResponse "Invalid transition"
// @Failure 401 {object} dto.APIResponse "Bad admin token"
// @Failure 404 {object} dto.APIResponse "Payment not found"
// @Router /api/v1/payments/{id}/status [patch]
func (h *PaymentHandler) UpdatePaymentStatus(c fiber.Ctx) error {
	var req dto.UpdatePaymentStatusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.PaymentID = c.Params("id")

	if msgs := h.validateRequest(&req); msgs != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", msgs)
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/payments/:id/status")
	defer cancel()

	result, err := h.paymentFlow.UpdatePaymentStatus(ctx, &req, h.clientMetadata(c))
	if err != nil {
		return h.handleFlowError(c, err, "Failed to update payment status", "PAYMENT_STATUS_UPDATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// RefundPayment refunds all or part of a completed payment
// @Summary Refund Payment
// @Tags Payments
// @Accept json
// @Produce json
// @Param id path string true "Payment UUID"
// @Param request body dto.RefundPaymentRequest true "Refund amount and reason"
// @Success 200 {object} dto.APIResponse{data=dto.PaymentResponse}
// @Failure 400 {object} dto.APIResponse "Refund not allowed or exceeds amount"
// @Failure 401 {object} dto.APIResponse "Bad admin token"
// @Failure 404 {object} dto.APIResponse "Payment not found"
// @Router /api/v1/payments/{id}/refund [post]
func (h *PaymentHandler) RefundPayment(c fiber.Ctx) error {
	var req dto.RefundPaymentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.PaymentID = c.Params("id")

	if msgs := h.validateRequest(&req); msgs != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", msgs)
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/payments/:id/refund")
	defer cancel()

	result, err := h.paymentFlow.RefundPayment(ctx, &req, h.clientMetadata(c))
	if err != nil {
		return h.handleFlowError(c, err, "Failed to refund payment", "PAYMENT_REFUND_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// GetPaymentHistory returns the status history of a payment
// @Summary Get Payment History
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment UUID"
// @Success 200 {object} dto.APIResponse{data=dto.StatusHistoryResponse}
// @Router /api/v1/payments/{id}/history [get]
func (h *PaymentHandler) GetPaymentHistory(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/v1/payments/:id/history")
	defer cancel()

	result, err := h.paymentFlow.GetPaymentHistory(ctx, c.Params("id"))
	if err != nil {
		return h.handleFlowError(c, err, "Failed to load payment history", "PAYMENT_HISTORY_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Payment history retrieved successfully", result)
}
