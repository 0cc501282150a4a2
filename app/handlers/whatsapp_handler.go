package handlers

import (
	"github.com/amirphl/jetcharter/app/dto"
	"github.com/amirphl/jetcharter/app/logger"
	businessflow "github.com/amirphl/jetcharter/business_flow"
	"github.com/gofiber/fiber/v3"
)

// WhatsAppHandler builds tracked WhatsApp deep links
type WhatsAppHandler struct {
	baseHandler
	whatsAppFlow businessflow.WhatsAppFlow
}

func NewWhatsAppHandler(whatsAppFlow businessflow.WhatsAppFlow, log *logger.Logger) *WhatsAppHandler {
	return &WhatsAppHandler{
		baseHandler:  newBaseHandler(log),
		whatsAppFlow: whatsAppFlow,
	}
}

// GenerateLink records a click and returns a prefilled wa.me link
// @Summary Generate WhatsApp Link
// @Tags WhatsApp
// @Accept json
// @Produce json
// @Param request body dto.GenerateWhatsAppLinkRequest true "Link type, locale and form fields"
// @Success 200 {object} dto.APIResponse{data=dto.GenerateWhatsAppLinkResponse}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 429 {object} dto.APIResponse "Too many links from this address"
// @Router /api/v1/whatsapp/link [post]
func (h *WhatsAppHandler) GenerateLink(c fiber.Ctx) error {
	var req dto.GenerateWhatsAppLinkRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if msgs := h.validateRequest(&req); msgs != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", msgs)
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/whatsapp/link")
	defer cancel()

	result, err := h.whatsAppFlow.GenerateLink(ctx, &req, h.clientMetadata(c))
	if err != nil {
		return h.handleFlowError(c, err, "Failed to generate WhatsApp link", "WHATSAPP_LINK_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "WhatsApp link generated", result)
}
