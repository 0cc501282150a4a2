package handlers

import (
	"bytes"
	"net/http"

	"github.com/amirphl/jetcharter/app/logger"
	businessflow "github.com/amirphl/jetcharter/business_flow"
	"github.com/gofiber/fiber/v3"
)

// WebhookHandler receives email provider callbacks
type WebhookHandler struct {
	baseHandler
	resendFlow businessflow.ResendWebhookFlow
}

func NewWebhookHandler(resendFlow businessflow.ResendWebhookFlow, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		baseHandler: newBaseHandler(log),
		resendFlow:  resendFlow,
	}
}

// ResendWebhook verifies and applies a Resend email event
// @Summary Resend Webhook
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param svix-id header string true "Message id"
// @Param svix-timestamp header string true "Unix timestamp"
// @Param svix-signature header string true "Signature list"
// @Success 200 {object} dto.APIResponse{data=dto.WebhookAckResponse}
// @Failure 400 {object} dto.APIResponse "Malformed payload"
// @Failure 401 {object} dto.APIResponse "Invalid signature"
// @Failure 500 {object} dto.APIResponse "Secret not configured"
// @Router /api/v1/webhooks/resend [post]
func (h *WebhookHandler) ResendWebhook(c fiber.Ctx) error {
	// fasthttp reuses the body buffer after the handler returns
	raw := bytes.Clone(c.Body())

	ctx, cancel := h.createRequestContext(c, "/api/v1/webhooks/resend")
	defer cancel()

	result, err := h.resendFlow.IngestResendWebhook(ctx, raw, requestHeaders(c), h.clientMetadata(c))
	if err != nil {
		return h.handleFlowError(c, err, "Failed to process webhook", "WEBHOOK_PROCESSING_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Webhook received", result)
}

func requestHeaders(c fiber.Ctx) http.Header {
	headers := make(http.Header)
	for key, values := range c.GetReqHeaders() {
		canonical := http.CanonicalHeaderKey(key)
		for _, v := range values {
			headers.Add(canonical, v)
		}
	}
	return headers
}
