// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/amirphl/jetcharter/app/dto"
	"github.com/amirphl/jetcharter/app/logger"
	businessflow "github.com/amirphl/jetcharter/business_flow"
	"github.com/amirphl/jetcharter/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
)

// baseHandler carries what every handler needs: validation, responses and error mapping
type baseHandler struct {
	validator *validator.Validate
	log       *logger.Logger
}

func newBaseHandler(log *logger.Logger) baseHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return baseHandler{
		validator: validator.New(),
		log:       log,
	}
}

func (h *baseHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *baseHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// validateRequest returns one message per failed field, or nil
func (h *baseHandler) validateRequest(req any) []string {
	err := h.validator.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		messages = append(messages, getValidationErrorMessage(fe))
	}
	return messages
}

// handleFlowError maps business errors to HTTP responses. Anything unrecognized is a 500.
func (h *baseHandler) handleFlowError(c fiber.Ctx, err error, fallbackMessage, fallbackCode string) error {
	if transitionErr, ok := businessflow.AsInvalidTransition(err); ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid status transition", "INVALID_STATUS_TRANSITION", fiber.Map{
			"from":    transitionErr.From,
			"to":      transitionErr.To,
			"allowed": transitionErr.Allowed,
		})
	}

	if rateErr, ok := businessflow.AsRateLimitExceeded(err); ok {
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(rateErr.RetryAfterSeconds()))
		return h.ErrorResponse(c, fiber.StatusTooManyRequests, "Too many requests. Please try again later.", "RATE_LIMIT_EXCEEDED", fiber.Map{
			"retryAfter": rateErr.RetryAfterSeconds(),
		})
	}

	code, message := businessErrorParts(err)

	switch {
	case businessflow.IsValidation(err),
		businessflow.IsInvalidUUID(err),
		businessflow.IsUnknownStatus(err),
		businessflow.IsInvalidAmount(err),
		businessflow.IsRefundNotAllowed(err),
		businessflow.IsRefundExceedsAmount(err),
		businessflow.IsMalformedWebhook(err),
		businessflow.IsUnsupportedLocale(err):
		return h.ErrorResponse(c, fiber.StatusBadRequest, message, code, nil)
	case businessflow.IsAdminUnauthorized(err), businessflow.IsInvalidWebhookSignature(err):
		return h.ErrorResponse(c, fiber.StatusUnauthorized, message, code, nil)
	case businessflow.IsAdminForbidden(err):
		return h.ErrorResponse(c, fiber.StatusForbidden, message, code, nil)
	case businessflow.IsQuoteNotFound(err), businessflow.IsContactNotFound(err), businessflow.IsPaymentNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, message, code, nil)
	case businessflow.IsWebhookNotConfigured(err):
		h.log.Errorw("webhook rejected: no signing secret configured", "request_id", requestID(c))
		return h.ErrorResponse(c, fiber.StatusInternalServerError, message, code, nil)
	}

	h.log.Errorw(fallbackMessage,
		"request_id", requestID(c),
		"path", c.Path(),
		"error", err,
	)
	return h.ErrorResponse(c, fiber.StatusInternalServerError, fallbackMessage, fallbackCode, nil)
}

func businessErrorParts(err error) (string, string) {
	var be *businessflow.BusinessError
	if errors.As(err, &be) {
		return be.Code, be.Message
	}
	return "VALIDATION_ERROR", err.Error()
}

// createRequestContext creates a context with request-scoped values for observability and timeout
func (h *baseHandler) createRequestContext(c fiber.Ctx, endpoint string) (context.Context, context.CancelFunc) {
	return h.createRequestContextWithTimeout(c, endpoint, utils.DefaultRequestTimeout)
}

// createRequestContextWithTimeout creates a context with custom timeout and request-scoped values
func (h *baseHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	ctx = context.WithValue(ctx, utils.RequestIDKey, requestID(c))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get(fiber.HeaderUserAgent))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)

	return ctx, cancel
}

// clientMetadata collects the caller's IP, user agent and request id for audit logging
func (h *baseHandler) clientMetadata(c fiber.Ctx) *businessflow.ClientMetadata {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get(fiber.HeaderUserAgent))
	metadata.SetRequestID(requestID(c))
	return metadata
}

func requestID(c fiber.Ctx) string {
	if id := requestid.FromContext(c); id != "" {
		return id
	}
	return c.Get(fiber.HeaderXRequestID)
}

// queryInt parses an integer query parameter, returning def when absent
func queryInt(c fiber.Ctx, key string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return v, nil
}

// queryBool accepts 1/true/yes, case-insensitively
func queryBool(c fiber.Ctx, key string) bool {
	switch strings.ToLower(strings.TrimSpace(c.Query(key))) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// queryString returns nil for an absent or blank parameter
func queryString(c fiber.Ctx, key string) *string {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	return &raw
}

func getValidationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "required_if", "required_unless":
		return err.Field() + " is required for this link type"
	case "email":
		return "Invalid email format"
	case "min":
		return err.Field() + " must be at least " + err.Param()
	case "max":
		return err.Field() + " must be at most " + err.Param()
	case "len":
		return err.Field() + " must be exactly " + err.Param() + " characters"
	case "oneof":
		return err.Field() + " must be one of: " + err.Param()
	case "alpha":
		return err.Field() + " must contain only letters"
	case "datetime":
		return err.Field() + " must be a date in YYYY-MM-DD format"
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", err.Field(), err.Param())
	default:
		return err.Field() + " is invalid"
	}
}
