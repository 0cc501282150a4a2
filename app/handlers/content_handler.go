package handlers

import (
	"fmt"

	"github.com/amirphl/jetcharter/app/dto"
	"github.com/amirphl/jetcharter/app/logger"
	businessflow "github.com/amirphl/jetcharter/business_flow"
	"github.com/amirphl/jetcharter/utils"
	"github.com/gofiber/fiber/v3"
)

// ContentHandler serves cached localized page content and FAQs
type ContentHandler struct {
	baseHandler
	contentFlow businessflow.ContentFlow
}

func NewContentHandler(contentFlow businessflow.ContentFlow, log *logger.Logger) *ContentHandler {
	return &ContentHandler{
		baseHandler: newBaseHandler(log),
		contentFlow: contentFlow,
	}
}

// GetPageContent returns the content blocks of a page in the requested locale
// @Summary Get Page Content
// @Tags Content
// @Produce json
// @Param page path string true "Page slug"
// @Param locale path string true "Locale"
// @Param key query string false "Single content key"
// @Success 200 {object} dto.APIResponse{data=dto.PageContentResponse}
// @Router /api/v1/content/{page}/{locale} [get]
func (h *ContentHandler) GetPageContent(c fiber.Ctx) error {
	req := dto.GetPageContentRequest{
		Page:   c.Params("page"),
		Locale: c.Params("locale"),
		Key:    queryString(c, "key"),
	}
	if msgs := h.validateRequest(&req); msgs != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", msgs)
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/content/:page/:locale")
	defer cancel()

	result, err := h.contentFlow.GetPageContent(ctx, &req)
	if err != nil {
		return h.handleFlowError(c, err, "Failed to load page content", "CONTENT_FETCH_FAILED")
	}

	setPublicCache(c)
	return h.SuccessResponse(c, fiber.StatusOK, "Content retrieved successfully", result)
}

// GetFAQs returns active FAQs for a locale
// @Summary Get FAQs
// @Tags Content
// @Produce json
// @Param locale path string true "Locale"
// @Param category query string false "Category filter"
// @Param search query string false "Search in questions and answers"
// @Param grouped query bool false "Group by category"
// @Param stats query bool false "Include counts per category"
// @Param limit query int false "Maximum number of entries"
// @Success 200 {object} dto.APIResponse{data=dto.FAQResponse}
// @Router /api/v1/faqs/{locale} [get]
func (h *ContentHandler) GetFAQs(c fiber.Ctx) error {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), "INVALID_QUERY", nil)
	}

	req := dto.GetFAQsRequest{
		Locale:   c.Params("locale"),
		Category: queryString(c, "category"),
		Search:   queryString(c, "search"),
		Grouped:  queryBool(c, "grouped"),
		Stats:    queryBool(c, "stats"),
		Limit:    limit,
	}
	if msgs := h.validateRequest(&req); msgs != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", msgs)
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/faqs/:locale")
	defer cancel()

	result, err := h.contentFlow.GetFAQs(ctx, &req)
	if err != nil {
		return h.handleFlowError(c, err, "Failed to load FAQs", "FAQ_FETCH_FAILED")
	}

	setPublicCache(c)
	return h.SuccessResponse(c, fiber.StatusOK, "FAQs retrieved successfully", result)
}

// CacheStats reports content cache counters for operators
// @Summary Content Cache Stats
// @Tags Content
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse
// @Router /api/v1/admin/content/cache [get]
func (h *ContentHandler) CacheStats(c fiber.Ctx) error {
	return h.SuccessResponse(c, fiber.StatusOK, "Cache stats retrieved successfully", h.contentFlow.CacheStats())
}

func setPublicCache(c fiber.Ctx) {
	c.Set(fiber.HeaderCacheControl, fmt.Sprintf("public, max-age=%d", utils.ContentCacheMaxAgeSeconds))
}
