package businessflow

import (
	"context"
	"slices"
	"sort"
	"strings"

	"github.com/amirphl/jetcharter/app/dto"
	"github.com/amirphl/jetcharter/app/metrics"
	"github.com/amirphl/jetcharter/app/services"
	"github.com/amirphl/jetcharter/config"
	"github.com/amirphl/jetcharter/models"
	"github.com/amirphl/jetcharter/repository"
	"github.com/samber/lo"
)

// ContentFlow serves localized page content and FAQs through the content cache
type ContentFlow interface {
	GetPageContent(ctx context.Context, req *dto.GetPageContentRequest) (*dto.PageContentResponse, error)
	GetFAQs(ctx context.Context, req *dto.GetFAQsRequest) (*dto.FAQResponse, error)
	CacheStats() services.ContentCacheStats
}

// ContentFlowImpl implements ContentFlow
type ContentFlowImpl struct {
	pageRepo repository.PageContentRepository
	faqRepo  repository.FAQRepository
	cache    *services.ContentCache
	cfg      config.ContentConfig
}

func NewContentFlow(
	pageRepo repository.PageContentRepository,
	faqRepo repository.FAQRepository,
	cache *services.ContentCache,
	cfg config.ContentConfig,
) ContentFlow {
	return &ContentFlowImpl{
		pageRepo: pageRepo,
		faqRepo:  faqRepo,
		cache:    cache,
		cfg:      cfg,
	}
}

// cached values are shared between requests and never mutated after Set
type pageContentEntry struct {
	locale   string
	fallback bool
	items    []dto.ContentItem
}

type faqEntry struct {
	locale   string
	fallback bool
	faqs     []dto.FAQItem
}

func (f *ContentFlowImpl) GetPageContent(ctx context.Context, req *dto.GetPageContentRequest) (*dto.PageContentResponse, error) {
	page := strings.ToLower(strings.TrimSpace(req.Page))
	requested := strings.ToLower(strings.TrimSpace(req.Locale))
	key := services.PageCacheKey(page, requested, req.Key)

	entry, ok := f.cachedPage(key)
	if !ok {
		var err error
		entry, err = f.loadPage(ctx, page, requested, req.Key)
		if err != nil {
			return nil, err
		}
		f.cache.Set(key, entry)
	}

	items := slices.Clone(entry.items)
	content := make(map[string]string, len(items))
	for _, item := range items {
		content[item.Key] = item.Value
	}

	return &dto.PageContentResponse{
		Page:            page,
		Locale:          entry.locale,
		RequestedLocale: requested,
		FallbackUsed:    entry.fallback,
		Items:           items,
		Content:         content,
	}, nil
}

func (f *ContentFlowImpl) cachedPage(key string) (*pageContentEntry, bool) {
	if v, ok := f.cache.Get(key); ok {
		if entry, ok := v.(*pageContentEntry); ok {
			metrics.ContentCacheRequests.WithLabelValues("page", "hit").Inc()
			return entry, true
		}
	}
	metrics.ContentCacheRequests.WithLabelValues("page", "miss").Inc()
	return nil, false
}

func (f *ContentFlowImpl) loadPage(ctx context.Context, page, requested string, key *string) (*pageContentEntry, error) {
	if f.isSupported(requested) {
		rows, err := f.pageRepo.ListByPage(ctx, page, requested, key)
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			return &pageContentEntry{locale: requested, items: toContentItems(rows)}, nil
		}
		if requested == f.defaultLocale() {
			return &pageContentEntry{locale: requested, items: []dto.ContentItem{}}, nil
		}
	}

	rows, err := f.pageRepo.ListByPage(ctx, page, f.defaultLocale(), key)
	if err != nil {
		return nil, err
	}
	return &pageContentEntry{locale: f.defaultLocale(), fallback: true, items: toContentItems(rows)}, nil
}

func (f *ContentFlowImpl) GetFAQs(ctx context.Context, req *dto.GetFAQsRequest) (*dto.FAQResponse, error) {
	requested := strings.ToLower(strings.TrimSpace(req.Locale))
	category := normalizeOptional(req.Category)
	search := normalizeOptional(req.Search)
	key := services.FAQCacheKey(requested, category, search, req.Limit)

	entry, ok := f.cachedFAQs(key)
	if !ok {
		var err error
		entry, err = f.loadFAQs(ctx, requested, category, search, req.Limit)
		if err != nil {
			return nil, err
		}
		f.cache.Set(key, entry)
	}

	faqs := slices.Clone(entry.faqs)
	resp := &dto.FAQResponse{
		Locale:          entry.locale,
		RequestedLocale: requested,
		FallbackUsed:    entry.fallback,
		FAQs:            faqs,
	}

	if req.Grouped {
		resp.Groups = lo.GroupBy(faqs, func(item dto.FAQItem) string { return item.Category })
	}
	if req.Stats {
		resp.Stats = faqStats(faqs)
	}
	return resp, nil
}

func (f *ContentFlowImpl) cachedFAQs(key string) (*faqEntry, bool) {
	if v, ok := f.cache.Get(key); ok {
		if entry, ok := v.(*faqEntry); ok {
			metrics.ContentCacheRequests.WithLabelValues("faq", "hit").Inc()
			return entry, true
		}
	}
	metrics.ContentCacheRequests.WithLabelValues("faq", "miss").Inc()
	return nil, false
}

func (f *ContentFlowImpl) loadFAQs(ctx context.Context, requested string, category, search *string, limit int) (*faqEntry, error) {
	filter := models.FAQFilter{Category: category, Search: search}

	if f.isSupported(requested) {
		filter.Locale = &requested
		rows, err := f.faqRepo.ListActive(ctx, filter, limit)
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			return &faqEntry{locale: requested, faqs: toFAQItems(rows)}, nil
		}
		if requested == f.defaultLocale() {
			return &faqEntry{locale: requested, faqs: []dto.FAQItem{}}, nil
		}
	}

	fallback := f.defaultLocale()
	filter.Locale = &fallback
	rows, err := f.faqRepo.ListActive(ctx, filter, limit)
	if err != nil {
		return nil, err
	}
	return &faqEntry{locale: fallback, fallback: true, faqs: toFAQItems(rows)}, nil
}

func (f *ContentFlowImpl) CacheStats() services.ContentCacheStats {
	return f.cache.Stats()
}

func (f *ContentFlowImpl) isSupported(locale string) bool {
	if locale == "" {
		return false
	}
	if len(f.cfg.SupportedLocales) == 0 {
		return true
	}
	return slices.Contains(f.cfg.SupportedLocales, locale)
}

func (f *ContentFlowImpl) defaultLocale() string {
	if f.cfg.DefaultLocale == "" {
		return "en"
	}
	return f.cfg.DefaultLocale
}

func faqStats(faqs []dto.FAQItem) *dto.FAQStats {
	byCategory := lo.CountValuesBy(faqs, func(item dto.FAQItem) string { return item.Category })
	categories := lo.Keys(byCategory)
	sort.Strings(categories)
	return &dto.FAQStats{
		Total:      len(faqs),
		Categories: categories,
		ByCategory: byCategory,
	}
}

func toContentItems(rows []*models.PageContent) []dto.ContentItem {
	return lo.Map(rows, func(r *models.PageContent, _ int) dto.ContentItem {
		return dto.ContentItem{Key: r.Key, Value: r.Value, SortOrder: r.SortOrder}
	})
}

func toFAQItems(rows []*models.FAQ) []dto.FAQItem {
	return lo.Map(rows, func(r *models.FAQ, _ int) dto.FAQItem {
		return dto.FAQItem{
			ID:        r.ID,
			Category:  r.Category,
			Question:  r.Question,
			Answer:    r.Answer,
			SortOrder: r.SortOrder,
		}
	})
}

func normalizeOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
