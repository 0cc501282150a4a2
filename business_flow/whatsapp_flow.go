package businessflow

import (
	"context"
	"strings"
	"time"

	"github.com/amirphl/jetcharter/app/dto"
	"github.com/amirphl/jetcharter/app/logger"
	"github.com/amirphl/jetcharter/app/metrics"
	"github.com/amirphl/jetcharter/app/services"
	"github.com/amirphl/jetcharter/models"
	"github.com/amirphl/jetcharter/repository"
	"github.com/amirphl/jetcharter/utils"
	"golang.org/x/time/rate"
)

// WhatsAppFlow generates attributed wa.me deep links
type WhatsAppFlow interface {
	GenerateLink(ctx context.Context, req *dto.GenerateWhatsAppLinkRequest, metadata *ClientMetadata) (*dto.GenerateWhatsAppLinkResponse, error)
}

// WhatsAppFlowImpl implements WhatsAppFlow
type WhatsAppFlowImpl struct {
	builder   *services.WhatsAppMessageBuilder
	limiter   services.RateLimiter
	clickRepo repository.WhatsAppClickRepository
	log       *logger.Logger

	// at most one outage warning per minute while the limiter backend is down
	outageLog *rate.Sometimes
}

func NewWhatsAppFlow(
	builder *services.WhatsAppMessageBuilder,
	limiter services.RateLimiter,
	clickRepo repository.WhatsAppClickRepository,
	log *logger.Logger,
) WhatsAppFlow {
	return &WhatsAppFlowImpl{
		builder:   builder,
		limiter:   limiter,
		clickRepo: clickRepo,
		log:       log,
		outageLog: &rate.Sometimes{First: 1, Interval: time.Minute},
	}
}

func (f *WhatsAppFlowImpl) GenerateLink(ctx context.Context, req *dto.GenerateWhatsAppLinkRequest, metadata *ClientMetadata) (*dto.GenerateWhatsAppLinkResponse, error) {
	if err := f.checkRateLimit(ctx, metadata); err != nil {
		return nil, err
	}

	locale := services.ResolveWhatsAppLocale(req.Locale)
	message, err := f.builder.BuildMessage(services.WhatsAppMessageInput{
		Type:               req.Type,
		Locale:             locale,
		Origin:             strings.TrimSpace(req.Origin),
		Destination:        strings.TrimSpace(req.Destination),
		DepartureDate:      req.DepartureDate,
		ReturnDate:         req.ReturnDate,
		Passengers:         req.Passengers,
		ServiceType:        req.ServiceType,
		AdditionalServices: req.AdditionalServices,
		Name:               strings.TrimSpace(req.Name),
		Email:              strings.TrimSpace(req.Email),
		Phone:              strings.TrimSpace(req.Phone),
		Subject:            strings.TrimSpace(req.Subject),
		Message:            strings.TrimSpace(req.Message),
	})
	if err != nil {
		return nil, NewBusinessError("INVALID_LINK_TYPE", err.Error(), ErrValidation)
	}

	click := &models.WhatsAppClick{
		ClickID:     utils.GenerateULIDWithPrefix(utils.WhatsAppClickIDPrefix),
		LinkType:    req.Type,
		Locale:      locale,
		SessionID:   req.SessionID,
		UTMSource:   req.UTMSource,
		UTMMedium:   req.UTMMedium,
		UTMCampaign: req.UTMCampaign,
		UTMTerm:     req.UTMTerm,
		UTMContent:  req.UTMContent,
		PageURL:     req.PageURL,
		Referrer:    req.Referrer,
	}
	if metadata != nil {
		if metadata.IPAddress != "" {
			click.IPAddress = utils.ToPtr(metadata.IPAddress)
		}
		if metadata.UserAgent != "" {
			click.UserAgent = utils.ToPtr(metadata.UserAgent)
		}
	}

	// attribution is required: no row, no link
	if err := f.clickRepo.Save(ctx, click); err != nil {
		f.log.Errorw("whatsapp click not stored", "type", req.Type, "error", err)
		return nil, NewBusinessError("CLICK_PERSIST_FAILED", "Failed to record link attribution", err)
	}

	metrics.WhatsAppLinks.WithLabelValues(req.Type, locale).Inc()

	return &dto.GenerateWhatsAppLinkResponse{
		ClickID:     click.ClickID,
		WhatsAppURL: f.builder.BuildURL(message),
		Locale:      locale,
	}, nil
}

// checkRateLimit admits the request when the limiter backend is unavailable
func (f *WhatsAppFlowImpl) checkRateLimit(ctx context.Context, metadata *ClientMetadata) error {
	key := "unknown"
	if metadata != nil && metadata.IPAddress != "" {
		key = metadata.IPAddress
	}

	decision, err := f.limiter.Allow(ctx, "whatsapp:"+key)
	if err != nil {
		metrics.RateLimitBypasses.WithLabelValues("whatsapp").Inc()
		f.outageLog.Do(func() {
			f.log.Warnw("whatsapp rate limiter unavailable, admitting requests", "ip", key, "error", err)
		})
		return nil
	}
	if decision.Allowed {
		return nil
	}

	metrics.RateLimitRejections.WithLabelValues("whatsapp").Inc()
	return &RateLimitExceededError{Scope: "whatsapp", RetryAfter: decision.RetryAfter}
}
