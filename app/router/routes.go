// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/amirphl/jetcharter/app/dto"
	"github.com/amirphl/jetcharter/app/handlers"
	"github.com/amirphl/jetcharter/app/logger"
	"github.com/amirphl/jetcharter/app/middleware"
	"github.com/amirphl/jetcharter/config"
	"github.com/amirphl/jetcharter/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/etag"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const healthPath = "/api/v1/health"

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// Handlers bundles every handler the router mounts
type Handlers struct {
	Quote    handlers.QuoteHandlerInterface
	Contact  handlers.ContactHandlerInterface
	Payment  handlers.PaymentHandlerInterface
	Webhook  *handlers.WebhookHandler
	WhatsApp *handlers.WhatsAppHandler
	Content  *handlers.ContentHandler
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app       *fiber.App
	cfg       *config.ProductionConfig
	handlers  Handlers
	adminAuth *middleware.AdminAuthMiddleware
	log       *logger.Logger
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(cfg *config.ProductionConfig, h Handlers, adminAuth *middleware.AdminAuthMiddleware, log *logger.Logger) *FiberRouter {
	if log == nil {
		log = logger.NewNop()
	}

	r := &FiberRouter{
		cfg:       cfg,
		handlers:  h,
		adminAuth: adminAuth,
		log:       log,
	}

	r.app = fiber.New(fiber.Config{
		AppName:      "Jet Charter API",
		ServerHeader: "jetcharter",
		ErrorHandler: r.errorHandler,
		BodyLimit:    positiveOr(cfg.Server.BodyLimit, 1024*1024),
		ReadTimeout:  durationOr(cfg.Server.ReadTimeout, 10*time.Second),
		WriteTimeout: durationOr(cfg.Server.WriteTimeout, 10*time.Second),
		IdleTimeout:  durationOr(cfg.Server.IdleTimeout, 60*time.Second),
		ProxyHeader:  cfg.Server.ProxyHeader,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return r
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	r.setupMiddleware()

	if r.cfg.Metrics.Enabled {
		path := r.cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}

	api := r.app.Group("/api/v1")

	api.Get("/health", r.healthCheck)
	if r.cfg.Deployment.Environment == "development" || r.cfg.Deployment.Environment == "local" {
		api.Get("/docs", r.getAPIDocumentation)
	}

	admin := r.adminAuth.Authenticate()

	// Quote requests
	quotes := api.Group("/quotes")
	quotes.Post("/", r.handlers.Quote.CreateQuote)
	quotes.Get("/", admin, r.handlers.Quote.ListQuotes)
	quotes.Get("/:id", admin, r.handlers.Quote.GetQuote)
	quotes.Get("/:id/history", admin, r.handlers.Quote.GetQuoteHistory)
	quotes.Patch("/:id/status", r.handlers.Quote.UpdateQuoteStatus)
	quotes.Post("/:id/payments", r.handlers.Payment.CreatePayment)

	// Contact inquiries
	contacts := api.Group("/contacts")
	contacts.Post("/", r.handlers.Contact.CreateContact)
	contacts.Get("/", admin, r.handlers.Contact.ListContacts)
	contacts.Get("/:id/history", admin, r.handlers.Contact.GetContactHistory)
	contacts.Patch("/:id/status", r.handlers.Contact.UpdateContactStatus)

	// Payments
	payments := api.Group("/payments")
	payments.Patch("/:id/status", r.handlers.Payment.UpdatePaymentStatus)
	payments.Post("/:id/refund", r.handlers.Payment.RefundPayment)
	payments.Get("/:id/history", admin, r.handlers.Payment.GetPaymentHistory)

	// Provider callbacks
	api.Post("/webhooks/resend", r.handlers.Webhook.ResendWebhook)

	// WhatsApp deep links
	api.Post("/whatsapp/link", r.handlers.WhatsApp.GenerateLink)

	// Localized content
	api.Get("/content/:page/:locale", etag.New(), r.handlers.Content.GetPageContent)
	api.Get("/faqs/:locale", etag.New(), r.handlers.Content.GetFAQs)
	api.Get("/admin/content/cache", admin, r.handlers.Content.CacheStats)

	r.app.Use(r.notFoundHandler)

	r.log.Infow("routes configured", "metrics", r.cfg.Metrics.Enabled)
}

// setupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: fiber.HeaderXRequestID,
		Generator: func() string {
			return utils.GenerateULIDWithPrefix("req")
		},
	}))

	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e any) {
			r.log.Errorw("panic recovered",
				"request_id", requestid.FromContext(c),
				"error", fmt.Sprint(e),
				"path", c.Path(),
				"method", c.Method(),
				"ip", c.IP(),
			)
		},
	}))

	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "DENY",
		HSTSMaxAge:                31536000,
		ContentSecurityPolicy:     "default-src 'none'; frame-ancestors 'none';",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "cross-origin",
		OriginAgentCluster:        "?1",
		XDNSPrefetchControl:       "off",
		XDownloadOptions:          "noopen",
		XPermittedCrossDomain:     "none",
	}))

	origins := r.cfg.Security.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{
			fiber.MethodGet, fiber.MethodPost, fiber.MethodPatch, fiber.MethodHead, fiber.MethodOptions,
		},
		AllowHeaders: []string{
			fiber.HeaderOrigin,
			fiber.HeaderContentType,
			fiber.HeaderAccept,
			fiber.HeaderAuthorization,
			fiber.HeaderXRequestID,
			"X-Admin-Email",
			fiber.HeaderCacheControl,
		},
		ExposeHeaders: []string{
			fiber.HeaderXRequestID,
			fiber.HeaderRetryAfter,
			fiber.HeaderETag,
		},
		// wildcard origins cannot be combined with credentials
		AllowCredentials: !slices.Contains(origins, "*"),
		MaxAge:           utils.CORSMaxAge,
	}))

	r.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	r.app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     `{"time":"${time}","request_id":"${respHeader:X-Request-ID}","level":"info","method":"${method}","path":"${path}","ip":"${ip}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent}}` + "\n",
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Next: func(c fiber.Ctx) bool {
			return c.Path() == healthPath
		},
	}))

	r.app.Use(middleware.Metrics())

	maxRequests := positiveOr(r.cfg.Security.GlobalRateLimit, 300)
	r.app.Use(limiter.New(limiter.Config{
		Max:        maxRequests,
		Expiration: durationOr(r.cfg.Security.RateLimitWindow, time.Minute),
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
		Next: func(c fiber.Ctx) bool {
			// provider retries must never be throttled away
			return c.Path() == healthPath || strings.HasPrefix(c.Path(), "/api/v1/webhooks/")
		},
	}))
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	r.log.Infow("starting server", "address", address)
	return r.app.Listen(address, fiber.ListenConfig{DisableStartupMessage: true})
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	version := r.cfg.Deployment.Version
	if version == "" {
		version = "dev"
	}
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: fiber.Map{
			"status":    "ok",
			"timestamp": utils.UTCNow().Unix(),
			"version":   version,
			"service":   "jetcharter-api",
		},
	})
}

func (r *FiberRouter) getAPIDocumentation(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "API documentation retrieved successfully",
		Data: fiber.Map{
			"title":       "Jet Charter API Documentation",
			"version":     "1.0.0",
			"description": "Quote intake, status tracking, payments, email webhooks, WhatsApp links and localized content",
			"endpoints":   GetRouteDocumentation(),
		},
	})
}

func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestid.FromContext(c),
			},
		},
	})
}

// errorHandler renders errors that escaped the handlers, mostly *fiber.Error from middleware
func (r *FiberRouter) errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "An internal server error occurred"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		if code < fiber.StatusInternalServerError {
			message = fe.Message
		}
	}

	if code >= fiber.StatusInternalServerError {
		r.log.Errorw("request failed", "status", code, "path", c.Path(), "request_id", requestid.FromContext(c), "error", err)
	}

	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code: errorCodeForStatus(code),
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": requestid.FromContext(c),
			},
		},
	})
}

func errorCodeForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case fiber.StatusTooManyRequests:
		return "RATE_LIMIT_EXCEEDED"
	}
	return "INTERNAL_ERROR"
}

func positiveOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func durationOr(v, def time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return def
}

// GetRouteDocumentation returns API documentation
func GetRouteDocumentation() []map[string]any {
	return []map[string]any{
		{
			"method":      "POST",
			"path":        "/api/v1/quotes",
			"description": "Submit a charter quote request",
			"parameters": map[string]any{
				"tripType":      "string (required) - one_way|round_trip|multi_leg",
				"origin":        "string (required) - Departure airport or city",
				"destination":   "string (required) - Arrival airport or city",
				"departureDate": "string (required) - YYYY-MM-DD, not in the past",
				"returnDate":    "string (optional) - Required for round trips",
				"passengers":    "number (required) - 1..100",
				"firstName":     "string (required)",
				"lastName":      "string (required)",
				"email":         "string (required)",
			},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/quotes/:id",
			"description": "Quote with history, payments and email deliveries (Bearer admin token)",
			"parameters":  map[string]any{},
		},
		{
			"method":      "PATCH",
			"path":        "/api/v1/quotes/:id/status",
			"description": "Move a quote to a new status",
			"parameters": map[string]any{
				"adminEmail": "string (required)",
				"adminToken": "string (required)",
				"status":     "string (required) - Must be an allowed next status",
				"adminNote":  "string (optional)",
			},
		},
		{
			"method":      "POST",
			"path":        "/api/v1/contacts",
			"description": "Submit a general inquiry",
			"parameters": map[string]any{
				"name":    "string (required)",
				"email":   "string (required)",
				"subject": "string (required)",
				"message": "string (required)",
			},
		},
		{
			"method":      "POST",
			"path":        "/api/v1/quotes/:id/payments",
			"description": "Record a payment for a confirmed quote",
			"parameters": map[string]any{
				"amount":   "decimal (required) - Greater than zero",
				"currency": "string (required) - ISO 4217 code",
				"method":   "string (required) - wire_transfer|card|crypto",
			},
		},
		{
			"method":      "POST",
			"path":        "/api/v1/payments/:id/refund",
			"description": "Refund all or part of a completed payment",
			"parameters": map[string]any{
				"amount": "decimal (required) - At most the refundable amount",
				"reason": "string (required)",
			},
		},
		{
			"method":      "POST",
			"path":        "/api/v1/webhooks/resend",
			"description": "Resend email event callback, signed with svix headers",
			"parameters":  map[string]any{},
		},
		{
			"method":      "POST",
			"path":        "/api/v1/whatsapp/link",
			"description": "Generate a tracked WhatsApp deep link",
			"parameters": map[string]any{
				"type":   "string (required) - general|quote|contact",
				"locale": "string (optional) - Falls back to en",
			},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/content/:page/:locale",
			"description": "Localized page content, cached",
			"parameters": map[string]any{
				"key": "string (optional) - Single content key",
			},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/faqs/:locale",
			"description": "Localized FAQs, cached",
			"parameters": map[string]any{
				"category": "string (optional)",
				"search":   "string (optional)",
				"grouped":  "bool (optional)",
				"stats":    "bool (optional)",
				"limit":    "number (optional)",
			},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/health",
			"description": "Health check endpoint",
			"parameters":  map[string]any{},
		},
	}
}
