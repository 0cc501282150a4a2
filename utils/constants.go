package utils

import (
	"time"
)

// Request-scoped context keys
type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	UserAgentKey contextKey = "user_agent"
	IPAddressKey contextKey = "ip_address"
	EndpointKey  contextKey = "endpoint"
	TimeoutKey   contextKey = "timeout"
)

// Content cache constants
const (
	// ContentCacheTTL is how long a cached content or FAQ lookup stays fresh (1 hour)
	ContentCacheTTL = 1 * time.Hour

	// ContentCacheSoftLimit is the entry count above which expired entries are swept on write
	ContentCacheSoftLimit = 100

	// ContentCacheMaxAgeSeconds is advertised in Cache-Control for content responses
	ContentCacheMaxAgeSeconds = 3600
)

// WhatsApp link constants
const (
	// WhatsAppRateLimit is the number of links an IP may generate per window
	WhatsAppRateLimit = 20

	// WhatsAppRateWindow is the rate limit window for link generation
	WhatsAppRateWindow = 1 * time.Hour

	// WhatsAppClickIDPrefix prefixes every click attribution id
	WhatsAppClickIDPrefix = "wac"
)

const (
	// DefaultLocale is used when a requested locale has no content
	DefaultLocale = "en"

	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400

	// DefaultRequestTimeout bounds every request-scoped context
	DefaultRequestTimeout = 30 * time.Second
)
