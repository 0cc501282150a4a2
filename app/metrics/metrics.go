// Package metrics holds the domain counters exported on /metrics
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jetcharter",
			Name:      "status_transitions_total",
			Help:      "Recorded status transitions by entity type",
		},
		[]string{"entity", "from", "to"},
	)

	WebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jetcharter",
			Name:      "webhook_events_total",
			Help:      "Inbound email provider webhook events by type and outcome",
		},
		[]string{"event", "outcome"},
	)

	WhatsAppLinks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jetcharter",
			Name:      "whatsapp_links_total",
			Help:      "Generated WhatsApp deep links",
		},
		[]string{"type", "locale"},
	)

	ContentCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jetcharter",
			Name:      "content_cache_requests_total",
			Help:      "Content and FAQ cache lookups",
		},
		[]string{"kind", "result"},
	)

	RateLimitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jetcharter",
			Name:      "rate_limit_rejections_total",
			Help:      "Requests rejected by a rate limiter",
		},
		[]string{"scope"},
	)

	RateLimitBypasses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jetcharter",
			Name:      "rate_limit_bypasses_total",
			Help:      "Requests admitted without a check because the limiter backend failed",
		},
		[]string{"scope"},
	)

	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jetcharter",
			Name:      "emails_sent_total",
			Help:      "Outbound transactional emails by template and result",
		},
		[]string{"template", "result"},
	)
)
