package businessflow

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/amirphl/jetcharter/app/dto"
	"github.com/amirphl/jetcharter/app/logger"
	"github.com/amirphl/jetcharter/app/metrics"
	"github.com/amirphl/jetcharter/app/services"
	testingutil "github.com/amirphl/jetcharter/testing"
	"github.com/amirphl/jetcharter/utils"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLimiter struct {
	decision services.RateLimitDecision
	err      error
}

func (s stubLimiter) Allow(ctx context.Context, key string) (services.RateLimitDecision, error) {
	return s.decision, s.err
}

func TestWhatsAppFlow_GenerateLink(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		env := newTestEnv(t, testDB)
		ctx := testingutil.CreateTestContext()
		builder := services.NewWhatsAppMessageBuilder("+1 (305) 555-0100")

		flow := NewWhatsAppFlow(builder, services.NewMemoryRateLimiter(2, time.Minute), env.clickRepo, logger.NewNop())

		t.Run("quote link carries the trip and stores attribution", func(t *testing.T) {
			resp, err := flow.GenerateLink(ctx, &dto.GenerateWhatsAppLinkRequest{
				Type:          "quote",
				Locale:        "es",
				Origin:        "Madrid",
				Destination:   "Ibiza",
				DepartureDate: "2026-07-01",
				Passengers:    4,
				ServiceType:   "light_jet",
				Name:          "Lucia",
				UTMSource:     utils.ToPtr("google"),
			}, testMetadata())
			require.NoError(t, err)

			assert.Equal(t, "es", resp.Locale)
			assert.True(t, strings.HasPrefix(resp.ClickID, utils.WhatsAppClickIDPrefix))
			assert.True(t, strings.HasPrefix(resp.WhatsAppURL, "https://wa.me/13055550100?text="))

			parsed, err := url.Parse(resp.WhatsAppURL)
			require.NoError(t, err)
			text := parsed.Query().Get("text")
			assert.Contains(t, text, "Madrid → Ibiza")
			assert.Contains(t, text, "Lucia")

			click, err := env.clickRepo.ByClickID(ctx, resp.ClickID)
			require.NoError(t, err)
			require.NotNil(t, click)
			assert.Equal(t, "quote", click.LinkType)
			require.NotNil(t, click.UTMSource)
			assert.Equal(t, "google", *click.UTMSource)
			require.NotNil(t, click.IPAddress)
			assert.Equal(t, "203.0.113.7", *click.IPAddress)
		})

		t.Run("unsupported locale falls back to english", func(t *testing.T) {
			resp, err := flow.GenerateLink(ctx, &dto.GenerateWhatsAppLinkRequest{Type: "general", Locale: "de"}, NewClientMetadata("198.51.100.1", ""))
			require.NoError(t, err)
			assert.Equal(t, "en", resp.Locale)
		})

		t.Run("third request in the window is limited", func(t *testing.T) {
			meta := NewClientMetadata("198.51.100.2", "")
			for range 2 {
				_, err := flow.GenerateLink(ctx, &dto.GenerateWhatsAppLinkRequest{Type: "general"}, meta)
				require.NoError(t, err)
			}

			_, err := flow.GenerateLink(ctx, &dto.GenerateWhatsAppLinkRequest{Type: "general"}, meta)
			require.Error(t, err)
			assert.True(t, IsRateLimited(err))

			limited, ok := AsRateLimitExceeded(err)
			require.True(t, ok)
			assert.GreaterOrEqual(t, limited.RetryAfterSeconds(), 1)
		})

		t.Run("limiter outage admits the request", func(t *testing.T) {
			broken := NewWhatsAppFlow(builder, stubLimiter{err: errors.New("redis: connection refused")}, env.clickRepo, logger.NewNop())
			bypasses := metrics.RateLimitBypasses.WithLabelValues("whatsapp")
			before := promtestutil.ToFloat64(bypasses)

			for range 2 {
				resp, err := broken.GenerateLink(ctx, &dto.GenerateWhatsAppLinkRequest{Type: "general"}, testMetadata())
				require.NoError(t, err)
				assert.NotEmpty(t, resp.ClickID)
			}
			assert.Equal(t, before+2, promtestutil.ToFloat64(bypasses))
		})

		t.Run("denied decision carries retry after", func(t *testing.T) {
			denied := NewWhatsAppFlow(builder, stubLimiter{decision: services.RateLimitDecision{RetryAfter: 1500 * time.Millisecond}}, env.clickRepo, logger.NewNop())
			_, err := denied.GenerateLink(ctx, &dto.GenerateWhatsAppLinkRequest{Type: "general"}, testMetadata())

			limited, ok := AsRateLimitExceeded(err)
			require.True(t, ok)
			assert.Equal(t, 2, limited.RetryAfterSeconds())
		})

		t.Run("unknown type is a validation error", func(t *testing.T) {
			_, err := flow.GenerateLink(ctx, &dto.GenerateWhatsAppLinkRequest{Type: "newsletter"}, NewClientMetadata("198.51.100.3", ""))
			assert.True(t, IsValidation(err))
		})

		return nil
	})
	require.NoError(t, err)
}
