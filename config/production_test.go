package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(t *testing.T) *ProductionConfig {
	t.Helper()

	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("ADMIN_JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("RESEND_API_KEY", "re_test")
	t.Setenv("RESEND_WEBHOOK_SECRET", "whsec_test")
	t.Setenv("WHATSAPP_PHONE_NUMBER", "+13055550100")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	return cfg
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := validConfig(t)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, time.Hour, cfg.Cache.ContentTTL)
	assert.Equal(t, 20, cfg.WhatsApp.RateLimit)
	assert.Equal(t, time.Hour, cfg.WhatsApp.RateWindow)
	assert.Equal(t, "memory", cfg.WhatsApp.LimiterBackend)
	assert.Equal(t, []string{"en", "es", "fr"}, cfg.Content.SupportedLocales)
	assert.Empty(t, cfg.Admin.AllowedEmails)
	assert.NoError(t, ValidateProductionConfig(cfg))
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("WHATSAPP_RATE_WINDOW", "15m")
	t.Setenv("ADMIN_ALLOWED_EMAILS", " ops@jetcharter.example, ,desk@jetcharter.example ")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("GLOBAL_RATE_LIMIT", "not-a-number")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 15*time.Minute, cfg.WhatsApp.RateWindow)
	assert.Equal(t, []string{"ops@jetcharter.example", "desk@jetcharter.example"}, cfg.Admin.AllowedEmails)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, 600, cfg.Security.GlobalRateLimit)
}

func TestValidateProductionConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *ProductionConfig)
		wantErr string
	}{
		{
			name:    "short admin secret",
			mutate:  func(cfg *ProductionConfig) { cfg.Admin.JWTSecret = "short" },
			wantErr: "ADMIN_JWT_SECRET",
		},
		{
			name:    "missing webhook secret",
			mutate:  func(cfg *ProductionConfig) { cfg.Webhook.ResendSecret = "" },
			wantErr: "RESEND_WEBHOOK_SECRET",
		},
		{
			name: "explicitly insecure webhook",
			mutate: func(cfg *ProductionConfig) {
				cfg.Webhook.ResendSecret = ""
				cfg.Webhook.ResendInsecure = true
			},
		},
		{
			name:    "email enabled without api key",
			mutate:  func(cfg *ProductionConfig) { cfg.Email.ResendAPIKey = "" },
			wantErr: "RESEND_API_KEY",
		},
		{
			name: "email disabled without api key",
			mutate: func(cfg *ProductionConfig) {
				cfg.Email.Enabled = false
				cfg.Email.ResendAPIKey = ""
			},
		},
		{
			name:    "unknown limiter backend",
			mutate:  func(cfg *ProductionConfig) { cfg.WhatsApp.LimiterBackend = "memcached" },
			wantErr: "WHATSAPP_LIMITER_BACKEND",
		},
		{
			name: "redis backend without url",
			mutate: func(cfg *ProductionConfig) {
				cfg.WhatsApp.LimiterBackend = "redis"
				cfg.Cache.RedisURL = ""
			},
			wantErr: "CACHE_REDIS_URL",
		},
		{
			name:    "default locale not supported",
			mutate:  func(cfg *ProductionConfig) { cfg.Content.DefaultLocale = "de" },
			wantErr: "CONTENT_DEFAULT_LOCALE",
		},
		{
			name: "sqlite needs no credentials",
			mutate: func(cfg *ProductionConfig) {
				cfg.Database.Driver = "sqlite"
				cfg.Database.Password = ""
			},
		},
		{
			name:    "unknown driver",
			mutate:  func(cfg *ProductionConfig) { cfg.Database.Driver = "mysql" },
			wantErr: "DB_DRIVER",
		},
		{
			name:    "bad log level",
			mutate:  func(cfg *ProductionConfig) { cfg.Logging.Level = "trace" },
			wantErr: "LOG_LEVEL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			err := ValidateProductionConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
