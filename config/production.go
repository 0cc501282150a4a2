// Package config provides configuration management and environment variable handling for the application
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/amirphl/jetcharter/utils"
	"github.com/joho/godotenv"
)

// ProductionConfig holds all configuration for production environment
type ProductionConfig struct {
	Database   DatabaseConfig   `json:"database"`
	Server     ServerConfig     `json:"server"`
	Security   SecurityConfig   `json:"security"`
	Logging    LoggingConfig    `json:"logging"`
	Metrics    MetricsConfig    `json:"metrics"`
	Cache      CacheConfig      `json:"cache"`
	Admin      AdminConfig      `json:"admin"`
	Email      EmailConfig      `json:"email"`
	Webhook    WebhookConfig    `json:"webhook"`
	WhatsApp   WhatsAppConfig   `json:"whatsapp"`
	Content    ContentConfig    `json:"content"`
	Deployment DeploymentConfig `json:"deployment"`
}

type DatabaseConfig struct {
	Driver          string        `json:"driver"` // postgres, sqlite
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	Name            string        `json:"name"`
	User            string        `json:"user"`
	Password        string        `json:"password"`
	SSLMode         string        `json:"ssl_mode"`
	SQLitePath      string        `json:"sqlite_path"`
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `json:"conn_max_idle_time"`
	SlowQueryTime   time.Duration `json:"slow_query_time"`
}

// IsSQLite reports whether the embedded database is selected
func (c DatabaseConfig) IsSQLite() bool {
	return c.Driver == "sqlite"
}

// PostgresDSN builds the connection string for gorm's postgres driver
func (c DatabaseConfig) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

type ServerConfig struct {
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	IdleTimeout     time.Duration `json:"idle_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	BodyLimit       int           `json:"body_limit"`
	ProxyHeader     string        `json:"proxy_header"`
}

type SecurityConfig struct {
	AllowedOrigins  []string      `json:"allowed_origins"`
	GlobalRateLimit int           `json:"global_rate_limit"` // requests per window
	RateLimitWindow time.Duration `json:"rate_limit_window"`
}

type LoggingConfig struct {
	Level        string `json:"level"`  // debug, info, warn, error
	Format       string `json:"format"` // json, console
	Output       string `json:"output"` // stdout, file, both
	FilePath     string `json:"file_path"`
	MaxSize      int    `json:"max_size"` // MB
	MaxBackups   int    `json:"max_backups"`
	MaxAge       int    `json:"max_age"` // days
	Compress     bool   `json:"compress"`
	EnableCaller bool   `json:"enable_caller"`
}

type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

type CacheConfig struct {
	RedisURL          string        `json:"redis_url"`
	RedisDB           int           `json:"redis_db"`
	RedisPrefix       string        `json:"redis_prefix"`
	ContentTTL        time.Duration `json:"content_ttl"`
	ContentSoftLimit  int           `json:"content_soft_limit"`
	HealthCheckPeriod time.Duration `json:"health_check_period"`
}

type AdminConfig struct {
	JWTSecret     string        `json:"-"`
	Issuer        string        `json:"issuer"`
	TokenTTL      time.Duration `json:"token_ttl"`
	AllowedEmails []string      `json:"allowed_emails"`
}

type EmailConfig struct {
	Enabled         bool          `json:"enabled"`
	ResendAPIKey    string        `json:"-"`
	FromAddress     string        `json:"from_address"`
	ReplyTo         string        `json:"reply_to"`
	OperationsInbox string        `json:"operations_inbox"`
	Timeout         time.Duration `json:"timeout"`
	RetryCount      int           `json:"retry_count"`
}

type WebhookConfig struct {
	ResendSecret   string `json:"-"`
	ResendInsecure bool   `json:"resend_insecure"`
}

type WhatsAppConfig struct {
	PhoneNumber    string        `json:"phone_number"`
	RateLimit      int           `json:"rate_limit"`
	RateWindow     time.Duration `json:"rate_window"`
	LimiterBackend string        `json:"limiter_backend"` // memory, redis
}

type ContentConfig struct {
	DefaultLocale    string   `json:"default_locale"`
	SupportedLocales []string `json:"supported_locales"`
}

type DeploymentConfig struct {
	Environment string `json:"environment"`
	Version     string `json:"version"`
	CommitHash  string `json:"commit_hash"`
}

// LoadProductionConfig loads and validates configuration from environment variables
func LoadProductionConfig() (*ProductionConfig, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	if err := ValidateProductionConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadConfig reads configuration without validating it. CLI subcommands that need only one section use it.
func LoadConfig() (*ProductionConfig, error) {
	if err := loadEnvFile(".env"); err != nil {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &ProductionConfig{
		Database: DatabaseConfig{
			Driver:          getEnvString("DB_DRIVER", "postgres"),
			Host:            getEnvString("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			Name:            getEnvString("DB_NAME", "jetcharter"),
			User:            getEnvString("DB_USER", "postgres"),
			Password:        getEnvString("DB_PASSWORD", ""),
			SSLMode:         getEnvString("DB_SSL_MODE", "require"),
			SQLitePath:      getEnvString("DB_SQLITE_PATH", "jetcharter.db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 15*time.Minute),
			SlowQueryTime:   getEnvDuration("DB_SLOW_QUERY_TIME", 1*time.Second),
		},
		Server: ServerConfig{
			Host:            getEnvString("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			BodyLimit:       getEnvInt("SERVER_BODY_LIMIT", 1*1024*1024), // 1MB
			ProxyHeader:     getEnvString("SERVER_PROXY_HEADER", ""),
		},
		Security: SecurityConfig{
			AllowedOrigins:  getEnvStringSlice("CORS_ALLOWED_ORIGINS", []string{"https://jetcharter.example", "https://admin.jetcharter.example"}),
			GlobalRateLimit: getEnvInt("GLOBAL_RATE_LIMIT", 600),
			RateLimitWindow: getEnvDuration("RATE_LIMIT_WINDOW", 1*time.Minute),
		},
		Logging: LoggingConfig{
			Level:        getEnvString("LOG_LEVEL", "info"),
			Format:       getEnvString("LOG_FORMAT", "json"),
			Output:       getEnvString("LOG_OUTPUT", "stdout"),
			FilePath:     getEnvString("LOG_FILE_PATH", "/var/log/jetcharter/app.log"),
			MaxSize:      getEnvInt("LOG_MAX_SIZE", 100),
			MaxBackups:   getEnvInt("LOG_MAX_BACKUPS", 10),
			MaxAge:       getEnvInt("LOG_MAX_AGE", 30),
			Compress:     getEnvBool("LOG_COMPRESS", true),
			EnableCaller: getEnvBool("LOG_ENABLE_CALLER", true),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Path:    getEnvString("METRICS_PATH", "/metrics"),
		},
		Cache: CacheConfig{
			RedisURL:          getEnvString("CACHE_REDIS_URL", "redis://localhost:6379"),
			RedisDB:           getEnvInt("CACHE_REDIS_DB", 0),
			RedisPrefix:       getEnvString("CACHE_REDIS_PREFIX", "jetcharter:"),
			ContentTTL:        getEnvDuration("CONTENT_CACHE_TTL", utils.ContentCacheTTL),
			ContentSoftLimit:  getEnvInt("CONTENT_CACHE_SOFT_LIMIT", utils.ContentCacheSoftLimit),
			HealthCheckPeriod: getEnvDuration("CACHE_HEALTH_CHECK_PERIOD", 30*time.Second),
		},
		Admin: AdminConfig{
			JWTSecret:     getEnvString("ADMIN_JWT_SECRET", ""),
			Issuer:        getEnvString("ADMIN_JWT_ISSUER", "jetcharter"),
			TokenTTL:      getEnvDuration("ADMIN_TOKEN_TTL", 12*time.Hour),
			AllowedEmails: getEnvStringSlice("ADMIN_ALLOWED_EMAILS", []string{}),
		},
		Email: EmailConfig{
			Enabled:         getEnvBool("EMAIL_ENABLED", true),
			ResendAPIKey:    getEnvString("RESEND_API_KEY", ""),
			FromAddress:     getEnvString("EMAIL_FROM_ADDRESS", "JetCharter <noreply@jetcharter.example>"),
			ReplyTo:         getEnvString("EMAIL_REPLY_TO", "charter@jetcharter.example"),
			OperationsInbox: getEnvString("EMAIL_OPERATIONS_INBOX", "operations@jetcharter.example"),
			Timeout:         getEnvDuration("EMAIL_TIMEOUT", 15*time.Second),
			RetryCount:      getEnvInt("EMAIL_RETRY_COUNT", 3),
		},
		Webhook: WebhookConfig{
			ResendSecret:   getEnvString("RESEND_WEBHOOK_SECRET", ""),
			ResendInsecure: getEnvBool("RESEND_WEBHOOK_INSECURE", false),
		},
		WhatsApp: WhatsAppConfig{
			PhoneNumber:    getEnvString("WHATSAPP_PHONE_NUMBER", ""),
			RateLimit:      getEnvInt("WHATSAPP_RATE_LIMIT", utils.WhatsAppRateLimit),
			RateWindow:     getEnvDuration("WHATSAPP_RATE_WINDOW", utils.WhatsAppRateWindow),
			LimiterBackend: getEnvString("WHATSAPP_LIMITER_BACKEND", "memory"),
		},
		Content: ContentConfig{
			DefaultLocale:    getEnvString("CONTENT_DEFAULT_LOCALE", utils.DefaultLocale),
			SupportedLocales: getEnvStringSlice("CONTENT_SUPPORTED_LOCALES", []string{"en", "es", "fr"}),
		},
		Deployment: DeploymentConfig{
			Environment: getEnvString("APP_ENV", "production"),
			Version:     getEnvString("VERSION", "1.0.0"),
			CommitHash:  getEnvString("COMMIT_HASH", "unknown"),
		},
	}

	return cfg, nil
}

// loadEnvFile loads variables from the given file without overriding the process environment
func loadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var result []string
		for _, item := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

// ValidateProductionConfig validates the production configuration
func ValidateProductionConfig(cfg *ProductionConfig) error {
	var errs []string

	// Database
	switch cfg.Database.Driver {
	case "postgres":
		if cfg.Database.Host == "" {
			errs = append(errs, "DB_HOST is required")
		}
		if cfg.Database.Port <= 0 || cfg.Database.Port > 65535 {
			errs = append(errs, "DB_PORT must be between 1 and 65535")
		}
		if cfg.Database.Name == "" {
			errs = append(errs, "DB_NAME is required")
		}
		if cfg.Database.User == "" {
			errs = append(errs, "DB_USER is required")
		}
		if cfg.Database.Password == "" {
			errs = append(errs, "DB_PASSWORD is required")
		}
	case "sqlite":
		if cfg.Database.SQLitePath == "" {
			errs = append(errs, "DB_SQLITE_PATH is required for the sqlite driver")
		}
	default:
		errs = append(errs, "DB_DRIVER must be one of: postgres, sqlite")
	}

	// Server
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		errs = append(errs, "SERVER_PORT must be between 1 and 65535")
	}
	if cfg.Server.ReadTimeout <= 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be positive")
	}
	if cfg.Server.WriteTimeout <= 0 {
		errs = append(errs, "SERVER_WRITE_TIMEOUT must be positive")
	}

	// Admin tokens
	if len(cfg.Admin.JWTSecret) < 32 {
		errs = append(errs, "ADMIN_JWT_SECRET must be at least 32 characters long")
	}
	if cfg.Admin.TokenTTL <= 0 {
		errs = append(errs, "ADMIN_TOKEN_TTL must be positive")
	}

	// Email
	if cfg.Email.Enabled {
		if cfg.Email.ResendAPIKey == "" {
			errs = append(errs, "RESEND_API_KEY is required when email is enabled")
		}
		if cfg.Email.FromAddress == "" {
			errs = append(errs, "EMAIL_FROM_ADDRESS is required when email is enabled")
		}
	}

	// Webhook signature verification is never skipped implicitly
	if cfg.Webhook.ResendSecret == "" && !cfg.Webhook.ResendInsecure {
		errs = append(errs, "RESEND_WEBHOOK_SECRET is required unless RESEND_WEBHOOK_INSECURE=true")
	}

	// WhatsApp
	if cfg.WhatsApp.PhoneNumber == "" {
		errs = append(errs, "WHATSAPP_PHONE_NUMBER is required")
	}
	if cfg.WhatsApp.RateLimit <= 0 {
		errs = append(errs, "WHATSAPP_RATE_LIMIT must be positive")
	}
	if cfg.WhatsApp.RateWindow <= 0 {
		errs = append(errs, "WHATSAPP_RATE_WINDOW must be positive")
	}
	if cfg.WhatsApp.LimiterBackend != "memory" && cfg.WhatsApp.LimiterBackend != "redis" {
		errs = append(errs, "WHATSAPP_LIMITER_BACKEND must be one of: memory, redis")
	}

	// Cache
	if cfg.WhatsApp.LimiterBackend == "redis" {
		if cfg.Cache.RedisURL == "" {
			errs = append(errs, "CACHE_REDIS_URL is required when the redis limiter backend is selected")
		}
	}
	if cfg.Cache.ContentTTL <= 0 {
		errs = append(errs, "CONTENT_CACHE_TTL must be positive")
	}

	// Content
	if !slices.Contains(cfg.Content.SupportedLocales, cfg.Content.DefaultLocale) {
		errs = append(errs, "CONTENT_DEFAULT_LOCALE must be one of CONTENT_SUPPORTED_LOCALES")
	}

	// Logging
	if cfg.Logging.Level != "" {
		validLevels := []string{"debug", "info", "warn", "error"}
		if !slices.Contains(validLevels, cfg.Logging.Level) {
			errs = append(errs, fmt.Sprintf("LOG_LEVEL must be one of: %v", validLevels))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return nil
}
