// Package main provides the entry point for the jet charter brokerage API
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amirphl/jetcharter/app/handlers"
	"github.com/amirphl/jetcharter/app/logger"
	"github.com/amirphl/jetcharter/app/middleware"
	"github.com/amirphl/jetcharter/app/router"
	"github.com/amirphl/jetcharter/app/services"
	businessflow "github.com/amirphl/jetcharter/business_flow"
	"github.com/amirphl/jetcharter/config"
	"github.com/amirphl/jetcharter/models"
	"github.com/amirphl/jetcharter/repository"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite" // pure Go SQLite driver
)

// Version is overridden at build time with -ldflags
var Version = "dev"

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	log       *logger.Logger
	db        *gorm.DB
	redis     *redis.Client
	stopFuncs []func()
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "jetcharter",
		Short:         "Private jet charter brokerage API",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(adminTokenCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update all database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			log, err := logger.NewLogger(cfg.Logging)
			if err != nil {
				return err
			}
			defer log.Sync()

			db, err := initializeDatabase(cfg.Database, log)
			if err != nil {
				return err
			}
			defer closeDatabase(db)

			if err := db.AutoMigrate(models.AllModels()...); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}

			log.Infow("database migrated", "driver", cfg.Database.Driver, "tables", len(models.AllModels()))
			return nil
		},
	}
}

func adminTokenCmd() *cobra.Command {
	var (
		email string
		ttl   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "admin-token",
		Short: "Print a signed admin token for status updates and admin reads",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			tokens, err := services.NewAdminTokenService(cfg.Admin.JWTSecret, cfg.Admin.Issuer, cfg.Admin.TokenTTL, cfg.Admin.AllowedEmails)
			if err != nil {
				return fmt.Errorf("admin token service: %w", err)
			}

			token, err := tokens.GenerateAdminToken(email, ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Admin email the token is issued to")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (defaults to ADMIN_TOKEN_TTL)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func runServe(parent context.Context) error {
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	app, err := initializeApplication(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.close()

	app.router.SetupRoutes()

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		serverErr <- app.router.Start(address)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Infow("shutting down gracefully", "timeout", cfg.Server.ShutdownTimeout)

	for _, fn := range app.stopFuncs {
		fn()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.router.GetApp().ShutdownWithContext(shutdownCtx); err != nil {
		log.Errorw("error during shutdown", "error", err)
	}

	log.Infow("server stopped")
	return nil
}

// initializeDatabase opens postgres or the embedded sqlite database with connection pooling
func initializeDatabase(cfg config.DatabaseConfig, log *logger.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.New(zap.NewStdLog(log.Desugar()), gormlogger.Config{
			SlowThreshold:             cfg.SlowQueryTime,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	var (
		db  *gorm.DB
		err error
	)
	if cfg.IsSQLite() {
		var sqlDB *sql.DB
		sqlDB, err = sql.Open("sqlite", cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		// sqlite allows one writer at a time
		sqlDB.SetMaxOpenConns(1)
		db, err = gorm.Open(sqlite.Dialector{DriverName: "sqlite", DSN: cfg.SQLitePath, Conn: sqlDB}, gormCfg)
	} else {
		db, err = gorm.Open(postgres.Open(cfg.PostgresDSN()), gormCfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if !cfg.IsSQLite() {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Infow("database connection established",
		"driver", cfg.Driver,
		"max_open_conns", cfg.MaxOpenConns,
		"max_idle_conns", cfg.MaxIdleConns,
	)

	return db, nil
}

func closeDatabase(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// initializeRedis connects to redis when the WhatsApp limiter is shared across instances
func initializeRedis(cfg *config.ProductionConfig, log *logger.Logger) (*redis.Client, error) {
	if cfg.WhatsApp.LimiterBackend != "redis" {
		return nil, nil
	}
	if cfg.Cache.RedisURL == "" {
		return nil, errors.New("CACHE_REDIS_URL is required for the redis limiter backend")
	}

	opt, err := redis.ParseURL(cfg.Cache.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opt.DB = cfg.Cache.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Infow("redis connection established", "addr", opt.Addr, "db", opt.DB)
	return rc, nil
}

// startRedisHealthMonitor pings redis periodically so connectivity loss shows up in the logs.
// The returned cancel function stops the monitor.
func startRedisHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration, log *logger.Logger) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(monitorCtx, 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Warnw("redis healthcheck failed", "error", err)
				}
				c()
			}
		}
	}()
	return cancel
}

func newWhatsAppLimiter(cfg config.WhatsAppConfig, cacheCfg config.CacheConfig, rc *redis.Client) services.RateLimiter {
	if cfg.LimiterBackend == "redis" && rc != nil {
		return services.NewRedisRateLimiter(rc, cacheCfg.RedisPrefix, cfg.RateLimit, cfg.RateWindow)
	}
	return services.NewMemoryRateLimiter(cfg.RateLimit, cfg.RateWindow)
}

// initializeApplication wires repositories, services, flows and handlers
func initializeApplication(cfg *config.ProductionConfig, log *logger.Logger) (*Application, error) {
	db, err := initializeDatabase(cfg.Database, log)
	if err != nil {
		return nil, err
	}

	app := &Application{
		config: cfg,
		log:    log,
		db:     db,
	}

	rc, err := initializeRedis(cfg, log)
	if err != nil {
		app.close()
		return nil, err
	}
	if rc != nil {
		app.redis = rc
		app.stopFuncs = append(app.stopFuncs, startRedisHealthMonitor(context.Background(), rc, cfg.Cache.HealthCheckPeriod, log))
	}

	// Repositories
	quoteRepo := repository.NewQuoteRequestRepository(db)
	contactRepo := repository.NewContactFormRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	eventRepo := repository.NewStatusEventRepository(db)
	deliveryRepo := repository.NewEmailDeliveryRepository(db)
	clickRepo := repository.NewWhatsAppClickRepository(db)
	pageRepo := repository.NewPageContentRepository(db)
	faqRepo := repository.NewFAQRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// Services
	tokens, err := services.NewAdminTokenService(cfg.Admin.JWTSecret, cfg.Admin.Issuer, cfg.Admin.TokenTTL, cfg.Admin.AllowedEmails)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("admin token service: %w", err)
	}

	sender := services.NewResendEmailSender(services.ResendConfig{
		Enabled:     cfg.Email.Enabled,
		APIKey:      cfg.Email.ResendAPIKey,
		FromAddress: cfg.Email.FromAddress,
		ReplyTo:     cfg.Email.ReplyTo,
		Timeout:     cfg.Email.Timeout,
		RetryCount:  cfg.Email.RetryCount,
	})
	if !sender.IsEnabled() {
		log.Warnw("outbound email disabled, deliveries will be recorded as failed")
	}

	verifier := services.NewResendWebhookVerifier(cfg.Webhook.ResendSecret, cfg.Webhook.ResendInsecure)
	limiter := newWhatsAppLimiter(cfg.WhatsApp, cfg.Cache, rc)
	contentCache := services.NewContentCache(cfg.Cache.ContentTTL, cfg.Cache.ContentSoftLimit)
	messageBuilder := services.NewWhatsAppMessageBuilder(cfg.WhatsApp.PhoneNumber)

	// Business flows
	statusLog := businessflow.NewStatusLog(eventRepo)
	emailTracker := businessflow.NewEmailTracker(sender, deliveryRepo)

	quoteFlow := businessflow.NewQuoteFlow(db, quoteRepo, paymentRepo, auditRepo, statusLog, emailTracker, tokens, cfg.Email, log)
	contactFlow := businessflow.NewContactFlow(db, contactRepo, auditRepo, statusLog, emailTracker, tokens, cfg.Email, log)
	paymentFlow := businessflow.NewPaymentFlow(db, paymentRepo, quoteRepo, auditRepo, statusLog, tokens)
	webhookFlow := businessflow.NewResendWebhookFlow(verifier, deliveryRepo, auditRepo, log)
	whatsAppFlow := businessflow.NewWhatsAppFlow(messageBuilder, limiter, clickRepo, log)
	contentFlow := businessflow.NewContentFlow(pageRepo, faqRepo, contentCache, cfg.Content)

	// Handlers
	h := router.Handlers{
		Quote:    handlers.NewQuoteHandler(quoteFlow, log),
		Contact:  handlers.NewContactHandler(contactFlow, log),
		Payment:  handlers.NewPaymentHandler(paymentFlow, log),
		Webhook:  handlers.NewWebhookHandler(webhookFlow, log),
		WhatsApp: handlers.NewWhatsAppHandler(whatsAppFlow, log),
		Content:  handlers.NewContentHandler(contentFlow, log),
	}

	app.router = router.NewFiberRouter(cfg, h, middleware.NewAdminAuthMiddleware(tokens), log)

	return app, nil
}

func (a *Application) close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		closeDatabase(a.db)
	}
}
