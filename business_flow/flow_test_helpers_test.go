package businessflow

import (
	"testing"
	"time"

	"github.com/amirphl/jetcharter/app/dto"
	"github.com/amirphl/jetcharter/app/logger"
	"github.com/amirphl/jetcharter/app/services"
	"github.com/amirphl/jetcharter/config"
	"github.com/amirphl/jetcharter/repository"
	testingutil "github.com/amirphl/jetcharter/testing"
	"github.com/stretchr/testify/require"
)

const (
	testAdminEmail  = "ops@jetcharter.example"
	testAdminSecret = "flow-test-secret-key-for-jwt-signing"
	testWebhookKey  = "flow-test-webhook-secret"
)

// testEnv wires every flow against one sqlite database
type testEnv struct {
	db       *testingutil.TestDB
	fixtures *testingutil.TestFixtures
	sender   *services.MockEmailSender
	tokens   services.AdminTokenService
	token    string

	quoteRepo    repository.QuoteRequestRepository
	deliveryRepo repository.EmailDeliveryRepository
	clickRepo    repository.WhatsAppClickRepository
	auditRepo    repository.AuditLogRepository
	statusLog    StatusLog

	quotes   QuoteFlow
	contacts ContactFlow
	payments PaymentFlow
	webhooks ResendWebhookFlow
	content  ContentFlow
}

func newTestEnv(t *testing.T, testDB *testingutil.TestDB) *testEnv {
	t.Helper()

	tokens, err := services.NewAdminTokenService(testAdminSecret, "jetcharter-test", time.Hour, []string{testAdminEmail})
	require.NoError(t, err)
	token, err := tokens.GenerateAdminToken(testAdminEmail, 0)
	require.NoError(t, err)

	log := logger.NewNop()
	db := testDB.DB

	quoteRepo := repository.NewQuoteRequestRepository(db)
	contactRepo := repository.NewContactFormRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	eventRepo := repository.NewStatusEventRepository(db)
	deliveryRepo := repository.NewEmailDeliveryRepository(db)
	clickRepo := repository.NewWhatsAppClickRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	sender := services.NewMockEmailSender()
	statusLog := NewStatusLog(eventRepo)
	tracker := NewEmailTracker(sender, deliveryRepo)
	emailCfg := config.EmailConfig{OperationsInbox: "charter-desk@jetcharter.example"}

	return &testEnv{
		db:           testDB,
		fixtures:     testingutil.NewTestFixtures(testDB),
		sender:       sender,
		tokens:       tokens,
		token:        token,
		quoteRepo:    quoteRepo,
		deliveryRepo: deliveryRepo,
		clickRepo:    clickRepo,
		auditRepo:    auditRepo,
		statusLog:    statusLog,
		quotes:       NewQuoteFlow(db, quoteRepo, paymentRepo, auditRepo, statusLog, tracker, tokens, emailCfg, log),
		contacts:     NewContactFlow(db, contactRepo, auditRepo, statusLog, tracker, tokens, emailCfg, log),
		payments:     NewPaymentFlow(db, paymentRepo, quoteRepo, auditRepo, statusLog, tokens),
		webhooks:     NewResendWebhookFlow(services.NewResendWebhookVerifier(testWebhookKey, false), deliveryRepo, auditRepo, log),
		content: NewContentFlow(
			repository.NewPageContentRepository(db),
			repository.NewFAQRepository(db),
			services.NewContentCache(time.Hour, 100),
			config.ContentConfig{DefaultLocale: "en", SupportedLocales: []string{"en", "es", "fr"}},
		),
	}
}

func (e *testEnv) creds() dto.AdminCredentials {
	return dto.AdminCredentials{AdminEmail: testAdminEmail, AdminToken: e.token}
}

func testMetadata() *ClientMetadata {
	return NewClientMetadata("203.0.113.7", "flow-test/1.0")
}
