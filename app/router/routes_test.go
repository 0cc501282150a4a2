package router_test

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amirphl/jetcharter/app/dto"
	"github.com/amirphl/jetcharter/app/handlers"
	"github.com/amirphl/jetcharter/app/logger"
	"github.com/amirphl/jetcharter/app/middleware"
	"github.com/amirphl/jetcharter/app/router"
	"github.com/amirphl/jetcharter/app/services"
	businessflow "github.com/amirphl/jetcharter/business_flow"
	"github.com/amirphl/jetcharter/config"
	"github.com/amirphl/jetcharter/models"
	"github.com/amirphl/jetcharter/repository"
	testingutil "github.com/amirphl/jetcharter/testing"
	"github.com/amirphl/jetcharter/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminEmail    = "ops@jetcharter.example"
	webhookSecret = "router-test-webhook-secret"
)

type testServer struct {
	app      *fiber.App
	fixtures *testingutil.TestFixtures
	token    string
}

func newTestServer(t *testing.T, testDB *testingutil.TestDB) *testServer {
	t.Helper()

	cfg := &config.ProductionConfig{
		Security:   config.SecurityConfig{GlobalRateLimit: 1000, RateLimitWindow: time.Minute},
		Admin:      config.AdminConfig{JWTSecret: "router-test-secret-key-32-characters", Issuer: "jetcharter-test", TokenTTL: time.Hour, AllowedEmails: []string{adminEmail}},
		Email:      config.EmailConfig{OperationsInbox: "desk@jetcharter.example"},
		WhatsApp:   config.WhatsAppConfig{PhoneNumber: "+13055550100", RateLimit: 1, RateWindow: time.Minute},
		Content:    config.ContentConfig{DefaultLocale: "en", SupportedLocales: []string{"en", "es", "fr"}},
		Deployment: config.DeploymentConfig{Environment: "test", Version: "test"},
	}

	log := logger.NewNop()
	db := testDB.DB

	tokens, err := services.NewAdminTokenService(cfg.Admin.JWTSecret, cfg.Admin.Issuer, cfg.Admin.TokenTTL, cfg.Admin.AllowedEmails)
	require.NoError(t, err)
	token, err := tokens.GenerateAdminToken(adminEmail, 0)
	require.NoError(t, err)

	quoteRepo := repository.NewQuoteRequestRepository(db)
	contactRepo := repository.NewContactFormRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	deliveryRepo := repository.NewEmailDeliveryRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	statusLog := businessflow.NewStatusLog(repository.NewStatusEventRepository(db))
	tracker := businessflow.NewEmailTracker(services.NewMockEmailSender(), deliveryRepo)

	h := router.Handlers{
		Quote: handlers.NewQuoteHandler(businessflow.NewQuoteFlow(db, quoteRepo, paymentRepo, auditRepo, statusLog, tracker, tokens, cfg.Email, log), log),
		Contact: handlers.NewContactHandler(businessflow.NewContactFlow(db, contactRepo, auditRepo, statusLog, tracker, tokens, cfg.Email, log), log),
		Payment: handlers.NewPaymentHandler(businessflow.NewPaymentFlow(db, paymentRepo, quoteRepo, auditRepo, statusLog, tokens), log),
		Webhook: handlers.NewWebhookHandler(businessflow.NewResendWebhookFlow(
			services.NewResendWebhookVerifier(webhookSecret, false), deliveryRepo, auditRepo, log), log),
		WhatsApp: handlers.NewWhatsAppHandler(businessflow.NewWhatsAppFlow(
			services.NewWhatsAppMessageBuilder(cfg.WhatsApp.PhoneNumber),
			services.NewMemoryRateLimiter(cfg.WhatsApp.RateLimit, cfg.WhatsApp.RateWindow),
			repository.NewWhatsAppClickRepository(db), log), log),
		Content: handlers.NewContentHandler(businessflow.NewContentFlow(
			repository.NewPageContentRepository(db),
			repository.NewFAQRepository(db),
			services.NewContentCache(time.Hour, 100),
			cfg.Content), log),
	}

	r := router.NewFiberRouter(cfg, h, middleware.NewAdminAuthMiddleware(tokens), log)
	r.SetupRoutes()

	return &testServer{app: r.GetApp(), fixtures: testingutil.NewTestFixtures(testDB), token: token}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers map[string]string) (*http.Response, dto.APIResponse) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.app.Test(req)
	require.NoError(t, err)

	var out dto.APIResponse
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}

func errorCode(t *testing.T, resp dto.APIResponse) string {
	t.Helper()
	detail, ok := resp.Error.(map[string]any)
	require.True(t, ok, "error detail missing")
	code, _ := detail["code"].(string)
	return code
}

func TestRoutes(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		s := newTestServer(t, testDB)
		bearer := map[string]string{fiber.HeaderAuthorization: "Bearer " + s.token}

		t.Run("health carries a request id", func(t *testing.T) {
			resp, body := s.do(t, http.MethodGet, "/api/v1/health", nil, nil)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.True(t, body.Success)
			assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
		})

		t.Run("unknown route", func(t *testing.T) {
			resp, body := s.do(t, http.MethodGet, "/api/v1/nope", nil, nil)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			assert.Equal(t, "NOT_FOUND", errorCode(t, body))
		})

		var quoteID string

		t.Run("create quote", func(t *testing.T) {
			resp, body := s.do(t, http.MethodPost, "/api/v1/quotes", map[string]any{
				"tripType":      "one_way",
				"origin":        "Nice",
				"destination":   "London",
				"departureDate": utils.UTCNow().AddDate(0, 0, 3).Format(time.DateOnly),
				"passengers":    2,
				"serviceType":   "light_jet",
				"firstName":     "Sam",
				"lastName":      "Taylor",
				"email":         "sam@example.com",
			}, nil)
			require.Equal(t, http.StatusCreated, resp.StatusCode)

			data := body.Data.(map[string]any)
			quote := data["quote"].(map[string]any)
			quoteID = quote["id"].(string)
			assert.Equal(t, "new_request", quote["status"])
		})

		t.Run("create quote validation", func(t *testing.T) {
			resp, body := s.do(t, http.MethodPost, "/api/v1/quotes", map[string]any{"tripType": "rocket"}, nil)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "VALIDATION_ERROR", errorCode(t, body))
		})

		t.Run("status update", func(t *testing.T) {
			path := "/api/v1/quotes/" + quoteID + "/status"
			creds := map[string]any{"adminEmail": adminEmail, "adminToken": s.token}

			ok := map[string]any{"status": "reviewing"}
			for k, v := range creds {
				ok[k] = v
			}
			resp, _ := s.do(t, http.MethodPatch, path, ok, nil)
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			skip := map[string]any{"status": "paid"}
			for k, v := range creds {
				skip[k] = v
			}
			resp, body := s.do(t, http.MethodPatch, path, skip, nil)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "INVALID_STATUS_TRANSITION", errorCode(t, body))
			details := body.Error.(map[string]any)["details"].(map[string]any)
			assert.ElementsMatch(t, []any{"quote_sent", "cancelled"}, details["allowed"])

			resp, body = s.do(t, http.MethodPatch, path, map[string]any{
				"adminEmail": adminEmail, "adminToken": "forged", "status": "quote_sent",
			}, nil)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "ADMIN_UNAUTHORIZED", errorCode(t, body))

			resp, body = s.do(t, http.MethodPatch, path, map[string]any{
				"adminEmail": adminEmail, "status": "quote_sent",
			}, nil)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "ADMIN_UNAUTHORIZED", errorCode(t, body))

			resp, body = s.do(t, http.MethodPatch, path, map[string]any{"status": "quote_sent"}, nil)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "ADMIN_UNAUTHORIZED", errorCode(t, body))
		})

		t.Run("admin reads require a bearer token", func(t *testing.T) {
			resp, body := s.do(t, http.MethodGet, "/api/v1/quotes/"+quoteID+"/history", nil, nil)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "MISSING_AUTHORIZATION_HEADER", errorCode(t, body))

			resp, body = s.do(t, http.MethodGet, "/api/v1/quotes/"+quoteID+"/history", nil,
				map[string]string{fiber.HeaderAuthorization: "Token abc"})
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "INVALID_AUTHORIZATION_FORMAT", errorCode(t, body))

			resp, body = s.do(t, http.MethodGet, "/api/v1/quotes/"+quoteID+"/history", nil, map[string]string{
				fiber.HeaderAuthorization: "Bearer " + s.token,
				"X-Admin-Email":           "someone@else.example",
			})
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "TOKEN_SUBJECT_MISMATCH", errorCode(t, body))

			resp, body = s.do(t, http.MethodGet, "/api/v1/quotes/"+quoteID+"/history", nil, bearer)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			data := body.Data.(map[string]any)
			assert.Equal(t, "reviewing", data["currentStatus"])
			assert.Len(t, data["history"], 1)
		})

		t.Run("quote detail and listing", func(t *testing.T) {
			resp, _ := s.do(t, http.MethodGet, "/api/v1/quotes/"+quoteID, nil, bearer)
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			resp, _ = s.do(t, http.MethodGet, "/api/v1/quotes/not-a-uuid", nil, bearer)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			resp, body := s.do(t, http.MethodGet, "/api/v1/quotes?status=reviewing&pageSize=5", nil, bearer)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			items := body.Data.(map[string]any)["items"].([]any)
			assert.Len(t, items, 1)
		})

		t.Run("contact intake", func(t *testing.T) {
			resp, _ := s.do(t, http.MethodPost, "/api/v1/contacts", map[string]any{
				"name":    "Kim",
				"email":   "kim@example.com",
				"subject": "Helicopter transfer",
				"message": "Do you arrange helicopter transfers from Nice airport?",
			}, nil)
			assert.Equal(t, http.StatusCreated, resp.StatusCode)
		})

		t.Run("resend webhook", func(t *testing.T) {
			_, err := s.fixtures.CreateTestDelivery("re_router_1", models.EmailDeliveryStatusSent)
			require.NoError(t, err)

			payload := []byte(`{"type":"email.delivered","data":{"email_id":"re_router_1"}}`)
			sig := hex.EncodeToString(services.SignWebhookPayload([]byte(webhookSecret), payload))

			resp, body := s.do(t, http.MethodPost, "/api/v1/webhooks/resend", payload, map[string]string{services.ResendSignatureHeader: sig})
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "processed", body.Data.(map[string]any)["outcome"])

			resp, body = s.do(t, http.MethodPost, "/api/v1/webhooks/resend", payload, map[string]string{services.ResendSignatureHeader: "00ff"})
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "INVALID_WEBHOOK_SIGNATURE", errorCode(t, body))
		})

		t.Run("resend webhook after bounce is acknowledged and ignored", func(t *testing.T) {
			_, err := s.fixtures.CreateTestDelivery("re_router_2", models.EmailDeliveryStatusSent)
			require.NoError(t, err)

			for _, event := range []struct{ eventType, outcome string }{
				{"email.bounced", "processed"},
				{"email.delivered", "ignored"},
			} {
				payload := []byte(fmt.Sprintf(`{"type":%q,"data":{"email_id":"re_router_2"}}`, event.eventType))
				sig := hex.EncodeToString(services.SignWebhookPayload([]byte(webhookSecret), payload))

				resp, body := s.do(t, http.MethodPost, "/api/v1/webhooks/resend", payload, map[string]string{services.ResendSignatureHeader: sig})
				require.Equal(t, http.StatusOK, resp.StatusCode)
				data := body.Data.(map[string]any)
				assert.Equal(t, event.outcome, data["outcome"])
				assert.Equal(t, "bounced", data["status"])
			}
		})

		t.Run("whatsapp link is rate limited per ip", func(t *testing.T) {
			resp, body := s.do(t, http.MethodPost, "/api/v1/whatsapp/link", map[string]any{"type": "general", "locale": "fr"}, nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "fr", body.Data.(map[string]any)["locale"])

			resp, body = s.do(t, http.MethodPost, "/api/v1/whatsapp/link", map[string]any{"type": "general"}, nil)
			assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
			assert.Equal(t, "RATE_LIMIT_EXCEEDED", errorCode(t, body))
			assert.NotEmpty(t, resp.Header.Get(fiber.HeaderRetryAfter))
		})

		t.Run("content is cacheable", func(t *testing.T) {
			require.NoError(t, s.fixtures.CreateTestPageContent("about", "en", map[string]string{"title": "About us"}))

			resp, body := s.do(t, http.MethodGet, "/api/v1/content/about/en", nil, nil)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "public, max-age=3600", resp.Header.Get(fiber.HeaderCacheControl))
			assert.NotEmpty(t, resp.Header.Get(fiber.HeaderETag))
			assert.Equal(t, "About us", body.Data.(map[string]any)["content"].(map[string]any)["title"])

			resp, _ = s.do(t, http.MethodGet, "/api/v1/faqs/en?limit=abc", nil, nil)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			resp, body = s.do(t, http.MethodGet, "/api/v1/admin/content/cache", nil, bearer)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.EqualValues(t, 1, body.Data.(map[string]any)["entries"])
		})

		return nil
	})
	require.NoError(t, err)
}
