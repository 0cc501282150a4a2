package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amirphl/jetcharter/app/dto"
	"github.com/amirphl/jetcharter/app/services"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret-32-characters"

func newGuardedApp(t *testing.T, allowed []string) (*fiber.App, services.AdminTokenService) {
	t.Helper()

	tokens, err := services.NewAdminTokenService(testSecret, "jetcharter-test", time.Hour, allowed)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/admin", NewAdminAuthMiddleware(tokens).Authenticate(), func(c fiber.Ctx) error {
		email, ok := GetAdminEmailFromContext(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendString(email)
	})
	return app, tokens
}

func TestAdminAuthMiddleware(t *testing.T) {
	app, tokens := newGuardedApp(t, []string{"ops@jetcharter.example"})

	opsToken, err := tokens.GenerateAdminToken("ops@jetcharter.example", 0)
	require.NoError(t, err)
	outsiderToken, err := tokens.GenerateAdminToken("intern@jetcharter.example", 0)
	require.NoError(t, err)

	otherIssuer, err := services.NewAdminTokenService(testSecret, "someone-else", time.Hour, nil)
	require.NoError(t, err)
	foreignToken, err := otherIssuer.GenerateAdminToken("ops@jetcharter.example", 0)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		adminEmail string
		wantStatus int
		wantCode   string
	}{
		{name: "no header", wantStatus: http.StatusUnauthorized, wantCode: "MISSING_AUTHORIZATION_HEADER"},
		{name: "basic scheme", header: "Basic b3BzOnB3", wantStatus: http.StatusUnauthorized, wantCode: "INVALID_AUTHORIZATION_FORMAT"},
		{name: "garbage token", header: "Bearer not.a.jwt", wantStatus: http.StatusUnauthorized, wantCode: "TOKEN_INVALID"},
		{name: "wrong issuer", header: "Bearer " + foreignToken, wantStatus: http.StatusUnauthorized, wantCode: "TOKEN_INVALID"},
		{name: "subject mismatch", header: "Bearer " + opsToken, adminEmail: "desk@jetcharter.example", wantStatus: http.StatusUnauthorized, wantCode: "TOKEN_SUBJECT_MISMATCH"},
		{name: "not on allow list", header: "Bearer " + outsiderToken, wantStatus: http.StatusForbidden, wantCode: "ADMIN_NOT_PERMITTED"},
		{name: "valid token", header: "Bearer " + opsToken, wantStatus: http.StatusOK},
		{name: "valid token with matching email", header: "Bearer " + opsToken, adminEmail: "OPS@jetcharter.example", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			if tt.adminEmail != "" {
				req.Header.Set(adminEmailHeader, tt.adminEmail)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantCode == "" {
				return
			}
			var body dto.APIResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.False(t, body.Success)
			detail, ok := body.Error.(map[string]any)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, detail["code"])
		})
	}
}
