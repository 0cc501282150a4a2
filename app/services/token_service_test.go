package services

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAdminSecret = "test-secret-key-for-jwt-signing-32-chars"

func createTestAdminTokenService(t *testing.T, allowed ...string) AdminTokenService {
	t.Helper()
	svc, err := NewAdminTokenService(testAdminSecret, "test-issuer", time.Hour, allowed)
	require.NoError(t, err)
	return svc
}

func TestNewAdminTokenService(t *testing.T) {
	tests := []struct {
		name        string
		secret      string
		ttl         time.Duration
		expectError bool
	}{
		{name: "valid configuration", secret: testAdminSecret, ttl: time.Hour},
		{name: "missing secret", secret: "", ttl: time.Hour, expectError: true},
		{name: "zero ttl", secret: testAdminSecret, ttl: 0, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewAdminTokenService(tt.secret, "test-issuer", tt.ttl, nil)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, svc)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, svc)
		})
	}
}

func TestGenerateAndValidateAdminToken(t *testing.T) {
	svc := createTestAdminTokenService(t)

	token, err := svc.GenerateAdminToken("  Ops@JetCharter.example ", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, len(strings.Split(token, ".")))

	claims, err := svc.ValidateAdminToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops@jetcharter.example", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.NotEmpty(t, claims.TokenID)
	assert.WithinDuration(t, claims.IssuedAt.Add(time.Hour), claims.ExpiresAt, time.Second)
}

func TestValidateAdminTokenRejections(t *testing.T) {
	svc := createTestAdminTokenService(t)

	other, err := NewAdminTokenService("another-secret-key-that-is-32-chars!!", "test-issuer", time.Hour, nil)
	require.NoError(t, err)
	foreign, err := other.GenerateAdminToken("ops@jetcharter.example", time.Hour)
	require.NoError(t, err)

	wrongIssuer, err := NewAdminTokenService(testAdminSecret, "someone-else", time.Hour, nil)
	require.NoError(t, err)
	wrongIssuerToken, err := wrongIssuer.GenerateAdminToken("ops@jetcharter.example", time.Hour)
	require.NoError(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "ops@jetcharter.example",
		"role": "admin",
		"iss":  "test-issuer",
		"iat":  time.Now().Add(-2 * time.Hour).Unix(),
		"exp":  time.Now().Add(-time.Hour).Unix(),
	})
	expiredToken, err := expired.SignedString([]byte(testAdminSecret))
	require.NoError(t, err)

	notAdmin := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "ops@jetcharter.example",
		"role": "customer",
		"iss":  "test-issuer",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	notAdminToken, err := notAdmin.SignedString([]byte(testAdminSecret))
	require.NoError(t, err)

	tests := []struct {
		name     string
		token    string
		expected error
	}{
		{name: "empty", token: "", expected: ErrTokenInvalid},
		{name: "garbage", token: "not.a.token", expected: ErrTokenInvalid},
		{name: "foreign signature", token: foreign, expected: ErrTokenInvalid},
		{name: "wrong issuer", token: wrongIssuerToken, expected: ErrTokenInvalid},
		{name: "expired", token: expiredToken, expected: ErrTokenExpired},
		{name: "non-admin role", token: notAdminToken, expected: ErrTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.ValidateAdminToken(tt.token)
			assert.ErrorIs(t, err, tt.expected)
			assert.Nil(t, claims)
		})
	}
}

func TestAuthorize(t *testing.T) {
	svc := createTestAdminTokenService(t, "ops@jetcharter.example")

	allowedToken, err := svc.GenerateAdminToken("ops@jetcharter.example", time.Hour)
	require.NoError(t, err)
	strangerToken, err := svc.GenerateAdminToken("intern@jetcharter.example", time.Hour)
	require.NoError(t, err)

	t.Run("allowed admin", func(t *testing.T) {
		claims, err := svc.Authorize("OPS@jetcharter.example", allowedToken)
		require.NoError(t, err)
		assert.Equal(t, "ops@jetcharter.example", claims.Email)
	})

	t.Run("subject mismatch", func(t *testing.T) {
		_, err := svc.Authorize("intern@jetcharter.example", allowedToken)
		assert.ErrorIs(t, err, ErrTokenSubject)
	})

	t.Run("valid token but not on allow list", func(t *testing.T) {
		_, err := svc.Authorize("intern@jetcharter.example", strangerToken)
		assert.ErrorIs(t, err, ErrAdminNotPermitted)
	})

	t.Run("empty allow list admits any admin", func(t *testing.T) {
		open := createTestAdminTokenService(t)
		_, err := open.Authorize("intern@jetcharter.example", strangerToken)
		assert.NoError(t, err)
	})
}
