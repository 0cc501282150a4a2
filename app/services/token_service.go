// Package services provides external service integrations and technical concerns like tokens, email and caching
package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/amirphl/jetcharter/utils"
	"github.com/golang-jwt/jwt/v5"
)

// Token service error constants
var (
	ErrTokenExpired      = errors.New("token has expired")
	ErrTokenInvalid      = errors.New("invalid token")
	ErrTokenSubject      = errors.New("token subject does not match admin email")
	ErrAdminNotPermitted = errors.New("admin email is not permitted")
)

const adminRole = "admin"

// AdminTokenService issues and validates the signed tokens admins present on status updates
type AdminTokenService interface {
	GenerateAdminToken(email string, ttl time.Duration) (string, error)
	ValidateAdminToken(token string) (*AdminTokenClaims, error)
	// Authorize validates the token and checks it was issued to email
	Authorize(email, token string) (*AdminTokenClaims, error)
}

// AdminTokenClaims represents the claims carried by an admin token
type AdminTokenClaims struct {
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	TokenID   string    `json:"jti"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AdminTokenServiceImpl implements AdminTokenService with HS256
type AdminTokenServiceImpl struct {
	secretKey     []byte
	issuer        string
	defaultTTL    time.Duration
	allowedEmails []string
}

// NewAdminTokenService creates a new admin token service. An empty allowedEmails list admits any
// admin holding a valid token.
func NewAdminTokenService(secretKey, issuer string, defaultTTL time.Duration, allowedEmails []string) (AdminTokenService, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("secret key is required")
	}
	if defaultTTL <= 0 {
		return nil, fmt.Errorf("token TTL must be positive")
	}

	normalized := make([]string, 0, len(allowedEmails))
	for _, e := range allowedEmails {
		normalized = append(normalized, strings.ToLower(strings.TrimSpace(e)))
	}

	return &AdminTokenServiceImpl{
		secretKey:     []byte(secretKey),
		issuer:        issuer,
		defaultTTL:    defaultTTL,
		allowedEmails: normalized,
	}, nil
}

// GenerateAdminToken signs a token whose subject is the admin email
func (s *AdminTokenServiceImpl) GenerateAdminToken(email string, ttl time.Duration) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", fmt.Errorf("email is required")
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	tokenID, err := generateTokenID()
	if err != nil {
		return "", err
	}

	now := utils.UTCNow()
	claims := jwt.MapClaims{
		"sub":  email,
		"role": adminRole,
		"jti":  tokenID,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
		"iss":  s.issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateAdminToken validates a token and returns its claims
func (s *AdminTokenServiceImpl) ValidateAdminToken(token string) (*AdminTokenClaims, error) {
	if token == "" {
		return nil, ErrTokenInvalid
	}

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok || !parsedToken.Valid {
		return nil, ErrTokenInvalid
	}

	role, _ := claims["role"].(string)
	if role != adminRole {
		return nil, ErrTokenInvalid
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return nil, ErrTokenInvalid
	}

	result := &AdminTokenClaims{Email: subject, Role: role}
	if jti, ok := claims["jti"].(string); ok {
		result.TokenID = jti
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		result.IssuedAt = iat.UTC()
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		result.ExpiresAt = exp.UTC()
	}

	return result, nil
}

// Authorize returns ErrTokenInvalid/ErrTokenExpired/ErrTokenSubject for bad credentials and
// ErrAdminNotPermitted when the token is valid but the email is not on the allow list
func (s *AdminTokenServiceImpl) Authorize(email, token string) (*AdminTokenClaims, error) {
	claims, err := s.ValidateAdminToken(token)
	if err != nil {
		return nil, err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if claims.Email != email {
		return nil, ErrTokenSubject
	}

	if len(s.allowedEmails) > 0 && !slices.Contains(s.allowedEmails, email) {
		return nil, ErrAdminNotPermitted
	}

	return claims, nil
}

func generateTokenID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}
