// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"errors"
	"strings"

	"github.com/amirphl/jetcharter/app/dto"
	"github.com/amirphl/jetcharter/app/services"
	"github.com/gofiber/fiber/v3"
)

const (
	adminEmailHeader = "X-Admin-Email"

	localAdminEmail  = "admin_email"
	localTokenID     = "token_id"
	localTokenClaims = "token_claims"
)

// AdminAuthMiddleware guards the read-only admin endpoints with a Bearer admin token
type AdminAuthMiddleware struct {
	tokenService services.AdminTokenService
}

// NewAdminAuthMiddleware creates a new admin authentication middleware
func NewAdminAuthMiddleware(tokenService services.AdminTokenService) *AdminAuthMiddleware {
	return &AdminAuthMiddleware{
		tokenService: tokenService,
	}
}

// Authenticate validates the Bearer token. When X-Admin-Email is sent it must match the token subject.
func (m *AdminAuthMiddleware) Authenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, fiber.StatusUnauthorized, "Authorization header is required", "MISSING_AUTHORIZATION_HEADER")
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return unauthorized(c, fiber.StatusUnauthorized, "Invalid authorization header format. Expected 'Bearer <token>'", "INVALID_AUTHORIZATION_FORMAT")
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			return unauthorized(c, fiber.StatusUnauthorized, "Access token is required", "MISSING_ACCESS_TOKEN")
		}

		email := strings.TrimSpace(c.Get(adminEmailHeader))
		if email == "" {
			claims, err := m.tokenService.ValidateAdminToken(token)
			if err != nil {
				return tokenError(c, err)
			}
			email = claims.Email
		}

		claims, err := m.tokenService.Authorize(email, token)
		if err != nil {
			return tokenError(c, err)
		}

		c.Locals(localAdminEmail, claims.Email)
		c.Locals(localTokenID, claims.TokenID)
		c.Locals(localTokenClaims, claims)

		return c.Next()
	}
}

func tokenError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrTokenExpired):
		return unauthorized(c, fiber.StatusUnauthorized, "Access token has expired", "TOKEN_EXPIRED")
	case errors.Is(err, services.ErrTokenSubject):
		return unauthorized(c, fiber.StatusUnauthorized, "Access token was not issued to this admin", "TOKEN_SUBJECT_MISMATCH")
	case errors.Is(err, services.ErrAdminNotPermitted):
		return unauthorized(c, fiber.StatusForbidden, "Admin is not permitted", "ADMIN_NOT_PERMITTED")
	case errors.Is(err, services.ErrTokenInvalid):
		return unauthorized(c, fiber.StatusUnauthorized, "Invalid access token", "TOKEN_INVALID")
	default:
		return unauthorized(c, fiber.StatusUnauthorized, "Token validation failed", "TOKEN_VALIDATION_FAILED")
	}
}

func unauthorized(c fiber.Ctx, status int, message, code string) error {
	return c.Status(status).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error:   dto.ErrorDetail{Code: code},
	})
}

// GetAdminEmailFromContext extracts the authenticated admin email from the request context
func GetAdminEmailFromContext(c fiber.Ctx) (string, bool) {
	email, ok := c.Locals(localAdminEmail).(string)
	return email, ok && email != ""
}

// GetAdminClaimsFromContext extracts admin token claims from the request context
func GetAdminClaimsFromContext(c fiber.Ctx) (*services.AdminTokenClaims, bool) {
	claims, ok := c.Locals(localTokenClaims).(*services.AdminTokenClaims)
	return claims, ok
}
