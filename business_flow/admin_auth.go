package businessflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirphl/jetcharter/app/dto"
	"github.com/amirphl/jetcharter/app/services"
	"github.com/amirphl/jetcharter/models"
	"github.com/amirphl/jetcharter/repository"
)

// authorizeAdmin checks the admin credentials carried in a request body. Failures are audited.
func authorizeAdmin(ctx context.Context, tokens services.AdminTokenService, auditRepo repository.AuditLogRepository, creds dto.AdminCredentials, metadata *ClientMetadata) (string, error) {
	claims, err := tokens.Authorize(creds.AdminEmail, creds.AdminToken)
	if err == nil {
		return claims.Email, nil
	}

	var result error
	if errors.Is(err, services.ErrAdminNotPermitted) {
		result = NewBusinessError("ADMIN_FORBIDDEN", "Admin is not permitted to perform this action", ErrAdminForbidden)
	} else {
		result = NewBusinessError("ADMIN_UNAUTHORIZED", "Admin token is missing, invalid or expired", ErrAdminUnauthorized)
	}

	errMsg := err.Error()
	_ = createAuditLog(ctx, auditRepo, auditEntry{
		Action:      models.AuditActionAdminAuthFailed,
		ActorEmail:  creds.AdminEmail,
		Description: fmt.Sprintf("Admin authorization failed for %s", creds.AdminEmail),
		Outcome:     models.AuditOutcomeError,
		Success:     false,
		ErrorMsg:    &errMsg,
	}, metadata)

	return "", result
}
