package businessflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/amirphl/jetcharter/app/metrics"
	"github.com/amirphl/jetcharter/models"
	"github.com/amirphl/jetcharter/repository"
	"github.com/amirphl/jetcharter/utils"
	"github.com/google/uuid"
)

// StatusLog is the append-only record of lifecycle transitions.
// The current status of an entity is the ToStatus of its latest event, or the
// entity's initial status when it has no history.
type StatusLog interface {
	// RecordTransition validates current -> requested and appends the event. Nothing is
	// written when the transition is rejected.
	RecordTransition(ctx context.Context, entityType models.EntityType, entityID uuid.UUID, actorEmail, requested string, note *string) (*models.StatusEvent, error)
	// GetHistory returns the events of an entity, most recent first
	GetHistory(ctx context.Context, entityType models.EntityType, entityID uuid.UUID) ([]*models.StatusEvent, error)
	GetCurrentStatus(ctx context.Context, entityType models.EntityType, entityID uuid.UUID) (string, error)
}

// StatusLogImpl implements StatusLog on top of the status event repository
type StatusLogImpl struct {
	eventRepo repository.StatusEventRepository
}

func NewStatusLog(eventRepo repository.StatusEventRepository) StatusLog {
	return &StatusLogImpl{eventRepo: eventRepo}
}

func (s *StatusLogImpl) RecordTransition(ctx context.Context, entityType models.EntityType, entityID uuid.UUID, actorEmail, requested string, note *string) (*models.StatusEvent, error) {
	if !entityType.IsValid() {
		return nil, NewBusinessErrorf("INVALID_ENTITY_TYPE", "unknown entity type %q", ErrValidation, entityType)
	}
	if strings.TrimSpace(actorEmail) == "" {
		return nil, NewBusinessError("ACTOR_REQUIRED", "actor email is required", ErrValidation)
	}

	current, err := s.GetCurrentStatus(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}

	if !models.CanTransition(entityType, current, requested) {
		return nil, &InvalidTransitionError{
			EntityType: string(entityType),
			From:       current,
			To:         requested,
			Allowed:    models.AllowedNextStatuses(entityType, current),
		}
	}

	event := &models.StatusEvent{
		EntityType: entityType,
		EntityID:   entityID,
		FromStatus: current,
		ToStatus:   requested,
		ActorEmail: strings.ToLower(strings.TrimSpace(actorEmail)),
		Note:       note,
		CreatedAt:  utils.UTCNow(),
	}
	if requestID, ok := ctx.Value(utils.RequestIDKey).(string); ok && requestID != "" {
		event.RequestID = &requestID
	}

	if err := s.eventRepo.Save(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to record %s status transition: %w", entityType, err)
	}

	metrics.StatusTransitions.WithLabelValues(string(entityType), current, requested).Inc()

	return event, nil
}

func (s *StatusLogImpl) GetHistory(ctx context.Context, entityType models.EntityType, entityID uuid.UUID) ([]*models.StatusEvent, error) {
	events, err := s.eventRepo.ListByEntity(ctx, entityType, entityID, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s history: %w", entityType, err)
	}
	return events, nil
}

func (s *StatusLogImpl) GetCurrentStatus(ctx context.Context, entityType models.EntityType, entityID uuid.UUID) (string, error) {
	latest, err := s.eventRepo.LatestByEntity(ctx, entityType, entityID)
	if err != nil {
		return "", fmt.Errorf("failed to load %s status: %w", entityType, err)
	}
	if latest == nil {
		return models.InitialStatus(entityType), nil
	}
	return latest.ToStatus, nil
}
