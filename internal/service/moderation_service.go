package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"impactlog/internal/domain"
	apperrors "impactlog/pkg/errors"
	"impactlog/pkg/logger"
)

// ModerationService owns the three-state approval workflow. Every transition
// away from pending, and every deletion, is gated by the verification
// credential; a mismatch aborts with no state change.
type ModerationService struct {
	sync     *SyncService
	verifier Verifier
	logger   *logger.Logger
}

// NewModerationService creates a new moderation service
func NewModerationService(sync *SyncService, verifier Verifier, logger *logger.Logger) *ModerationService {
	return &ModerationService{
		sync:     sync,
		verifier: verifier,
		logger:   logger,
	}
}

// Create validates and persists a new activity. A submission without a
// passkey starts pending; a valid passkey marks it accepted immediately; a
// wrong passkey is rejected outright with nothing persisted.
func (m *ModerationService) Create(ctx context.Context, activity domain.Activity, passkey string) (domain.Activity, error) {
	if problems := activity.Validate(); problems != nil {
		return domain.Activity{}, apperrors.NewValidationError("activity is missing required fields", problems)
	}

	activity.Normalize()

	status := domain.StatusPending
	if passkey != "" {
		if !m.verifier.Verify(passkey) {
			return domain.Activity{}, apperrors.NewAuthorizationError("incorrect verification passkey")
		}
		status = domain.StatusAccepted
	}

	activity.ID = uuid.New().String()
	activity.CreatedAt = time.Now().UnixMilli()
	activity.Status = status

	if err := m.sync.Create(ctx, activity); err != nil {
		return domain.Activity{}, err
	}

	m.logger.WithFields(map[string]interface{}{
		"activity_id": activity.ID,
		"status":      activity.Status,
	}).Info("Activity logged")
	return activity, nil
}

// Transition moves a pending record to accepted or declined. The wrong
// passkey leaves the record untouched and surfaces a rejection.
func (m *ModerationService) Transition(ctx context.Context, id string, target domain.Status, passkey string) (domain.Activity, error) {
	if target != domain.StatusAccepted && target != domain.StatusDeclined {
		return domain.Activity{}, apperrors.NewValidationError("target status must be accepted or declined", nil)
	}

	if !m.verifier.Verify(passkey) {
		return domain.Activity{}, apperrors.NewAuthorizationError("incorrect verification passkey")
	}

	current, ok := m.sync.Get(id)
	if !ok {
		return domain.Activity{}, apperrors.NewNotFoundError("activity not found: " + id)
	}
	if current.Status != domain.StatusPending {
		return domain.Activity{}, apperrors.NewValidationError("only pending records can be moderated", map[string]interface{}{
			"status": string(current.Status),
		})
	}

	updated, err := m.sync.SetStatus(ctx, id, target)
	if err != nil {
		return domain.Activity{}, err
	}

	m.logger.WithFields(map[string]interface{}{
		"activity_id": id,
		"status":      target,
	}).Info("Activity moderated")
	return updated, nil
}

// Remove deletes a record, gated by the same credential as transitions
func (m *ModerationService) Remove(ctx context.Context, id, passkey string) error {
	if !m.verifier.Verify(passkey) {
		return apperrors.NewAuthorizationError("incorrect verification passkey")
	}

	if err := m.sync.Delete(ctx, id); err != nil {
		return err
	}

	m.logger.WithField("activity_id", id).Info("Activity deleted")
	return nil
}
