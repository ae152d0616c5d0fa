package service

import (
	"context"
	"fmt"

	"relief-credit-ledger/internal/core/domain"
	"relief-credit-ledger/internal/core/ports"
	"relief-credit-ledger/pkg/apperror"

	"github.com/google/uuid"
)

type participantService struct {
	participantRepo ports.ParticipantRepository
	encSvc          ports.EncryptionService
}

// NewParticipantService creates a new participant profile service.
func NewParticipantService(
	participantRepo ports.ParticipantRepository,
	encSvc ports.EncryptionService,
) ports.ParticipantService {
	return &participantService{
		participantRepo: participantRepo,
		encSvc:          encSvc,
	}
}

func (s *participantService) GetProfile(ctx context.Context, id uuid.UUID) (*domain.Participant, error) {
	participant, err := s.participantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if participant == nil {
		return nil, apperror.ErrNotFound("participant")
	}
	return participant, nil
}

func (s *participantService) UpdateWebhookURL(ctx context.Context, id uuid.UUID, url *string) error {
	participant, err := s.participantRepo.GetByID(ctx, id)
	if err != nil {
		return apperror.InternalError(err)
	}
	if participant == nil {
		return apperror.ErrNotFound("participant")
	}

	if err := s.participantRepo.UpdateWebhook(ctx, id, url, participant.WebhookSecretEnc); err != nil {
		return apperror.InternalError(err)
	}
	return nil
}

// RotateWebhookSecret generates a new signing secret. The plaintext is
// returned once and only the encrypted form is stored.
func (s *participantService) RotateWebhookSecret(ctx context.Context, id uuid.UUID) (string, error) {
	participant, err := s.participantRepo.GetByID(ctx, id)
	if err != nil {
		return "", apperror.InternalError(err)
	}
	if participant == nil {
		return "", apperror.ErrNotFound("participant")
	}

	newSecret, err := generateSecret("whsec_", 32)
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("generate webhook secret: %w", err))
	}
	secretEnc, err := s.encSvc.Encrypt(newSecret)
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("encrypt webhook secret: %w", err))
	}

	if err := s.participantRepo.UpdateWebhook(ctx, id, participant.WebhookURL, secretEnc); err != nil {
		return "", apperror.InternalError(err)
	}

	return newSecret, nil
}
