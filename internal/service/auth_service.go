package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"relief-credit-ledger/internal/core/domain"
	"relief-credit-ledger/internal/core/ports"
	"relief-credit-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	participantRepo ports.ParticipantRepository
	hashSvc         ports.HashService
	encSvc          ports.EncryptionService
	tokenSvc        ports.TokenService
	log             zerolog.Logger
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	participantRepo ports.ParticipantRepository,
	hashSvc ports.HashService,
	encSvc ports.EncryptionService,
	tokenSvc ports.TokenService,
	log zerolog.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		participantRepo: participantRepo,
		hashSvc:         hashSvc,
		encSvc:          encSvc,
		tokenSvc:        tokenSvc,
		log:             log,
	}
}

// Register creates a new participant account.
// Returns the webhook signing secret (plaintext shown only once).
func (s *AuthServiceImpl) Register(ctx context.Context, req ports.RegisterRequest) (*ports.RegisterResponse, error) {
	existing, err := s.participantRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check username: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrUsernameExists()
	}

	webhookSecret, err := generateSecret("whsec_", 32)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate webhook secret: %w", err))
	}

	passwordHash, err := s.hashSvc.Hash(req.Password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	// Webhook secret is stored encrypted, never in plaintext.
	secretEnc, err := s.encSvc.Encrypt(webhookSecret)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("encrypt webhook secret: %w", err))
	}

	now := time.Now().UTC()
	participant := &domain.Participant{
		ID:               uuid.New(),
		Username:         req.Username,
		PasswordHash:     passwordHash,
		DisplayName:      req.DisplayName,
		WebhookURL:       req.WebhookURL,
		WebhookSecretEnc: secretEnc,
		Status:           domain.ParticipantStatusActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.participantRepo.Create(ctx, participant); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create participant: %w", err))
	}

	s.log.Info().
		Str("participant_id", participant.ID.String()).
		Str("username", participant.Username).
		Msg("participant registered")

	return &ports.RegisterResponse{
		ParticipantID: participant.ID,
		WebhookSecret: webhookSecret,
	}, nil
}

// Login validates credentials and returns a JWT token.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	participant, err := s.participantRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("find participant: %w", err))
	}
	if participant == nil {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	valid, err := s.hashSvc.Verify(password, participant.PasswordHash)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !valid {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	if !participant.IsActive() {
		return "", time.Time{}, apperror.ErrParticipantSuspended()
	}

	token, expiry, err := s.tokenSvc.Generate(participant.ID, participant.Username)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	return token, expiry, nil
}

// EnsureAdmin creates the program administrator participant on first startup
// and returns its account ID. Subsequent calls find the existing account.
func (s *AuthServiceImpl) EnsureAdmin(ctx context.Context, username, password string) (uuid.UUID, error) {
	existing, err := s.participantRepo.GetByUsername(ctx, username)
	if err != nil {
		return uuid.Nil, apperror.InternalError(fmt.Errorf("find admin: %w", err))
	}
	if existing != nil {
		return existing.ID, nil
	}

	passwordHash, err := s.hashSvc.Hash(password)
	if err != nil {
		return uuid.Nil, apperror.InternalError(fmt.Errorf("hash admin password: %w", err))
	}

	webhookSecret, err := generateSecret("whsec_", 32)
	if err != nil {
		return uuid.Nil, apperror.InternalError(fmt.Errorf("generate webhook secret: %w", err))
	}
	secretEnc, err := s.encSvc.Encrypt(webhookSecret)
	if err != nil {
		return uuid.Nil, apperror.InternalError(fmt.Errorf("encrypt webhook secret: %w", err))
	}

	now := time.Now().UTC()
	admin := &domain.Participant{
		ID:               uuid.New(),
		Username:         username,
		PasswordHash:     passwordHash,
		DisplayName:      "Program Administrator",
		WebhookSecretEnc: secretEnc,
		Status:           domain.ParticipantStatusActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.participantRepo.Create(ctx, admin); err != nil {
		return uuid.Nil, apperror.InternalError(fmt.Errorf("create admin: %w", err))
	}

	s.log.Info().
		Str("participant_id", admin.ID.String()).
		Str("username", username).
		Msg("administrator account created")

	return admin.ID, nil
}

// generateSecret generates a prefixed random hex secret of n bytes.
func generateSecret(prefix string, n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return prefix + hex.EncodeToString(b), nil
}
