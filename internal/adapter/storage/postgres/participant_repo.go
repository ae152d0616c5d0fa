package postgres

import (
	"context"
	"errors"
	"fmt"

	"relief-credit-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ParticipantRepo implements ports.ParticipantRepository.
type ParticipantRepo struct {
	pool Pool
}

// NewParticipantRepo creates a new ParticipantRepo.
func NewParticipantRepo(pool Pool) *ParticipantRepo {
	return &ParticipantRepo{pool: pool}
}

const participantColumns = `id, username, password_hash, display_name, webhook_url, webhook_secret_enc, status, created_at, updated_at`

// Create inserts a new participant.
func (r *ParticipantRepo) Create(ctx context.Context, p *domain.Participant) error {
	query := `INSERT INTO participants (` + participantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.Username, p.PasswordHash, p.DisplayName,
		p.WebhookURL, p.WebhookSecretEnc, p.Status, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert participant: %w", err)
	}
	return nil
}

// GetByID fetches a participant by its UUID.
func (r *ParticipantRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id), "get participant by id")
}

// GetByUsername fetches a participant by username.
func (r *ParticipantRepo) GetByUsername(ctx context.Context, username string) (*domain.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE username = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, username), "get participant by username")
}

// UpdateWebhook sets the webhook URL and encrypted signing secret.
func (r *ParticipantRepo) UpdateWebhook(ctx context.Context, id uuid.UUID, url *string, secretEnc string) error {
	query := `UPDATE participants SET webhook_url = $1, webhook_secret_enc = $2, updated_at = NOW() WHERE id = $3`

	tag, err := r.pool.Exec(ctx, query, url, secretEnc, id)
	if err != nil {
		return fmt.Errorf("update participant webhook: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("participant not found: %s", id)
	}
	return nil
}

func (r *ParticipantRepo) scanOne(row pgx.Row, op string) (*domain.Participant, error) {
	p := &domain.Participant{}
	err := row.Scan(
		&p.ID, &p.Username, &p.PasswordHash, &p.DisplayName,
		&p.WebhookURL, &p.WebhookSecretEnc, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}
