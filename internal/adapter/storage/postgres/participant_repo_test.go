package postgres

import (
	"context"
	"testing"
	"time"

	"relief-credit-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParticipant() *domain.Participant {
	return &domain.Participant{
		ID:               uuid.New(),
		Username:         "clinic-west",
		PasswordHash:     "$argon2id$v=19$m=65536,t=3,p=2$salt$hash",
		DisplayName:      "West District Clinic",
		WebhookURL:       nil,
		WebhookSecretEnc: "enc_webhook_secret",
		Status:           domain.ParticipantStatusActive,
		CreatedAt:        time.Now().UTC().Truncate(time.Microsecond),
		UpdatedAt:        time.Now().UTC().Truncate(time.Microsecond),
	}
}

func participantColumnsList() []string {
	return []string{"id", "username", "password_hash", "display_name", "webhook_url", "webhook_secret_enc", "status", "created_at", "updated_at"}
}

func participantRow(p *domain.Participant) *pgxmock.Rows {
	return pgxmock.NewRows(participantColumnsList()).AddRow(
		p.ID, p.Username, p.PasswordHash, p.DisplayName,
		p.WebhookURL, p.WebhookSecretEnc, p.Status, p.CreatedAt, p.UpdatedAt,
	)
}

func TestParticipantRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewParticipantRepo(mock)
	p := newTestParticipant()

	mock.ExpectExec("INSERT INTO participants").
		WithArgs(p.ID, p.Username, p.PasswordHash, p.DisplayName,
			p.WebhookURL, p.WebhookSecretEnc, p.Status, p.CreatedAt, p.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), p)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipantRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewParticipantRepo(mock)
	p := newTestParticipant()

	mock.ExpectQuery("SELECT .+ FROM participants WHERE id").
		WithArgs(p.ID).
		WillReturnRows(participantRow(p))

	result, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, p.ID, result.ID)
	assert.Equal(t, p.Username, result.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipantRepo_GetByUsername_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewParticipantRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM participants WHERE username").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(participantColumnsList()))

	result, err := repo.GetByUsername(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipantRepo_UpdateWebhook(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewParticipantRepo(mock)
	id := uuid.New()
	url := "https://example.com/hooks"

	mock.ExpectExec("UPDATE participants SET webhook_url").
		WithArgs(&url, "new_enc_secret", id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.UpdateWebhook(context.Background(), id, &url, "new_enc_secret")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipantRepo_UpdateWebhook_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewParticipantRepo(mock)
	id := uuid.New()

	mock.ExpectExec("UPDATE participants SET webhook_url").
		WithArgs((*string)(nil), "enc", id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.UpdateWebhook(context.Background(), id, nil, "enc")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "participant not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}
