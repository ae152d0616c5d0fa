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

func newTestIdempotencyLog() *domain.IdempotencyLog {
	return &domain.IdempotencyLog{
		Key:          domain.BuildTransferIdempotencyKey(uuid.New(), "ref-777"),
		TransferID:   uuid.New(),
		ResponseJSON: []byte(`{"id":"abc","amount":25}`),
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestIdempotencyRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewIdempotencyRepo(mock)
	log := newTestIdempotencyLog()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO idempotency_logs").
		WithArgs(log.Key, log.TransferID, log.ResponseJSON, log.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, log)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyRepo_Get(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewIdempotencyRepo(mock)
	log := newTestIdempotencyLog()

	mock.ExpectQuery("SELECT .+ FROM idempotency_logs WHERE key").
		WithArgs(log.Key).
		WillReturnRows(pgxmock.NewRows([]string{"key", "transfer_id", "response_json", "created_at"}).
			AddRow(log.Key, log.TransferID, log.ResponseJSON, log.CreatedAt))

	result, err := repo.Get(context.Background(), log.Key)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, log.TransferID, result.TransferID)
	assert.Equal(t, log.ResponseJSON, result.ResponseJSON)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyRepo_Get_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewIdempotencyRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM idempotency_logs WHERE key").
		WithArgs("missing-key").
		WillReturnRows(pgxmock.NewRows([]string{"key", "transfer_id", "response_json", "created_at"}))

	result, err := repo.Get(context.Background(), "missing-key")
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}
