package postgres

import (
	"context"
	"errors"
	"fmt"

	"relief-credit-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SpendLimitRepo implements ports.SpendLimitRepository.
type SpendLimitRepo struct {
	pool Pool
}

// NewSpendLimitRepo creates a new SpendLimitRepo.
func NewSpendLimitRepo(pool Pool) *SpendLimitRepo {
	return &SpendLimitRepo{pool: pool}
}

// Get fetches daily spend state without locking (query path).
// Returns nil, nil when the account has never spent.
func (r *SpendLimitRepo) Get(ctx context.Context, accountID uuid.UUID) (*domain.DailySpend, error) {
	query := `SELECT account_id, day_index, spent_amount FROM daily_spend WHERE account_id = $1`
	return scanDailySpend(r.pool.QueryRow(ctx, query, accountID), "get daily spend")
}

// GetForUpdate locks the daily spend row for a check-and-record.
// Returns nil, nil when the account has never spent.
func (r *SpendLimitRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, accountID uuid.UUID) (*domain.DailySpend, error) {
	query := `SELECT account_id, day_index, spent_amount FROM daily_spend WHERE account_id = $1 FOR UPDATE`
	return scanDailySpend(tx.QueryRow(ctx, query, accountID), "get daily spend for update")
}

// Upsert stores the new (day_index, spent_amount) pair for the account.
func (r *SpendLimitRepo) Upsert(ctx context.Context, tx pgx.Tx, d *domain.DailySpend) error {
	query := `INSERT INTO daily_spend (account_id, day_index, spent_amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_id) DO UPDATE SET day_index = EXCLUDED.day_index, spent_amount = EXCLUDED.spent_amount`

	if _, err := tx.Exec(ctx, query, d.AccountID, d.DayIndex, d.SpentAmount); err != nil {
		return fmt.Errorf("upsert daily spend: %w", err)
	}
	return nil
}

func scanDailySpend(row pgx.Row, op string) (*domain.DailySpend, error) {
	d := &domain.DailySpend{}
	err := row.Scan(&d.AccountID, &d.DayIndex, &d.SpentAmount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return d, nil
}
