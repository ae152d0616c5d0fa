package postgres

import (
	"context"
	"errors"
	"fmt"

	"relief-credit-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// LedgerRepo implements ports.LedgerRepository.
type LedgerRepo struct {
	pool Pool
}

// NewLedgerRepo creates a new LedgerRepo.
func NewLedgerRepo(pool Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

// GetBalance returns the account balance, 0 when the account has no row.
func (r *LedgerRepo) GetBalance(ctx context.Context, accountID uuid.UUID) (int64, error) {
	query := `SELECT balance FROM accounts WHERE account_id = $1`

	var balance int64
	err := r.pool.QueryRow(ctx, query, accountID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return balance, nil
}

// GetForUpdate locks the account row inside a transaction.
// Returns nil, nil when the account has never been credited.
func (r *LedgerRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, accountID uuid.UUID) (*domain.Account, error) {
	query := `SELECT account_id, balance, created_at, updated_at
		FROM accounts WHERE account_id = $1 FOR UPDATE`

	a := &domain.Account{}
	err := tx.QueryRow(ctx, query, accountID).Scan(
		&a.AccountID, &a.Balance, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account for update: %w", err)
	}
	return a, nil
}

// Credit adds amount to the account balance, creating the row on first use.
func (r *LedgerRepo) Credit(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, amount int64) error {
	query := `INSERT INTO accounts (account_id, balance, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (account_id) DO UPDATE SET balance = accounts.balance + EXCLUDED.balance, updated_at = NOW()`

	if _, err := tx.Exec(ctx, query, accountID, amount); err != nil {
		return fmt.Errorf("credit account: %w", err)
	}
	return nil
}

// Debit subtracts amount from the account balance. The CHECK constraint on
// the balance column backstops the service-layer sufficiency check.
func (r *LedgerRepo) Debit(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, amount int64) error {
	query := `UPDATE accounts SET balance = balance - $1, updated_at = NOW() WHERE account_id = $2`

	tag, err := tx.Exec(ctx, query, amount, accountID)
	if err != nil {
		return fmt.Errorf("debit account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %s", accountID)
	}
	return nil
}

// SumBalances returns the total credit in circulation.
func (r *LedgerRepo) SumBalances(ctx context.Context) (int64, error) {
	query := `SELECT COALESCE(SUM(balance), 0) FROM accounts`

	var sum int64
	if err := r.pool.QueryRow(ctx, query).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum balances: %w", err)
	}
	return sum, nil
}
