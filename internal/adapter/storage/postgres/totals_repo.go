package postgres

import (
	"context"
	"errors"
	"fmt"

	"relief-credit-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// TotalsRepo implements ports.AuditTotalsRepository.
type TotalsRepo struct {
	pool Pool
}

// NewTotalsRepo creates a new TotalsRepo.
func NewTotalsRepo(pool Pool) *TotalsRepo {
	return &TotalsRepo{pool: pool}
}

// Add increases the running total for a category. Counters only increase;
// there is no operation that decrements or deletes a row.
func (r *TotalsRepo) Add(ctx context.Context, tx pgx.Tx, category domain.Category, amount int64) error {
	query := `INSERT INTO category_totals (category, total)
		VALUES ($1, $2)
		ON CONFLICT (category) DO UPDATE SET total = category_totals.total + EXCLUDED.total`

	if _, err := tx.Exec(ctx, query, int16(category), amount); err != nil {
		return fmt.Errorf("add category total: %w", err)
	}
	return nil
}

// GetTotal returns the running total for a category, 0 when unrecorded.
func (r *TotalsRepo) GetTotal(ctx context.Context, category domain.Category) (int64, error) {
	query := `SELECT total FROM category_totals WHERE category = $1`

	var total int64
	err := r.pool.QueryRow(ctx, query, int16(category)).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get category total: %w", err)
	}
	return total, nil
}

// GetAll returns a total for every registrable category, including zeroes
// for categories with no recorded spend.
func (r *TotalsRepo) GetAll(ctx context.Context) ([]domain.CategoryTotal, error) {
	query := `SELECT category, total FROM category_totals`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list category totals: %w", err)
	}
	defer rows.Close()

	byCategory := make(map[domain.Category]int64)
	for rows.Next() {
		var category int16
		var total int64
		if err := rows.Scan(&category, &total); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		byCategory[domain.Category(category)] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category totals: %w", err)
	}

	totals := make([]domain.CategoryTotal, 0, len(domain.Categories()))
	for _, c := range domain.Categories() {
		totals = append(totals, domain.CategoryTotal{Category: c, Total: byCategory[c]})
	}
	return totals, nil
}
