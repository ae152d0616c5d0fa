package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"relief-credit-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RegistryRepo implements ports.RegistryRepository.
type RegistryRepo struct {
	pool Pool
}

// NewRegistryRepo creates a new RegistryRepo.
func NewRegistryRepo(pool Pool) *RegistryRepo {
	return &RegistryRepo{pool: pool}
}

// AddBeneficiary inserts the account into the beneficiary set.
// ON CONFLICT DO NOTHING makes repeated onboarding a no-op.
func (r *RegistryRepo) AddBeneficiary(ctx context.Context, accountID uuid.UUID, at time.Time) (bool, error) {
	query := `INSERT INTO beneficiaries (account_id, onboarded_at)
		VALUES ($1, $2)
		ON CONFLICT (account_id) DO NOTHING`

	tag, err := r.pool.Exec(ctx, query, accountID, at)
	if err != nil {
		return false, fmt.Errorf("insert beneficiary: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// IsBeneficiary reports membership in the beneficiary set.
func (r *RegistryRepo) IsBeneficiary(ctx context.Context, accountID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM beneficiaries WHERE account_id = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, accountID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check beneficiary: %w", err)
	}
	return exists, nil
}

// UpsertVendor registers or re-registers a vendor. Last write wins.
func (r *RegistryRepo) UpsertVendor(ctx context.Context, rec *domain.VendorRecord) error {
	query := `INSERT INTO vendors (account_id, category, registered_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (account_id) DO UPDATE SET category = EXCLUDED.category, updated_at = EXCLUDED.updated_at`

	_, err := r.pool.Exec(ctx, query, rec.AccountID, int16(rec.Category), rec.RegisteredAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert vendor: %w", err)
	}
	return nil
}

// GetVendor fetches a vendor record. Returns nil, nil when absent.
func (r *RegistryRepo) GetVendor(ctx context.Context, accountID uuid.UUID) (*domain.VendorRecord, error) {
	query := `SELECT account_id, category, registered_at, updated_at FROM vendors WHERE account_id = $1`

	rec := &domain.VendorRecord{}
	var category int16
	err := r.pool.QueryRow(ctx, query, accountID).Scan(
		&rec.AccountID, &category, &rec.RegisteredAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vendor: %w", err)
	}
	rec.Category = domain.Category(category)
	return rec, nil
}
