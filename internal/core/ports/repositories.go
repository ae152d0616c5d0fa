package ports

import (
	"context"
	"time"

	"relief-credit-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ParticipantRepository defines persistence operations for participants.
type ParticipantRepository interface {
	Create(ctx context.Context, p *domain.Participant) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Participant, error)
	GetByUsername(ctx context.Context, username string) (*domain.Participant, error)
	UpdateWebhook(ctx context.Context, id uuid.UUID, url *string, secretEnc string) error
}

// RegistryRepository holds beneficiary membership and vendor categories.
type RegistryRepository interface {
	// AddBeneficiary inserts the account into the beneficiary set.
	// Returns true if the account was newly added, false if it was already
	// onboarded (idempotent, not an error).
	AddBeneficiary(ctx context.Context, accountID uuid.UUID, at time.Time) (bool, error)
	IsBeneficiary(ctx context.Context, accountID uuid.UUID) (bool, error)
	// UpsertVendor registers or re-registers a vendor. Last write wins.
	UpsertVendor(ctx context.Context, rec *domain.VendorRecord) error
	// GetVendor returns nil, nil when the account is not a registered vendor.
	GetVendor(ctx context.Context, accountID uuid.UUID) (*domain.VendorRecord, error)
}

// LedgerRepository defines the balance store. Methods accepting pgx.Tx run
// inside a transaction block and rely on row locks taken by GetForUpdate.
type LedgerRepository interface {
	// GetBalance returns 0 for accounts that have never been credited.
	GetBalance(ctx context.Context, accountID uuid.UUID) (int64, error)
	// GetForUpdate locks the account row. Returns nil, nil when the account
	// has no row yet (implicit zero balance).
	GetForUpdate(ctx context.Context, tx pgx.Tx, accountID uuid.UUID) (*domain.Account, error)
	// Credit adds amount to the account, creating the row on first use.
	Credit(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, amount int64) error
	// Debit subtracts amount. The caller must have locked the row and
	// verified the balance covers the amount.
	Debit(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, amount int64) error
	// SumBalances returns the sum over all accounts (conservation probe).
	SumBalances(ctx context.Context) (int64, error)
}

// SpendLimitRepository persists per-beneficiary daily spend state.
type SpendLimitRepository interface {
	// Get returns nil, nil when the account has never spent.
	Get(ctx context.Context, accountID uuid.UUID) (*domain.DailySpend, error)
	// GetForUpdate locks the row for a check-and-record inside a transaction.
	GetForUpdate(ctx context.Context, tx pgx.Tx, accountID uuid.UUID) (*domain.DailySpend, error)
	Upsert(ctx context.Context, tx pgx.Tx, d *domain.DailySpend) error
}

// AuditTotalsRepository holds the running spend totals per vendor category.
// Totals only ever increase.
type AuditTotalsRepository interface {
	Add(ctx context.Context, tx pgx.Tx, category domain.Category, amount int64) error
	// GetTotal returns 0 for a category with no recorded spend.
	GetTotal(ctx context.Context, category domain.Category) (int64, error)
	GetAll(ctx context.Context) ([]domain.CategoryTotal, error)
}

// TransferRepository persists the immutable transfer/distribution event log.
type TransferRepository interface {
	Create(ctx context.Context, tx pgx.Tx, t *domain.Transfer) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transfer, error)
	List(ctx context.Context, params TransferListParams) ([]domain.Transfer, int64, error)
}

// TransferListParams holds filter + pagination for listing transfers.
type TransferListParams struct {
	AccountID uuid.UUID // matches either side of the transfer
	Kind      *domain.TransferKind
	Category  *domain.Category
	From      *int64 // Unix timestamp
	To        *int64 // Unix timestamp
	Page      int
	PageSize  int
}

// IdempotencyRepository defines persistence for idempotency logs (DB backup).
type IdempotencyRepository interface {
	Create(ctx context.Context, tx pgx.Tx, log *domain.IdempotencyLog) error
	Get(ctx context.Context, key string) (*domain.IdempotencyLog, error)
}

// AuditLogRepository persists the operational audit trail.
type AuditLogRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
