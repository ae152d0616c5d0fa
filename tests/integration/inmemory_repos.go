package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"relief-credit-ledger/internal/core/domain"
	"relief-credit-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- In-Memory Participant Repo ---

type inMemoryParticipantRepo struct {
	mu           sync.RWMutex
	participants map[uuid.UUID]*domain.Participant
}

func newInMemoryParticipantRepo() *inMemoryParticipantRepo {
	return &inMemoryParticipantRepo{participants: make(map[uuid.UUID]*domain.Participant)}
}

func (r *inMemoryParticipantRepo) Create(ctx context.Context, p *domain.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.participants {
		if existing.Username == p.Username {
			return fmt.Errorf("username already exists")
		}
	}
	cp := *p
	r.participants[p.ID] = &cp
	return nil
}

func (r *inMemoryParticipantRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.participants[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *inMemoryParticipantRepo) GetByUsername(ctx context.Context, username string) (*domain.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.participants {
		if p.Username == username {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryParticipantRepo) UpdateWebhook(ctx context.Context, id uuid.UUID, url *string, secretEnc string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[id]
	if !ok {
		return fmt.Errorf("participant not found")
	}
	p.WebhookURL = url
	p.WebhookSecretEnc = secretEnc
	p.UpdatedAt = time.Now()
	return nil
}

// --- In-Memory Registry Repo ---

type inMemoryRegistryRepo struct {
	mu            sync.RWMutex
	beneficiaries map[uuid.UUID]time.Time
	vendors       map[uuid.UUID]*domain.VendorRecord
}

func newInMemoryRegistryRepo() *inMemoryRegistryRepo {
	return &inMemoryRegistryRepo{
		beneficiaries: make(map[uuid.UUID]time.Time),
		vendors:       make(map[uuid.UUID]*domain.VendorRecord),
	}
}

func (r *inMemoryRegistryRepo) AddBeneficiary(ctx context.Context, accountID uuid.UUID, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.beneficiaries[accountID]; ok {
		return false, nil
	}
	r.beneficiaries[accountID] = at
	return true, nil
}

func (r *inMemoryRegistryRepo) IsBeneficiary(ctx context.Context, accountID uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.beneficiaries[accountID]
	return ok, nil
}

func (r *inMemoryRegistryRepo) UpsertVendor(ctx context.Context, rec *domain.VendorRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.vendors[rec.AccountID]; ok {
		existing.Category = rec.Category
		existing.UpdatedAt = rec.UpdatedAt
		return nil
	}
	cp := *rec
	r.vendors[rec.AccountID] = &cp
	return nil
}

func (r *inMemoryRegistryRepo) GetVendor(ctx context.Context, accountID uuid.UUID) (*domain.VendorRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.vendors[accountID]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

// --- In-Memory Ledger Repo ---

type inMemoryLedgerRepo struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*domain.Account
}

func newInMemoryLedgerRepo() *inMemoryLedgerRepo {
	return &inMemoryLedgerRepo{accounts: make(map[uuid.UUID]*domain.Account)}
}

func (r *inMemoryLedgerRepo) GetBalance(ctx context.Context, accountID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[accountID]
	if !ok {
		return 0, nil
	}
	return a.Balance, nil
}

func (r *inMemoryLedgerRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, accountID uuid.UUID) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[accountID]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *inMemoryLedgerRepo) Credit(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[accountID]
	if !ok {
		now := time.Now()
		r.accounts[accountID] = &domain.Account{AccountID: accountID, Balance: amount, CreatedAt: now, UpdatedAt: now}
		return nil
	}
	a.Balance += amount
	a.UpdatedAt = time.Now()
	return nil
}

func (r *inMemoryLedgerRepo) Debit(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[accountID]
	if !ok || a.Balance < amount {
		return fmt.Errorf("insufficient balance")
	}
	a.Balance -= amount
	a.UpdatedAt = time.Now()
	return nil
}

func (r *inMemoryLedgerRepo) SumBalances(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var sum int64
	for _, a := range r.accounts {
		sum += a.Balance
	}
	return sum, nil
}

// --- In-Memory Spend Limit Repo ---

type inMemorySpendRepo struct {
	mu    sync.RWMutex
	spend map[uuid.UUID]*domain.DailySpend
}

func newInMemorySpendRepo() *inMemorySpendRepo {
	return &inMemorySpendRepo{spend: make(map[uuid.UUID]*domain.DailySpend)}
}

func (r *inMemorySpendRepo) Get(ctx context.Context, accountID uuid.UUID) (*domain.DailySpend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.spend[accountID]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r *inMemorySpendRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, accountID uuid.UUID) (*domain.DailySpend, error) {
	return r.Get(ctx, accountID)
}

func (r *inMemorySpendRepo) Upsert(ctx context.Context, tx pgx.Tx, d *domain.DailySpend) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *d
	r.spend[d.AccountID] = &cp
	return nil
}

// --- In-Memory Audit Totals Repo ---

type inMemoryTotalsRepo struct {
	mu     sync.RWMutex
	totals map[domain.Category]int64
}

func newInMemoryTotalsRepo() *inMemoryTotalsRepo {
	return &inMemoryTotalsRepo{totals: make(map[domain.Category]int64)}
}

func (r *inMemoryTotalsRepo) Add(ctx context.Context, tx pgx.Tx, category domain.Category, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.totals[category] += amount
	return nil
}

func (r *inMemoryTotalsRepo) GetTotal(ctx context.Context, category domain.Category) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.totals[category], nil
}

func (r *inMemoryTotalsRepo) GetAll(ctx context.Context) ([]domain.CategoryTotal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.CategoryTotal, 0, len(r.totals))
	for c, t := range r.totals {
		out = append(out, domain.CategoryTotal{Category: c, Total: t})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

// --- In-Memory Transfer Repo ---

type inMemoryTransferRepo struct {
	mu        sync.RWMutex
	transfers []domain.Transfer
}

func newInMemoryTransferRepo() *inMemoryTransferRepo {
	return &inMemoryTransferRepo{}
}

func (r *inMemoryTransferRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transfer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transfers = append(r.transfers, *t)
	return nil
}

func (r *inMemoryTransferRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transfer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.transfers {
		if r.transfers[i].ID == id {
			cp := r.transfers[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryTransferRepo) List(ctx context.Context, params ports.TransferListParams) ([]domain.Transfer, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []domain.Transfer
	for _, t := range r.transfers {
		if t.ToAccount != params.AccountID && (t.FromAccount == nil || *t.FromAccount != params.AccountID) {
			continue
		}
		if params.Kind != nil && t.Kind != *params.Kind {
			continue
		}
		if params.Category != nil && t.Category != *params.Category {
			continue
		}
		if params.From != nil && t.CreatedAt.Unix() < *params.From {
			continue
		}
		if params.To != nil && t.CreatedAt.Unix() > *params.To {
			continue
		}
		matched = append(matched, t)
	}

	// Newest first, as the SQL repo orders by created_at DESC.
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	start := (params.Page - 1) * params.PageSize
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + params.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// --- In-Memory Idempotency Repo ---

type inMemoryIdempotencyRepo struct {
	mu   sync.RWMutex
	logs map[string]*domain.IdempotencyLog
}

func newInMemoryIdempotencyRepo() *inMemoryIdempotencyRepo {
	return &inMemoryIdempotencyRepo{logs: make(map[string]*domain.IdempotencyLog)}
}

func (r *inMemoryIdempotencyRepo) Create(ctx context.Context, tx pgx.Tx, log *domain.IdempotencyLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.logs[log.Key]; ok {
		return fmt.Errorf("duplicate idempotency key")
	}
	cp := *log
	r.logs[log.Key] = &cp
	return nil
}

func (r *inMemoryIdempotencyRepo) Get(ctx context.Context, key string) (*domain.IdempotencyLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.logs[key]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

// --- In-Memory Audit Log Repo ---

type inMemoryAuditLogRepo struct {
	mu   sync.Mutex
	logs []domain.AuditLog
}

func newInMemoryAuditLogRepo() *inMemoryAuditLogRepo {
	return &inMemoryAuditLogRepo{}
}

func (r *inMemoryAuditLogRepo) Create(ctx context.Context, log *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, *log)
	return nil
}

// --- In-Memory Transactor ---

// inMemoryTransactor serialises transactions with a single mutex, standing in
// for the row locks the SQL repositories take with FOR UPDATE. Concurrency
// tests depend on this: two transfers against the same account must not
// interleave between GetForUpdate and Debit.
type inMemoryTransactor struct {
	mu sync.Mutex
}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	return &lockTx{release: t.mu.Unlock}, nil
}

// lockTx holds the transactor mutex until Commit or Rollback, whichever
// comes first (the service calls Rollback via defer after a Commit).
type lockTx struct {
	once    sync.Once
	release func()
}

func (t *lockTx) done() {
	t.once.Do(t.release)
}

func (t *lockTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *lockTx) Commit(ctx context.Context) error          { t.done(); return nil }
func (t *lockTx) Rollback(ctx context.Context) error        { t.done(); return nil }
func (t *lockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *lockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *lockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *lockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *lockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *lockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *lockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *lockTx) Conn() *pgx.Conn { return nil }
