package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"relief-credit-ledger/internal/core/domain"
	"relief-credit-ledger/internal/core/ports"
	"relief-credit-ledger/internal/metrics"
	"relief-credit-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const idempotencyTTL = 24 * time.Hour

// LedgerServiceImpl implements ports.LedgerService. It is the only component
// that mutates more than one piece of state per logical operation; every
// operation runs inside a single database transaction so that either all
// mutations commit or none do.
type LedgerServiceImpl struct {
	ledgerRepo   ports.LedgerRepository
	registryRepo ports.RegistryRepository
	spendRepo    ports.SpendLimitRepository
	totalsRepo   ports.AuditTotalsRepository
	transferRepo ports.TransferRepository
	idempRepo    ports.IdempotencyRepository
	idempCache   ports.IdempotencyCache
	transactor   ports.DBTransactor
	adminID      uuid.UUID
	dailyLimit   int64
	dayLength    time.Duration
	nowFn        func() time.Time
	log          zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl. nowFn supplies the
// operation timestamp ("now" comes from the caller's execution context);
// pass nil to use time.Now.
func NewLedgerService(
	ledgerRepo ports.LedgerRepository,
	registryRepo ports.RegistryRepository,
	spendRepo ports.SpendLimitRepository,
	totalsRepo ports.AuditTotalsRepository,
	transferRepo ports.TransferRepository,
	idempRepo ports.IdempotencyRepository,
	idempCache ports.IdempotencyCache,
	transactor ports.DBTransactor,
	adminID uuid.UUID,
	dailyLimit int64,
	dayLength time.Duration,
	nowFn func() time.Time,
	log zerolog.Logger,
) *LedgerServiceImpl {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &LedgerServiceImpl{
		ledgerRepo:   ledgerRepo,
		registryRepo: registryRepo,
		spendRepo:    spendRepo,
		totalsRepo:   totalsRepo,
		transferRepo: transferRepo,
		idempRepo:    idempRepo,
		idempCache:   idempCache,
		transactor:   transactor,
		adminID:      adminID,
		dailyLimit:   dailyLimit,
		dayLength:    dayLength,
		nowFn:        nowFn,
		log:          log,
	}
}

// DistributeAid credits new relief units to an onboarded beneficiary.
// This is the only supply-expanding path in the system: one credit with no
// matching debit.
func (s *LedgerServiceImpl) DistributeAid(ctx context.Context, req ports.DistributeRequest) (t *domain.Transfer, err error) {
	defer func() { metrics.ObserveOperation("distribute_aid", err) }()

	if req.Caller != s.adminID {
		return nil, apperror.ErrUnauthorized()
	}

	onboarded, err := s.registryRepo.IsBeneficiary(ctx, req.Beneficiary)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check beneficiary: %w", err))
	}
	if !onboarded {
		return nil, apperror.ErrUnknownBeneficiary()
	}

	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	idempKey := domain.BuildDistributionIdempotencyKey(req.Beneficiary, req.ReferenceID)
	if cached, found := s.checkIdempotency(ctx, idempKey); found {
		return cached, nil
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.ledgerRepo.Credit(ctx, dbTx, req.Beneficiary, req.Amount); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("credit beneficiary: %w", err))
	}

	now := s.nowFn().UTC()
	transfer := &domain.Transfer{
		ID:          uuid.New(),
		ReferenceID: req.ReferenceID,
		Kind:        domain.TransferKindDistribution,
		FromAccount: nil,
		ToAccount:   req.Beneficiary,
		Amount:      req.Amount,
		Category:    domain.CategoryNone,
		DayIndex:    domain.DayIndexAt(now, s.dayLength),
		CreatedAt:   now,
	}

	if err := s.transferRepo.Create(ctx, dbTx, transfer); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create distribution record: %w", err))
	}

	respJSON, err := s.saveIdempotencyLog(ctx, dbTx, idempKey, transfer, now)
	if err != nil {
		return nil, err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.cacheIdempotency(ctx, idempKey, respJSON)
	metrics.AddDistributedUnits(req.Amount)

	s.log.Info().
		Str("transfer_id", transfer.ID.String()).
		Str("beneficiary", req.Beneficiary.String()).
		Int64("amount", req.Amount).
		Msg("aid distributed")

	return transfer, nil
}

// Transfer moves balance from the caller to a recipient. Vendor-directed
// transfers are capped per accounting day and aggregated per category;
// transfers to unregistered accounts move balance without cap or audit.
func (s *LedgerServiceImpl) Transfer(ctx context.Context, req ports.TransferRequest) (t *domain.Transfer, err error) {
	defer func() { metrics.ObserveOperation("transfer", err) }()

	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	idempKey := domain.BuildTransferIdempotencyKey(req.Caller, req.ReferenceID)
	if cached, found := s.checkIdempotency(ctx, idempKey); found {
		return cached, nil
	}

	vendor, err := s.registryRepo.GetVendor(ctx, req.Recipient)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("resolve recipient category: %w", err))
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Lock the sender's balance row for the whole operation.
	sender, err := s.ledgerRepo.GetForUpdate(ctx, dbTx, req.Caller)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock sender account: %w", err))
	}
	if sender == nil || sender.Balance < req.Amount {
		return nil, apperror.ErrInsufficientBalance()
	}

	now := s.nowFn().UTC()
	today := domain.DayIndexAt(now, s.dayLength)

	if vendor != nil {
		if err := s.checkAndRecordSpend(ctx, dbTx, req.Caller, req.Amount, today); err != nil {
			return nil, err
		}
	}

	if err := s.ledgerRepo.Debit(ctx, dbTx, req.Caller, req.Amount); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("debit sender: %w", err))
	}
	if err := s.ledgerRepo.Credit(ctx, dbTx, req.Recipient, req.Amount); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("credit recipient: %w", err))
	}

	category := domain.CategoryNone
	if vendor != nil {
		category = vendor.Category
		if err := s.totalsRepo.Add(ctx, dbTx, category, req.Amount); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("record category total: %w", err))
		}
	}

	from := req.Caller
	transfer := &domain.Transfer{
		ID:          uuid.New(),
		ReferenceID: req.ReferenceID,
		Kind:        domain.TransferKindTransfer,
		FromAccount: &from,
		ToAccount:   req.Recipient,
		Amount:      req.Amount,
		Category:    category,
		DayIndex:    today,
		CreatedAt:   now,
	}

	if err := s.transferRepo.Create(ctx, dbTx, transfer); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create transfer record: %w", err))
	}

	respJSON, err := s.saveIdempotencyLog(ctx, dbTx, idempKey, transfer, now)
	if err != nil {
		return nil, err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.cacheIdempotency(ctx, idempKey, respJSON)
	if vendor != nil {
		metrics.AddVendorSpend(category, req.Amount)
	}

	s.log.Info().
		Str("transfer_id", transfer.ID.String()).
		Str("from", req.Caller.String()).
		Str("to", req.Recipient.String()).
		Int64("amount", req.Amount).
		Str("category", category.String()).
		Msg("transfer completed")

	return transfer, nil
}

// checkAndRecordSpend enforces the daily cap against the locked spend row.
// A stored day index older than today counts as zero (lazy reset); rejection
// leaves the row untouched because the surrounding transaction rolls back.
func (s *LedgerServiceImpl) checkAndRecordSpend(ctx context.Context, dbTx pgx.Tx, account uuid.UUID, amount int64, today int64) error {
	spend, err := s.spendRepo.GetForUpdate(ctx, dbTx, account)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock daily spend: %w", err))
	}

	spentSoFar := spend.SpentOn(today)
	if spentSoFar+amount > s.dailyLimit {
		return apperror.ErrDailyLimitExceeded()
	}

	return wrapInternal(s.spendRepo.Upsert(ctx, dbTx, &domain.DailySpend{
		AccountID:   account,
		DayIndex:    today,
		SpentAmount: spentSoFar + amount,
	}), "record daily spend")
}

// checkIdempotency returns a previously cached result for the key, checking
// Redis first and the database log second.
func (s *LedgerServiceImpl) checkIdempotency(ctx context.Context, key string) (*domain.Transfer, bool) {
	cached, err := s.idempCache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("redis idempotency check failed, falling through to DB")
	}
	if cached != nil {
		if t, err := unmarshalTransfer(cached); err == nil {
			return t, true
		}
	}

	idempLog, err := s.idempRepo.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("db idempotency check failed")
		return nil, false
	}
	if idempLog != nil {
		if t, err := unmarshalTransfer(idempLog.ResponseJSON); err == nil {
			return t, true
		}
	}
	return nil, false
}

func (s *LedgerServiceImpl) saveIdempotencyLog(ctx context.Context, dbTx pgx.Tx, key string, transfer *domain.Transfer, now time.Time) ([]byte, error) {
	respJSON, err := json.Marshal(transfer)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("marshal response: %w", err))
	}
	entry := &domain.IdempotencyLog{
		Key:          key,
		TransferID:   transfer.ID,
		ResponseJSON: respJSON,
		CreatedAt:    now,
	}
	if err := s.idempRepo.Create(ctx, dbTx, entry); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("save idempotency log: %w", err))
	}
	return respJSON, nil
}

func (s *LedgerServiceImpl) cacheIdempotency(ctx context.Context, key string, respJSON []byte) {
	if err := s.idempCache.Set(ctx, key, respJSON, idempotencyTTL); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("failed to cache idempotency in redis")
	}
}

func unmarshalTransfer(data []byte) (*domain.Transfer, error) {
	t := &domain.Transfer{}
	if err := json.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("unmarshal cached transfer: %w", err)
	}
	return t, nil
}

func wrapInternal(err error, op string) error {
	if err != nil {
		return apperror.InternalError(fmt.Errorf("%s: %w", op, err))
	}
	return nil
}
