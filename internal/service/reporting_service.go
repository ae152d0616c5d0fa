package service

import (
	"context"
	"fmt"
	"time"

	"relief-credit-ledger/internal/core/domain"
	"relief-credit-ledger/internal/core/ports"
	"relief-credit-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ReportingServiceImpl implements ports.ReportingService, the read-only
// query surface over balances, daily spend and category totals.
type ReportingServiceImpl struct {
	ledgerRepo   ports.LedgerRepository
	spendRepo    ports.SpendLimitRepository
	totalsRepo   ports.AuditTotalsRepository
	transferRepo ports.TransferRepository
	dailyLimit   int64
	dayLength    time.Duration
	nowFn        func() time.Time
	log          zerolog.Logger
}

// NewReportingService creates a new ReportingServiceImpl. Pass nil for nowFn
// to use time.Now.
func NewReportingService(
	ledgerRepo ports.LedgerRepository,
	spendRepo ports.SpendLimitRepository,
	totalsRepo ports.AuditTotalsRepository,
	transferRepo ports.TransferRepository,
	dailyLimit int64,
	dayLength time.Duration,
	nowFn func() time.Time,
	log zerolog.Logger,
) *ReportingServiceImpl {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &ReportingServiceImpl{
		ledgerRepo:   ledgerRepo,
		spendRepo:    spendRepo,
		totalsRepo:   totalsRepo,
		transferRepo: transferRepo,
		dailyLimit:   dailyLimit,
		dayLength:    dayLength,
		nowFn:        nowFn,
		log:          log,
	}
}

func (s *ReportingServiceImpl) BalanceOf(ctx context.Context, account uuid.UUID) (int64, error) {
	balance, err := s.ledgerRepo.GetBalance(ctx, account)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("get balance: %w", err))
	}
	return balance, nil
}

// SpentToday reports the amount counted against the current accounting day's
// cap. A stored total from an earlier day reads as zero; no write happens on
// the query path.
func (s *ReportingServiceImpl) SpentToday(ctx context.Context, account uuid.UUID) (int64, int64, error) {
	spend, err := s.spendRepo.Get(ctx, account)
	if err != nil {
		return 0, 0, apperror.InternalError(fmt.Errorf("get daily spend: %w", err))
	}
	today := domain.DayIndexAt(s.nowFn().UTC(), s.dayLength)
	return spend.SpentOn(today), s.dailyLimit, nil
}

func (s *ReportingServiceImpl) TotalFor(ctx context.Context, category domain.Category) (int64, error) {
	if !category.IsValid() {
		return 0, apperror.ErrInvalidCategory()
	}
	total, err := s.totalsRepo.GetTotal(ctx, category)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("get category total: %w", err))
	}
	return total, nil
}

func (s *ReportingServiceImpl) AllTotals(ctx context.Context) ([]domain.CategoryTotal, error) {
	totals, err := s.totalsRepo.GetAll(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get category totals: %w", err))
	}
	return totals, nil
}

// AidView assembles the per-beneficiary dashboard view in one call.
func (s *ReportingServiceImpl) AidView(ctx context.Context, account uuid.UUID) (*ports.AidView, error) {
	balance, err := s.ledgerRepo.GetBalance(ctx, account)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get balance: %w", err))
	}
	spend, err := s.spendRepo.Get(ctx, account)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get daily spend: %w", err))
	}
	today := domain.DayIndexAt(s.nowFn().UTC(), s.dayLength)
	return &ports.AidView{
		AccountID:  account,
		Balance:    balance,
		SpentToday: spend.SpentOn(today),
		DailyLimit: s.dailyLimit,
		DayIndex:   today,
	}, nil
}

func (s *ReportingServiceImpl) ListTransfers(ctx context.Context, params ports.TransferListParams) ([]domain.Transfer, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}
	transfers, total, err := s.transferRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list transfers: %w", err))
	}
	return transfers, total, nil
}
