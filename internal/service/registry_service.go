package service

import (
	"context"
	"fmt"
	"time"

	"relief-credit-ledger/internal/core/domain"
	"relief-credit-ledger/internal/core/ports"
	"relief-credit-ledger/internal/metrics"
	"relief-credit-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RegistryServiceImpl implements ports.RegistryService. All mutations are
// restricted to the program administrator.
type RegistryServiceImpl struct {
	registryRepo ports.RegistryRepository
	adminID      uuid.UUID
	nowFn        func() time.Time
	log          zerolog.Logger
}

// NewRegistryService creates a new RegistryServiceImpl. Pass nil for nowFn to
// use time.Now.
func NewRegistryService(registryRepo ports.RegistryRepository, adminID uuid.UUID, nowFn func() time.Time, log zerolog.Logger) *RegistryServiceImpl {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &RegistryServiceImpl{
		registryRepo: registryRepo,
		adminID:      adminID,
		nowFn:        nowFn,
		log:          log,
	}
}

// OnboardBeneficiaries adds the given accounts to the beneficiary registry.
// Accounts already onboarded are skipped; the returned count covers only
// newly added accounts.
func (s *RegistryServiceImpl) OnboardBeneficiaries(ctx context.Context, caller uuid.UUID, accounts []uuid.UUID) (n int, err error) {
	defer func() { metrics.ObserveOperation("onboard_beneficiaries", err) }()

	if caller != s.adminID {
		return 0, apperror.ErrUnauthorized()
	}
	if len(accounts) == 0 {
		return 0, apperror.Validation("at least one account is required")
	}

	now := s.nowFn().UTC()
	added := 0
	for _, account := range accounts {
		wasNew, err := s.registryRepo.AddBeneficiary(ctx, account, now)
		if err != nil {
			return added, apperror.InternalError(fmt.Errorf("onboard beneficiary %s: %w", account, err))
		}
		if wasNew {
			added++
		}
	}

	s.log.Info().
		Int("requested", len(accounts)).
		Int("added", added).
		Msg("beneficiaries onboarded")

	return added, nil
}

// RegisterVendor assigns a spend category to a vendor account. Re-registering
// an existing vendor overwrites its category.
func (s *RegistryServiceImpl) RegisterVendor(ctx context.Context, caller uuid.UUID, vendor uuid.UUID, category domain.Category) (err error) {
	defer func() { metrics.ObserveOperation("register_vendor", err) }()

	if caller != s.adminID {
		return apperror.ErrUnauthorized()
	}
	if !category.IsValid() {
		return apperror.ErrInvalidCategory()
	}

	now := s.nowFn().UTC()
	if err := s.registryRepo.UpsertVendor(ctx, &domain.VendorRecord{
		AccountID:    vendor,
		Category:     category,
		RegisteredAt: now,
		UpdatedAt:    now,
	}); err != nil {
		return apperror.InternalError(fmt.Errorf("register vendor %s: %w", vendor, err))
	}

	s.log.Info().
		Str("vendor", vendor.String()).
		Str("category", category.String()).
		Msg("vendor registered")

	return nil
}

func (s *RegistryServiceImpl) IsBeneficiary(ctx context.Context, account uuid.UUID) (bool, error) {
	onboarded, err := s.registryRepo.IsBeneficiary(ctx, account)
	if err != nil {
		return false, apperror.InternalError(fmt.Errorf("check beneficiary: %w", err))
	}
	return onboarded, nil
}

// CategoryOf returns the vendor category for an account, or CategoryNone when
// the account is not a registered vendor.
func (s *RegistryServiceImpl) CategoryOf(ctx context.Context, account uuid.UUID) (domain.Category, error) {
	vendor, err := s.registryRepo.GetVendor(ctx, account)
	if err != nil {
		return domain.CategoryNone, apperror.InternalError(fmt.Errorf("get vendor: %w", err))
	}
	if vendor == nil {
		return domain.CategoryNone, nil
	}
	return vendor.Category, nil
}
