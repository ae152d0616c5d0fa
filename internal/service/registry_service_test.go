package service

import (
	"context"
	"testing"
	"time"

	"relief-credit-ledger/internal/core/domain"
	"relief-credit-ledger/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type registryTestDeps struct {
	svc     *RegistryServiceImpl
	repo    *mocks.MockRegistryRepository
	adminID uuid.UUID
	now     time.Time
	ctrl    *gomock.Controller
}

func setupRegistryService(t *testing.T) *registryTestDeps {
	ctrl := gomock.NewController(t)
	d := &registryTestDeps{
		repo:    mocks.NewMockRegistryRepository(ctrl),
		adminID: uuid.New(),
		now:     time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC),
		ctrl:    ctrl,
	}
	d.svc = NewRegistryService(d.repo, d.adminID, func() time.Time { return d.now }, zerolog.Nop())
	return d
}

func TestRegistryService_OnboardBeneficiaries_Batch(t *testing.T) {
	d := setupRegistryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	d.repo.EXPECT().AddBeneficiary(ctx, a, d.now).Return(true, nil)
	// b was onboarded in an earlier batch: skipped, not an error
	d.repo.EXPECT().AddBeneficiary(ctx, b, d.now).Return(false, nil)
	d.repo.EXPECT().AddBeneficiary(ctx, c, d.now).Return(true, nil)

	added, err := d.svc.OnboardBeneficiaries(ctx, d.adminID, []uuid.UUID{a, b, c})
	require.NoError(t, err)
	assert.Equal(t, 2, added)
}

func TestRegistryService_OnboardBeneficiaries_NotAdmin(t *testing.T) {
	d := setupRegistryService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.OnboardBeneficiaries(context.Background(), uuid.New(), []uuid.UUID{uuid.New()})
	assertAppErrorCode(t, err, "LEDG_001")
}

func TestRegistryService_OnboardBeneficiaries_EmptyBatch(t *testing.T) {
	d := setupRegistryService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.OnboardBeneficiaries(context.Background(), d.adminID, nil)
	assert.Error(t, err)
}

func TestRegistryService_RegisterVendor_Success(t *testing.T) {
	d := setupRegistryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	vendor := uuid.New()

	d.repo.EXPECT().UpsertVendor(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, rec *domain.VendorRecord) error {
			assert.Equal(t, vendor, rec.AccountID)
			assert.Equal(t, domain.CategoryFood, rec.Category)
			return nil
		},
	)

	err := d.svc.RegisterVendor(ctx, d.adminID, vendor, domain.CategoryFood)
	require.NoError(t, err)
}

func TestRegistryService_RegisterVendor_NotAdmin(t *testing.T) {
	d := setupRegistryService(t)
	defer d.ctrl.Finish()

	err := d.svc.RegisterVendor(context.Background(), uuid.New(), uuid.New(), domain.CategoryFood)
	assertAppErrorCode(t, err, "LEDG_001")
}

func TestRegistryService_RegisterVendor_InvalidCategory(t *testing.T) {
	d := setupRegistryService(t)
	defer d.ctrl.Finish()

	err := d.svc.RegisterVendor(context.Background(), d.adminID, uuid.New(), domain.Category(9))
	assertAppErrorCode(t, err, "LEDG_004")

	err = d.svc.RegisterVendor(context.Background(), d.adminID, uuid.New(), domain.CategoryNone)
	assertAppErrorCode(t, err, "LEDG_004")
}

func TestRegistryService_CategoryOf_NotAVendor(t *testing.T) {
	d := setupRegistryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	account := uuid.New()

	d.repo.EXPECT().GetVendor(ctx, account).Return(nil, nil)

	category, err := d.svc.CategoryOf(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryNone, category)
}

func TestRegistryService_CategoryOf_Vendor(t *testing.T) {
	d := setupRegistryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	account := uuid.New()

	d.repo.EXPECT().GetVendor(ctx, account).Return(&domain.VendorRecord{
		AccountID: account,
		Category:  domain.CategoryMedical,
	}, nil)

	category, err := d.svc.CategoryOf(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryMedical, category)
}
