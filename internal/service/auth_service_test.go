package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"relief-credit-ledger/internal/core/domain"
	"relief-credit-ledger/internal/core/ports"
	"relief-credit-ledger/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type authTestDeps struct {
	svc             *AuthServiceImpl
	participantRepo *mocks.MockParticipantRepository
	hashSvc         *mocks.MockHashService
	encSvc          *mocks.MockEncryptionService
	tokenSvc        *mocks.MockTokenService
	ctrl            *gomock.Controller
}

func setupAuthService(t *testing.T) *authTestDeps {
	ctrl := gomock.NewController(t)
	d := &authTestDeps{
		participantRepo: mocks.NewMockParticipantRepository(ctrl),
		hashSvc:         mocks.NewMockHashService(ctrl),
		encSvc:          mocks.NewMockEncryptionService(ctrl),
		tokenSvc:        mocks.NewMockTokenService(ctrl),
		ctrl:            ctrl,
	}
	d.svc = NewAuthService(d.participantRepo, d.hashSvc, d.encSvc, d.tokenSvc, newTestLogger())
	return d
}

func TestAuthService_Register_Success(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	d.participantRepo.EXPECT().GetByUsername(ctx, "field-office-7").Return(nil, nil)
	d.hashSvc.EXPECT().Hash("str0ng-password").Return("argon2id-hash", nil)
	d.encSvc.EXPECT().Encrypt(gomock.Any()).Return("enc-secret", nil)
	d.participantRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, p *domain.Participant) error {
			assert.Equal(t, "field-office-7", p.Username)
			assert.Equal(t, "argon2id-hash", p.PasswordHash)
			assert.Equal(t, "enc-secret", p.WebhookSecretEnc)
			assert.Equal(t, domain.ParticipantStatusActive, p.Status)
			return nil
		},
	)

	resp, err := d.svc.Register(ctx, ports.RegisterRequest{
		Username:    "field-office-7",
		Password:    "str0ng-password",
		DisplayName: "Field Office 7",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, resp.ParticipantID)
	assert.True(t, strings.HasPrefix(resp.WebhookSecret, "whsec_"))
}

func TestAuthService_Register_UsernameTaken(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	d.participantRepo.EXPECT().GetByUsername(ctx, "taken").Return(&domain.Participant{
		ID:       uuid.New(),
		Username: "taken",
	}, nil)

	_, err := d.svc.Register(ctx, ports.RegisterRequest{
		Username: "taken",
		Password: "whatever",
	})
	assertAppErrorCode(t, err, "AUTH_002")
}

func TestAuthService_Login_Success(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	participantID := uuid.New()
	expiry := time.Now().Add(24 * time.Hour)

	d.participantRepo.EXPECT().GetByUsername(ctx, "vendor-9").Return(&domain.Participant{
		ID:           participantID,
		Username:     "vendor-9",
		PasswordHash: "hash",
		Status:       domain.ParticipantStatusActive,
	}, nil)
	d.hashSvc.EXPECT().Verify("pw", "hash").Return(true, nil)
	d.tokenSvc.EXPECT().Generate(participantID, "vendor-9").Return("jwt-token", expiry, nil)

	token, exp, err := d.svc.Login(ctx, "vendor-9", "pw")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)
	assert.Equal(t, expiry, exp)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	d.participantRepo.EXPECT().GetByUsername(ctx, "vendor-9").Return(&domain.Participant{
		ID:           uuid.New(),
		PasswordHash: "hash",
		Status:       domain.ParticipantStatusActive,
	}, nil)
	d.hashSvc.EXPECT().Verify("wrong", "hash").Return(false, nil)

	_, _, err := d.svc.Login(ctx, "vendor-9", "wrong")
	assertAppErrorCode(t, err, "AUTH_001")
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	d.participantRepo.EXPECT().GetByUsername(ctx, "ghost").Return(nil, nil)

	_, _, err := d.svc.Login(ctx, "ghost", "pw")
	assertAppErrorCode(t, err, "AUTH_001")
}

func TestAuthService_Login_Suspended(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	d.participantRepo.EXPECT().GetByUsername(ctx, "frozen").Return(&domain.Participant{
		ID:           uuid.New(),
		PasswordHash: "hash",
		Status:       domain.ParticipantStatusSuspended,
	}, nil)
	d.hashSvc.EXPECT().Verify("pw", "hash").Return(true, nil)

	_, _, err := d.svc.Login(ctx, "frozen", "pw")
	assertAppErrorCode(t, err, "AUTH_004")
}

func TestAuthService_EnsureAdmin_CreatesOnFirstRun(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	d.participantRepo.EXPECT().GetByUsername(ctx, "ngo-admin").Return(nil, nil)
	d.hashSvc.EXPECT().Hash("admin-pw").Return("admin-hash", nil)
	d.encSvc.EXPECT().Encrypt(gomock.Any()).Return("enc", nil)

	var createdID uuid.UUID
	d.participantRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, p *domain.Participant) error {
			createdID = p.ID
			assert.Equal(t, "ngo-admin", p.Username)
			return nil
		},
	)

	id, err := d.svc.EnsureAdmin(ctx, "ngo-admin", "admin-pw")
	require.NoError(t, err)
	assert.Equal(t, createdID, id)
}

func TestAuthService_EnsureAdmin_Existing(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	adminID := uuid.New()

	d.participantRepo.EXPECT().GetByUsername(ctx, "ngo-admin").Return(&domain.Participant{
		ID:       adminID,
		Username: "ngo-admin",
	}, nil)

	id, err := d.svc.EnsureAdmin(ctx, "ngo-admin", "admin-pw")
	require.NoError(t, err)
	assert.Equal(t, adminID, id)
}
