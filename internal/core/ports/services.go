package ports

import (
	"context"
	"time"

	"relief-credit-ledger/internal/core/domain"

	"github.com/google/uuid"
)

// EncryptionService handles AES-256-GCM encryption/decryption.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// SignatureService handles HMAC-SHA256 signing and verification of
// webhook payloads.
type SignatureService interface {
	Sign(secretKey string, payload string) string
	Verify(secretKey string, payload string, signature string) bool
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(participantID uuid.UUID, username string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	ParticipantID uuid.UUID
	Username      string
}

// IdempotencyCache is the Redis-layer idempotency check (fast path).
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached response JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// --- Service Ports (Business Logic) ---

// RegistryService manages admin-gated program membership.
type RegistryService interface {
	// OnboardBeneficiaries onboards one or more accounts. Idempotent per
	// account; returns the number of accounts newly added.
	OnboardBeneficiaries(ctx context.Context, caller uuid.UUID, accounts []uuid.UUID) (int, error)
	// RegisterVendor assigns a category to a vendor account, overwriting any
	// prior category.
	RegisterVendor(ctx context.Context, caller uuid.UUID, vendor uuid.UUID, category domain.Category) error
	IsBeneficiary(ctx context.Context, account uuid.UUID) (bool, error)
	// CategoryOf returns domain.CategoryNone when the account is not a
	// registered vendor.
	CategoryOf(ctx context.Context, account uuid.UUID) (domain.Category, error)
}

// LedgerService is the distribution and transfer orchestrator.
type LedgerService interface {
	DistributeAid(ctx context.Context, req DistributeRequest) (*domain.Transfer, error)
	Transfer(ctx context.Context, req TransferRequest) (*domain.Transfer, error)
}

// DistributeRequest holds validated input for an aid distribution.
type DistributeRequest struct {
	Caller      uuid.UUID
	Beneficiary uuid.UUID
	Amount      int64
	ReferenceID string
	ClientIP    string
}

// TransferRequest holds validated input for a transfer.
type TransferRequest struct {
	Caller      uuid.UUID
	Recipient   uuid.UUID
	Amount      int64
	ReferenceID string
	ClientIP    string
}

// AuthService defines authentication business logic.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	Login(ctx context.Context, username, password string) (string, time.Time, error) // token, expiry, error
	// EnsureAdmin creates the administrator participant if it does not exist
	// and returns its account ID.
	EnsureAdmin(ctx context.Context, username, password string) (uuid.UUID, error)
}

// RegisterRequest holds input for participant registration.
type RegisterRequest struct {
	Username    string
	Password    string
	DisplayName string
	WebhookURL  *string
}

// RegisterResponse holds the registration result shown once.
type RegisterResponse struct {
	ParticipantID uuid.UUID
	WebhookSecret string // Plaintext, shown only at registration
}

// ParticipantService manages participant profile operations.
type ParticipantService interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*domain.Participant, error)
	UpdateWebhookURL(ctx context.Context, id uuid.UUID, url *string) error
	// RotateWebhookSecret generates a new signing secret, returned once.
	RotateWebhookSecret(ctx context.Context, id uuid.UUID) (string, error)
}

// ReportingService defines the read-only query surface.
type ReportingService interface {
	BalanceOf(ctx context.Context, account uuid.UUID) (int64, error)
	// SpentToday reports the amount counted against today's cap and the cap
	// itself. A stored total from an earlier day reports as zero.
	SpentToday(ctx context.Context, account uuid.UUID) (spent int64, limit int64, err error)
	TotalFor(ctx context.Context, category domain.Category) (int64, error)
	AllTotals(ctx context.Context) ([]domain.CategoryTotal, error)
	// AidView is the per-beneficiary dashboard view: balance, spent today,
	// and the daily limit in one call.
	AidView(ctx context.Context, account uuid.UUID) (*AidView, error)
	ListTransfers(ctx context.Context, params TransferListParams) ([]domain.Transfer, int64, error)
}

// AidView aggregates a beneficiary's position against the daily cap.
type AidView struct {
	AccountID  uuid.UUID
	Balance    int64
	SpentToday int64
	DailyLimit int64
	DayIndex   int64
}

// WebhookService defines async signed event delivery.
type WebhookService interface {
	EnqueueTransferEvent(ctx context.Context, transfer *domain.Transfer) error
}

// AuditService records operational audit entries.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}
