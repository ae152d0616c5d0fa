package domain

import (
	"time"

	"github.com/google/uuid"
)

// BeneficiaryRecord marks an account as onboarded into the relief program.
// Records are never removed; onboarding is idempotent.
type BeneficiaryRecord struct {
	AccountID   uuid.UUID `json:"account_id"`
	OnboardedAt time.Time `json:"onboarded_at"`
}

// VendorRecord maps a vendor account to its spending category.
// Re-registration overwrites the category (last write wins).
type VendorRecord struct {
	AccountID    uuid.UUID `json:"account_id"`
	Category     Category  `json:"category"`
	RegisteredAt time.Time `json:"registered_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
