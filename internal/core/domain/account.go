package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account holds one ledger balance in smallest units. Rows are created
// implicitly on first credit and never deleted; a balance may reach zero
// and stay there.
type Account struct {
	AccountID uuid.UUID `json:"account_id"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
