package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransferKind distinguishes supply-expanding distributions from balance
// movements between accounts.
type TransferKind string

const (
	TransferKindDistribution TransferKind = "DISTRIBUTION"
	TransferKindTransfer     TransferKind = "TRANSFER"
)

// Transfer is an immutable ledger event. Every successful distributeAid and
// transfer operation writes exactly one row; the row doubles as the event
// surfaced to external observers.
type Transfer struct {
	ID          uuid.UUID    `json:"id"`
	ReferenceID string       `json:"reference_id"`
	Kind        TransferKind `json:"kind"`
	FromAccount *uuid.UUID   `json:"from_account,omitempty"` // nil for distributions (mint)
	ToAccount   uuid.UUID    `json:"to_account"`
	Amount      int64        `json:"amount"`
	Category    Category     `json:"category"` // CategoryNone unless vendor-directed
	DayIndex    int64        `json:"day_index"`
	CreatedAt   time.Time    `json:"created_at"`
}

// IsVendorDirected reports whether the transfer was capped and audited.
func (t *Transfer) IsVendorDirected() bool {
	return t.Kind == TransferKindTransfer && t.Category != CategoryNone
}

// CategoryTotal is one Audit Aggregator counter. Totals only ever increase.
type CategoryTotal struct {
	Category Category `json:"category"`
	Total    int64    `json:"total"`
}
