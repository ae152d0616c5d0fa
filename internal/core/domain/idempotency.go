package domain

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyLog caches the result of a completed operation so resubmission
// of the same reference by the same caller returns the original outcome
// instead of moving balances twice.
type IdempotencyLog struct {
	Key          string    `json:"key"` // "<caller_id>:<op>:<reference_id>"
	TransferID   uuid.UUID `json:"transfer_id"`
	ResponseJSON []byte    `json:"response_json"`
	CreatedAt    time.Time `json:"created_at"`
}

// BuildTransferIdempotencyKey constructs the key for a transfer operation.
func BuildTransferIdempotencyKey(caller uuid.UUID, referenceID string) string {
	return caller.String() + ":transfer:" + referenceID
}

// BuildDistributionIdempotencyKey constructs the key for a distribution.
func BuildDistributionIdempotencyKey(beneficiary uuid.UUID, referenceID string) string {
	return beneficiary.String() + ":distribution:" + referenceID
}
