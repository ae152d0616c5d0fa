package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	AuditActionOnboard        AuditAction = "ONBOARD_BENEFICIARY"
	AuditActionRegisterVendor AuditAction = "REGISTER_VENDOR"
	AuditActionDistribute     AuditAction = "DISTRIBUTE_AID"
	AuditActionTransfer       AuditAction = "TRANSFER"
	AuditActionRegister       AuditAction = "REGISTER"
	AuditActionLogin          AuditAction = "LOGIN"
	AuditActionUpdateWebhook  AuditAction = "UPDATE_WEBHOOK"
)

// AuditLog records a single audited action in the system. This is the
// operational trail of who called what; the spend-by-category aggregation
// lives in CategoryTotal.
type AuditLog struct {
	ID            uuid.UUID   `json:"id"`
	ParticipantID *uuid.UUID  `json:"participant_id,omitempty"`
	Action        AuditAction `json:"action"`
	ResourceType  string      `json:"resource_type"`
	ResourceID    string      `json:"resource_id,omitempty"`
	Details       string      `json:"details,omitempty"` // JSON string
	IPAddress     string      `json:"ip_address"`
	CreatedAt     time.Time   `json:"created_at"`
}
