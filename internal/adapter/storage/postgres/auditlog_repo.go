package postgres

import (
	"context"

	"relief-credit-ledger/internal/core/domain"
	"relief-credit-ledger/internal/core/ports"
)

type auditLogRepo struct {
	pool Pool
}

// NewAuditLogRepository creates a PostgreSQL-backed AuditLogRepository.
func NewAuditLogRepository(pool Pool) ports.AuditLogRepository {
	return &auditLogRepo{pool: pool}
}

func (r *auditLogRepo) Create(ctx context.Context, log *domain.AuditLog) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_logs (id, participant_id, action, resource_type, resource_id, details, ip_address, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		log.ID, log.ParticipantID, string(log.Action), log.ResourceType,
		log.ResourceID, log.Details, log.IPAddress, log.CreatedAt,
	)
	return err
}
