package middleware

import (
	"encoding/json"
	"time"

	"relief-credit-ledger/internal/core/domain"
	"relief-credit-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog creates an audit middleware that logs successful write operations.
// It maps HTTP methods and paths to audit actions.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only audit successful write operations (status 2xx)
		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		if c.Request.Method == "GET" || c.Request.Method == "HEAD" || c.Request.Method == "OPTIONS" {
			return
		}

		action, resourceType := mapPathToAction(c.Request.URL.Path, c.Request.Method)
		if action == "" {
			return
		}

		var participantID *uuid.UUID
		if pid, exists := c.Get(CtxParticipantID); exists {
			if id, ok := pid.(uuid.UUID); ok {
				participantID = &id
			}
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:            uuid.New(),
			ParticipantID: participantID,
			Action:        action,
			ResourceType:  resourceType,
			IPAddress:     c.ClientIP(),
			Details:       string(details),
			CreatedAt:     time.Now(),
		})
	}
}

func mapPathToAction(path, method string) (domain.AuditAction, string) {
	switch {
	case path == "/api/v1/auth/register" && method == "POST":
		return domain.AuditActionRegister, "participant"
	case path == "/api/v1/auth/login" && method == "POST":
		return domain.AuditActionLogin, "session"
	case path == "/api/v1/admin/beneficiaries" && method == "POST":
		return domain.AuditActionOnboard, "beneficiary"
	case path == "/api/v1/admin/vendors" && method == "POST":
		return domain.AuditActionRegisterVendor, "vendor"
	case path == "/api/v1/admin/distributions" && method == "POST":
		return domain.AuditActionDistribute, "transfer"
	case path == "/api/v1/transfers" && method == "POST":
		return domain.AuditActionTransfer, "transfer"
	case path == "/api/v1/participants/me/webhook" && method == "PUT":
		return domain.AuditActionUpdateWebhook, "participant"
	case path == "/api/v1/participants/me/rotate-secret" && method == "POST":
		return domain.AuditActionUpdateWebhook, "participant"
	}
	return "", ""
}
