package handler

import (
	"time"

	"relief-credit-ledger/internal/adapter/http/dto"
	"relief-credit-ledger/internal/adapter/http/middleware"
	"relief-credit-ledger/internal/core/ports"
	"relief-credit-ledger/pkg/apperror"
	"relief-credit-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ParticipantHandler handles participant self-service endpoints.
type ParticipantHandler struct {
	participantSvc ports.ParticipantService
}

// NewParticipantHandler creates a new ParticipantHandler.
func NewParticipantHandler(participantSvc ports.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{participantSvc: participantSvc}
}

func participantFromCtx(c *gin.Context) (uuid.UUID, bool) {
	pid, exists := c.Get(middleware.CtxParticipantID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := pid.(uuid.UUID)
	return id, ok
}

// GetProfile handles GET /api/v1/participants/me.
func (h *ParticipantHandler) GetProfile(c *gin.Context) {
	id, ok := participantFromCtx(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	p, err := h.participantSvc.GetProfile(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ProfileResponse{
		ID:          p.ID.String(),
		Username:    p.Username,
		DisplayName: p.DisplayName,
		WebhookURL:  p.WebhookURL,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	})
}

// UpdateWebhook handles PUT /api/v1/participants/me/webhook.
func (h *ParticipantHandler) UpdateWebhook(c *gin.Context) {
	id, ok := participantFromCtx(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.UpdateWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	if err := h.participantSvc.UpdateWebhookURL(c.Request.Context(), id, req.WebhookURL); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"updated": true})
}

// RotateSecret handles POST /api/v1/participants/me/rotate-secret.
func (h *ParticipantHandler) RotateSecret(c *gin.Context) {
	id, ok := participantFromCtx(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	secret, err := h.participantSvc.RotateWebhookSecret(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.RotateSecretResponse{WebhookSecret: secret})
}
