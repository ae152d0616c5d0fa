package handler

import (
	"relief-credit-ledger/internal/adapter/http/dto"
	"relief-credit-ledger/internal/adapter/http/middleware"
	"relief-credit-ledger/internal/core/domain"
	"relief-credit-ledger/internal/core/ports"
	"relief-credit-ledger/pkg/apperror"
	"relief-credit-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminHandler handles administrator-only program endpoints: onboarding
// beneficiaries, registering vendors and distributing aid. Authorization is
// enforced in the services; these handlers only shape requests.
type AdminHandler struct {
	registrySvc ports.RegistryService
	ledgerSvc   ports.LedgerService
	webhookSvc  ports.WebhookService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(registrySvc ports.RegistryService, ledgerSvc ports.LedgerService, webhookSvc ports.WebhookService) *AdminHandler {
	return &AdminHandler{
		registrySvc: registrySvc,
		ledgerSvc:   ledgerSvc,
		webhookSvc:  webhookSvc,
	}
}

// OnboardBeneficiaries handles POST /api/v1/admin/beneficiaries.
func (h *AdminHandler) OnboardBeneficiaries(c *gin.Context) {
	callerID, ok := c.Get(middleware.CtxParticipantID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.OnboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	accounts := make([]uuid.UUID, 0, len(req.Accounts))
	for _, raw := range req.Accounts {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, apperror.Validation("invalid account id: "+raw))
			return
		}
		accounts = append(accounts, id)
	}

	added, err := h.registrySvc.OnboardBeneficiaries(c.Request.Context(), callerID.(uuid.UUID), accounts)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.OnboardResponse{
		Requested: len(accounts),
		Added:     added,
	})
}

// RegisterVendor handles POST /api/v1/admin/vendors.
func (h *AdminHandler) RegisterVendor(c *gin.Context) {
	callerID, ok := c.Get(middleware.CtxParticipantID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.RegisterVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	vendorID, err := uuid.Parse(req.Account)
	if err != nil {
		response.Error(c, apperror.Validation("invalid account id"))
		return
	}

	category := domain.ParseCategory(req.Category)
	if !category.IsValid() {
		response.Error(c, apperror.ErrInvalidCategory())
		return
	}

	if err := h.registrySvc.RegisterVendor(c.Request.Context(), callerID.(uuid.UUID), vendorID, category); err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.VendorResponse{
		AccountID: vendorID.String(),
		Category:  category.String(),
	})
}

// DistributeAid handles POST /api/v1/admin/distributions.
func (h *AdminHandler) DistributeAid(c *gin.Context) {
	callerID, ok := c.Get(middleware.CtxParticipantID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.DistributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	beneficiaryID, err := uuid.Parse(req.Beneficiary)
	if err != nil {
		response.Error(c, apperror.Validation("invalid beneficiary id"))
		return
	}

	result, err := h.ledgerSvc.DistributeAid(c.Request.Context(), ports.DistributeRequest{
		Caller:      callerID.(uuid.UUID),
		Beneficiary: beneficiaryID,
		Amount:      req.Amount,
		ReferenceID: req.ReferenceID,
		ClientIP:    c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	// Trigger async webhook notification
	if h.webhookSvc != nil {
		_ = h.webhookSvc.EnqueueTransferEvent(c.Request.Context(), result)
	}

	response.Created(c, toTransferResponse(result))
}

// toTransferResponse converts domain.Transfer to DTO.
func toTransferResponse(t *domain.Transfer) dto.TransferResponse {
	resp := dto.TransferResponse{
		ID:          t.ID.String(),
		ReferenceID: t.ReferenceID,
		Kind:        string(t.Kind),
		ToAccount:   t.ToAccount.String(),
		Amount:      t.Amount,
		Category:    t.Category.String(),
		DayIndex:    t.DayIndex,
		CreatedAt:   t.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if t.FromAccount != nil {
		s := t.FromAccount.String()
		resp.FromAccount = &s
	}
	return resp
}
