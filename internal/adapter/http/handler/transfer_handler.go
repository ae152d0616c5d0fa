package handler

import (
	"math"
	"strconv"

	"relief-credit-ledger/internal/adapter/http/dto"
	"relief-credit-ledger/internal/adapter/http/middleware"
	"relief-credit-ledger/internal/core/domain"
	"relief-credit-ledger/internal/core/ports"
	"relief-credit-ledger/pkg/apperror"
	"relief-credit-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransferHandler handles transfer endpoints.
type TransferHandler struct {
	ledgerSvc    ports.LedgerService
	reportingSvc ports.ReportingService
	webhookSvc   ports.WebhookService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(ledgerSvc ports.LedgerService, reportingSvc ports.ReportingService, webhookSvc ports.WebhookService) *TransferHandler {
	return &TransferHandler{
		ledgerSvc:    ledgerSvc,
		reportingSvc: reportingSvc,
		webhookSvc:   webhookSvc,
	}
}

// Transfer handles POST /api/v1/transfers.
func (h *TransferHandler) Transfer(c *gin.Context) {
	callerID, ok := c.Get(middleware.CtxParticipantID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	recipientID, err := uuid.Parse(req.Recipient)
	if err != nil {
		response.Error(c, apperror.Validation("invalid recipient id"))
		return
	}

	result, err := h.ledgerSvc.Transfer(c.Request.Context(), ports.TransferRequest{
		Caller:      callerID.(uuid.UUID),
		Recipient:   recipientID,
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

// ListTransfers handles GET /api/v1/transfers. The caller sees transfers
// where it appears on either side.
func (h *TransferHandler) ListTransfers(c *gin.Context) {
	callerID, ok := c.Get(middleware.CtxParticipantID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	params := ports.TransferListParams{
		AccountID: callerID.(uuid.UUID),
		Page:      page,
		PageSize:  pageSize,
	}

	if k := c.Query("kind"); k != "" {
		kind := domain.TransferKind(k)
		params.Kind = &kind
	}
	if cat := c.Query("category"); cat != "" {
		category := domain.ParseCategory(cat)
		if !category.IsValid() {
			response.Error(c, apperror.ErrInvalidCategory())
			return
		}
		params.Category = &category
	}
	if f := c.Query("from"); f != "" {
		if v, err := strconv.ParseInt(f, 10, 64); err == nil {
			params.From = &v
		}
	}
	if t := c.Query("to"); t != "" {
		if v, err := strconv.ParseInt(t, 10, 64); err == nil {
			params.To = &v
		}
	}

	transfers, total, err := h.reportingSvc.ListTransfers(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TransferResponse, 0, len(transfers))
	for i := range transfers {
		items = append(items, toTransferResponse(&transfers[i]))
	}

	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))

	response.OK(c, dto.TransferListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}
