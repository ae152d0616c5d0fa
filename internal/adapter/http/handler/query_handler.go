package handler

import (
	"time"

	"relief-credit-ledger/internal/adapter/http/dto"
	"relief-credit-ledger/internal/adapter/http/middleware"
	"relief-credit-ledger/internal/core/domain"
	"relief-credit-ledger/internal/core/ports"
	"relief-credit-ledger/pkg/apperror"
	"relief-credit-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// QueryHandler handles the read-only query surface: balances, daily spend,
// category totals and registry lookups.
type QueryHandler struct {
	reportingSvc ports.ReportingService
	registrySvc  ports.RegistryService
	dailyLimit   int64
	dayLength    time.Duration
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(reportingSvc ports.ReportingService, registrySvc ports.RegistryService, dailyLimit int64, dayLength time.Duration) *QueryHandler {
	return &QueryHandler{
		reportingSvc: reportingSvc,
		registrySvc:  registrySvc,
		dailyLimit:   dailyLimit,
		dayLength:    dayLength,
	}
}

// accountParam resolves the :account path parameter; "me" resolves to the
// authenticated participant.
func accountParam(c *gin.Context) (uuid.UUID, bool) {
	raw := c.Param("account")
	if raw == "me" {
		if pid, exists := c.Get(middleware.CtxParticipantID); exists {
			if id, ok := pid.(uuid.UUID); ok {
				return id, true
			}
		}
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// GetBalance handles GET /api/v1/accounts/:account/balance.
func (h *QueryHandler) GetBalance(c *gin.Context) {
	account, ok := accountParam(c)
	if !ok {
		response.Error(c, apperror.Validation("invalid account id"))
		return
	}

	balance, err := h.reportingSvc.BalanceOf(c.Request.Context(), account)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BalanceResponse{
		AccountID: account.String(),
		Balance:   balance,
	})
}

// GetSpentToday handles GET /api/v1/accounts/:account/spent-today.
func (h *QueryHandler) GetSpentToday(c *gin.Context) {
	account, ok := accountParam(c)
	if !ok {
		response.Error(c, apperror.Validation("invalid account id"))
		return
	}

	spent, limit, err := h.reportingSvc.SpentToday(c.Request.Context(), account)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.SpentTodayResponse{
		AccountID:  account.String(),
		SpentToday: spent,
		DailyLimit: limit,
	})
}

// GetAidView handles GET /api/v1/accounts/:account/aid-view.
func (h *QueryHandler) GetAidView(c *gin.Context) {
	account, ok := accountParam(c)
	if !ok {
		response.Error(c, apperror.Validation("invalid account id"))
		return
	}

	view, err := h.reportingSvc.AidView(c.Request.Context(), account)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.AidViewResponse{
		AccountID:  view.AccountID.String(),
		Balance:    view.Balance,
		SpentToday: view.SpentToday,
		DailyLimit: view.DailyLimit,
		DayIndex:   view.DayIndex,
	})
}

// GetAllTotals handles GET /api/v1/totals.
func (h *QueryHandler) GetAllTotals(c *gin.Context) {
	totals, err := h.reportingSvc.AllTotals(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.CategoryTotalResponse, 0, len(totals))
	for _, t := range totals {
		items = append(items, dto.CategoryTotalResponse{
			Category: t.Category.String(),
			Total:    t.Total,
		})
	}
	response.OK(c, items)
}

// GetCategoryTotal handles GET /api/v1/totals/:category.
func (h *QueryHandler) GetCategoryTotal(c *gin.Context) {
	category := domain.ParseCategory(c.Param("category"))
	if !category.IsValid() {
		response.Error(c, apperror.ErrInvalidCategory())
		return
	}

	total, err := h.reportingSvc.TotalFor(c.Request.Context(), category)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.CategoryTotalResponse{
		Category: category.String(),
		Total:    total,
	})
}

// GetBeneficiaryStatus handles GET /api/v1/registry/beneficiaries/:account.
func (h *QueryHandler) GetBeneficiaryStatus(c *gin.Context) {
	account, ok := accountParam(c)
	if !ok {
		response.Error(c, apperror.Validation("invalid account id"))
		return
	}

	onboarded, err := h.registrySvc.IsBeneficiary(c.Request.Context(), account)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BeneficiaryStatusResponse{
		AccountID: account.String(),
		Onboarded: onboarded,
	})
}

// GetVendor handles GET /api/v1/registry/vendors/:account.
func (h *QueryHandler) GetVendor(c *gin.Context) {
	account, ok := accountParam(c)
	if !ok {
		response.Error(c, apperror.Validation("invalid account id"))
		return
	}

	category, err := h.registrySvc.CategoryOf(c.Request.Context(), account)
	if err != nil {
		response.Error(c, err)
		return
	}
	if category == domain.CategoryNone {
		response.Error(c, apperror.ErrNotFound("vendor"))
		return
	}

	response.OK(c, dto.VendorResponse{
		AccountID: account.String(),
		Category:  category.String(),
	})
}

// GetProgramInfo handles GET /api/v1/program.
func (h *QueryHandler) GetProgramInfo(c *gin.Context) {
	categories := make([]string, 0, 3)
	for _, cat := range domain.Categories() {
		categories = append(categories, cat.String())
	}

	response.OK(c, dto.ProgramInfoResponse{
		DailyLimit:       h.dailyLimit,
		DayLengthSeconds: int64(h.dayLength.Seconds()),
		Categories:       categories,
	})
}
