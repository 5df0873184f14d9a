package handler

import (
	"centre-ledger/internal/adapter/http/dto"
	"centre-ledger/internal/adapter/http/middleware"
	"centre-ledger/internal/core/domain"
	"centre-ledger/internal/core/ports"
	"centre-ledger/pkg/apperror"
	"centre-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SettlementHandler handles service-entry settlement endpoints.
type SettlementHandler struct {
	settlementSvc ports.SettlementService
}

// NewSettlementHandler creates a new SettlementHandler.
func NewSettlementHandler(settlementSvc ports.SettlementService) *SettlementHandler {
	return &SettlementHandler{settlementSvc: settlementSvc}
}

// Settle handles POST /api/v1/service-entries.
func (h *SettlementHandler) Settle(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid category id"))
		return
	}
	subcategoryID, err := uuid.Parse(req.SubcategoryID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid subcategory id"))
		return
	}
	serviceWalletID, err := uuid.Parse(req.ServiceWalletID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid service wallet id"))
		return
	}

	input := ports.SettleInput{
		CategoryID:       categoryID,
		SubcategoryID:    subcategoryID,
		ServiceCharge:    req.ServiceCharge,
		DepartmentCharge: req.DepartmentCharge,
		TotalCharge:      req.TotalCharge,
		ServiceWalletID:  serviceWalletID,
		MarkCompleted:    req.MarkCompleted,
		IdempotencyKey:   c.GetHeader(HeaderIdempotencyKey),
	}
	for _, p := range req.Payments {
		walletID, err := uuid.Parse(p.WalletID)
		if err != nil {
			response.Error(c, apperror.Validation("invalid payment wallet id"))
			return
		}
		input.Payments = append(input.Payments, ports.PaymentInput{
			WalletID: walletID,
			Method:   domain.PaymentMethod(p.Method),
			Amount:   p.Amount,
			Status:   domain.PaymentStatus(p.Status),
		})
	}

	result, err := h.settlementSvc.Settle(c.Request.Context(), actor, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.SettleResponse{Entry: dto.FromServiceEntry(result.Entry)}
	for i := range result.Payments {
		resp.Payments = append(resp.Payments, dto.FromPayment(&result.Payments[i]))
	}
	for i := range result.Transactions {
		resp.Transactions = append(resp.Transactions, dto.FromTransaction(&result.Transactions[i]))
	}
	response.Created(c, resp)
}
