package handler

import (
	"centre-ledger/internal/adapter/http/dto"
	"centre-ledger/internal/adapter/http/middleware"
	"centre-ledger/internal/core/ports"
	"centre-ledger/pkg/apperror"
	"centre-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderIdempotencyKey carries the caller-supplied replay token for
// transfers and settlements. Absent header means no replay protection.
const HeaderIdempotencyKey = "X-Idempotency-Key"

// TransferHandler handles wallet-to-wallet transfer endpoints.
type TransferHandler struct {
	transferSvc ports.TransferService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferSvc ports.TransferService) *TransferHandler {
	return &TransferHandler{transferSvc: transferSvc}
}

// Transfer handles POST /api/v1/transfers.
func (h *TransferHandler) Transfer(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
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

	fromID, err := uuid.Parse(req.FromWalletID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid source wallet id"))
		return
	}
	toID, err := uuid.Parse(req.ToWalletID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid destination wallet id"))
		return
	}

	result, err := h.transferSvc.Transfer(c.Request.Context(), actor, ports.TransferInput{
		FromWalletID:   fromID,
		ToWalletID:     toID,
		Amount:         req.Amount,
		Description:    req.Description,
		IdempotencyKey: c.GetHeader(HeaderIdempotencyKey),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.TransferResponse{
		Debit:  dto.FromTransaction(result.Debit),
		Credit: dto.FromTransaction(result.Credit),
	})
}
