package handler

import (
	"strconv"
	"time"

	"centre-ledger/internal/adapter/http/dto"
	"centre-ledger/internal/adapter/http/middleware"
	"centre-ledger/internal/core/domain"
	"centre-ledger/internal/core/ports"
	"centre-ledger/pkg/apperror"
	"centre-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LedgerHandler handles per-wallet ledger endpoints.
type LedgerHandler struct {
	ledgerSvc ports.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerSvc ports.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerSvc: ledgerSvc}
}

// Record handles POST /api/v1/wallets/:id/transactions.
func (h *LedgerHandler) Record(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	walletID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid wallet id"))
		return
	}

	var req dto.RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	entry, err := h.ledgerSvc.RecordTransaction(c.Request.Context(), actor, ports.RecordTransactionInput{
		WalletID:    walletID,
		Type:        domain.TransactionType(req.Type),
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.FromTransaction(entry))
}

// List handles GET /api/v1/wallets/:id/transactions.
func (h *LedgerHandler) List(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	walletID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid wallet id"))
		return
	}

	params := ports.TransactionListParams{WalletID: walletID}
	if t := c.Query("type"); t != "" {
		tt := domain.TransactionType(t)
		if !domain.ValidTransactionType(tt) {
			response.Error(c, apperror.Validation("unknown transaction type"))
			return
		}
		params.Type = &tt
	}
	if from := c.Query("from"); from != "" {
		ts, err := time.Parse(time.RFC3339, from)
		if err != nil {
			response.Error(c, apperror.Validation("invalid from timestamp"))
			return
		}
		params.From = &ts
	}
	if to := c.Query("to"); to != "" {
		ts, err := time.Parse(time.RFC3339, to)
		if err != nil {
			response.Error(c, apperror.Validation("invalid to timestamp"))
			return
		}
		params.To = &ts
	}
	params.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	params.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "50"))

	txns, total, err := h.ledgerSvc.ListTransactions(c.Request.Context(), actor, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		items = append(items, dto.FromTransaction(&txns[i]))
	}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = 50
	}
	totalPages := int((total + int64(params.PageSize) - 1) / int64(params.PageSize))
	response.OK(c, dto.TransactionListResponse{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	})
}

// DailySummary handles GET /api/v1/wallets/:id/summary.
// Query params: date (YYYY-MM-DD, default today) and tz (IANA name, default UTC).
func (h *LedgerHandler) DailySummary(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	walletID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid wallet id"))
		return
	}

	loc := time.UTC
	if tz := c.Query("tz"); tz != "" {
		loc, err = time.LoadLocation(tz)
		if err != nil {
			response.Error(c, apperror.Validation("unknown timezone"))
			return
		}
	}
	day := time.Now().In(loc)
	if d := c.Query("date"); d != "" {
		day, err = time.ParseInLocation("2006-01-02", d, loc)
		if err != nil {
			response.Error(c, apperror.Validation("invalid date, expected YYYY-MM-DD"))
			return
		}
	}

	summary, err := h.ledgerSvc.DailySummary(c.Request.Context(), actor, walletID, day, loc)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, summary)
}
