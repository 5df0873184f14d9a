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

// WalletHandler handles wallet CRUD endpoints.
type WalletHandler struct {
	walletSvc ports.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletSvc ports.WalletService) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc}
}

// Create handles POST /api/v1/wallets.
func (h *WalletHandler) Create(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	input := ports.CreateWalletInput{
		Name:           req.Name,
		Type:           domain.WalletType(req.WalletType),
		InitialBalance: req.InitialBalance,
		IsShared:       req.IsShared,
		Status:         domain.WalletStatus(req.Status),
	}
	if req.AssignedStaffID != nil {
		id, err := uuid.Parse(*req.AssignedStaffID)
		if err != nil {
			response.Error(c, apperror.Validation("invalid assigned staff id"))
			return
		}
		input.AssignedStaffID = &id
	}
	for _, p := range req.Permissions {
		input.Permissions = append(input.Permissions, domain.WalletPermission(p))
	}

	w, err := h.walletSvc.Create(c.Request.Context(), actor, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.FromWallet(w))
}

// Get handles GET /api/v1/wallets/:id.
func (h *WalletHandler) Get(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid wallet id"))
		return
	}

	w, err := h.walletSvc.Get(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromWallet(w))
}

// List handles GET /api/v1/wallets.
func (h *WalletHandler) List(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var filter ports.WalletListFilter
	if t := c.Query("type"); t != "" {
		wt := domain.WalletType(t)
		if !domain.ValidWalletType(wt) {
			response.Error(c, apperror.Validation("unknown wallet type"))
			return
		}
		filter.Type = &wt
	}
	if s := c.Query("status"); s != "" {
		ws := domain.WalletStatus(s)
		filter.Status = &ws
	}

	wallets, err := h.walletSvc.List(c.Request.Context(), actor, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	items := make([]dto.WalletResponse, 0, len(wallets))
	for i := range wallets {
		items = append(items, dto.FromWallet(&wallets[i]))
	}
	response.OK(c, items)
}

// Update handles PUT /api/v1/wallets/:id.
func (h *WalletHandler) Update(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid wallet id"))
		return
	}

	var req dto.UpdateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	patch := ports.UpdateWalletInput{
		Name:     req.Name,
		IsShared: req.IsShared,
	}
	if req.WalletType != nil {
		wt := domain.WalletType(*req.WalletType)
		patch.Type = &wt
	}
	if req.Status != nil {
		ws := domain.WalletStatus(*req.Status)
		patch.Status = &ws
	}
	if req.AssignedStaffID != nil {
		staffID, err := uuid.Parse(*req.AssignedStaffID)
		if err != nil {
			response.Error(c, apperror.Validation("invalid assigned staff id"))
			return
		}
		patch.AssignedStaffID = &staffID
	}
	for _, p := range req.Permissions {
		patch.Permissions = append(patch.Permissions, domain.WalletPermission(p))
	}

	w, err := h.walletSvc.Update(c.Request.Context(), actor, id, patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromWallet(w))
}

// Delete handles DELETE /api/v1/wallets/:id.
func (h *WalletHandler) Delete(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid wallet id"))
		return
	}

	if err := h.walletSvc.Delete(c.Request.Context(), actor, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
