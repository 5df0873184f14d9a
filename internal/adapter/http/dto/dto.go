package dto

import "centre-ledger/internal/core/domain"

// CreateWalletRequest is the request body for wallet creation.
type CreateWalletRequest struct {
	Name            string   `json:"name" binding:"required,min=1,max=100"`
	WalletType      string   `json:"wallet_type" binding:"required,wallet_type"`
	InitialBalance  int64    `json:"initial_balance" binding:"gte=0"`
	IsShared        bool     `json:"is_shared"`
	AssignedStaffID *string  `json:"assigned_staff_id,omitempty" binding:"omitempty,uuid"`
	Status          string   `json:"status" binding:"omitempty,oneof=online offline"`
	Permissions     []string `json:"permissions,omitempty"`
}

// UpdateWalletRequest is the partial patch body for wallet updates.
type UpdateWalletRequest struct {
	Name            *string  `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	WalletType      *string  `json:"wallet_type,omitempty" binding:"omitempty,wallet_type"`
	Status          *string  `json:"status,omitempty" binding:"omitempty,oneof=online offline"`
	IsShared        *bool    `json:"is_shared,omitempty"`
	AssignedStaffID *string  `json:"assigned_staff_id,omitempty" binding:"omitempty,uuid"`
	Permissions     []string `json:"permissions,omitempty"`
}

// WalletResponse is the response body for a single wallet.
type WalletResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	WalletType      string   `json:"wallet_type"`
	Balance         int64    `json:"balance"`
	IsShared        bool     `json:"is_shared"`
	AssignedStaffID *string  `json:"assigned_staff_id,omitempty"`
	Status          string   `json:"status"`
	Permissions     []string `json:"permissions,omitempty"`
	CreatedAt       string   `json:"created_at"`
}

// RecordTransactionRequest is the request body for a direct ledger write.
type RecordTransactionRequest struct {
	Type        string `json:"type" binding:"required,oneof=credit debit"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Description string `json:"description" binding:"max=500"`
	Category    string `json:"category" binding:"max=100"`
}

// TransactionResponse is the response body for one ledger entry.
type TransactionResponse struct {
	ID          string  `json:"id"`
	WalletID    string  `json:"wallet_id"`
	StaffID     *string `json:"staff_id,omitempty"`
	Type        string  `json:"type"`
	Amount      int64   `json:"amount"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// TransactionListResponse wraps a paginated ledger listing.
type TransactionListResponse struct {
	Items      []TransactionResponse `json:"items"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}

// TransferRequest is the request body for a wallet-to-wallet transfer.
type TransferRequest struct {
	FromWalletID string `json:"from_wallet_id" binding:"required,uuid"`
	ToWalletID   string `json:"to_wallet_id" binding:"required,uuid"`
	Amount       int64  `json:"amount" binding:"required,gt=0"`
	Description  string `json:"description" binding:"max=500"`
}

// TransferResponse carries both legs of a committed transfer.
type TransferResponse struct {
	Debit  TransactionResponse `json:"debit"`
	Credit TransactionResponse `json:"credit"`
}

// SettlePaymentLine is one customer payment within a settlement request.
type SettlePaymentLine struct {
	WalletID string `json:"wallet_id" binding:"required,uuid"`
	Method   string `json:"method" binding:"required,oneof=cash wallet"`
	Amount   int64  `json:"amount" binding:"required,gt=0"`
	Status   string `json:"status" binding:"required,oneof=received pending not_received"`
}

// SettleRequest is the request body for settling a service entry.
type SettleRequest struct {
	CategoryID       string              `json:"category_id" binding:"required,uuid"`
	SubcategoryID    string              `json:"subcategory_id" binding:"required,uuid"`
	ServiceCharge    int64               `json:"service_charge" binding:"gte=0"`
	DepartmentCharge int64               `json:"department_charge" binding:"gte=0"`
	TotalCharge      int64               `json:"total_charge" binding:"gte=0"`
	ServiceWalletID  string              `json:"service_wallet_id" binding:"required,uuid"`
	MarkCompleted    bool                `json:"mark_completed"`
	Payments         []SettlePaymentLine `json:"payments" binding:"required,min=1,dive"`
}

// ServiceEntryResponse is the response body for one service entry.
type ServiceEntryResponse struct {
	ID               string `json:"id"`
	CategoryID       string `json:"category_id"`
	SubcategoryID    string `json:"subcategory_id"`
	ServiceCharge    int64  `json:"service_charge"`
	DepartmentCharge int64  `json:"department_charge"`
	TotalCharge      int64  `json:"total_charge"`
	ServiceWalletID  string `json:"service_wallet_id"`
	Status           string `json:"status"`
	CreatedAt        string `json:"created_at"`
}

// PaymentResponse is the response body for one payment line.
type PaymentResponse struct {
	ID       string `json:"id"`
	WalletID string `json:"wallet_id"`
	Method   string `json:"method"`
	Amount   int64  `json:"amount"`
	Status   string `json:"status"`
}

// SettleResponse carries everything a committed settlement produced.
type SettleResponse struct {
	Entry        ServiceEntryResponse  `json:"entry"`
	Payments     []PaymentResponse     `json:"payments"`
	Transactions []TransactionResponse `json:"transactions"`
}

// FromWallet converts a domain wallet to its response shape.
func FromWallet(w *domain.Wallet) WalletResponse {
	resp := WalletResponse{
		ID:         w.ID.String(),
		Name:       w.Name,
		WalletType: string(w.Type),
		Balance:    w.Balance,
		IsShared:   w.IsShared,
		Status:     string(w.Status),
		CreatedAt:  w.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if w.AssignedStaffID != nil {
		s := w.AssignedStaffID.String()
		resp.AssignedStaffID = &s
	}
	for _, p := range w.Permissions {
		resp.Permissions = append(resp.Permissions, string(p))
	}
	return resp
}

// FromTransaction converts a domain ledger entry to its response shape.
func FromTransaction(t *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:          t.ID.String(),
		WalletID:    t.WalletID.String(),
		Type:        string(t.Type),
		Amount:      t.Amount,
		Description: t.Description,
		Category:    t.Category,
		CreatedAt:   t.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if t.StaffID != nil {
		s := t.StaffID.String()
		resp.StaffID = &s
	}
	return resp
}

// FromServiceEntry converts a domain service entry to its response shape.
func FromServiceEntry(e *domain.ServiceEntry) ServiceEntryResponse {
	return ServiceEntryResponse{
		ID:               e.ID.String(),
		CategoryID:       e.CategoryID.String(),
		SubcategoryID:    e.SubcategoryID.String(),
		ServiceCharge:    e.ServiceCharge,
		DepartmentCharge: e.DepartmentCharge,
		TotalCharge:      e.TotalCharge,
		ServiceWalletID:  e.ServiceWalletID.String(),
		Status:           string(e.Status),
		CreatedAt:        e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// FromPayment converts a domain payment line to its response shape.
func FromPayment(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:       p.ID.String(),
		WalletID: p.WalletID.String(),
		Method:   string(p.Method),
		Amount:   p.Amount,
		Status:   string(p.Status),
	}
}
