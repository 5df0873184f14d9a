package ports

import (
	"context"
	"time"

	"centre-ledger/internal/core/domain"

	"github.com/google/uuid"
)

// --- Wallet Store ---

// WalletService owns wallet records. Balance is never writable through it
// directly; creation with an initial balance routes through the ledger.
type WalletService interface {
	Create(ctx context.Context, actor domain.Actor, input CreateWalletInput) (*domain.Wallet, error)
	Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Wallet, error)
	List(ctx context.Context, actor domain.Actor, filter WalletListFilter) ([]domain.Wallet, error)
	Update(ctx context.Context, actor domain.Actor, id uuid.UUID, patch UpdateWalletInput) (*domain.Wallet, error)
	Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error
}

// CreateWalletInput holds validated input for wallet creation. The owning
// centre comes from the actor.
type CreateWalletInput struct {
	Name            string
	Type            domain.WalletType
	InitialBalance  int64
	IsShared        bool
	AssignedStaffID *uuid.UUID
	Status          domain.WalletStatus
	Permissions     []domain.WalletPermission
}

// WalletListFilter narrows a listing within the actor's centre.
type WalletListFilter struct {
	Type   *domain.WalletType
	Status *domain.WalletStatus
}

// UpdateWalletInput is a partial patch; nil fields are left unchanged.
// Balance is not representable here by construction.
type UpdateWalletInput struct {
	Name            *string
	Type            *domain.WalletType
	Status          *domain.WalletStatus
	IsShared        *bool
	AssignedStaffID *uuid.UUID
	Permissions     []domain.WalletPermission
}

// --- Transaction Ledger ---

// LedgerService is the sole writer of wallet balances.
type LedgerService interface {
	RecordTransaction(ctx context.Context, actor domain.Actor, input RecordTransactionInput) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, actor domain.Actor, params TransactionListParams) ([]domain.Transaction, int64, error)
	// DailySummary recomputes opening/closing balances for the calendar day
	// containing `day` in the given location. Opening is derived, not stored.
	DailySummary(ctx context.Context, actor domain.Actor, walletID uuid.UUID, day time.Time, loc *time.Location) (*DailySummary, error)
}

// RecordTransactionInput holds validated input for a direct ledger write.
type RecordTransactionInput struct {
	WalletID    uuid.UUID
	Type        domain.TransactionType
	Amount      int64
	Description string
	Category    string
}

// DailySummary is the derived opening/closing view of one wallet day.
type DailySummary struct {
	WalletID uuid.UUID `json:"wallet_id"`
	Date     string    `json:"date"` // YYYY-MM-DD in the caller's location
	Opening  int64     `json:"opening"`
	Closing  int64     `json:"closing"`
	Credits  int64     `json:"credits"`
	Debits   int64     `json:"debits"`
}

// --- Transfer Orchestrator ---

// TransferService moves funds between two wallets as one atomic unit.
type TransferService interface {
	Transfer(ctx context.Context, actor domain.Actor, input TransferInput) (*TransferResult, error)
}

// TransferInput holds validated input for a transfer. An empty
// IdempotencyKey disables replay protection for the call.
type TransferInput struct {
	FromWalletID   uuid.UUID
	ToWalletID     uuid.UUID
	Amount         int64
	Description    string
	IdempotencyKey string
}

// TransferResult carries both legs of a committed transfer.
type TransferResult struct {
	Debit  *domain.Transaction `json:"debit"`
	Credit *domain.Transaction `json:"credit"`
}

// --- Service-Entry Settlement ---

// SettlementService validates and applies a service entry's charges and
// payments in one atomic unit.
type SettlementService interface {
	Settle(ctx context.Context, actor domain.Actor, input SettleInput) (*SettleResult, error)
}

// SettleInput holds client-supplied settlement data. Charges are
// re-validated against the catalog before anything is written.
type SettleInput struct {
	CategoryID       uuid.UUID
	SubcategoryID    uuid.UUID
	ServiceCharge    int64
	DepartmentCharge int64
	TotalCharge      int64
	ServiceWalletID  uuid.UUID
	MarkCompleted    bool
	Payments         []PaymentInput
	IdempotencyKey   string
}

// PaymentInput is one customer payment line within a settlement.
type PaymentInput struct {
	WalletID uuid.UUID
	Method   domain.PaymentMethod
	Amount   int64
	Status   domain.PaymentStatus
}

// SettleResult carries everything a committed settlement produced.
type SettleResult struct {
	Entry        *domain.ServiceEntry `json:"entry"`
	Payments     []domain.Payment     `json:"payments"`
	Transactions []domain.Transaction `json:"transactions"`
}

// --- Reporting ---

// ReportingService derives balances and daily movement for dashboards.
type ReportingService interface {
	CentreSnapshot(ctx context.Context, actor domain.Actor) (*CentreSnapshot, error)
}

// CentreSnapshot is today's per-wallet view for one centre.
type CentreSnapshot struct {
	CentreID    uuid.UUID           `json:"centre_id"`
	GeneratedAt time.Time           `json:"generated_at"`
	Wallets     []WalletDaySnapshot `json:"wallets"`
}

// WalletDaySnapshot is one wallet's derived opening/closing view for today.
type WalletDaySnapshot struct {
	WalletID uuid.UUID         `json:"wallet_id"`
	Name     string            `json:"name"`
	Type     domain.WalletType `json:"wallet_type"`
	Opening  int64             `json:"opening"`
	Closing  int64             `json:"closing"`
	Credits  int64             `json:"credits"`
	Debits   int64             `json:"debits"`
}

// --- Boundary services ---

// TokenService resolves the caller identity at the HTTP boundary.
type TokenService interface {
	Generate(actor domain.Actor) (string, time.Time, error)
	Validate(tokenString string) (*domain.Actor, error)
}

// IdempotencyCache is the Redis-layer idempotency check (fast path).
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // nil when absent
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
