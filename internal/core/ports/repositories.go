package ports

import (
	"context"
	"time"

	"centre-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WalletRepository defines persistence operations for wallets.
// Methods accepting pgx.Tx run inside transaction blocks; balance writes are
// only reachable through them so every balance change shares a transaction
// with its ledger entry.
type WalletRepository interface {
	Create(ctx context.Context, tx pgx.Tx, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error)
	List(ctx context.Context, filter WalletFilter) ([]domain.Wallet, error)
	Update(ctx context.Context, tx pgx.Tx, wallet *domain.Wallet) error
	UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance int64) error
	Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
	// HasHistory reports whether any ledger entry or payment references the wallet.
	HasHistory(ctx context.Context, id uuid.UUID) (bool, error)
}

// WalletFilter narrows a wallet listing. AccessibleTo restricts the result to
// wallets that are shared or assigned to the given staff member.
type WalletFilter struct {
	CentreID     *uuid.UUID
	Type         *domain.WalletType
	Status       *domain.WalletStatus
	AccessibleTo *uuid.UUID
}

// TransactionRepository defines persistence for the append-only ledger.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, transaction *domain.Transaction) error
	List(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
	// Totals sums credit and debit amounts for a wallet in [from, to).
	Totals(ctx context.Context, walletID uuid.UUID, from, to time.Time) (*LedgerTotals, error)
}

// TransactionListParams holds filter + pagination for listing ledger entries.
type TransactionListParams struct {
	WalletID uuid.UUID
	Type     *domain.TransactionType
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// LedgerTotals aggregates one wallet's movements over a window.
type LedgerTotals struct {
	Credits int64
	Debits  int64
}

// Signed returns credits minus debits.
func (t *LedgerTotals) Signed() int64 {
	return t.Credits - t.Debits
}

// ServiceEntryRepository defines persistence for service entries.
type ServiceEntryRepository interface {
	Create(ctx context.Context, tx pgx.Tx, entry *domain.ServiceEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ServiceEntry, error)
}

// PaymentRepository defines persistence for payment lines.
type PaymentRepository interface {
	Create(ctx context.Context, tx pgx.Tx, payment *domain.Payment) error
	ListByServiceEntry(ctx context.Context, serviceEntryID uuid.UUID) ([]domain.Payment, error)
}

// CatalogRepository is the read-only service catalog collaborator. The
// ledger treats its charges as ground truth during settlement.
type CatalogRepository interface {
	GetCategory(ctx context.Context, id uuid.UUID) (*domain.ServiceCategory, error)
	GetSubcategory(ctx context.Context, id uuid.UUID) (*domain.ServiceSubcategory, error)
}

// AuditRepository appends audit entries. Create always runs inside the
// caller's transaction; a failed append fails the whole operation.
type AuditRepository interface {
	Create(ctx context.Context, tx pgx.Tx, entry *domain.AuditLog) error
}

// IdempotencyRepository defines persistence for idempotency logs (DB layer).
type IdempotencyRepository interface {
	Create(ctx context.Context, tx pgx.Tx, log *domain.IdempotencyLog) error
	Get(ctx context.Context, key string) (*domain.IdempotencyLog, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
