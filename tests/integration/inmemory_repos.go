package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"centre-ledger/internal/core/domain"
	"centre-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// The in-memory repos back full-stack tests without PostgreSQL. The
// transactor serialises transactions with a single mutex, which stands in
// for row locking: one ledger mutation at a time, same as FOR UPDATE on a
// small working set.

// --- In-Memory Wallet Repo ---

type inMemoryWalletRepo struct {
	mu      sync.RWMutex
	wallets map[uuid.UUID]*domain.Wallet

	// for HasHistory
	txRepo      *inMemoryTransactionRepo
	paymentRepo *inMemoryPaymentRepo
}

func newInMemoryWalletRepo(txRepo *inMemoryTransactionRepo, paymentRepo *inMemoryPaymentRepo) *inMemoryWalletRepo {
	return &inMemoryWalletRepo{
		wallets:     make(map[uuid.UUID]*domain.Wallet),
		txRepo:      txRepo,
		paymentRepo: paymentRepo,
	}
}

func (r *inMemoryWalletRepo) Create(ctx context.Context, tx pgx.Tx, w *domain.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *w
	r.wallets[w.ID] = &cp
	return nil
}

func (r *inMemoryWalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.wallets[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (r *inMemoryWalletRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryWalletRepo) List(ctx context.Context, filter ports.WalletFilter) ([]domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Wallet
	for _, w := range r.wallets {
		if filter.CentreID != nil && w.CentreID != *filter.CentreID {
			continue
		}
		if filter.Type != nil && w.Type != *filter.Type {
			continue
		}
		if filter.Status != nil && w.Status != *filter.Status {
			continue
		}
		if filter.AccessibleTo != nil && !w.AccessibleBy(*filter.AccessibleTo) {
			continue
		}
		result = append(result, *w)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *inMemoryWalletRepo) Update(ctx context.Context, tx pgx.Tx, w *domain.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.wallets[w.ID]
	if !ok {
		return fmt.Errorf("wallet not found")
	}
	cp := *w
	cp.Balance = stored.Balance // Update never touches the balance column
	r.wallets[w.ID] = &cp
	return nil
}

func (r *inMemoryWalletRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[walletID]
	if !ok {
		return fmt.Errorf("wallet not found")
	}
	w.Balance = balance
	return nil
}

func (r *inMemoryWalletRepo) Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.wallets[id]; !ok {
		return fmt.Errorf("wallet not found")
	}
	delete(r.wallets, id)
	return nil
}

func (r *inMemoryWalletRepo) HasHistory(ctx context.Context, id uuid.UUID) (bool, error) {
	r.txRepo.mu.RLock()
	for _, t := range r.txRepo.transactions {
		if t.WalletID == id {
			r.txRepo.mu.RUnlock()
			return true, nil
		}
	}
	r.txRepo.mu.RUnlock()

	r.paymentRepo.mu.RLock()
	defer r.paymentRepo.mu.RUnlock()
	for _, p := range r.paymentRepo.payments {
		if p.WalletID == id {
			return true, nil
		}
	}
	return false, nil
}

// --- In-Memory Transaction Repo ---

type inMemoryTransactionRepo struct {
	mu           sync.RWMutex
	transactions []*domain.Transaction
}

func newInMemoryTransactionRepo() *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{}
}

func (r *inMemoryTransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	r.transactions = append(r.transactions, &cp)
	return nil
}

func (r *inMemoryTransactionRepo) List(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Transaction
	for _, t := range r.transactions {
		if t.WalletID != params.WalletID {
			continue
		}
		if params.Type != nil && t.Type != *params.Type {
			continue
		}
		if params.From != nil && t.CreatedAt.Before(*params.From) {
			continue
		}
		if params.To != nil && !t.CreatedAt.Before(*params.To) {
			continue
		}
		result = append(result, *t)
	}
	// Newest first, matching the SQL ordering.
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	total := int64(len(result))

	start := (params.Page - 1) * params.PageSize
	if start >= len(result) {
		return []domain.Transaction{}, total, nil
	}
	end := start + params.PageSize
	if end > len(result) {
		end = len(result)
	}
	return result[start:end], total, nil
}

func (r *inMemoryTransactionRepo) Totals(ctx context.Context, walletID uuid.UUID, from, to time.Time) (*ports.LedgerTotals, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	totals := &ports.LedgerTotals{}
	for _, t := range r.transactions {
		if t.WalletID != walletID {
			continue
		}
		if t.CreatedAt.Before(from) || !t.CreatedAt.Before(to) {
			continue
		}
		switch t.Type {
		case domain.TransactionTypeCredit:
			totals.Credits += t.Amount
		case domain.TransactionTypeDebit:
			totals.Debits += t.Amount
		}
	}
	return totals, nil
}

// --- In-Memory Service Entry Repo ---

type inMemoryServiceEntryRepo struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*domain.ServiceEntry
}

func newInMemoryServiceEntryRepo() *inMemoryServiceEntryRepo {
	return &inMemoryServiceEntryRepo{entries: make(map[uuid.UUID]*domain.ServiceEntry)}
}

func (r *inMemoryServiceEntryRepo) Create(ctx context.Context, tx pgx.Tx, e *domain.ServiceEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *e
	r.entries[e.ID] = &cp
	return nil
}

func (r *inMemoryServiceEntryRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ServiceEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

// --- In-Memory Payment Repo ---

type inMemoryPaymentRepo struct {
	mu       sync.RWMutex
	payments []*domain.Payment
}

func newInMemoryPaymentRepo() *inMemoryPaymentRepo {
	return &inMemoryPaymentRepo{}
}

func (r *inMemoryPaymentRepo) Create(ctx context.Context, tx pgx.Tx, p *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.payments = append(r.payments, &cp)
	return nil
}

func (r *inMemoryPaymentRepo) ListByServiceEntry(ctx context.Context, serviceEntryID uuid.UUID) ([]domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Payment
	for _, p := range r.payments {
		if p.ServiceEntryID == serviceEntryID {
			result = append(result, *p)
		}
	}
	return result, nil
}

// --- In-Memory Catalog Repo ---

type inMemoryCatalogRepo struct {
	mu            sync.RWMutex
	categories    map[uuid.UUID]*domain.ServiceCategory
	subcategories map[uuid.UUID]*domain.ServiceSubcategory
}

func newInMemoryCatalogRepo() *inMemoryCatalogRepo {
	return &inMemoryCatalogRepo{
		categories:    make(map[uuid.UUID]*domain.ServiceCategory),
		subcategories: make(map[uuid.UUID]*domain.ServiceSubcategory),
	}
}

func (r *inMemoryCatalogRepo) seed(cat *domain.ServiceCategory, sub *domain.ServiceSubcategory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories[cat.ID] = cat
	r.subcategories[sub.ID] = sub
}

func (r *inMemoryCatalogRepo) GetCategory(ctx context.Context, id uuid.UUID) (*domain.ServiceCategory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.categories[id]
	if !ok {
		return nil, nil
	}
	return c, nil
}

func (r *inMemoryCatalogRepo) GetSubcategory(ctx context.Context, id uuid.UUID) (*domain.ServiceSubcategory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.subcategories[id]
	if !ok {
		return nil, nil
	}
	return s, nil
}

// --- In-Memory Audit Repo ---

type inMemoryAuditRepo struct {
	mu      sync.RWMutex
	entries []*domain.AuditLog
}

func newInMemoryAuditRepo() *inMemoryAuditRepo {
	return &inMemoryAuditRepo{}
}

func (r *inMemoryAuditRepo) Create(ctx context.Context, tx pgx.Tx, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *entry
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *inMemoryAuditRepo) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// --- In-Memory Idempotency Repo ---

type inMemoryIdempotencyRepo struct {
	mu   sync.RWMutex
	logs map[string]*domain.IdempotencyLog
}

func newInMemoryIdempotencyRepo() *inMemoryIdempotencyRepo {
	return &inMemoryIdempotencyRepo{logs: make(map[string]*domain.IdempotencyLog)}
}

func (r *inMemoryIdempotencyRepo) Create(ctx context.Context, tx pgx.Tx, log *domain.IdempotencyLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs[log.Key] = log
	return nil
}

func (r *inMemoryIdempotencyRepo) Get(ctx context.Context, key string) (*domain.IdempotencyLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.logs[key]
	if !ok {
		return nil, nil
	}
	return l, nil
}

// --- Serialising Transactor ---

// lockingTransactor hands out transactions one at a time. Begin blocks until
// the previous transaction commits or rolls back, so concurrent ledger
// operations execute strictly one after another.
type lockingTransactor struct {
	mu sync.Mutex
}

func newLockingTransactor() *lockingTransactor {
	return &lockingTransactor{}
}

func (t *lockingTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	return &memTx{release: &t.mu}, nil
}

// memTx is a pgx.Tx whose only job is to release the transactor lock exactly
// once, on whichever of Commit/Rollback runs first.
type memTx struct {
	release *sync.Mutex
	once    sync.Once
}

func (t *memTx) done() {
	t.once.Do(t.release.Unlock)
}

func (t *memTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *memTx) Commit(ctx context.Context) error          { t.done(); return nil }
func (t *memTx) Rollback(ctx context.Context) error        { t.done(); return nil }
func (t *memTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *memTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *memTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *memTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *memTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *memTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *memTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *memTx) Conn() *pgx.Conn { return nil }
