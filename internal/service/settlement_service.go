package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"centre-ledger/internal/core/domain"
	"centre-ledger/internal/core/ports"
	"centre-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SettlementServiceImpl implements ports.SettlementService.
type SettlementServiceImpl struct {
	walletRepo  ports.WalletRepository
	txRepo      ports.TransactionRepository
	entryRepo   ports.ServiceEntryRepository
	paymentRepo ports.PaymentRepository
	catalogRepo ports.CatalogRepository
	auditRepo   ports.AuditRepository
	idemRepo    ports.IdempotencyRepository
	idemCache   ports.IdempotencyCache
	transactor  ports.DBTransactor
	log         zerolog.Logger
}

// NewSettlementService creates a new SettlementServiceImpl.
func NewSettlementService(
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
	entryRepo ports.ServiceEntryRepository,
	paymentRepo ports.PaymentRepository,
	catalogRepo ports.CatalogRepository,
	auditRepo ports.AuditRepository,
	idemRepo ports.IdempotencyRepository,
	idemCache ports.IdempotencyCache,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *SettlementServiceImpl {
	return &SettlementServiceImpl{
		walletRepo:  walletRepo,
		txRepo:      txRepo,
		entryRepo:   entryRepo,
		paymentRepo: paymentRepo,
		catalogRepo: catalogRepo,
		auditRepo:   auditRepo,
		idemRepo:    idemRepo,
		idemCache:   idemCache,
		transactor:  transactor,
		log:         log,
	}
}

// Settle charges a customer for a cataloged service: it re-validates the
// client-supplied charges against the catalog, debits the department charge
// from the service wallet, and credits every received payment inside one
// transaction, so a failed step leaves nothing from the call behind.
func (s *SettlementServiceImpl) Settle(ctx context.Context, actor domain.Actor, input ports.SettleInput) (*ports.SettleResult, error) {
	if err := validateSettleInput(input); err != nil {
		return nil, err
	}

	var idemKey string
	if input.IdempotencyKey != "" {
		idemKey = domain.BuildIdempotencyKey(actor.CentreID, "settlement", input.IdempotencyKey)
		if cached, err := s.replaySettlement(ctx, idemKey); err != nil {
			return nil, err
		} else if cached != nil {
			return cached, nil
		}
	}

	// Catalog is ground truth; client-supplied charges that disagree with
	// it are rejected before anything is locked or written.
	category, err := s.catalogRepo.GetCategory(ctx, input.CategoryID)
	if err != nil {
		return nil, apperror.Persistence(fmt.Errorf("load category: %w", err))
	}
	if category == nil || category.CentreID != actor.CentreID {
		return nil, apperror.ErrNotFound("service category")
	}
	subcategory, err := s.catalogRepo.GetSubcategory(ctx, input.SubcategoryID)
	if err != nil {
		return nil, apperror.Persistence(fmt.Errorf("load subcategory: %w", err))
	}
	if subcategory == nil || subcategory.CategoryID != category.ID {
		return nil, apperror.ErrNotFound("service subcategory")
	}
	if input.ServiceCharge != subcategory.ServiceCharge || input.DepartmentCharge != subcategory.DepartmentCharge {
		return nil, apperror.ErrChargeMismatch()
	}
	if category.WalletID != input.ServiceWalletID {
		return nil, apperror.Validation("service wallet does not belong to the category")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.Persistence(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	walletIDs := make([]uuid.UUID, 0, len(input.Payments)+1)
	walletIDs = append(walletIDs, input.ServiceWalletID)
	for _, p := range input.Payments {
		walletIDs = append(walletIDs, p.WalletID)
	}
	locked, err := lockWalletsOrdered(ctx, dbTx, s.walletRepo, walletIDs)
	if err != nil {
		return nil, err
	}

	serviceWallet := locked[input.ServiceWalletID]
	if serviceWallet == nil || serviceWallet.CentreID != actor.CentreID {
		return nil, apperror.ErrNotFound("service wallet")
	}
	if input.DepartmentCharge > 0 {
		if !serviceWallet.IsOnline() {
			return nil, apperror.Validation("service wallet is offline")
		}
		if serviceWallet.Balance < input.DepartmentCharge {
			return nil, apperror.ErrInsufficientBalance()
		}
	}

	for i, p := range input.Payments {
		w := locked[p.WalletID]
		if err := checkWalletVisible(w, actor); err != nil {
			return nil, err
		}
		if p.Method == domain.PaymentMethodCash && w.Type != domain.WalletTypeCash {
			return nil, apperror.Validation(fmt.Sprintf("payment %d: cash payments require a cash wallet", i+1))
		}
		if p.Method == domain.PaymentMethodWallet && !w.IsOnline() {
			return nil, apperror.Validation(fmt.Sprintf("payment %d: wallet payments require an online wallet", i+1))
		}
	}

	status := domain.ServiceEntryStatusPending
	if input.MarkCompleted {
		var received int64
		for _, p := range input.Payments {
			if p.Status == domain.PaymentStatusReceived {
				received += p.Amount
			}
		}
		if received < input.TotalCharge {
			return nil, apperror.ErrBalanceNotCovered()
		}
		status = domain.ServiceEntryStatusCompleted
	}

	entry := &domain.ServiceEntry{
		ID:               uuid.New(),
		CategoryID:       category.ID,
		SubcategoryID:    subcategory.ID,
		ServiceCharge:    input.ServiceCharge,
		DepartmentCharge: input.DepartmentCharge,
		TotalCharge:      input.TotalCharge,
		ServiceWalletID:  input.ServiceWalletID,
		Status:           status,
		StaffID:          actor.StaffID,
		CentreID:         actor.CentreID,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.entryRepo.Create(ctx, dbTx, entry); err != nil {
		return nil, apperror.Persistence(fmt.Errorf("create service entry: %w", err))
	}

	staffID := actor.StaffID
	detail := fmt.Sprintf("%s / %s (entry %s)", category.Name, subcategory.Name, entry.ID)
	transactions := make([]domain.Transaction, 0, len(input.Payments)+1)

	if input.DepartmentCharge > 0 {
		debit, err := applyEntry(ctx, dbTx, s.txRepo, s.walletRepo, serviceWallet, &staffID,
			domain.TransactionTypeDebit, input.DepartmentCharge,
			"department charge for "+detail, "service entry")
		if err != nil {
			return nil, apperror.Persistence(fmt.Errorf("debit department charge: %w", err))
		}
		transactions = append(transactions, *debit)
	}

	payments := make([]domain.Payment, 0, len(input.Payments))
	for _, p := range input.Payments {
		payment := domain.Payment{
			ID:             uuid.New(),
			ServiceEntryID: entry.ID,
			WalletID:       p.WalletID,
			Method:         p.Method,
			Amount:         p.Amount,
			Status:         p.Status,
			CreatedAt:      time.Now().UTC(),
		}
		if err := s.paymentRepo.Create(ctx, dbTx, &payment); err != nil {
			return nil, apperror.Persistence(fmt.Errorf("create payment: %w", err))
		}
		payments = append(payments, payment)

		// Pending and not-received payments are recorded but move no money.
		if p.Status != domain.PaymentStatusReceived {
			continue
		}
		credit, err := applyEntry(ctx, dbTx, s.txRepo, s.walletRepo, locked[p.WalletID], &staffID,
			domain.TransactionTypeCredit, p.Amount,
			"payment for "+detail, "service entry")
		if err != nil {
			return nil, apperror.Persistence(fmt.Errorf("credit payment: %w", err))
		}
		transactions = append(transactions, *credit)
	}

	result := &ports.SettleResult{
		Entry:        entry,
		Payments:     payments,
		Transactions: transactions,
	}

	audit := domain.NewAuditLog(domain.AuditActionSettlement, actor,
		fmt.Sprintf("settled %s for %d (%d payments, status %s)", detail, input.TotalCharge, len(payments), status))
	if err := s.auditRepo.Create(ctx, dbTx, audit); err != nil {
		return nil, apperror.Persistence(fmt.Errorf("audit settlement: %w", err))
	}

	var payload []byte
	if idemKey != "" {
		payload, err = json.Marshal(result)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("marshal settlement result: %w", err))
		}
		if err := s.idemRepo.Create(ctx, dbTx, &domain.IdempotencyLog{
			Key:          idemKey,
			Operation:    "settlement",
			ResponseJSON: payload,
			CreatedAt:    time.Now().UTC(),
		}); err != nil {
			return nil, apperror.Persistence(fmt.Errorf("record idempotency log: %w", err))
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.Persistence(fmt.Errorf("commit tx: %w", err))
	}

	if idemKey != "" {
		if err := s.idemCache.Set(ctx, idemKey, payload, idempotencyCacheTTL); err != nil {
			s.log.Warn().Err(err).Str("key", idemKey).Msg("failed to cache settlement result")
		}
	}

	s.log.Info().
		Str("entry_id", entry.ID.String()).
		Str("status", string(entry.Status)).
		Int64("total_charge", entry.TotalCharge).
		Int("payments", len(payments)).
		Msg("service entry settled")

	return result, nil
}

func validateSettleInput(input ports.SettleInput) error {
	if input.ServiceCharge < 0 || input.DepartmentCharge < 0 {
		return apperror.Validation("charges must not be negative")
	}
	if input.TotalCharge != input.ServiceCharge+input.DepartmentCharge {
		return apperror.Validation("total charge must equal service charge plus department charge")
	}
	if len(input.Payments) == 0 {
		return apperror.Validation("at least one payment is required")
	}
	for i, p := range input.Payments {
		if p.Amount <= 0 {
			return apperror.Validation(fmt.Sprintf("payment %d: amount must be positive", i+1))
		}
		if !domain.ValidPaymentMethod(p.Method) {
			return apperror.Validation(fmt.Sprintf("payment %d: unknown method %q", i+1, p.Method))
		}
		if !domain.ValidPaymentStatus(p.Status) {
			return apperror.Validation(fmt.Sprintf("payment %d: unknown status %q", i+1, p.Status))
		}
	}
	return nil
}

// replaySettlement mirrors the transfer replay path for settlement results.
func (s *SettlementServiceImpl) replaySettlement(ctx context.Context, key string) (*ports.SettleResult, error) {
	payload, err := s.idemCache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("idempotency cache lookup failed")
	}
	if payload == nil {
		logEntry, err := s.idemRepo.Get(ctx, key)
		if err != nil {
			return nil, apperror.Persistence(fmt.Errorf("idempotency lookup: %w", err))
		}
		if logEntry == nil {
			return nil, nil
		}
		payload = logEntry.ResponseJSON
		if err := s.idemCache.Set(ctx, key, payload, idempotencyCacheTTL); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("failed to backfill idempotency cache")
		}
	}

	var result ports.SettleResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("decode cached settlement result: %w", err))
	}
	s.log.Info().Str("key", key).Msg("settlement replayed from idempotency record")
	return &result, nil
}
