package service

import (
	"context"
	"fmt"
	"time"

	"centre-ledger/internal/core/domain"
	"centre-ledger/internal/core/ports"
	"centre-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LedgerServiceImpl implements ports.LedgerService. It is the only writer
// of wallet balances reachable from outside the service package.
type LedgerServiceImpl struct {
	walletRepo ports.WalletRepository
	txRepo     ports.TransactionRepository
	auditRepo  ports.AuditRepository
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
	auditRepo ports.AuditRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		auditRepo:  auditRepo,
		transactor: transactor,
		log:        log,
	}
}

// RecordTransaction appends one credit or debit with pessimistic locking.
// Direct debits that would take the balance below zero are rejected.
func (s *LedgerServiceImpl) RecordTransaction(ctx context.Context, actor domain.Actor, input ports.RecordTransactionInput) (*domain.Transaction, error) {
	if input.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	if !domain.ValidTransactionType(input.Type) {
		return nil, apperror.Validation(fmt.Sprintf("unknown transaction type %q", input.Type))
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.Persistence(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	w, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, input.WalletID)
	if err != nil {
		return nil, apperror.Persistence(fmt.Errorf("lock wallet: %w", err))
	}
	if err := checkWalletVisible(w, actor); err != nil {
		return nil, err
	}

	if input.Type == domain.TransactionTypeDebit && w.Balance < input.Amount {
		return nil, apperror.ErrInsufficientBalance()
	}

	staffID := actor.StaffID
	entry, err := applyEntry(ctx, dbTx, s.txRepo, s.walletRepo, w, &staffID,
		input.Type, input.Amount, input.Description, input.Category)
	if err != nil {
		return nil, apperror.Persistence(fmt.Errorf("apply ledger entry: %w", err))
	}

	audit := domain.NewAuditLog(domain.AuditActionTransaction, actor,
		fmt.Sprintf("%s of %d on wallet %q (%s)", input.Type, input.Amount, w.Name, input.Category))
	if err := s.auditRepo.Create(ctx, dbTx, audit); err != nil {
		return nil, apperror.Persistence(fmt.Errorf("audit transaction: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.Persistence(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("tx_id", entry.ID.String()).
		Str("wallet_id", w.ID.String()).
		Str("type", string(entry.Type)).
		Int64("amount", entry.Amount).
		Int64("balance", w.Balance).
		Msg("ledger entry recorded")

	return entry, nil
}

// ListTransactions returns a paginated slice of one wallet's ledger.
func (s *LedgerServiceImpl) ListTransactions(ctx context.Context, actor domain.Actor, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	w, err := s.walletRepo.GetByID(ctx, params.WalletID)
	if err != nil {
		return nil, 0, apperror.Persistence(err)
	}
	if err := checkWalletVisible(w, actor); err != nil {
		return nil, 0, err
	}

	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 50
	}

	txns, total, err := s.txRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.Persistence(err)
	}
	return txns, total, nil
}

// DailySummary recomputes the opening and closing balance for the calendar
// day containing `day` in loc. Opening is derived from the current balance
// minus the day's signed movement; nothing is stored, so replaying the same
// day without new entries yields identical numbers.
func (s *LedgerServiceImpl) DailySummary(ctx context.Context, actor domain.Actor, walletID uuid.UUID, day time.Time, loc *time.Location) (*ports.DailySummary, error) {
	if loc == nil {
		loc = time.UTC
	}

	w, err := s.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if err := checkWalletVisible(w, actor); err != nil {
		return nil, err
	}

	local := day.In(loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	totals, err := s.txRepo.Totals(ctx, walletID, dayStart, dayEnd)
	if err != nil {
		return nil, apperror.Persistence(err)
	}

	return &ports.DailySummary{
		WalletID: walletID,
		Date:     dayStart.Format("2006-01-02"),
		Opening:  w.Balance - totals.Signed(),
		Closing:  w.Balance,
		Credits:  totals.Credits,
		Debits:   totals.Debits,
	}, nil
}
