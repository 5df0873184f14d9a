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

// WalletServiceImpl implements ports.WalletService.
type WalletServiceImpl struct {
	walletRepo ports.WalletRepository
	txRepo     ports.TransactionRepository
	auditRepo  ports.AuditRepository
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
	auditRepo ports.AuditRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *WalletServiceImpl {
	return &WalletServiceImpl{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		auditRepo:  auditRepo,
		transactor: transactor,
		log:        log,
	}
}

// Create registers a wallet in the actor's centre. An initial balance is
// recorded as an opening credit through the ledger, never as a bare column
// write, so the balance invariant holds from the first row.
func (s *WalletServiceImpl) Create(ctx context.Context, actor domain.Actor, input ports.CreateWalletInput) (*domain.Wallet, error) {
	if input.Name == "" {
		return nil, apperror.Validation("wallet name is required")
	}
	if !domain.ValidWalletType(input.Type) {
		return nil, apperror.Validation(fmt.Sprintf("unknown wallet type %q", input.Type))
	}
	if input.InitialBalance < 0 {
		return nil, apperror.Validation("initial balance must not be negative")
	}
	if !input.IsShared && input.AssignedStaffID == nil {
		return nil, apperror.Validation("a private wallet needs an assigned staff member")
	}

	status := input.Status
	if status == "" {
		status = domain.WalletStatusOnline
	}

	now := time.Now().UTC()
	w := &domain.Wallet{
		ID:              uuid.New(),
		Name:            input.Name,
		Type:            input.Type,
		Balance:         0,
		IsShared:        input.IsShared,
		AssignedStaffID: input.AssignedStaffID,
		Status:          status,
		CentreID:        actor.CentreID,
		Permissions:     input.Permissions,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.Persistence(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.walletRepo.Create(ctx, dbTx, w); err != nil {
		return nil, apperror.Persistence(fmt.Errorf("create wallet: %w", err))
	}

	if input.InitialBalance > 0 {
		staffID := actor.StaffID
		_, err := applyEntry(ctx, dbTx, s.txRepo, s.walletRepo, w, &staffID,
			domain.TransactionTypeCredit, input.InitialBalance,
			fmt.Sprintf("Opening balance for wallet %s", w.Name), "opening balance")
		if err != nil {
			return nil, apperror.Persistence(fmt.Errorf("record opening balance: %w", err))
		}
	}

	audit := domain.NewAuditLog(domain.AuditActionWalletCreated, actor,
		fmt.Sprintf("Created %s wallet %q with opening balance %d", w.Type, w.Name, input.InitialBalance))
	if err := s.auditRepo.Create(ctx, dbTx, audit); err != nil {
		return nil, apperror.Persistence(fmt.Errorf("audit wallet create: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.Persistence(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("wallet_id", w.ID.String()).
		Str("centre_id", actor.CentreID.String()).
		Int64("opening_balance", input.InitialBalance).
		Msg("wallet created")

	return w, nil
}

// Get fetches one wallet, enforcing centre scope and staff access.
func (s *WalletServiceImpl) Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Wallet, error) {
	w, err := s.walletRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if err := checkWalletVisible(w, actor); err != nil {
		return nil, err
	}
	return w, nil
}

// List returns the wallets of the actor's centre the actor may view.
func (s *WalletServiceImpl) List(ctx context.Context, actor domain.Actor, filter ports.WalletListFilter) ([]domain.Wallet, error) {
	centreID := actor.CentreID
	staffID := actor.StaffID
	wallets, err := s.walletRepo.List(ctx, ports.WalletFilter{
		CentreID:     &centreID,
		Type:         filter.Type,
		Status:       filter.Status,
		AccessibleTo: &staffID,
	})
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	return wallets, nil
}

// Update patches a wallet's mutable fields. There is no path from here to
// the balance column.
func (s *WalletServiceImpl) Update(ctx context.Context, actor domain.Actor, id uuid.UUID, patch ports.UpdateWalletInput) (*domain.Wallet, error) {
	if patch.Type != nil && !domain.ValidWalletType(*patch.Type) {
		return nil, apperror.Validation(fmt.Sprintf("unknown wallet type %q", *patch.Type))
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.Persistence(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	w, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, id)
	if err != nil {
		return nil, apperror.Persistence(fmt.Errorf("lock wallet: %w", err))
	}
	if err := checkWalletVisible(w, actor); err != nil {
		return nil, err
	}

	if patch.Name != nil {
		w.Name = *patch.Name
	}
	if patch.Type != nil {
		w.Type = *patch.Type
	}
	if patch.Status != nil {
		w.Status = *patch.Status
	}
	if patch.IsShared != nil {
		w.IsShared = *patch.IsShared
	}
	if patch.AssignedStaffID != nil {
		w.AssignedStaffID = patch.AssignedStaffID
	}
	if patch.Permissions != nil {
		w.Permissions = patch.Permissions
	}
	if !w.IsShared && w.AssignedStaffID == nil {
		return nil, apperror.Validation("a private wallet needs an assigned staff member")
	}

	if err := s.walletRepo.Update(ctx, dbTx, w); err != nil {
		return nil, apperror.Persistence(fmt.Errorf("update wallet: %w", err))
	}

	audit := domain.NewAuditLog(domain.AuditActionWalletUpdated, actor,
		fmt.Sprintf("Updated wallet %q", w.Name))
	if err := s.auditRepo.Create(ctx, dbTx, audit); err != nil {
		return nil, apperror.Persistence(fmt.Errorf("audit wallet update: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.Persistence(fmt.Errorf("commit tx: %w", err))
	}

	return w, nil
}

// Delete removes a wallet. Wallets with a non-zero balance or any ledger or
// payment history are kept; dropping them would orphan the audit trail.
func (s *WalletServiceImpl) Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.Persistence(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	w, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, id)
	if err != nil {
		return apperror.Persistence(fmt.Errorf("lock wallet: %w", err))
	}
	if err := checkWalletVisible(w, actor); err != nil {
		return err
	}

	if w.Balance != 0 {
		return apperror.ErrConflict("wallet has a non-zero balance")
	}
	hasHistory, err := s.walletRepo.HasHistory(ctx, id)
	if err != nil {
		return apperror.Persistence(fmt.Errorf("check wallet history: %w", err))
	}
	if hasHistory {
		return apperror.ErrConflict("wallet has ledger or payment history")
	}

	if err := s.walletRepo.Delete(ctx, dbTx, id); err != nil {
		return apperror.Persistence(fmt.Errorf("delete wallet: %w", err))
	}

	audit := domain.NewAuditLog(domain.AuditActionWalletDeleted, actor,
		fmt.Sprintf("Deleted wallet %q", w.Name))
	if err := s.auditRepo.Create(ctx, dbTx, audit); err != nil {
		return apperror.Persistence(fmt.Errorf("audit wallet delete: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.Persistence(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().Str("wallet_id", id.String()).Msg("wallet deleted")
	return nil
}

// checkWalletVisible applies centre scoping and staff access to a loaded
// wallet. Wallets of other centres read as not found rather than forbidden.
func checkWalletVisible(w *domain.Wallet, actor domain.Actor) error {
	if w == nil || w.CentreID != actor.CentreID {
		return apperror.ErrNotFound("wallet")
	}
	if !w.AccessibleBy(actor.StaffID) {
		return apperror.ErrAccessDenied()
	}
	return nil
}
