package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"centre-ledger/internal/core/domain"
	"centre-ledger/internal/core/ports"
	"centre-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const idempotencyCacheTTL = 24 * time.Hour

// TransferServiceImpl implements ports.TransferService.
type TransferServiceImpl struct {
	walletRepo ports.WalletRepository
	txRepo     ports.TransactionRepository
	auditRepo  ports.AuditRepository
	idemRepo   ports.IdempotencyRepository
	idemCache  ports.IdempotencyCache
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// NewTransferService creates a new TransferServiceImpl.
func NewTransferService(
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
	auditRepo ports.AuditRepository,
	idemRepo ports.IdempotencyRepository,
	idemCache ports.IdempotencyCache,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *TransferServiceImpl {
	return &TransferServiceImpl{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		auditRepo:  auditRepo,
		idemRepo:   idemRepo,
		idemCache:  idemCache,
		transactor: transactor,
		log:        log,
	}
}

// Transfer moves funds between two wallets of the actor's centre: one debit
// and one credit committed together or not at all. An idempotency key makes
// retries replay the original result instead of moving money again.
func (s *TransferServiceImpl) Transfer(ctx context.Context, actor domain.Actor, input ports.TransferInput) (*ports.TransferResult, error) {
	if input.FromWalletID == input.ToWalletID {
		return nil, apperror.ErrSameWallet()
	}
	if input.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	var idemKey string
	if input.IdempotencyKey != "" {
		idemKey = domain.BuildIdempotencyKey(actor.CentreID, "transfer", input.IdempotencyKey)
		if cached, err := s.replayTransfer(ctx, idemKey); err != nil {
			return nil, err
		} else if cached != nil {
			return cached, nil
		}
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.Persistence(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	locked, err := s.lockWallets(ctx, dbTx, input.FromWalletID, input.ToWalletID)
	if err != nil {
		return nil, err
	}
	from, to := locked[input.FromWalletID], locked[input.ToWalletID]

	// The actor needs access to the source; the destination only has to
	// exist within the same centre.
	if err := checkWalletVisible(from, actor); err != nil {
		return nil, err
	}
	if to == nil || to.CentreID != actor.CentreID {
		return nil, apperror.ErrNotFound("destination wallet")
	}
	if from.Balance < input.Amount {
		return nil, apperror.ErrInsufficientBalance()
	}

	staffID := actor.StaffID
	debit, err := applyEntry(ctx, dbTx, s.txRepo, s.walletRepo, from, &staffID,
		domain.TransactionTypeDebit, input.Amount, input.Description, "transfer")
	if err != nil {
		return nil, apperror.Persistence(fmt.Errorf("apply debit leg: %w", err))
	}
	credit, err := applyEntry(ctx, dbTx, s.txRepo, s.walletRepo, to, &staffID,
		domain.TransactionTypeCredit, input.Amount, input.Description, "transfer")
	if err != nil {
		return nil, apperror.Persistence(fmt.Errorf("apply credit leg: %w", err))
	}

	result := &ports.TransferResult{Debit: debit, Credit: credit}

	audit := domain.NewAuditLog(domain.AuditActionTransfer, actor,
		fmt.Sprintf("transfer of %d from %q to %q", input.Amount, from.Name, to.Name))
	if err := s.auditRepo.Create(ctx, dbTx, audit); err != nil {
		return nil, apperror.Persistence(fmt.Errorf("audit transfer: %w", err))
	}

	var payload []byte
	if idemKey != "" {
		payload, err = json.Marshal(result)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("marshal transfer result: %w", err))
		}
		if err := s.idemRepo.Create(ctx, dbTx, &domain.IdempotencyLog{
			Key:          idemKey,
			Operation:    "transfer",
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
			s.log.Warn().Err(err).Str("key", idemKey).Msg("failed to cache transfer result")
		}
	}

	s.log.Info().
		Str("from_wallet_id", from.ID.String()).
		Str("to_wallet_id", to.ID.String()).
		Int64("amount", input.Amount).
		Msg("transfer completed")

	return result, nil
}

// replayTransfer looks up a prior result for the key, Redis first and the
// idempotency table second. A nil, nil return means no prior attempt.
func (s *TransferServiceImpl) replayTransfer(ctx context.Context, key string) (*ports.TransferResult, error) {
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

	var result ports.TransferResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("decode cached transfer result: %w", err))
	}
	s.log.Info().Str("key", key).Msg("transfer replayed from idempotency record")
	return &result, nil
}

// lockWallets acquires FOR UPDATE locks on the given wallets in a fixed
// order so two concurrent multi-wallet operations cannot deadlock. Missing
// wallets come back as nil entries for the caller to reject.
func (s *TransferServiceImpl) lockWallets(ctx context.Context, dbTx pgx.Tx, ids ...uuid.UUID) (map[uuid.UUID]*domain.Wallet, error) {
	return lockWalletsOrdered(ctx, dbTx, s.walletRepo, ids)
}

func lockWalletsOrdered(ctx context.Context, dbTx pgx.Tx, walletRepo ports.WalletRepository, ids []uuid.UUID) (map[uuid.UUID]*domain.Wallet, error) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	sort.Slice(unique, func(i, j int) bool {
		return unique[i].String() < unique[j].String()
	})

	locked := make(map[uuid.UUID]*domain.Wallet, len(unique))
	for _, id := range unique {
		w, err := walletRepo.GetByIDForUpdate(ctx, dbTx, id)
		if err != nil {
			return nil, apperror.Persistence(fmt.Errorf("lock wallet %s: %w", id, err))
		}
		locked[id] = w
	}
	return locked, nil
}
