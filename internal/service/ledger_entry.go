package service

import (
	"context"
	"time"

	"centre-ledger/internal/core/domain"
	"centre-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// applyEntry appends one ledger row against an already-locked wallet and
// moves its balance, both inside the caller's transaction. The wallet's
// in-memory Balance is advanced so follow-up entries in the same transaction
// see the running balance. Amount must already be validated positive.
func applyEntry(
	ctx context.Context,
	dbTx pgx.Tx,
	txRepo ports.TransactionRepository,
	walletRepo ports.WalletRepository,
	w *domain.Wallet,
	staffID *uuid.UUID,
	entryType domain.TransactionType,
	amount int64,
	description string,
	category string,
) (*domain.Transaction, error) {
	entry := &domain.Transaction{
		ID:          uuid.New(),
		WalletID:    w.ID,
		StaffID:     staffID,
		Type:        entryType,
		Amount:      amount,
		Description: description,
		Category:    category,
		CreatedAt:   time.Now().UTC(),
	}

	w.Balance += entry.Signed()

	if err := walletRepo.UpdateBalance(ctx, dbTx, w.ID, w.Balance); err != nil {
		return nil, err
	}
	if err := txRepo.Create(ctx, dbTx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}
