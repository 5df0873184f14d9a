package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"centre-ledger/internal/core/domain"
	"centre-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const walletColumns = `id, name, wallet_type, balance, is_shared, assigned_staff_id, status, centre_id, permissions, created_at, updated_at`

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

// Create inserts a new wallet within a database transaction.
func (r *WalletRepo) Create(ctx context.Context, tx pgx.Tx, w *domain.Wallet) error {
	query := `INSERT INTO wallets (` + walletColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := tx.Exec(ctx, query,
		w.ID, w.Name, w.Type, w.Balance, w.IsShared, w.AssignedStaffID,
		w.Status, w.CentreID, permissionStrings(w.Permissions), w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// GetByID fetches a wallet by its UUID (without locking).
func (r *WalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`
	return scanWallet(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate fetches a wallet by ID with pessimistic locking.
// This MUST be called within a transaction.
func (r *WalletRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1 FOR UPDATE`
	return scanWallet(tx.QueryRow(ctx, query, id))
}

// List fetches wallets matching the filter, newest first.
func (r *WalletRepo) List(ctx context.Context, filter ports.WalletFilter) ([]domain.Wallet, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if filter.CentreID != nil {
		conditions = append(conditions, fmt.Sprintf("centre_id = $%d", argIdx))
		args = append(args, *filter.CentreID)
		argIdx++
	}
	if filter.Type != nil {
		conditions = append(conditions, fmt.Sprintf("wallet_type = $%d", argIdx))
		args = append(args, *filter.Type)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.AccessibleTo != nil {
		conditions = append(conditions, fmt.Sprintf("(is_shared OR assigned_staff_id = $%d)", argIdx))
		args = append(args, *filter.AccessibleTo)
		argIdx++
	}

	query := `SELECT ` + walletColumns + ` FROM wallets`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	var wallets []domain.Wallet
	for rows.Next() {
		w, err := scanWalletRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wallet row: %w", err)
		}
		wallets = append(wallets, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallet rows: %w", err)
	}
	return wallets, nil
}

// Update rewrites the wallet's mutable fields. Balance is deliberately not
// part of this statement; it only moves via UpdateBalance.
func (r *WalletRepo) Update(ctx context.Context, tx pgx.Tx, w *domain.Wallet) error {
	query := `UPDATE wallets SET name = $1, wallet_type = $2, is_shared = $3,
		assigned_staff_id = $4, status = $5, permissions = $6, updated_at = NOW()
		WHERE id = $7`

	tag, err := tx.Exec(ctx, query,
		w.Name, w.Type, w.IsShared, w.AssignedStaffID, w.Status,
		permissionStrings(w.Permissions), w.ID,
	)
	if err != nil {
		return fmt.Errorf("update wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", w.ID)
	}
	return nil
}

// UpdateBalance sets a wallet's balance within a transaction. Callers pair
// every invocation with exactly one ledger insert in the same transaction.
func (r *WalletRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance int64) error {
	query := `UPDATE wallets SET balance = $1, updated_at = NOW() WHERE id = $2`

	tag, err := tx.Exec(ctx, query, balance, walletID)
	if err != nil {
		return fmt.Errorf("update wallet balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", walletID)
	}
	return nil
}

// Delete removes a wallet row within a transaction.
func (r *WalletRepo) Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM wallets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", id)
	}
	return nil
}

// HasHistory reports whether any ledger entry or payment references the wallet.
func (r *WalletRepo) HasHistory(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM wallet_transactions WHERE wallet_id = $1)
		OR EXISTS(SELECT 1 FROM payments WHERE wallet_id = $1)`

	var has bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&has); err != nil {
		return false, fmt.Errorf("check wallet history: %w", err)
	}
	return has, nil
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	w, err := scanWalletRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan wallet: %w", err)
	}
	return w, nil
}

func scanWalletRow(row pgx.Row) (*domain.Wallet, error) {
	w := &domain.Wallet{}
	var perms []string
	err := row.Scan(
		&w.ID, &w.Name, &w.Type, &w.Balance, &w.IsShared, &w.AssignedStaffID,
		&w.Status, &w.CentreID, &perms, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	w.Permissions = make([]domain.WalletPermission, len(perms))
	for i, p := range perms {
		w.Permissions[i] = domain.WalletPermission(p)
	}
	return w, nil
}

func permissionStrings(perms []domain.WalletPermission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}
