package postgres

import (
	"context"
	"fmt"

	"centre-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// AuditRepo implements ports.AuditRepository. Entries are written inside the
// caller's transaction so they roll back with the mutation they describe.
type AuditRepo struct {
	pool Pool
}

// NewAuditRepo creates a new AuditRepo.
func NewAuditRepo(pool Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

// Create appends an audit entry within a database transaction.
func (r *AuditRepo) Create(ctx context.Context, tx pgx.Tx, entry *domain.AuditLog) error {
	query := `INSERT INTO audit_logs (id, action, performed_by, details, centre_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(ctx, query,
		entry.ID, entry.Action, entry.PerformedBy, entry.Details, entry.CentreID, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}
