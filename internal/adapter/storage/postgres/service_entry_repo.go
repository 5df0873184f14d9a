package postgres

import (
	"context"
	"errors"
	"fmt"

	"centre-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const serviceEntryColumns = `id, category_id, subcategory_id, service_charge, department_charge, total_charge, service_wallet_id, status, staff_id, centre_id, created_at`

// ServiceEntryRepo implements ports.ServiceEntryRepository.
type ServiceEntryRepo struct {
	pool Pool
}

// NewServiceEntryRepo creates a new ServiceEntryRepo.
func NewServiceEntryRepo(pool Pool) *ServiceEntryRepo {
	return &ServiceEntryRepo{pool: pool}
}

// Create inserts a service entry within a database transaction.
func (r *ServiceEntryRepo) Create(ctx context.Context, tx pgx.Tx, e *domain.ServiceEntry) error {
	query := `INSERT INTO service_entries (` + serviceEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := tx.Exec(ctx, query,
		e.ID, e.CategoryID, e.SubcategoryID, e.ServiceCharge, e.DepartmentCharge,
		e.TotalCharge, e.ServiceWalletID, e.Status, e.StaffID, e.CentreID, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert service entry: %w", err)
	}
	return nil
}

// GetByID fetches a service entry by UUID.
func (r *ServiceEntryRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ServiceEntry, error) {
	query := `SELECT ` + serviceEntryColumns + ` FROM service_entries WHERE id = $1`

	e := &domain.ServiceEntry{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.CategoryID, &e.SubcategoryID, &e.ServiceCharge, &e.DepartmentCharge,
		&e.TotalCharge, &e.ServiceWalletID, &e.Status, &e.StaffID, &e.CentreID, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service entry: %w", err)
	}
	return e, nil
}
