package postgres

import (
	"context"
	"errors"
	"fmt"

	"centre-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CatalogRepo implements ports.CatalogRepository. The catalog is maintained
// elsewhere in the back office; the ledger only reads it.
type CatalogRepo struct {
	pool Pool
}

// NewCatalogRepo creates a new CatalogRepo.
func NewCatalogRepo(pool Pool) *CatalogRepo {
	return &CatalogRepo{pool: pool}
}

// GetCategory fetches a service category by UUID.
func (r *CatalogRepo) GetCategory(ctx context.Context, id uuid.UUID) (*domain.ServiceCategory, error) {
	query := `SELECT id, name, wallet_id, centre_id FROM service_categories WHERE id = $1`

	c := &domain.ServiceCategory{}
	err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.WalletID, &c.CentreID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service category: %w", err)
	}
	return c, nil
}

// GetSubcategory fetches a service subcategory by UUID.
func (r *CatalogRepo) GetSubcategory(ctx context.Context, id uuid.UUID) (*domain.ServiceSubcategory, error) {
	query := `SELECT id, category_id, name, service_charge, department_charge
		FROM service_subcategories WHERE id = $1`

	s := &domain.ServiceSubcategory{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.CategoryID, &s.Name, &s.ServiceCharge, &s.DepartmentCharge,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service subcategory: %w", err)
	}
	return s, nil
}
