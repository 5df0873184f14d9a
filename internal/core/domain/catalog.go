package domain

import "github.com/google/uuid"

// ServiceCategory is a catalog entry grouping subcategories under one
// designated service wallet. The catalog is read-only for the ledger core;
// its charges are ground truth during settlement.
type ServiceCategory struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	WalletID uuid.UUID `json:"wallet_id"`
	CentreID uuid.UUID `json:"centre_id"`
}

// ServiceSubcategory carries the current service and department charges for
// one concrete service offering.
type ServiceSubcategory struct {
	ID               uuid.UUID `json:"id"`
	CategoryID       uuid.UUID `json:"category_id"`
	Name             string    `json:"name"`
	ServiceCharge    int64     `json:"service_charge"`
	DepartmentCharge int64     `json:"department_charge"`
}
