package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod is how a customer payment was taken.
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodWallet PaymentMethod = "wallet"
)

// ValidPaymentMethod reports whether m is a known method.
func ValidPaymentMethod(m PaymentMethod) bool {
	return m == PaymentMethodCash || m == PaymentMethodWallet
}

// PaymentStatus is the reconciliation state of a payment line.
type PaymentStatus string

const (
	PaymentStatusReceived    PaymentStatus = "received"
	PaymentStatusPending     PaymentStatus = "pending"
	PaymentStatusNotReceived PaymentStatus = "not_received"
)

// ValidPaymentStatus reports whether s is a known status.
func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentStatusReceived, PaymentStatusPending, PaymentStatusNotReceived:
		return true
	}
	return false
}

// Payment is a customer-facing charge line belonging to a service entry.
// Amount is fixed at creation; only received payments move money through
// the ledger.
type Payment struct {
	ID             uuid.UUID     `json:"id"`
	ServiceEntryID uuid.UUID     `json:"service_entry_id"`
	WalletID       uuid.UUID     `json:"wallet_id"`
	Method         PaymentMethod `json:"method"`
	Amount         int64         `json:"amount"`
	Status         PaymentStatus `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
}

// ServiceEntryStatus is the lifecycle state of a service entry.
type ServiceEntryStatus string

const (
	ServiceEntryStatusCompleted ServiceEntryStatus = "completed"
	ServiceEntryStatusPending   ServiceEntryStatus = "pending"
)

// ServiceEntry is one customer transaction for a cataloged service: a
// department fee debited from the service wallet plus one or more customer
// payments.
type ServiceEntry struct {
	ID               uuid.UUID          `json:"id"`
	CategoryID       uuid.UUID          `json:"category_id"`
	SubcategoryID    uuid.UUID          `json:"subcategory_id"`
	ServiceCharge    int64              `json:"service_charge"`
	DepartmentCharge int64              `json:"department_charge"`
	TotalCharge      int64              `json:"total_charge"`
	ServiceWalletID  uuid.UUID          `json:"service_wallet_id"`
	Status           ServiceEntryStatus `json:"status"`
	StaffID          uuid.UUID          `json:"staff_id"`
	CentreID         uuid.UUID          `json:"centre_id"`
	CreatedAt        time.Time          `json:"created_at"`
}
