package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType is the direction of a ledger entry.
type TransactionType string

const (
	TransactionTypeCredit TransactionType = "credit"
	TransactionTypeDebit  TransactionType = "debit"
)

// ValidTransactionType reports whether t is credit or debit.
func ValidTransactionType(t TransactionType) bool {
	return t == TransactionTypeCredit || t == TransactionTypeDebit
}

// Transaction is an immutable ledger entry against a wallet. Amount is always
// positive; the type carries the sign. A nil StaffID marks a system-generated
// entry.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	WalletID    uuid.UUID       `json:"wallet_id"`
	StaffID     *uuid.UUID      `json:"staff_id,omitempty"`
	Type        TransactionType `json:"type"`
	Amount      int64           `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Signed returns the amount with its ledger sign: positive for credits,
// negative for debits.
func (t *Transaction) Signed() int64 {
	if t.Type == TransactionTypeDebit {
		return -t.Amount
	}
	return t.Amount
}
