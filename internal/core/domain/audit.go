package domain

import (
	"time"

	"github.com/google/uuid"
)

// Audit action tags. The column is free text; these are the ones the core emits.
const (
	AuditActionWalletCreated = "Wallet Created"
	AuditActionWalletUpdated = "Wallet Updated"
	AuditActionWalletDeleted = "Wallet Deleted"
	AuditActionTransaction   = "Wallet Transaction"
	AuditActionTransfer      = "Wallet Transfer"
	AuditActionSettlement    = "Service Entry"
)

// AuditLog is an immutable record of one mutating action. It is written in
// the same database transaction as the mutation it describes, so it never
// survives a rollback.
type AuditLog struct {
	ID          uuid.UUID `json:"id"`
	Action      string    `json:"action"`
	PerformedBy uuid.UUID `json:"performed_by"`
	Details     string    `json:"details"`
	CentreID    uuid.UUID `json:"centre_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewAuditLog builds an entry attributed to the acting staff member.
func NewAuditLog(action string, actor Actor, details string) *AuditLog {
	return &AuditLog{
		ID:          uuid.New(),
		Action:      action,
		PerformedBy: actor.StaffID,
		Details:     details,
		CentreID:    actor.CentreID,
		CreatedAt:   time.Now().UTC(),
	}
}
