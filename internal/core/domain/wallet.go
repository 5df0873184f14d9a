package domain

import (
	"time"

	"github.com/google/uuid"
)

// WalletType is the kind of account a wallet represents.
type WalletType string

const (
	WalletTypeCash    WalletType = "cash"
	WalletTypeBank    WalletType = "bank"
	WalletTypeCard    WalletType = "card"
	WalletTypeDigital WalletType = "digital"
	WalletTypeSavings WalletType = "savings"
)

// ValidWalletType reports whether t is one of the known wallet types.
func ValidWalletType(t WalletType) bool {
	switch t {
	case WalletTypeCash, WalletTypeBank, WalletTypeCard, WalletTypeDigital, WalletTypeSavings:
		return true
	}
	return false
}

// WalletStatus tells whether a wallet may participate in digital movements.
type WalletStatus string

const (
	WalletStatusOnline  WalletStatus = "online"
	WalletStatusOffline WalletStatus = "offline"
)

// WalletPermission is a capability tag granted on a wallet.
type WalletPermission string

const (
	PermissionView     WalletPermission = "view"
	PermissionEdit     WalletPermission = "edit"
	PermissionTransfer WalletPermission = "transfer"
	PermissionRecharge WalletPermission = "recharge"
)

// Wallet is a centre-owned financial account. Balance is in minor units
// (paise) and is only ever written together with a ledger entry.
type Wallet struct {
	ID              uuid.UUID          `json:"id"`
	Name            string             `json:"name"`
	Type            WalletType         `json:"wallet_type"`
	Balance         int64              `json:"balance"`
	IsShared        bool               `json:"is_shared"`
	AssignedStaffID *uuid.UUID         `json:"assigned_staff_id,omitempty"`
	Status          WalletStatus       `json:"status"`
	CentreID        uuid.UUID          `json:"centre_id"`
	Permissions     []WalletPermission `json:"permissions"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// AccessibleBy reports whether the staff member may operate on this wallet:
// shared wallets are open to the whole centre, private ones only to the
// assigned owner.
func (w *Wallet) AccessibleBy(staffID uuid.UUID) bool {
	if w.IsShared {
		return true
	}
	return w.AssignedStaffID != nil && *w.AssignedStaffID == staffID
}

// IsOnline reports whether the wallet accepts digital movements.
func (w *Wallet) IsOnline() bool {
	return w.Status == WalletStatusOnline
}

// HasPermission reports whether the capability tag is present.
func (w *Wallet) HasPermission(p WalletPermission) bool {
	for _, have := range w.Permissions {
		if have == p {
			return true
		}
	}
	return false
}
