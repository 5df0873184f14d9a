package domain

import "github.com/google/uuid"

// Role is the back-office role of a staff member.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleManager || r == RoleStaff
}

// Actor identifies the authenticated caller of a ledger operation.
// Handlers resolve it at the boundary; the core never reads ambient state.
type Actor struct {
	StaffID  uuid.UUID `json:"staff_id"`
	Role     Role      `json:"role"`
	CentreID uuid.UUID `json:"centre_id"`
}
