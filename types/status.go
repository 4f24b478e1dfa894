package types

// ApprovalStatus represents the review state of a user membership or a
// submitted project. New rows always start as pending; transitions are
// admin-driven and unrestricted in direction (there are no terminal states).
type ApprovalStatus string

// Supported approval states.
const (
	// StatusPending indicates the row is awaiting admin review.
	StatusPending ApprovalStatus = "pending"

	// StatusApproved indicates the row passed review.
	StatusApproved ApprovalStatus = "approved"

	// StatusRejected indicates the row was rejected. Rejected rows are
	// kept, never deleted, and may later be approved again.
	StatusRejected ApprovalStatus = "rejected"
)

// Valid reports whether s is one of the supported approval states.
func (s ApprovalStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// AdminRole represents the authorization level of a back-office account.
type AdminRole string

// Supported admin roles.
const (
	// RoleNormal grants access to the shared admin console sections
	// (users, projects, events, achievements).
	RoleNormal AdminRole = "normal"

	// RoleSuperadmin additionally grants admin-account management.
	RoleSuperadmin AdminRole = "superadmin"
)

// Valid reports whether r is one of the supported admin roles.
func (r AdminRole) Valid() bool {
	return r == RoleNormal || r == RoleSuperadmin
}
