package user

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // Approves coverage, persists missed transitions
	RoleEmployee Role = "employee" // Clocks in/out, requests coverage
	RoleSystem   Role = "system"   // Background jobs
)

// Actor is the authenticated caller of an attendance operation.
type Actor struct {
	UserID     string
	EmployeeID string
	CompanyID  string
	Role       Role
}

// SystemActor is used by scheduled jobs that act across companies.
func SystemActor() Actor {
	return Actor{UserID: "system", Role: RoleSystem}
}

// IsManager checks if actor is manager or owner
func (a Actor) IsManager() bool {
	return a.Role == RoleManager || a.Role == RoleOwner
}

// Can reports whether the actor's role grants permission.
func (a Actor) Can(permission Permission) bool {
	return HasPermission(a.Role, permission)
}
