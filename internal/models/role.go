package models

// Role is the closed set of user roles. Visibility rules switch over these
// constants exhaustively; adding a role means touching every switch.
type Role string

const (
	// RoleAdmin sees everything.
	RoleAdmin Role = "admin"
	// RoleCollector covers collector/payee duty on assigned loans.
	RoleCollector Role = "collector"
	// RoleRisk is the risk controller assigned to a loan.
	RoleRisk Role = "risk"
	// RoleLender is the capital source assigned to a loan.
	RoleLender Role = "lender"
	// RoleClerk is the fallback for every other role label; clerks only see
	// records they created themselves.
	RoleClerk Role = "clerk"
)

// ParseRole maps a stored role label to the closed Role set. Unknown labels
// fall back to RoleClerk, the most restrictive visibility.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin, RoleCollector, RoleRisk, RoleLender, RoleClerk:
		return Role(s)
	default:
		return RoleClerk
	}
}
