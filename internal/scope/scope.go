// Package scope derives data-visibility filters from a caller's role.
// The functions here are pure: they never touch the store, and every
// request builds a fresh filter value, so nothing is shared between
// concurrent handlers.
package scope

import "github.com/ndavydov/loan-service/internal/models"

// Caller is the resolved identity attached to a request.
type Caller struct {
	ID       int64
	Username string
	Role     models.Role
}

// LoanFilter narrows loan queries. The zero value matches everything.
// The repository translates set fields into WHERE clauses, so scoping is
// always applied inside the store query, never after fetch.
type LoanFilter struct {
	// CollectorOrPayee matches loans whose collector OR payee equals the
	// value. Used for the collector/payee duty role.
	CollectorOrPayee string
	// Collector and Payee are exact single-field matches used by stats.
	Collector      string
	Payee          string
	RiskController string
	Lender         string
	CreatedBy      int64 // 0 = unset
	LoanID         int64 // 0 = unset
	Status         string
}

// ForLoans derives the caller's effective loan visibility from base.
// The base filter is copied, never mutated.
func ForLoans(caller Caller, base LoanFilter) LoanFilter {
	f := base
	switch caller.Role {
	case models.RoleAdmin:
		// unrestricted
	case models.RoleCollector:
		f.CollectorOrPayee = caller.Username
	case models.RoleRisk:
		f.RiskController = caller.Username
	case models.RoleLender:
		f.Lender = caller.Username
	case models.RoleClerk:
		f.CreatedBy = caller.ID
	default:
		// Unknown labels never widen visibility.
		f.CreatedBy = caller.ID
	}
	return f
}

// PayeeFilter narrows payee registry queries. Zero value matches everything.
type PayeeFilter struct {
	Name      string
	CreatedBy int64 // 0 = unset
}

// ForPayees derives payee registry visibility: administrators are
// unrestricted, the collector/payee role sees only its own named record,
// everyone else sees what they created.
func ForPayees(caller Caller, base PayeeFilter) PayeeFilter {
	f := base
	switch caller.Role {
	case models.RoleAdmin:
		// unrestricted
	case models.RoleCollector:
		f.Name = caller.Username
	default:
		f.CreatedBy = caller.ID
	}
	return f
}
