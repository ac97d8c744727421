package model

// Actor identifies who is performing an operation. It is supplied by the
// authorization boundary on every core call; the core trusts it but never
// issues or validates credentials itself.
type Actor struct {
	ID   string
	Name string
	Role string
}

// Role values recognised by the core. Makers create drafts and tickets,
// checkers resolve tickets, clients hold contracts.
const (
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
	RoleApprover = "approver"
	RoleClient   = "client"
	RoleSystem   = "system"
)

// SystemActor is the explicit ambient actor for background jobs. It is passed
// as an ordinary parameter into audit and notification calls, never installed
// as a global default.
func SystemActor() Actor {
	return Actor{ID: "system", Name: "System", Role: RoleSystem}
}

// IsClient reports whether the actor holds the client role.
func (a Actor) IsClient() bool { return a.Role == RoleClient }

// IsSystem reports whether the actor is the background-job identity.
func (a Actor) IsSystem() bool { return a.Role == RoleSystem }
