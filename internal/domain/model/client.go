package model

// ClientSnapshot is the narrow read of a client record resolved at contract
// creation time. Name is copied onto the contract once and never
// resynchronized.
type ClientSnapshot struct {
	ID     string
	Name   string
	Role   string
	Status string
}

// IsActiveClient reports whether the snapshot belongs to an active account
// holding the client role.
func (s ClientSnapshot) IsActiveClient() bool {
	return s.Role == RoleClient && s.Status == "active"
}
