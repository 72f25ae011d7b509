package models

// Role identifies who is acting on a booking.
type Role string

const (
	RoleClient   Role = "client"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleProvider, RoleAdmin:
		return true
	}
	return false
}

// Actor is the authenticated caller supplied by the auth layer.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// CanManageProvider reports whether the actor may edit data owned by providerID.
func (a Actor) CanManageProvider(providerID string) bool {
	return a.IsAdmin() || (a.Role == RoleProvider && a.ID == providerID)
}
