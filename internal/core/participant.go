package core

// Role classifies a participant's seat in a room. Capacity limits are
// enforced per role.
type Role string

const (
	RoleViewer Role = "viewer"
	RoleUser   Role = "user"
	RoleAgent  Role = "agent"
	RoleBot    Role = "bot"
)

// ParseRole maps a claim string to a Role. Unknown or empty strings
// fall back to viewer.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleUser, RoleAgent, RoleBot:
		return Role(s)
	default:
		return RoleViewer
	}
}

// Participant is an identity attached to a live connection. Identity is
// issued externally and immutable for the connection's lifetime.
type Participant struct {
	ID     string `json:"user_id"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
	Avatar string `json:"photo,omitempty"`
}
