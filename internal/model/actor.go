package model

// Role is the authenticated caller's role as carried in the JWT.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Actor is the authenticated identity every mutating operation receives.
type Actor struct {
	UserID uint `json:"user_id"`
	Role   Role `json:"role"`
}

// IsAdmin reports whether the actor holds administrative rights.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
