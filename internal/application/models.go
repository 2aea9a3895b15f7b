package application

import (
	"time"

	"github.com/example/event-desk/internal/persistence"
)

// Principal represents the authenticated identity invoking a service method.
type Principal struct {
	Username string
	Role     persistence.Role
}

// IsAdmin reports whether the principal may manage users and events.
func (p Principal) IsAdmin() bool {
	return p.Role == persistence.RoleAdmin
}

// IsGuest reports whether the principal is the synthesized guest identity.
func (p Principal) IsGuest() bool {
	return p.Role == persistence.RoleGuest
}

// Session represents an authenticated sign-in issued to a user. Sessions are
// process-local login state; they are never written to disk.
type Session struct {
	ID        string
	Username  string
	Role      persistence.Role
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// LoginResult captures the outcome of a successful sign-in.
type LoginResult struct {
	User    persistence.User
	Session Session
}
