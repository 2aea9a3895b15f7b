package persistence

// Role identifies the permission tier attached to a user account.
type Role string

const (
	// RoleAdmin grants full user and event management rights.
	RoleAdmin Role = "admin"
	// RoleUser grants read access to events and the personal assignment view.
	RoleUser Role = "user"
	// RoleGuest grants read-only access without a stored account.
	RoleGuest Role = "guest"
)

// Valid reports whether the role is one of the recognised tiers.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleGuest:
		return true
	}
	return false
}

// User represents an account keyed by its immutable username.
//
// The password is stored and compared in plain text to stay faithful to the
// persisted file format; this is a documented caveat of the system.
type User struct {
	Username       string
	Password       string
	Role           Role
	AssignedEvents []string
}

// Event represents an entry in the authoritative event store.
type Event struct {
	ID            string
	Title         string
	Description   string
	AssignedUsers []string
}

// WebEvent represents a scraped pseudo-event held in the transient artifact
// file. It never enters the authoritative event store and carries no
// assignment semantics.
type WebEvent struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date,omitempty"`
}
