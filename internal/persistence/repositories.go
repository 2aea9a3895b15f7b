package persistence

// UserRepository exposes the operations a user store must provide.
//
// All reads are served from the in-memory mapping loaded from disk; every
// mutating call rewrites the backing file wholesale before returning.
type UserRepository interface {
	// Get returns the user registered under username.
	Get(username string) (User, bool)
	// All returns the live username keyed mapping. Callers must not mutate
	// entries without persisting them through Update.
	All() map[string]User
	// Create inserts a user unconditionally; uniqueness is enforced by the
	// service layer, not here.
	Create(username, password string, role Role) (User, error)
	// Update overwrites the record stored under user.Username.
	Update(user User) (User, error)
	// Delete removes the record and reports whether it existed.
	Delete(username string) (bool, error)
	// Exists reports whether a record is stored under username.
	Exists(username string) bool
}

// EventRepository exposes the operations an event store must provide.
type EventRepository interface {
	// Create assigns the next identifier and inserts a new event with an
	// empty assignee list.
	Create(title, description string) (Event, error)
	// Get returns the event stored under id.
	Get(id string) (Event, bool)
	// All returns the live id keyed mapping.
	All() map[string]Event
	// Update overwrites the record stored under event.ID, inserting it when
	// absent.
	Update(event Event) (Event, error)
	// Delete removes the record and reports whether it existed.
	Delete(id string) (bool, error)
	// AssignUsers replaces the assignee list wholesale. It performs no
	// validation of the usernames; that is the service's job.
	AssignUsers(id string, usernames []string) (bool, error)
	// UserEvents returns the events whose assignee list contains username.
	UserEvents(username string) map[string]Event
}
