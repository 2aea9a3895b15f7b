package jsonfile

import (
	"errors"
	"os"

	"github.com/example/event-desk/internal/persistence"
)

// userRecord is the on-disk value stored under each username key.
type userRecord struct {
	Password       string           `json:"password"`
	Role           persistence.Role `json:"role"`
	AssignedEvents []string         `json:"assigned_events"`
}

// UserStore keeps the username keyed user mapping in memory and mirrors it
// into a single JSON document on every mutation. The store assumes
// single-instance, single-caller access; it carries no locking.
type UserStore struct {
	path  string
	users map[string]persistence.User
}

// NewUserStore returns a store backed by the document at path. Load must be
// called before any other method.
func NewUserStore(path string) *UserStore {
	return &UserStore{path: path, users: make(map[string]persistence.User)}
}

// Load reads the backing file. A missing file bootstraps an empty store and
// immediately persists it so the document exists from first run onward.
// Any other read or decode failure propagates to the caller.
func (s *UserStore) Load() error {
	var records map[string]userRecord
	err := readJSON(s.path, &records)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.users = make(map[string]persistence.User)
			return s.save()
		}
		return err
	}

	s.users = make(map[string]persistence.User, len(records))
	for username, rec := range records {
		role := rec.Role
		if role == "" {
			role = persistence.RoleUser
		}
		s.users[username] = persistence.User{
			Username:       username,
			Password:       rec.Password,
			Role:           role,
			AssignedEvents: rec.AssignedEvents,
		}
	}
	return nil
}

func (s *UserStore) save() error {
	records := make(map[string]userRecord, len(s.users))
	for username, user := range s.users {
		assigned := user.AssignedEvents
		if assigned == nil {
			assigned = []string{}
		}
		records[username] = userRecord{
			Password:       user.Password,
			Role:           user.Role,
			AssignedEvents: assigned,
		}
	}
	return writeJSON(s.path, records)
}

// Get returns the user registered under username.
func (s *UserStore) Get(username string) (persistence.User, bool) {
	user, ok := s.users[username]
	return user, ok
}

// All returns the live mapping. Callers must not mutate entries without
// persisting them through Update.
func (s *UserStore) All() map[string]persistence.User {
	return s.users
}

// Create inserts a user unconditionally and persists the store. Uniqueness
// is the service layer's responsibility.
func (s *UserStore) Create(username, password string, role persistence.Role) (persistence.User, error) {
	user := persistence.User{
		Username:       username,
		Password:       password,
		Role:           role,
		AssignedEvents: []string{},
	}
	s.users[username] = user
	if err := s.save(); err != nil {
		return persistence.User{}, err
	}
	return user, nil
}

// Update overwrites the record stored under user.Username and persists.
func (s *UserStore) Update(user persistence.User) (persistence.User, error) {
	s.users[user.Username] = user
	if err := s.save(); err != nil {
		return persistence.User{}, err
	}
	return user, nil
}

// Delete removes the record and reports whether it existed. A miss is not
// an error and does not touch the file.
func (s *UserStore) Delete(username string) (bool, error) {
	if _, ok := s.users[username]; !ok {
		return false, nil
	}
	delete(s.users, username)
	if err := s.save(); err != nil {
		return false, err
	}
	return true, nil
}

// Exists reports whether a record is stored under username.
func (s *UserStore) Exists(username string) bool {
	_, ok := s.users[username]
	return ok
}
