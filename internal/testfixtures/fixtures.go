// Package testfixtures supplies deterministic clocks, token generators, and
// sample records shared by the persistence and application test suites.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/event-desk/internal/persistence"
)

var (
	userCounter  uint64
	eventCounter uint64
)

var referenceTime = time.Date(2025, time.June, 10, 9, 30, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// UserOption configures a generated user fixture.
type UserOption func(*persistence.User)

// NewUser returns a deterministic user record with optional overrides.
func NewUser(opts ...UserOption) persistence.User {
	idx := atomic.AddUint64(&userCounter, 1)
	user := persistence.User{
		Username:       fmt.Sprintf("user%03d", idx),
		Password:       fmt.Sprintf("secret%03d", idx),
		Role:           persistence.RoleUser,
		AssignedEvents: []string{},
	}
	for _, opt := range opts {
		opt(&user)
	}
	return user
}

// WithUsername overrides the generated username.
func WithUsername(username string) UserOption {
	return func(u *persistence.User) {
		u.Username = username
	}
}

// WithPassword overrides the generated password.
func WithPassword(password string) UserOption {
	return func(u *persistence.User) {
		u.Password = password
	}
}

// WithRole overrides the generated role.
func WithRole(role persistence.Role) UserOption {
	return func(u *persistence.User) {
		u.Role = role
	}
}

// WithAssignedEvents overrides the generated assignment list.
func WithAssignedEvents(ids ...string) UserOption {
	return func(u *persistence.User) {
		u.AssignedEvents = ids
	}
}

// EventOption configures a generated event fixture.
type EventOption func(*persistence.Event)

// NewEvent returns a deterministic event record with optional overrides.
func NewEvent(opts ...EventOption) persistence.Event {
	idx := atomic.AddUint64(&eventCounter, 1)
	event := persistence.Event{
		ID:            fmt.Sprintf("%d", idx),
		Title:         fmt.Sprintf("Event %03d", idx),
		Description:   fmt.Sprintf("Description %03d", idx),
		AssignedUsers: []string{},
	}
	for _, opt := range opts {
		opt(&event)
	}
	return event
}

// WithTitle overrides the generated title.
func WithTitle(title string) EventOption {
	return func(e *persistence.Event) {
		e.Title = title
	}
}

// WithEventID overrides the generated event id.
func WithEventID(id string) EventOption {
	return func(e *persistence.Event) {
		e.ID = id
	}
}

// WithAssignedUsers overrides the generated assignee list.
func WithAssignedUsers(usernames ...string) EventOption {
	return func(e *persistence.Event) {
		e.AssignedUsers = usernames
	}
}
