package testfixtures

import (
	"reflect"
	"testing"

	"github.com/example/event-desk/internal/persistence"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("defaults produce distinct valid records", func(t *testing.T) {
		t.Parallel()

		first := NewUser()
		second := NewUser()
		if first.Username == second.Username {
			t.Fatalf("expected distinct usernames, got %q twice", first.Username)
		}
		if first.Role != persistence.RoleUser {
			t.Fatalf("expected the user role default, got %q", first.Role)
		}
		if first.AssignedEvents == nil || len(first.AssignedEvents) != 0 {
			t.Fatalf("expected an empty assignment list, got %#v", first.AssignedEvents)
		}
	})

	t.Run("options override every field", func(t *testing.T) {
		t.Parallel()

		user := NewUser(
			WithUsername("alice"),
			WithPassword("pw"),
			WithRole(persistence.RoleAdmin),
			WithAssignedEvents("1", "5"),
		)
		if user.Username != "alice" || user.Password != "pw" || user.Role != persistence.RoleAdmin {
			t.Fatalf("unexpected record: %#v", user)
		}
		if !reflect.DeepEqual(user.AssignedEvents, []string{"1", "5"}) {
			t.Fatalf("unexpected assignments: %#v", user.AssignedEvents)
		}
	})
}

func TestNewEvent(t *testing.T) {
	t.Parallel()

	t.Run("defaults produce distinct valid records", func(t *testing.T) {
		t.Parallel()

		first := NewEvent()
		second := NewEvent()
		if first.ID == second.ID {
			t.Fatalf("expected distinct ids, got %q twice", first.ID)
		}
		if first.Title == "" {
			t.Fatal("expected a non-empty generated title")
		}
		if first.AssignedUsers == nil || len(first.AssignedUsers) != 0 {
			t.Fatalf("expected an empty assignee list, got %#v", first.AssignedUsers)
		}
	})

	t.Run("options override every field", func(t *testing.T) {
		t.Parallel()

		event := NewEvent(
			WithEventID("web_9"),
			WithTitle(""),
			WithAssignedUsers("alice", "bob"),
		)
		if event.ID != "web_9" || event.Title != "" {
			t.Fatalf("unexpected record: %#v", event)
		}
		if !reflect.DeepEqual(event.AssignedUsers, []string{"alice", "bob"}) {
			t.Fatalf("unexpected assignees: %#v", event.AssignedUsers)
		}
	})
}
