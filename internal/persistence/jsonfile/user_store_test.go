package jsonfile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/event-desk/internal/persistence"
	"github.com/example/event-desk/internal/testfixtures"
)

func newTestUserStore(t *testing.T) (*UserStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	store := NewUserStore(path)
	if err := store.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return store, path
}

func TestUserStore_Load(t *testing.T) {
	t.Parallel()

	t.Run("missing file bootstraps an empty persisted store", func(t *testing.T) {
		t.Parallel()

		store, path := newTestUserStore(t)
		if len(store.All()) != 0 {
			t.Fatalf("expected empty store, got %d users", len(store.All()))
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("expected file to be created: %v", err)
		}
		var doc map[string]json.RawMessage
		if err := json.Unmarshal(data, &doc); err != nil {
			t.Fatalf("bootstrap file is not valid JSON: %v", err)
		}
		if len(doc) != 0 {
			t.Fatalf("expected empty document, got %v", doc)
		}
	})

	t.Run("corrupt file propagates the parse failure", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "users.json")
		if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
			t.Fatalf("seed file: %v", err)
		}

		if err := NewUserStore(path).Load(); err == nil {
			t.Fatal("expected load error for corrupt file")
		}
	})

	t.Run("reads the username keyed document", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "users.json")
		doc := `{"alice": {"password": "pw", "role": "admin", "assigned_events": ["1", "3"]}}`
		if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
			t.Fatalf("seed file: %v", err)
		}

		store := NewUserStore(path)
		if err := store.Load(); err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		alice, ok := store.Get("alice")
		if !ok {
			t.Fatal("expected alice to be loaded")
		}
		if alice.Username != "alice" || alice.Password != "pw" || alice.Role != persistence.RoleAdmin {
			t.Fatalf("unexpected record: %#v", alice)
		}
		if len(alice.AssignedEvents) != 2 {
			t.Fatalf("expected 2 assigned events, got %v", alice.AssignedEvents)
		}
	})
}

func TestUserStore_Mutations(t *testing.T) {
	t.Parallel()

	t.Run("create persists and reload round-trips", func(t *testing.T) {
		t.Parallel()

		store, path := newTestUserStore(t)
		if _, err := store.Create("bob", "hunter2", persistence.RoleUser); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		reloaded := NewUserStore(path)
		if err := reloaded.Load(); err != nil {
			t.Fatalf("reload failed: %v", err)
		}
		bob, ok := reloaded.Get("bob")
		if !ok {
			t.Fatal("expected bob after reload")
		}
		if bob.Password != "hunter2" || bob.Role != persistence.RoleUser {
			t.Fatalf("unexpected record: %#v", bob)
		}
		if bob.AssignedEvents == nil || len(bob.AssignedEvents) != 0 {
			t.Fatalf("expected empty assignment list, got %#v", bob.AssignedEvents)
		}
	})

	t.Run("create overwrites silently, uniqueness is the service's job", func(t *testing.T) {
		t.Parallel()

		store, _ := newTestUserStore(t)
		if _, err := store.Create("carol", "first", persistence.RoleUser); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if _, err := store.Create("carol", "second", persistence.RoleAdmin); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		carol, _ := store.Get("carol")
		if carol.Password != "second" || carol.Role != persistence.RoleAdmin {
			t.Fatalf("expected unconditional insert semantics, got %#v", carol)
		}
	})

	t.Run("update overwrites by username", func(t *testing.T) {
		t.Parallel()

		store, _ := newTestUserStore(t)
		if _, err := store.Create("dave", "pw", persistence.RoleUser); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		updated := testfixtures.NewUser(
			testfixtures.WithUsername("dave"),
			testfixtures.WithPassword("new"),
			testfixtures.WithRole(persistence.RoleAdmin),
			testfixtures.WithAssignedEvents("2"),
		)
		if _, err := store.Update(updated); err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		dave, _ := store.Get("dave")
		if dave.Password != "new" || dave.Role != persistence.RoleAdmin || len(dave.AssignedEvents) != 1 {
			t.Fatalf("unexpected record after update: %#v", dave)
		}
	})

	t.Run("delete reports existence", func(t *testing.T) {
		t.Parallel()

		store, _ := newTestUserStore(t)
		if _, err := store.Create("erin", "pw", persistence.RoleUser); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		deleted, err := store.Delete("erin")
		if err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if !deleted {
			t.Fatal("expected delete to report true for existing user")
		}
		if store.Exists("erin") {
			t.Fatal("expected erin to be gone")
		}

		deleted, err = store.Delete("erin")
		if err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if deleted {
			t.Fatal("expected delete to report false for missing user")
		}
	})
}
