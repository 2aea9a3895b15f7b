package jsonfile

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/example/event-desk/internal/persistence"
)

func TestWebEventsArtifact(t *testing.T) {
	t.Parallel()

	t.Run("write fully replaces previous content", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "web_events.json")
		first := []persistence.WebEvent{
			{ID: "web_1", Title: "Old", Description: "stale", Date: "2025-01-01"},
			{ID: "web_2", Title: "Older"},
		}
		if err := WriteWebEvents(path, first); err != nil {
			t.Fatalf("WriteWebEvents failed: %v", err)
		}

		second := []persistence.WebEvent{{ID: "web_1", Title: "Fresh"}}
		if err := WriteWebEvents(path, second); err != nil {
			t.Fatalf("WriteWebEvents failed: %v", err)
		}

		got, err := ReadWebEvents(path)
		if err != nil {
			t.Fatalf("ReadWebEvents failed: %v", err)
		}
		if !reflect.DeepEqual(got, second) {
			t.Fatalf("expected full replacement, got %#v", got)
		}
	})

	t.Run("missing artifact propagates the error", func(t *testing.T) {
		t.Parallel()

		if _, err := ReadWebEvents(filepath.Join(t.TempDir(), "web_events.json")); err == nil {
			t.Fatal("expected error for missing artifact")
		}
	})
}
