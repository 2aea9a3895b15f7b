package jsonfile

import "github.com/example/event-desk/internal/persistence"

// webEventsDocument is the shape of the scrape artifact file.
type webEventsDocument struct {
	Events []persistence.WebEvent `json:"events"`
}

// WriteWebEvents fully replaces the scrape artifact at path with the given
// records. The artifact is disjoint from the authoritative events file and
// is regenerated on every scrape, never merged.
func WriteWebEvents(path string, events []persistence.WebEvent) error {
	if events == nil {
		events = []persistence.WebEvent{}
	}
	return writeJSON(path, webEventsDocument{Events: events})
}

// ReadWebEvents loads the scrape artifact at path. Errors, including a
// missing file, propagate; the service layer decides how to degrade.
func ReadWebEvents(path string) ([]persistence.WebEvent, error) {
	var doc webEventsDocument
	if err := readJSON(path, &doc); err != nil {
		return nil, err
	}
	return doc.Events, nil
}
