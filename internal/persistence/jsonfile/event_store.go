package jsonfile

import (
	"encoding/json"
	"errors"
	"os"
	"strconv"

	"github.com/example/event-desk/internal/persistence"
)

// eventRecord is the on-disk shape of a single event.
type eventRecord struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	AssignedUsers []string `json:"assigned_users"`
}

// eventsDocument is the current wrapped list shape of the events file.
type eventsDocument struct {
	Events []eventRecord `json:"events"`
}

// EventStore keeps the id keyed event mapping in memory and mirrors it into
// a single JSON document on every mutation.
type EventStore struct {
	path   string
	events map[string]persistence.Event
}

// NewEventStore returns a store backed by the document at path. Load must be
// called before any other method.
func NewEventStore(path string) *EventStore {
	return &EventStore{path: path, events: make(map[string]persistence.Event)}
}

// Load reads the backing file, accepting both the wrapped list shape and the
// legacy flat id-to-record mapping. Both normalise to the same in-memory
// mapping. A missing file bootstraps an empty store and persists it.
func (s *EventStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.events = make(map[string]persistence.Event)
			return s.save()
		}
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.events = make(map[string]persistence.Event)
	if wrapped, ok := raw["events"]; ok {
		var records []eventRecord
		if err := json.Unmarshal(wrapped, &records); err != nil {
			return err
		}
		for _, rec := range records {
			s.events[rec.ID] = recordToEvent(rec.ID, rec)
		}
		return nil
	}

	// Legacy shape: a flat mapping of id to record, no wrapper object.
	for id, msg := range raw {
		var rec eventRecord
		if err := json.Unmarshal(msg, &rec); err != nil {
			return err
		}
		s.events[id] = recordToEvent(id, rec)
	}
	return nil
}

func recordToEvent(id string, rec eventRecord) persistence.Event {
	assigned := rec.AssignedUsers
	if assigned == nil {
		assigned = []string{}
	}
	return persistence.Event{
		ID:            id,
		Title:         rec.Title,
		Description:   rec.Description,
		AssignedUsers: assigned,
	}
}

// save always writes the wrapped list shape; the legacy mapping is accepted
// on read only.
func (s *EventStore) save() error {
	doc := eventsDocument{Events: make([]eventRecord, 0, len(s.events))}
	for _, event := range s.events {
		assigned := event.AssignedUsers
		if assigned == nil {
			assigned = []string{}
		}
		doc.Events = append(doc.Events, eventRecord{
			ID:            event.ID,
			Title:         event.Title,
			Description:   event.Description,
			AssignedUsers: assigned,
		})
	}
	return writeJSON(s.path, doc)
}

// nextID computes the identifier for a new event: one past the largest
// numeric id currently stored, or "1" when none exist. Non-numeric ids are
// ignored so scraped "web_N" identifiers can never influence the sequence.
func (s *EventStore) nextID() string {
	max := 0
	found := false
	for id := range s.events {
		n, err := strconv.Atoi(id)
		if err != nil || n < 0 {
			continue
		}
		if !found || n > max {
			max = n
			found = true
		}
	}
	if !found {
		return "1"
	}
	return strconv.Itoa(max + 1)
}

// Create assigns the next identifier, inserts the event with an empty
// assignee list, and persists the store.
func (s *EventStore) Create(title, description string) (persistence.Event, error) {
	event := persistence.Event{
		ID:            s.nextID(),
		Title:         title,
		Description:   description,
		AssignedUsers: []string{},
	}
	s.events[event.ID] = event
	if err := s.save(); err != nil {
		return persistence.Event{}, err
	}
	return event, nil
}

// Get returns the event stored under id.
func (s *EventStore) Get(id string) (persistence.Event, bool) {
	event, ok := s.events[id]
	return event, ok
}

// All returns the live mapping. Callers must not mutate entries without
// persisting them through Update.
func (s *EventStore) All() map[string]persistence.Event {
	return s.events
}

// Update overwrites the record stored under event.ID and persists. Absent
// ids are inserted; the operation acts as an upsert.
func (s *EventStore) Update(event persistence.Event) (persistence.Event, error) {
	s.events[event.ID] = event
	if err := s.save(); err != nil {
		return persistence.Event{}, err
	}
	return event, nil
}

// Delete removes the record and reports whether it existed.
func (s *EventStore) Delete(id string) (bool, error) {
	if _, ok := s.events[id]; !ok {
		return false, nil
	}
	delete(s.events, id)
	if err := s.save(); err != nil {
		return false, err
	}
	return true, nil
}

// AssignUsers replaces the event's assignee list wholesale and persists.
// The usernames are stored as given; validating them is the service's job.
func (s *EventStore) AssignUsers(id string, usernames []string) (bool, error) {
	event, ok := s.events[id]
	if !ok {
		return false, nil
	}
	if usernames == nil {
		usernames = []string{}
	}
	event.AssignedUsers = usernames
	if _, err := s.Update(event); err != nil {
		return false, err
	}
	return true, nil
}

// UserEvents returns the events whose assignee list contains username.
func (s *EventStore) UserEvents(username string) map[string]persistence.Event {
	matches := make(map[string]persistence.Event)
	for id, event := range s.events {
		for _, assignee := range event.AssignedUsers {
			if assignee == username {
				matches[id] = event
				break
			}
		}
	}
	return matches
}
