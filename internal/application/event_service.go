package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/example/event-desk/internal/persistence"
)

// UserDirectory exposes the user lookup needed to validate assignees.
type UserDirectory interface {
	Exists(username string) bool
}

// WebEventSource produces and serves the transient scraped-events artifact.
type WebEventSource interface {
	// Refresh performs one fetch-parse-overwrite cycle of the artifact.
	Refresh(ctx context.Context) error
	// Load reads the artifact as last written.
	Load() ([]persistence.WebEvent, error)
}

// EventService owns the event lifecycle and the user-to-event assignment
// relation. It also fronts the unrelated web-scraping side channel.
type EventService struct {
	events    persistence.EventRepository
	users     UserDirectory
	webEvents WebEventSource
	logger    *slog.Logger
}

// NewEventService wires dependencies for the event service. webEvents may be
// nil when the scrape feature is not configured.
func NewEventService(events persistence.EventRepository, users UserDirectory, webEvents WebEventSource) *EventService {
	return NewEventServiceWithLogger(events, users, webEvents, nil)
}

// NewEventServiceWithLogger constructs an EventService with a specified logger.
func NewEventServiceWithLogger(events persistence.EventRepository, users UserDirectory, webEvents WebEventSource, logger *slog.Logger) *EventService {
	return &EventService{
		events:    events,
		users:     users,
		webEvents: webEvents,
		logger:    defaultLogger(logger),
	}
}

func (s *EventService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "EventService", operation, attrs...)
}

// Events returns every stored event in deterministic order: numeric ids
// ascending, then any remaining ids lexically. Records with an empty title
// are presented as "No title".
func (s *EventService) Events(ctx context.Context) []persistence.Event {
	if s == nil || s.events == nil {
		return nil
	}
	return normalizeEvents(s.events.All())
}

// CreateEvent validates the title before delegating id assignment and
// persistence to the store.
func (s *EventService) CreateEvent(ctx context.Context, title, description string) (persistence.Event, error) {
	if s == nil || s.events == nil {
		return persistence.Event{}, fmt.Errorf("event repository not configured")
	}

	logger := s.loggerWith(ctx, "CreateEvent")

	vErr := &ValidationError{}
	if strings.TrimSpace(title) == "" {
		vErr.add("title", "title is required")
	}
	if vErr.HasErrors() {
		logger.InfoContext(ctx, "event creation rejected", "error_kind", ErrorKind(vErr))
		return persistence.Event{}, vErr
	}

	event, err := s.events.Create(title, description)
	if err != nil {
		logger.ErrorContext(ctx, "event creation failed", "error", err)
		return persistence.Event{}, err
	}

	logger.InfoContext(ctx, "event created", "event_id", event.ID)
	return event, nil
}

// UpdateEvent overwrites the stored record by id.
func (s *EventService) UpdateEvent(ctx context.Context, event persistence.Event) (persistence.Event, error) {
	if s == nil || s.events == nil {
		return persistence.Event{}, fmt.Errorf("event repository not configured")
	}

	logger := s.loggerWith(ctx, "UpdateEvent", "event_id", event.ID)
	persisted, err := s.events.Update(event)
	if err != nil {
		logger.ErrorContext(ctx, "event update failed", "error", err)
		return persistence.Event{}, err
	}
	return persisted, nil
}

// DeleteEvent removes the stored record by id, reporting whether it existed.
func (s *EventService) DeleteEvent(ctx context.Context, id string) (bool, error) {
	if s == nil || s.events == nil {
		return false, fmt.Errorf("event repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteEvent", "event_id", id)
	deleted, err := s.events.Delete(id)
	if err != nil {
		logger.ErrorContext(ctx, "event delete failed", "error", err)
		return false, err
	}
	if deleted {
		logger.InfoContext(ctx, "event deleted")
	}
	return deleted, nil
}

// AssignUsers replaces the event's assignee list with the subset of the
// given usernames that exist in the user store. Unknown names are dropped
// silently; no error is surfaced for them. Absent event ids report
// ErrNotFound.
func (s *EventService) AssignUsers(ctx context.Context, id string, usernames []string) (persistence.Event, error) {
	if s == nil || s.events == nil {
		return persistence.Event{}, fmt.Errorf("event repository not configured")
	}

	logger := s.loggerWith(ctx, "AssignUsers", "event_id", id)

	event, ok := s.events.Get(id)
	if !ok {
		logger.InfoContext(ctx, "assignment refused", "error_kind", ErrorKind(ErrNotFound))
		return persistence.Event{}, ErrNotFound
	}

	valid := make([]string, 0, len(usernames))
	for _, username := range usernames {
		if s.users != nil && s.users.Exists(username) {
			valid = append(valid, username)
		}
	}

	event.AssignedUsers = valid
	persisted, err := s.events.Update(event)
	if err != nil {
		logger.ErrorContext(ctx, "assignment failed", "error", err)
		return persistence.Event{}, err
	}

	logger.InfoContext(ctx, "users assigned", "requested", len(usernames), "assigned", len(valid))
	return persisted, nil
}

// UserEvents returns the events whose assignee list contains username, in
// the same deterministic order as Events.
func (s *EventService) UserEvents(ctx context.Context, username string) []persistence.Event {
	if s == nil || s.events == nil {
		return nil
	}
	return normalizeEvents(s.events.UserEvents(username))
}

// RefreshWebEvents performs one scrape cycle and reports success. Every
// failure class, from network errors to file errors, collapses into false;
// there are no retries and no cause distinction for callers.
func (s *EventService) RefreshWebEvents(ctx context.Context) bool {
	if s == nil || s.webEvents == nil {
		return false
	}

	logger := s.loggerWith(ctx, "RefreshWebEvents")
	if err := s.webEvents.Refresh(ctx); err != nil {
		logger.InfoContext(ctx, "web event scrape failed", "error", err)
		return false
	}
	logger.InfoContext(ctx, "web events refreshed")
	return true
}

// WebEvents re-invokes the scrape, then reads the artifact and maps its
// records into display-only events. A stored date is folded into the
// description. Any failure, including the scrape itself, degrades to an
// empty list rather than an error.
func (s *EventService) WebEvents(ctx context.Context) []persistence.Event {
	if s == nil || s.webEvents == nil {
		return []persistence.Event{}
	}

	logger := s.loggerWith(ctx, "WebEvents")

	// The scrape is best effort; a failure still allows serving a
	// previously written artifact.
	if err := s.webEvents.Refresh(ctx); err != nil {
		logger.InfoContext(ctx, "web event scrape failed", "error", err)
	}

	records, err := s.webEvents.Load()
	if err != nil {
		logger.InfoContext(ctx, "web event artifact unreadable", "error", err)
		return []persistence.Event{}
	}

	events := make([]persistence.Event, 0, len(records))
	for _, rec := range records {
		title := rec.Title
		if title == "" {
			title = "No title"
		}
		description := rec.Description
		if rec.Date != "" {
			description = "Date: " + rec.Date + "\n" + description
		}
		events = append(events, persistence.Event{
			ID:            rec.ID,
			Title:         title,
			Description:   description,
			AssignedUsers: []string{},
		})
	}
	return events
}

// normalizeEvents flattens the store mapping into a sorted slice with
// presentation defaults applied.
func normalizeEvents(mapping map[string]persistence.Event) []persistence.Event {
	events := make([]persistence.Event, 0, len(mapping))
	for _, event := range mapping {
		if event.Title == "" {
			event.Title = "No title"
		}
		if event.AssignedUsers == nil {
			event.AssignedUsers = []string{}
		}
		events = append(events, event)
	}

	sort.Slice(events, func(i, j int) bool {
		return lessEventID(events[i].ID, events[j].ID)
	})
	return events
}

// lessEventID orders numeric ids ascending ahead of everything else.
func lessEventID(a, b string) bool {
	an, aErr := strconv.Atoi(a)
	bn, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		return an < bn
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	default:
		return a < b
	}
}
