package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the event desk.
type Config struct {
	UsersFile     string
	EventsFile    string
	WebEventsFile string
	LogFile       string
	ScrapeURL     string
	HTTPTimeout   time.Duration
	SessionTTL    time.Duration
}

// Load parses configuration values from the current process environment.
//
// Every field has a default suited to running the application from its own
// directory; invalid overrides are collected and reported together.
func Load() (Config, error) {
	cfg := Config{
		UsersFile:     "users.json",
		EventsFile:    "events.json",
		WebEventsFile: "web_events.json",
		LogFile:       "eventdesk.log",
		ScrapeURL:     "https://sansukien.com/",
		HTTPTimeout:   15 * time.Second,
		SessionTTL:    12 * time.Hour,
	}

	invalid := make([]string, 0, 2)

	if path := strings.TrimSpace(os.Getenv("EVENTDESK_USERS_FILE")); path != "" {
		cfg.UsersFile = path
	}
	if path := strings.TrimSpace(os.Getenv("EVENTDESK_EVENTS_FILE")); path != "" {
		cfg.EventsFile = path
	}
	if path := strings.TrimSpace(os.Getenv("EVENTDESK_WEB_EVENTS_FILE")); path != "" {
		cfg.WebEventsFile = path
	}
	if path := strings.TrimSpace(os.Getenv("EVENTDESK_LOG_FILE")); path != "" {
		cfg.LogFile = path
	}
	if url := strings.TrimSpace(os.Getenv("EVENTDESK_SCRAPE_URL")); url != "" {
		cfg.ScrapeURL = url
	}

	if value := strings.TrimSpace(os.Getenv("EVENTDESK_HTTP_TIMEOUT")); value != "" {
		timeout, err := time.ParseDuration(value)
		if err != nil || timeout <= 0 {
			invalid = append(invalid, "EVENTDESK_HTTP_TIMEOUT")
		} else {
			cfg.HTTPTimeout = timeout
		}
	}

	if value := strings.TrimSpace(os.Getenv("EVENTDESK_SESSION_TTL")); value != "" {
		ttl, err := time.ParseDuration(value)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "EVENTDESK_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
