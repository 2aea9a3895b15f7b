package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/example/event-desk/internal/application"
	"github.com/example/event-desk/internal/cli"
	"github.com/example/event-desk/internal/config"
	"github.com/example/event-desk/internal/persistence/jsonfile"
	"github.com/example/event-desk/internal/persistence/memory"
	"github.com/example/event-desk/internal/scraper"
)

func main() {
	if err := run(); err != nil {
		slog.Error("event desk exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer logFile.Close()

	// The terminal belongs to the CLI; structured logs go to a file.
	logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	userStore := jsonfile.NewUserStore(cfg.UsersFile)
	if err := userStore.Load(); err != nil {
		return err
	}
	eventStore := jsonfile.NewEventStore(cfg.EventsFile)
	if err := eventStore.Load(); err != nil {
		return err
	}

	webEvents := scraper.New(cfg.ScrapeURL, cfg.WebEventsFile, &http.Client{Timeout: cfg.HTTPTimeout}, logger)

	userService := application.NewUserServiceWithLogger(userStore, logger)
	eventService := application.NewEventServiceWithLogger(eventStore, userStore, webEvents, logger)
	authService := application.NewAuthServiceWithLogger(userService, memory.NewSessionStore(), uuid.NewString, nil, cfg.SessionTTL, logger)

	if err := userService.EnsureDefaultAdmin(ctx); err != nil {
		return err
	}

	front, err := cli.New(authService, userService, eventService, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := front.Close(); cerr != nil {
			logger.Error("failed to close terminal", "error", cerr)
		}
	}()

	logger.Info("event desk started",
		"users_file", cfg.UsersFile,
		"events_file", cfg.EventsFile,
		"web_events_file", cfg.WebEventsFile,
	)
	return front.Run(ctx)
}
