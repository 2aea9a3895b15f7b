// Package cli renders the terminal front-end: the login screen and the role
// gated menus. It only formats service results and forwards user actions;
// no business rule lives here.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/chzyer/readline"

	"github.com/example/event-desk/internal/application"
	"github.com/example/event-desk/internal/persistence"
)

// CLI drives the interactive session.
type CLI struct {
	rl     *readline.Instance
	out    io.Writer
	auth   *application.AuthService
	users  *application.UserService
	events *application.EventService
	logger *slog.Logger

	principal application.Principal
	token     string
}

// New constructs the CLI over the given services.
func New(auth *application.AuthService, users *application.UserService, events *application.EventService, logger *slog.Logger) (*CLI, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "> ",
		HistoryFile: "",
	})
	if err != nil {
		return nil, fmt.Errorf("init readline: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CLI{
		rl:     rl,
		out:    rl.Stdout(),
		auth:   auth,
		users:  users,
		events: events,
		logger: logger,
	}, nil
}

// Close releases the terminal.
func (c *CLI) Close() error {
	return c.rl.Close()
}

// Run starts the login loop and blocks until the user exits or the context
// is cancelled.
func (c *CLI) Run(ctx context.Context) error {
	fmt.Fprintln(c.out, "Event Desk")
	fmt.Fprintln(c.out, "Type the number of a menu entry and press enter.")

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if c.token == "" {
			done, err := c.loginScreen(ctx)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
			continue
		}
		if err := c.mainMenu(ctx); err != nil {
			return err
		}
	}
}

// readLine prompts and reads one trimmed line. io.EOF propagates so callers
// can treat end of input as exit; an interrupt reads as an empty line.
func (c *CLI) readLine(prompt string) (string, error) {
	c.rl.SetPrompt(prompt)
	line, err := c.rl.Readline()
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// logout revokes the current session and clears the principal.
func (c *CLI) logout(ctx context.Context) {
	if c.token != "" {
		if err := c.auth.Logout(ctx, c.token); err != nil {
			c.logger.Warn("logout failed", "error", err)
		}
	}
	c.token = ""
	c.principal = application.Principal{}
}

// describeError renders service errors in user terms.
func describeError(err error) string {
	var vErr *application.ValidationError
	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		return "Invalid username or password."
	case errors.Is(err, application.ErrAlreadyExists):
		return "That username is already taken."
	case errors.Is(err, application.ErrNotFound):
		return "No such record."
	case errors.Is(err, application.ErrUnauthorized):
		return "You are not allowed to do that."
	case errors.As(err, &vErr):
		parts := make([]string, 0, len(vErr.FieldErrors))
		for field, msg := range vErr.FieldErrors {
			parts = append(parts, field+": "+msg)
		}
		return "Invalid input (" + strings.Join(parts, "; ") + ")"
	default:
		return "Unexpected error: " + err.Error()
	}
}

func formatEvent(event persistence.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", event.ID, event.Title)
	if event.Description != "" {
		fmt.Fprintf(&b, "\n    %s", strings.ReplaceAll(event.Description, "\n", "\n    "))
	}
	if len(event.AssignedUsers) > 0 {
		fmt.Fprintf(&b, "\n    assigned: %s", strings.Join(event.AssignedUsers, ", "))
	}
	return b.String()
}
