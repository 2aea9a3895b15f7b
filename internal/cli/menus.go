package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// mainMenu renders the entries the current role is allowed to use: admins
// manage, users browse their assignments, guests only read.
func (c *CLI) mainMenu(ctx context.Context) error {
	fmt.Fprintf(c.out, "\nSigned in as %s (%s)\n", c.principal.Username, c.principal.Role)
	fmt.Fprintln(c.out, "1) View events")
	fmt.Fprintln(c.out, "2) View web events")

	switch {
	case c.principal.IsAdmin():
		fmt.Fprintln(c.out, "3) Manage events")
		fmt.Fprintln(c.out, "4) Manage users")
		fmt.Fprintln(c.out, "5) Logout")
	case c.principal.IsGuest():
		fmt.Fprintln(c.out, "3) Logout")
	default:
		fmt.Fprintln(c.out, "3) My events")
		fmt.Fprintln(c.out, "4) Logout")
	}

	choice, err := c.readLine("> ")
	if err != nil {
		if errors.Is(err, io.EOF) {
			c.logout(ctx)
			return nil
		}
		return err
	}

	switch choice {
	case "1":
		c.showEvents(ctx)
	case "2":
		c.showWebEvents(ctx)
	case "3":
		switch {
		case c.principal.IsAdmin():
			return c.manageEvents(ctx)
		case c.principal.IsGuest():
			c.logout(ctx)
		default:
			c.showMyEvents(ctx)
		}
	case "4":
		switch {
		case c.principal.IsAdmin():
			return c.manageUsers(ctx)
		case c.principal.IsGuest():
			fmt.Fprintln(c.out, "Unknown choice.")
		default:
			c.logout(ctx)
		}
	case "5":
		if c.principal.IsAdmin() {
			c.logout(ctx)
		} else {
			fmt.Fprintln(c.out, "Unknown choice.")
		}
	default:
		fmt.Fprintln(c.out, "Unknown choice.")
	}
	return nil
}

func (c *CLI) showEvents(ctx context.Context) {
	events := c.events.Events(ctx)
	if len(events) == 0 {
		fmt.Fprintln(c.out, "No events yet.")
		return
	}
	for _, event := range events {
		fmt.Fprintln(c.out, formatEvent(event))
	}
}

func (c *CLI) showMyEvents(ctx context.Context) {
	events := c.events.UserEvents(ctx, c.principal.Username)
	if len(events) == 0 {
		fmt.Fprintln(c.out, "You are not assigned to any event.")
		return
	}
	for _, event := range events {
		fmt.Fprintln(c.out, formatEvent(event))
	}
}

func (c *CLI) showWebEvents(ctx context.Context) {
	fmt.Fprintln(c.out, "Fetching web events...")
	events := c.events.WebEvents(ctx)
	if len(events) == 0 {
		fmt.Fprintln(c.out, "No web events available.")
		return
	}
	for _, event := range events {
		fmt.Fprintln(c.out, formatEvent(event))
	}
}
