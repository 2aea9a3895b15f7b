package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/example/event-desk/internal/persistence"
)

// manageEvents is the admin event menu: list, create, edit, delete, assign.
func (c *CLI) manageEvents(ctx context.Context) error {
	for {
		fmt.Fprintln(c.out, "\nEvent management")
		fmt.Fprintln(c.out, "1) List events")
		fmt.Fprintln(c.out, "2) Create event")
		fmt.Fprintln(c.out, "3) Edit event")
		fmt.Fprintln(c.out, "4) Delete event")
		fmt.Fprintln(c.out, "5) Assign users")
		fmt.Fprintln(c.out, "6) Back")

		choice, err := c.readLine("> ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		switch choice {
		case "1":
			c.showEvents(ctx)
		case "2":
			if err := c.createEvent(ctx); err != nil {
				return err
			}
		case "3":
			if err := c.editEvent(ctx); err != nil {
				return err
			}
		case "4":
			if err := c.deleteEvent(ctx); err != nil {
				return err
			}
		case "5":
			if err := c.assignUsers(ctx); err != nil {
				return err
			}
		case "6", "back":
			return nil
		default:
			fmt.Fprintln(c.out, "Unknown choice.")
		}
	}
}

func (c *CLI) createEvent(ctx context.Context) error {
	title, err := c.readLine("Title: ")
	if err != nil {
		return err
	}
	description, err := c.readLine("Description (optional): ")
	if err != nil {
		return err
	}

	event, err := c.events.CreateEvent(ctx, title, description)
	if err != nil {
		fmt.Fprintln(c.out, describeError(err))
		return nil
	}
	fmt.Fprintf(c.out, "Created event %s.\n", event.ID)
	return nil
}

func (c *CLI) editEvent(ctx context.Context) error {
	id, err := c.readLine("Event id: ")
	if err != nil {
		return err
	}

	var existing persistence.Event
	var found bool
	for _, event := range c.events.Events(ctx) {
		if event.ID == id {
			existing, found = event, true
			break
		}
	}
	if !found {
		fmt.Fprintln(c.out, "No such event.")
		return nil
	}

	title, err := c.readLine(fmt.Sprintf("Title [%s]: ", existing.Title))
	if err != nil {
		return err
	}
	description, err := c.readLine(fmt.Sprintf("Description [%s]: ", existing.Description))
	if err != nil {
		return err
	}

	if title != "" {
		existing.Title = title
	}
	if description != "" {
		existing.Description = description
	}

	if _, err := c.events.UpdateEvent(ctx, existing); err != nil {
		fmt.Fprintln(c.out, describeError(err))
		return nil
	}
	fmt.Fprintln(c.out, "Event updated.")
	return nil
}

func (c *CLI) deleteEvent(ctx context.Context) error {
	id, err := c.readLine("Event id to delete: ")
	if err != nil {
		return err
	}

	deleted, err := c.events.DeleteEvent(ctx, id)
	if err != nil {
		fmt.Fprintln(c.out, describeError(err))
		return nil
	}
	if !deleted {
		fmt.Fprintln(c.out, "No such event.")
		return nil
	}
	fmt.Fprintln(c.out, "Event deleted.")
	return nil
}

func (c *CLI) assignUsers(ctx context.Context) error {
	id, err := c.readLine("Event id: ")
	if err != nil {
		return err
	}
	raw, err := c.readLine("Usernames (comma separated, replaces the current list): ")
	if err != nil {
		return err
	}

	var usernames []string
	for _, name := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			usernames = append(usernames, trimmed)
		}
	}

	event, err := c.events.AssignUsers(ctx, id, usernames)
	if err != nil {
		fmt.Fprintln(c.out, describeError(err))
		return nil
	}
	fmt.Fprintf(c.out, "Assigned: %s\n", strings.Join(event.AssignedUsers, ", "))
	return nil
}
