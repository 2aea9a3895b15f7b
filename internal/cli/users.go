package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/example/event-desk/internal/persistence"
)

// manageUsers is the admin account menu: list, create, update, delete.
func (c *CLI) manageUsers(ctx context.Context) error {
	for {
		fmt.Fprintln(c.out, "\nUser management")
		fmt.Fprintln(c.out, "1) List users")
		fmt.Fprintln(c.out, "2) Create user")
		fmt.Fprintln(c.out, "3) Update user")
		fmt.Fprintln(c.out, "4) Delete user")
		fmt.Fprintln(c.out, "5) Back")

		choice, err := c.readLine("> ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		switch choice {
		case "1":
			c.listUsers(ctx)
		case "2":
			if err := c.createUser(ctx); err != nil {
				return err
			}
		case "3":
			if err := c.updateUser(ctx); err != nil {
				return err
			}
		case "4":
			if err := c.deleteUser(ctx); err != nil {
				return err
			}
		case "5", "back":
			return nil
		default:
			fmt.Fprintln(c.out, "Unknown choice.")
		}
	}
}

func (c *CLI) listUsers(ctx context.Context) {
	users := c.users.All(ctx)
	if len(users) == 0 {
		fmt.Fprintln(c.out, "No users.")
		return
	}

	usernames := make([]string, 0, len(users))
	for username := range users {
		usernames = append(usernames, username)
	}
	sort.Strings(usernames)

	for _, username := range usernames {
		user := users[username]
		fmt.Fprintf(c.out, "%s (%s)", username, user.Role)
		if len(user.AssignedEvents) > 0 {
			fmt.Fprintf(c.out, " events: %s", strings.Join(user.AssignedEvents, ", "))
		}
		fmt.Fprintln(c.out)
	}
}

func (c *CLI) promptRole(current persistence.Role) (persistence.Role, error) {
	prompt := "Role (admin/user/guest)"
	if current != "" {
		prompt += fmt.Sprintf(" [%s]", current)
	}
	raw, err := c.readLine(prompt + ": ")
	if err != nil {
		return "", err
	}
	if raw == "" {
		if current != "" {
			return current, nil
		}
		return persistence.RoleUser, nil
	}
	return persistence.Role(strings.ToLower(raw)), nil
}

func (c *CLI) createUser(ctx context.Context) error {
	username, err := c.readLine("Username: ")
	if err != nil {
		return err
	}
	password, err := c.readPassword("Password: ")
	if err != nil {
		return err
	}
	role, err := c.promptRole("")
	if err != nil {
		return err
	}

	if _, err := c.users.Register(ctx, username, password, role); err != nil {
		fmt.Fprintln(c.out, describeError(err))
		return nil
	}
	fmt.Fprintln(c.out, "User created.")
	return nil
}

func (c *CLI) updateUser(ctx context.Context) error {
	username, err := c.readLine("Username: ")
	if err != nil {
		return err
	}

	existing, getErr := c.users.Get(ctx, username)
	if getErr != nil {
		fmt.Fprintln(c.out, describeError(getErr))
		return nil
	}

	password, err := c.readPassword("New password (empty keeps current): ")
	if err != nil {
		return err
	}
	if password == "" {
		password = existing.Password
	}
	role, err := c.promptRole(existing.Role)
	if err != nil {
		return err
	}

	if _, err := c.users.Update(ctx, username, password, role); err != nil {
		fmt.Fprintln(c.out, describeError(err))
		return nil
	}
	fmt.Fprintln(c.out, "User updated.")
	return nil
}

func (c *CLI) deleteUser(ctx context.Context) error {
	username, err := c.readLine("Username to delete: ")
	if err != nil {
		return err
	}

	deleted, err := c.users.Delete(ctx, username)
	if err != nil {
		fmt.Fprintln(c.out, describeError(err))
		return nil
	}
	if !deleted {
		fmt.Fprintln(c.out, "No such user.")
		return nil
	}
	fmt.Fprintln(c.out, "User deleted. Event assignments keep the old name until reassigned.")
	return nil
}
