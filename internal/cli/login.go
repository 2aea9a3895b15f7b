package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"github.com/example/event-desk/internal/application"
	"github.com/example/event-desk/internal/persistence"
)

// loginScreen shows the sign-in choices. It returns true when the user asked
// to quit the application.
func (c *CLI) loginScreen(ctx context.Context) (bool, error) {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "1) Login")
	fmt.Fprintln(c.out, "2) Register")
	fmt.Fprintln(c.out, "3) Continue as guest")
	fmt.Fprintln(c.out, "4) Quit")

	choice, err := c.readLine("> ")
	if err != nil {
		if errors.Is(err, io.EOF) {
			return true, nil
		}
		return false, err
	}

	switch choice {
	case "1":
		return false, c.login(ctx)
	case "2":
		return false, c.register(ctx)
	case "3":
		session, err := c.auth.GuestLogin(ctx)
		if err != nil {
			fmt.Fprintln(c.out, describeError(err))
			return false, nil
		}
		c.token = session.Token
		c.principal = application.Principal{Username: session.Username, Role: session.Role}
		fmt.Fprintln(c.out, "Browsing as guest.")
		return false, nil
	case "4", "quit", "exit":
		return true, nil
	default:
		fmt.Fprintln(c.out, "Unknown choice.")
		return false, nil
	}
}

func (c *CLI) login(ctx context.Context) error {
	username, err := c.readLine("Username: ")
	if err != nil {
		return err
	}
	password, err := c.readPassword("Password: ")
	if err != nil {
		return err
	}

	result, err := c.auth.Login(ctx, username, password)
	if err != nil {
		fmt.Fprintln(c.out, describeError(err))
		return nil
	}

	c.token = result.Session.Token
	c.principal = application.Principal{Username: result.User.Username, Role: result.User.Role}
	fmt.Fprintf(c.out, "Welcome, %s (%s).\n", result.User.Username, result.User.Role)
	return nil
}

func (c *CLI) register(ctx context.Context) error {
	username, err := c.readLine("New username: ")
	if err != nil {
		return err
	}
	password, err := c.readPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := c.readPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		fmt.Fprintln(c.out, "Passwords do not match.")
		return nil
	}

	if _, err := c.users.Register(ctx, username, password, persistence.RoleUser); err != nil {
		fmt.Fprintln(c.out, describeError(err))
		return nil
	}
	fmt.Fprintln(c.out, "Account created, you can log in now.")
	return nil
}

// readPassword reads without echo when stdin is a terminal, falling back to
// a plain line otherwise so piped input keeps working. Passwords are compared
// byte for byte, so the input is never trimmed.
func (c *CLI) readPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		c.rl.SetPrompt(prompt)
		line, err := c.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				return "", nil
			}
			return "", err
		}
		return line, nil
	}

	fmt.Fprint(c.out, prompt)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(c.out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(password), nil
}
