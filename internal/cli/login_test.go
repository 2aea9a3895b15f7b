package cli

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

// isStdinTerminal mirrors the branch readPassword takes; the masked prompt
// path cannot be scripted, so those cases skip under an attached terminal.
func isStdinTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newScriptedCLI wires the readline instance to canned input. Prompts and
// output go nowhere; only the read results matter.
func newScriptedCLI(t *testing.T, input string) *CLI {
	t.Helper()
	rl, err := readline.NewEx(&readline.Config{
		Stdin:  io.NopCloser(strings.NewReader(input)),
		Stdout: io.Discard,
		Stderr: io.Discard,
	})
	if err != nil {
		t.Fatalf("init readline: %v", err)
	}
	t.Cleanup(func() { _ = rl.Close() })
	return &CLI{rl: rl, out: io.Discard}
}

func TestReadPassword_PreservesWhitespace(t *testing.T) {
	if isStdinTerminal() {
		t.Skip("requires piped stdin")
	}

	c := newScriptedCLI(t, "  pad ded  \n")
	got, err := c.readPassword("Password: ")
	if err != nil {
		t.Fatalf("readPassword failed: %v", err)
	}
	if got != "  pad ded  " {
		t.Fatalf("password was altered: %q", got)
	}
}

func TestReadLine_TrimsMenuInput(t *testing.T) {
	if isStdinTerminal() {
		t.Skip("requires piped stdin")
	}

	c := newScriptedCLI(t, "  1  \n")
	got, err := c.readLine("> ")
	if err != nil {
		t.Fatalf("readLine failed: %v", err)
	}
	if got != "1" {
		t.Fatalf("expected trimmed choice, got %q", got)
	}
}
