package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/custodia-labs/prodscout/internal/core/domain"
	"github.com/custodia-labs/prodscout/internal/core/ports/driven"
)

// Ensure terminalConfirmer implements the interface.
var _ driven.Confirmer = (*terminalConfirmer)(nil)

// terminalConfirmer asks y/N on the terminal. With --yes it approves
// without asking; without a terminal it refuses.
type terminalConfirmer struct {
	in       io.Reader
	out      io.Writer
	yes      *bool
	terminal func() bool
}

func newTerminalConfirmer(in io.Reader, out io.Writer, yes *bool) *terminalConfirmer {
	return &terminalConfirmer{in: in, out: out, yes: yes, terminal: stdinIsTerminal}
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Confirm implements driven.Confirmer.
func (c *terminalConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if c.yes != nil && *c.yes {
		return true, nil
	}
	if !c.terminal() {
		return false, fmt.Errorf("%s: not a terminal, pass --yes to confirm", prompt)
	}

	fmt.Fprintf(c.out, "%s [y/N]: ", prompt)

	answer := make(chan string, 1)
	go func() {
		line, _ := bufio.NewReader(c.in).ReadString('\n')
		answer <- line
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case line := <-answer:
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	}
}

// answeredNo is true when the user declined, as opposed to the prompt failing.
func answeredNo(err error) bool {
	return err == domain.ErrConfirmationDeclined //nolint:errorlint // a wrapped decline carries a prompt failure
}
