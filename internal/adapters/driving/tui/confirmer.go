package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/prodscout/internal/adapters/driving/tui/messages"
)

// Confirmer asks the running program to show a confirmation dialog and
// waits for the answer. It satisfies driven.Confirmer.
type Confirmer struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

// NewConfirmer creates a detached confirmer. Confirm fails until Attach.
func NewConfirmer() *Confirmer {
	return &Confirmer{}
}

// Attach routes prompts into a program, usually tea.Program.Send.
// Passing nil detaches.
func (c *Confirmer) Attach(send func(tea.Msg)) {
	c.mu.Lock()
	c.send = send
	c.mu.Unlock()
}

// Confirm blocks until the user answers or ctx ends.
func (c *Confirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	c.mu.Lock()
	send := c.send
	c.mu.Unlock()
	if send == nil {
		return false, ErrNotRunning
	}

	reply := make(chan bool, 1)
	send(messages.ConfirmRequested{Prompt: prompt, Reply: reply})

	select {
	case ok := <-reply:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
