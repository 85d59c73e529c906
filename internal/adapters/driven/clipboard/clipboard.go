// Package clipboard writes copied text to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/custodia-labs/prodscout/internal/core/ports/driven"
)

// Ensure System implements the interface.
var _ driven.Clipboard = (*System)(nil)

// ErrUnsupported is returned when no clipboard utility is available.
var ErrUnsupported = errors.New("clipboard not available on this system")

// System is the OS clipboard. On Linux it needs xclip, xsel or wl-copy.
type System struct {
	unsupported bool
	write       func(string) error
}

// New returns the system clipboard.
func New() *System {
	return &System{unsupported: clipboard.Unsupported, write: clipboard.WriteAll}
}

// Available reports whether a clipboard utility was found.
func (s *System) Available() bool {
	return !s.unsupported
}

// WriteAll replaces the clipboard contents with text.
func (s *System) WriteAll(text string) error {
	if s.unsupported {
		return ErrUnsupported
	}
	if err := s.write(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}
