// Package tui provides an interactive terminal user interface for prodscout.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"context"

	"github.com/custodia-labs/prodscout/internal/core/domain"
	"github.com/custodia-labs/prodscout/internal/core/ports/driving"
)

// Ports aggregates everything the TUI drives.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Session runs queries and owns the reducer state. Required.
	Session driving.SearchSession

	// Actions runs side effects on the current result. Optional.
	Actions driving.ResultActionService

	// Settings backs the settings view. Optional.
	Settings driving.SettingsService

	// WatchConfig blocks until ctx ends, calling onChange after every
	// external edit of the config file. Optional.
	WatchConfig func(ctx context.Context, onChange func()) error

	// Confirmer is attached to the running program so destructive actions
	// can prompt inside the TUI. Optional.
	Confirmer *Confirmer

	// Options are sent with every query.
	Options domain.SearchOptions
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Session == nil {
		return ErrMissingSearchSession
	}
	return nil
}
