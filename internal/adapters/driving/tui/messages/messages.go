// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/prodscout/internal/core/domain"
	"github.com/custodia-labs/prodscout/internal/core/ports/driving"
)

// SnapshotChanged signals that the search session has a new snapshot.
// Receivers pull the snapshot themselves; the message carries nothing.
type SnapshotChanged struct{}

// SearchSubmitted reports the outcome of starting a query.
type SearchSubmitted struct {
	Query string
	Err   error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewSearch is the search input and result view.
	ViewSearch ViewType = iota
	// ViewHelp is the help/keybindings view.
	ViewHelp
	// ViewSettings is the settings view.
	ViewSettings
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewSearch:
		return "search"
	case ViewHelp:
		return "help"
	case ViewSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// ConfirmRequested asks the user to approve a destructive action.
// Reply is buffered; the receiver sends exactly one value without blocking.
type ConfirmRequested struct {
	Prompt string
	Reply  chan<- bool
}

// DocumentLoaded carries star status and contributions of a document.
type DocumentLoaded struct {
	View driving.DocumentView
	Err  error
}

// StarToggled reports the outcome of a star toggle.
type StarToggled struct {
	DocumentID string
	Starred    bool
	Err        error
}

// ActionCompleted reports the outcome of a one-off side effect such as a
// copy, download or tag deletion.
type ActionCompleted struct {
	Action  string
	Message string
	Err     error
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals a setting was saved.
type SettingsSaved struct {
	Key string
	Err error
}

// ConfigReloaded signals the config file changed on disk.
type ConfigReloaded struct{}
