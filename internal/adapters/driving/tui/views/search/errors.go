package search

import "errors"

// Error definitions for the search view.
var (
	// ErrNoSearchSession indicates that no search session was provided.
	ErrNoSearchSession = errors.New("search session is required")

	// ErrNoActions indicates that result actions are not wired.
	ErrNoActions = errors.New("result actions are not available")
)
