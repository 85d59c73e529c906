package driving

import (
	"context"

	"github.com/custodia-labs/prodscout/internal/core/domain"
)

// Snapshot is everything a presentation shell needs to render a search.
type Snapshot struct {
	// Generation identifies the query the snapshot belongs to.
	Generation uint64

	// Query is the submitted query text.
	Query string

	// State is the reducer state.
	State domain.ReducerState

	// Reveal is set while State is SingleResult.
	Reveal *domain.RevealState

	// Filters is recomputed on every stable state change.
	Filters domain.FilterSet

	// Groups is the last document_groups payload of this query.
	Groups map[string][]domain.DocumentRef

	// Cached is the outcome of the previous run of the same query, if any.
	Cached *domain.ReducerState

	// Done is true once the stream for this query has ended.
	Done bool
}

// SearchSession drives one search at a time and owns its reducer state.
type SearchSession interface {
	// Submit starts a new query, superseding any in-flight one.
	Submit(ctx context.Context, query string, opts domain.SearchOptions) error

	// Cancel stops the in-flight query and its reveal timers.
	Cancel()

	// Snapshot returns the current view model.
	Snapshot() Snapshot

	// Wait blocks until the current query's stream has ended.
	Wait(ctx context.Context) error

	// Subscribe registers a callback for every snapshot change and returns
	// a function that removes it.
	Subscribe(fn func(Snapshot)) (unsubscribe func())
}
