package driven

import (
	"context"

	"github.com/custodia-labs/prodscout/internal/core/domain"
)

// ResultCache keeps settled outcomes for the session so a repeated query can
// show its previous result while the new stream runs. Nothing is written to disk.
type ResultCache interface {
	// Put stores a terminal state under a normalised query.
	Put(ctx context.Context, query string, state domain.ReducerState) error

	// Get returns the cached state. Returns domain.ErrNotFound if absent or expired.
	Get(ctx context.Context, query string) (domain.ReducerState, error)

	// Delete removes a cached query.
	Delete(ctx context.Context, query string) error

	// Close releases resources.
	Close() error
}
