package memory

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/custodia-labs/prodscout/internal/core/domain"
	"github.com/custodia-labs/prodscout/internal/core/ports/driven"
)

// Ensure ResultCache implements the interface.
var _ driven.ResultCache = (*ResultCache)(nil)

// ResultCache keeps settled search outcomes in an expiring map.
type ResultCache struct {
	items *gocache.Cache
}

// NewResultCache creates a cache whose entries expire after ttl.
// A non-positive ttl keeps entries for the life of the process.
func NewResultCache(ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		return &ResultCache{items: gocache.New(gocache.NoExpiration, 0)}
	}
	return &ResultCache{items: gocache.New(ttl, 2*ttl)}
}

// Put stores a state under query.
func (c *ResultCache) Put(_ context.Context, query string, state domain.ReducerState) error {
	c.items.Set(query, state, gocache.DefaultExpiration)
	return nil
}

// Get returns the state stored under query.
func (c *ResultCache) Get(_ context.Context, query string) (domain.ReducerState, error) {
	val, ok := c.items.Get(query)
	if !ok {
		return domain.ReducerState{}, domain.ErrNotFound
	}
	state, ok := val.(domain.ReducerState)
	if !ok {
		return domain.ReducerState{}, domain.ErrNotFound
	}
	return state, nil
}

// Delete removes a cached query.
func (c *ResultCache) Delete(_ context.Context, query string) error {
	c.items.Delete(query)
	return nil
}

// Close drops every entry.
func (c *ResultCache) Close() error {
	c.items.Flush()
	return nil
}
