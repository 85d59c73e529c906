package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/prodscout/internal/core/domain"
	"github.com/custodia-labs/prodscout/internal/core/ports/driven"
	"github.com/custodia-labs/prodscout/internal/core/ports/driving"
	"github.com/custodia-labs/prodscout/internal/logger"
)

// Ensure Session implements the interface.
var _ driving.SearchSession = (*Session)(nil)

// Session owns the reducer state of one search at a time.
//
// Submitting a new query cancels the previous stream and its reveal timers,
// resets to Idle and bumps a generation counter. Events and timer callbacks
// from an older generation are dropped.
type Session struct {
	consumer *StreamConsumer
	reveal   *RevealScheduler
	cache    driven.ResultCache
	animate  bool

	mu          sync.Mutex
	generation  uint64
	query       string
	state       domain.ReducerState
	revealState *domain.RevealState
	groups      map[string][]domain.DocumentRef
	filters     domain.FilterSet
	cached      *domain.ReducerState
	stream      *Stream
	done        chan struct{}
	subscribers map[int]func(driving.Snapshot)
	nextSub     int
}

// NewSession creates a search session.
// The reveal scheduler and cache are optional (can be nil). Without a
// scheduler single results are shown fully resolved.
func NewSession(consumer *StreamConsumer, reveal *RevealScheduler, cache driven.ResultCache) *Session {
	done := make(chan struct{})
	close(done)
	return &Session{
		consumer:    consumer,
		reveal:      reveal,
		cache:       cache,
		animate:     reveal != nil,
		state:       domain.Idle(),
		done:        done,
		subscribers: make(map[int]func(driving.Snapshot)),
	}
}

// SetAnimate toggles the staged reveal. When off, single results resolve at once.
func (s *Session) SetAnimate(animate bool) {
	s.mu.Lock()
	s.animate = animate && s.reveal != nil
	s.mu.Unlock()
}

// Submit starts a new query, superseding any in-flight one.
func (s *Session) Submit(ctx context.Context, query string, opts domain.SearchOptions) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return fmt.Errorf("%w: query is empty", domain.ErrInvalidInput)
	}

	logger.Section("Search")
	logger.Debug("Query: %q", query)

	s.Cancel()
	cached := s.lookupCache(ctx, query)

	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.query = query
	s.state = domain.Idle()
	s.revealState = nil
	s.groups = nil
	s.filters = domain.FilterSet{}
	s.cached = cached
	done := make(chan struct{})
	s.done = done
	s.mu.Unlock()

	stream := s.consumer.Open(ctx, query, opts)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		stream.Cancel()
		close(done)
		return nil
	}
	s.stream = stream
	s.mu.Unlock()

	s.notify()
	go s.pump(ctx, gen, stream, done)
	return nil
}

// Cancel stops the in-flight query and its reveal timers. The last state
// stays visible.
func (s *Session) Cancel() {
	s.mu.Lock()
	stream := s.stream
	s.stream = nil
	s.generation++
	s.mu.Unlock()

	if stream != nil {
		stream.Cancel()
	}
	if s.reveal != nil {
		s.reveal.Cancel()
	}

	s.mu.Lock()
	if r := s.revealState; r != nil && !r.Complete {
		resolved := domain.ResolvedRevealState(r.Identity, s.definitionLenLocked())
		s.revealState = &resolved
	}
	s.mu.Unlock()
}

// State returns the current reducer state.
func (s *Session) State() domain.ReducerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Cached returns the outcome of an earlier run of query, if the cache holds one.
func (s *Session) Cached(ctx context.Context, query string) (domain.ReducerState, bool) {
	cached := s.lookupCache(ctx, query)
	if cached == nil {
		return domain.ReducerState{}, false
	}
	return *cached, true
}

// Snapshot returns the current view model.
func (s *Session) Snapshot() driving.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Wait blocks until the current query's stream has ended.
func (s *Session) Wait(ctx context.Context) error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe registers a callback for every snapshot change.
func (s *Session) Subscribe(fn func(driving.Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// FullDefinition returns the complete definition of the current single
// result, ignoring typewriter progress.
func (s *Session) FullDefinition() (string, bool) {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	if state.Kind != domain.StateSingleResult || state.Product == nil {
		return "", false
	}
	if s.reveal != nil && s.reveal.State().Identity == state.Product.Identity() {
		return s.reveal.FullText(), true
	}
	return state.Product.AIDefinition, true
}

// SkipReveal resolves the current reveal immediately.
func (s *Session) SkipReveal() {
	if s.reveal == nil {
		return
	}
	s.mu.Lock()
	if s.revealState == nil {
		s.mu.Unlock()
		return
	}
	gen := s.generation
	s.mu.Unlock()

	resolved := s.reveal.Resolve()
	s.setReveal(gen, resolved)
}

func (s *Session) definitionLenLocked() int {
	if s.state.Product == nil {
		return 0
	}
	return len([]rune(s.state.Product.AIDefinition))
}

func (s *Session) pump(ctx context.Context, gen uint64, stream *Stream, done chan struct{}) {
	// Subscribers must see Done on the final snapshot.
	defer func() {
		close(done)
		s.notify()
	}()

	for {
		ev, ok := stream.Next(ctx)
		if !ok {
			return
		}
		s.apply(gen, ev)
	}
}

func (s *Session) apply(gen uint64, ev domain.StreamEvent) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		logger.Debug("Dropping %s from superseded query", ev.Type)
		return
	}

	prev := s.state
	next := domain.Reduce(prev, ev)
	s.state = next

	groupsChanged := false
	if ev.Type == domain.EventDocumentGroups && !prev.IsTerminal() {
		s.groups = ev.Groups
		groupsChanged = true
	}
	if (next.IsStable() && next.Kind != prev.Kind) || groupsChanged {
		s.filters = domain.DeriveFilters(next, s.groups)
	}

	settled := next.IsTerminal() && !prev.IsTerminal()
	enteringSingle := settled && next.Kind == domain.StateSingleResult
	animate := s.animate
	query := s.query
	s.mu.Unlock()

	if settled {
		logger.Debug("Search settled as %s", next.Kind)
		s.storeCache(query, next)
	}
	switch {
	case enteringSingle:
		s.beginReveal(gen, *next.Product, animate)
	case settled:
		s.forgetReveal(gen)
	}
	s.notify()
}

// beginReveal starts the reveal for product. The generation check and Begin
// happen under s.mu, so a Submit racing with this call either cancels the
// timers Begin scheduled or turns the call into a no-op.
func (s *Session) beginReveal(gen uint64, product domain.ProductResult, animate bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		logger.Debug("Reveal for %q skipped, query superseded", product.Product)
		return
	}

	var initial domain.RevealState
	if animate {
		initial = s.reveal.Begin(product, func(r domain.RevealState) { s.setReveal(gen, r) })
	} else {
		initial = domain.ResolvedRevealState(product.Identity(), len([]rune(product.AIDefinition)))
	}
	s.revealState = &initial
}

// forgetReveal drops the displayed identity once a query settles on anything
// other than a single result, so the next single result is animated again.
func (s *Session) forgetReveal(gen uint64) {
	if s.reveal == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.generation {
		s.reveal.Reset()
	}
}

func (s *Session) setReveal(gen uint64, r domain.RevealState) {
	s.mu.Lock()
	if gen != s.generation || s.state.Kind != domain.StateSingleResult {
		s.mu.Unlock()
		return
	}
	if cur := s.revealState; cur != nil && cur.Identity == r.Identity && r.Progress() < cur.Progress() {
		s.mu.Unlock()
		return
	}
	s.revealState = &r
	s.mu.Unlock()
	s.notify()
}

func (s *Session) lookupCache(ctx context.Context, query string) *domain.ReducerState {
	if s.cache == nil {
		return nil
	}
	state, err := s.cache.Get(ctx, domain.NormaliseQuery(query))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Result cache lookup failed: %v", err)
		}
		return nil
	}
	logger.Debug("Showing cached %s for %q", state.Kind, query)
	return &state
}

func (s *Session) storeCache(query string, state domain.ReducerState) {
	if s.cache == nil || state.Kind == domain.StateError {
		return
	}
	if err := s.cache.Put(context.Background(), domain.NormaliseQuery(query), state); err != nil {
		logger.Warn("Result cache store failed: %v", err)
	}
}

func (s *Session) notify() {
	s.mu.Lock()
	snap := s.snapshotLocked()
	subs := make([]func(driving.Snapshot), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func (s *Session) snapshotLocked() driving.Snapshot {
	snap := driving.Snapshot{
		Generation: s.generation,
		Query:      s.query,
		State:      s.state,
		Filters:    s.filters,
		Groups:     s.groups,
		Cached:     s.cached,
	}
	if s.revealState != nil {
		r := *s.revealState
		snap.Reveal = &r
	}
	select {
	case <-s.done:
		snap.Done = true
	default:
	}
	return snap
}
