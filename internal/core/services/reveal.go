package services

import (
	"sync"
	"time"

	"github.com/custodia-labs/prodscout/internal/core/domain"
	"github.com/custodia-labs/prodscout/internal/core/ports/driven"
	"github.com/custodia-labs/prodscout/internal/logger"
)

// systemClock is the wall clock.
type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) driven.Timer {
	return time.AfterFunc(d, f)
}

// RevealScheduler runs the staged reveal of a single result and the
// typewriter over its definition.
//
// Every callback carries the generation it was scheduled under and is dropped
// once Begin or Cancel has moved the generation on.
type RevealScheduler struct {
	clock    driven.Clock
	interval time.Duration

	mu         sync.Mutex
	generation uint64
	timers     []driven.Timer
	typewriter driven.Timer
	current    domain.RevealState
	definition string
	total      int
	displayed  string
	onChange   func(domain.RevealState)
	typed      chan struct{}
}

// NewRevealScheduler creates a scheduler. A nil clock uses the wall clock and
// a non-positive interval uses domain.DefaultTypewriterInterval.
func NewRevealScheduler(clock driven.Clock, interval time.Duration) *RevealScheduler {
	if clock == nil {
		clock = systemClock{}
	}
	if interval <= 0 {
		interval = domain.DefaultTypewriterInterval
	}
	typed := make(chan struct{})
	close(typed)
	return &RevealScheduler{clock: clock, interval: interval, typed: typed}
}

// Begin starts the reveal for product and returns the initial state.
// onChange receives every later state from timer goroutines. Deliveries may
// race each other; RevealState.Progress orders them.
//
// If product has the same identity as the one already displayed, the whole
// schedule is skipped and a fully resolved state is returned.
func (r *RevealScheduler) Begin(product domain.ProductResult, onChange func(domain.RevealState)) domain.RevealState {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopLocked()
	r.generation++
	gen := r.generation
	// Waiters on the previous product's typewriter are released.
	r.finishTypingLocked()

	identity := product.Identity()
	r.definition = product.AIDefinition
	r.total = len([]rune(product.AIDefinition))
	r.onChange = onChange

	if identity != "" && identity == r.displayed {
		logger.Debug("Reveal skipped for already displayed %q", identity)
		r.current = domain.ResolvedRevealState(identity, r.total)
		return r.current
	}

	r.displayed = identity
	r.current = domain.NewRevealState(identity)
	r.typed = make(chan struct{})

	for _, step := range domain.RevealTimeline() {
		if step.At <= 0 {
			r.applyLocked(gen, step)
			continue
		}
		step := step
		r.timers = append(r.timers, r.clock.AfterFunc(step.At, func() { r.fire(gen, step) }))
	}
	return r.current
}

// Resolve skips any remaining schedule for the current product and shows
// every section at once.
func (r *RevealScheduler) Resolve() domain.RevealState {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopLocked()
	r.generation++
	r.current = domain.ResolvedRevealState(r.current.Identity, r.total)
	r.finishTypingLocked()
	return r.current
}

// Cancel stops all pending steps and the typewriter. The displayed identity
// is kept so a repeat of the same result is not re-animated.
func (r *RevealScheduler) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
	r.generation++
	r.finishTypingLocked()
}

// Reset cancels and forgets the displayed identity.
func (r *RevealScheduler) Reset() {
	r.Cancel()
	r.mu.Lock()
	r.displayed = ""
	r.mu.Unlock()
}

// State returns the current reveal state.
func (r *RevealScheduler) State() domain.RevealState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// FullText returns the full definition regardless of typewriter progress.
func (r *RevealScheduler) FullText() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.definition
}

// TypewriterDone is closed when the typewriter finishes or is cancelled.
func (r *RevealScheduler) TypewriterDone() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.typed
}

func (r *RevealScheduler) fire(gen uint64, step domain.RevealStep) {
	r.mu.Lock()
	if gen != r.generation {
		r.mu.Unlock()
		return
	}
	r.applyLocked(gen, step)
	state, cb := r.current, r.onChange
	r.mu.Unlock()

	if cb != nil {
		cb(state)
	}
}

func (r *RevealScheduler) applyLocked(gen uint64, step domain.RevealStep) {
	r.current = r.current.Apply(step)
	if step.Action == domain.RevealTypewriter {
		r.tickLocked(gen)
	}
}

// tickLocked reveals one rune and schedules the next.
func (r *RevealScheduler) tickLocked(gen uint64) {
	r.current = r.current.AdvanceTypewriter(r.total)
	if r.current.TypewriterDone {
		r.typewriter = nil
		r.finishTypingLocked()
		return
	}
	r.typewriter = r.clock.AfterFunc(r.interval, func() {
		r.mu.Lock()
		if gen != r.generation {
			r.mu.Unlock()
			return
		}
		r.tickLocked(gen)
		state, cb := r.current, r.onChange
		r.mu.Unlock()

		if cb != nil {
			cb(state)
		}
	})
}

func (r *RevealScheduler) stopLocked() {
	for _, t := range r.timers {
		t.Stop()
	}
	r.timers = nil
	if r.typewriter != nil {
		r.typewriter.Stop()
		r.typewriter = nil
	}
}

func (r *RevealScheduler) finishTypingLocked() {
	select {
	case <-r.typed:
	default:
		close(r.typed)
	}
}
