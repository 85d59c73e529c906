package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/prodscout/internal/core/domain"
	"github.com/custodia-labs/prodscout/internal/core/ports/driven"
	"github.com/custodia-labs/prodscout/internal/logger"
)

// StreamConsumer opens search streams and turns them into ordered event
// sequences that always end in a terminal event or in cancellation.
type StreamConsumer struct {
	source driven.EventSource
}

// NewStreamConsumer creates a consumer over an event source.
func NewStreamConsumer(source driven.EventSource) *StreamConsumer {
	return &StreamConsumer{source: source}
}

// Stream is a single-pass sequence of events for one query.
//
// Events are delivered in transport order. After a terminal event nothing
// more is delivered. After Cancel returns, Next never yields another event.
type Stream struct {
	events   chan domain.StreamEvent
	done     chan struct{}
	finished chan struct{}

	cancelled  atomic.Bool
	cancelOnce sync.Once
	stop       context.CancelFunc

	mu        sync.Mutex
	transport driven.EventStream
}

// Open starts consuming a query. The transport is opened in the background;
// a failure to open surfaces as a synthetic error event.
func (c *StreamConsumer) Open(ctx context.Context, query string, opts domain.SearchOptions) *Stream {
	runCtx, stop := context.WithCancel(ctx)
	s := &Stream{
		events:   make(chan domain.StreamEvent),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
		stop:     stop,
	}

	req := domain.SearchRequest{Query: strings.TrimSpace(query), Options: opts}
	go s.run(runCtx, c.source, req)
	return s
}

func (s *Stream) run(ctx context.Context, source driven.EventSource, req domain.SearchRequest) {
	defer close(s.finished)
	defer s.stop()

	logger.Debug("Opening stream for %q", req.Query)
	transport, err := source.Open(ctx, req)
	if err != nil {
		if s.aborted(ctx) {
			return
		}
		logger.Warn("Failed to open search stream: %v", err)
		s.emit(domain.ErrorEvent(domain.MessageConnectionLost))
		return
	}
	if !s.attach(transport) {
		_ = transport.Close()
		return
	}
	defer transport.Close()

	for {
		ev, err := transport.Next(ctx)
		if err != nil {
			if s.aborted(ctx) {
				return
			}
			if errors.Is(err, io.EOF) {
				logger.Warn("Search stream closed before a result was delivered")
			} else {
				logger.Warn("Search stream failed: %v", err)
			}
			s.emit(domain.ErrorEvent(domain.MessageConnectionLost))
			return
		}

		if !s.emit(ev) {
			return
		}
		if ev.IsTerminal() {
			logger.Debug("Stream reached terminal event %s", ev.Type)
			return
		}
	}
}

// attach records the transport so Cancel can close it. Returns false if the
// stream was cancelled while the transport was opening.
func (s *Stream) attach(transport driven.EventStream) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled.Load() {
		return false
	}
	s.transport = transport
	return true
}

func (s *Stream) aborted(ctx context.Context) bool {
	return s.cancelled.Load() || ctx.Err() != nil
}

func (s *Stream) emit(ev domain.StreamEvent) bool {
	if s.cancelled.Load() {
		return false
	}
	select {
	case s.events <- ev:
		return true
	case <-s.done:
		return false
	}
}

// Next blocks for the next event. It returns false once the stream has ended,
// was cancelled, or ctx is done.
func (s *Stream) Next(ctx context.Context) (domain.StreamEvent, bool) {
	select {
	case ev := <-s.events:
		if s.cancelled.Load() {
			return domain.StreamEvent{}, false
		}
		return ev, true
	case <-s.finished:
		return domain.StreamEvent{}, false
	case <-s.done:
		return domain.StreamEvent{}, false
	case <-ctx.Done():
		return domain.StreamEvent{}, false
	}
}

// Cancel stops the stream and closes its transport. Safe to call repeatedly.
func (s *Stream) Cancel() {
	s.cancelOnce.Do(func() {
		s.cancelled.Store(true)
		close(s.done)
		s.stop()

		s.mu.Lock()
		transport := s.transport
		s.mu.Unlock()
		if transport != nil {
			_ = transport.Close()
		}
	})
}

// Finished is closed once the background reader has exited.
func (s *Stream) Finished() <-chan struct{} {
	return s.finished
}
