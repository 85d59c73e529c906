package driven

import (
	"context"

	"github.com/custodia-labs/prodscout/internal/core/domain"
)

// EventSource opens search event streams.
// Backed by POST /search/stream.
type EventSource interface {
	// Open starts a stream for the request. A non-nil error means the
	// transport could not be opened (connection refused, non-2xx status).
	Open(ctx context.Context, req domain.SearchRequest) (EventStream, error)
}

// EventStream is a single-pass sequence of decoded events.
// Malformed frames and unknown event types are skipped by the implementation.
type EventStream interface {
	// Next blocks until the next event is decoded. It returns io.EOF when the
	// transport closes cleanly and any other error on transport failure.
	Next(ctx context.Context) (domain.StreamEvent, error)

	// Close releases the transport. Safe to call more than once and
	// concurrently with Next, which then returns promptly.
	Close() error
}
