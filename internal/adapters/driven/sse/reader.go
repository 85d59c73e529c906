package sse

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/prodscout/internal/core/domain"
	"github.com/custodia-labs/prodscout/internal/core/ports/driven"
	"github.com/custodia-labs/prodscout/internal/logger"
)

// Ensure EventReader implements the interface.
var _ driven.EventStream = (*EventReader)(nil)

// EventReader yields decoded events from an SSE body, skipping malformed
// frames and unknown event types.
type EventReader struct {
	body      io.ReadCloser
	dec       *Decoder
	closeOnce sync.Once
	closeErr  error
	closed    atomic.Bool
}

// NewEventReader wraps body. The reader owns body and closes it on Close.
func NewEventReader(body io.ReadCloser) *EventReader {
	return &EventReader{body: body, dec: NewDecoder(body)}
}

// Next returns the next event, io.EOF at the end of the body, or the read error.
// After Close it returns domain.ErrStreamClosed.
// Cancelling ctx does not interrupt a blocked read; the caller closes the
// body (or cancels the request) for that.
func (r *EventReader) Next(ctx context.Context) (domain.StreamEvent, error) {
	for {
		if err := ctx.Err(); err != nil {
			return domain.StreamEvent{}, err
		}
		if r.closed.Load() {
			return domain.StreamEvent{}, domain.ErrStreamClosed
		}

		payload, err := r.dec.Frame()
		if err != nil {
			if r.closed.Load() {
				return domain.StreamEvent{}, domain.ErrStreamClosed
			}
			return domain.StreamEvent{}, err
		}

		ev, err := ParseEvent(payload)
		if err != nil {
			if errors.Is(err, ErrUnknownType) {
				logger.Debug("Skipping frame: %v", err)
			} else {
				logger.Warn("Skipping malformed frame: %v", err)
			}
			continue
		}
		return ev, nil
	}
}

// Close closes the body. Safe to call more than once.
func (r *EventReader) Close() error {
	r.closeOnce.Do(func() {
		r.closed.Store(true)
		r.closeErr = r.body.Close()
	})
	return r.closeErr
}
