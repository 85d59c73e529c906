package services

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/prodscout/internal/core/domain"
)

func drain(t *testing.T, s *Stream) []domain.StreamEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var events []domain.StreamEvent
	for {
		ev, ok := s.Next(ctx)
		if !ok {
			require.NoError(t, ctx.Err(), "stream did not finish")
			return events
		}
		events = append(events, ev)
	}
}

func TestStreamConsumer_DeliversInOrderUntilTerminal(t *testing.T) {
	transport := newScriptedStream(
		domain.SearchStarted(time.Time{}),
		domain.ContentChunk("a"),
		domain.SingleResultEvent(acmeWidget()),
		domain.ContentChunk("after terminal"),
	)
	source := &scriptedSource{streams: []*scriptedStream{transport}}

	stream := NewStreamConsumer(source).Open(context.Background(), "  widgets ", domain.SearchOptions{Limit: 3})
	events := drain(t, stream)

	require.Len(t, events, 3)
	assert.Equal(t, domain.EventSearchStarted, events[0].Type)
	assert.Equal(t, domain.EventContentChunk, events[1].Type)
	assert.Equal(t, domain.EventSingleResult, events[2].Type)
	assert.True(t, transport.isClosed())

	reqs := source.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "widgets", reqs[0].Query)
	assert.Equal(t, 3, reqs[0].Options.Limit)
}

func TestStreamConsumer_EOFWithoutTerminalSynthesisesError(t *testing.T) {
	transport := newScriptedStream(domain.SearchStarted(time.Time{}), domain.ContentChunk("par"))
	transport.end(io.EOF)

	stream := NewStreamConsumer(&scriptedSource{streams: []*scriptedStream{transport}}).
		Open(context.Background(), "q", domain.SearchOptions{})
	events := drain(t, stream)

	require.Len(t, events, 3)
	assert.Equal(t, domain.ErrorEvent(domain.MessageConnectionLost), events[2])
	assert.Equal(t, domain.Failed(domain.MessageConnectionLost), domain.ReduceAll(events...))
}

func TestStreamConsumer_TransportFailureSynthesisesError(t *testing.T) {
	transport := newScriptedStream(domain.SearchStarted(time.Time{}))
	transport.end(errors.New("connection reset"))

	stream := NewStreamConsumer(&scriptedSource{streams: []*scriptedStream{transport}}).
		Open(context.Background(), "q", domain.SearchOptions{})
	events := drain(t, stream)

	require.Len(t, events, 2)
	assert.Equal(t, domain.EventError, events[1].Type)
	assert.Equal(t, "Connection to search service lost", events[1].Message)
}

func TestStreamConsumer_OpenFailureSynthesisesError(t *testing.T) {
	source := &scriptedSource{openErr: errors.New("connection refused")}

	stream := NewStreamConsumer(source).Open(context.Background(), "q", domain.SearchOptions{})
	events := drain(t, stream)

	require.Len(t, events, 1)
	assert.Equal(t, domain.ErrorEvent(domain.MessageConnectionLost), events[0])
}

func TestStreamConsumer_NothingDeliveredAfterCancel(t *testing.T) {
	transport := newScriptedStream(domain.SearchStarted(time.Time{}))
	stream := NewStreamConsumer(&scriptedSource{streams: []*scriptedStream{transport}}).
		Open(context.Background(), "q", domain.SearchOptions{})

	ctx := context.Background()
	ev, ok := stream.Next(ctx)
	require.True(t, ok)
	assert.Equal(t, domain.EventSearchStarted, ev.Type)

	stream.Cancel()
	transport.push(domain.ContentChunk("late"), domain.SingleResultEvent(acmeWidget()))

	_, ok = stream.Next(ctx)
	assert.False(t, ok)

	select {
	case <-stream.Finished():
	case <-time.After(2 * time.Second):
		t.Fatal("reader did not exit after cancel")
	}
	assert.True(t, transport.isClosed())

	stream.Cancel()
}

func TestStreamConsumer_CancelWhileEventsPending(t *testing.T) {
	transport := newScriptedStream()
	stream := NewStreamConsumer(&scriptedSource{streams: []*scriptedStream{transport}}).
		Open(context.Background(), "q", domain.SearchOptions{})

	go func() {
		for i := 0; i < 50; i++ {
			transport.push(domain.ContentChunk("x"))
		}
	}()

	_, _ = stream.Next(context.Background())
	stream.Cancel()

	for i := 0; i < 10; i++ {
		_, ok := stream.Next(context.Background())
		assert.False(t, ok)
	}
}

func TestStreamConsumer_ParentContextCancelEndsQuietly(t *testing.T) {
	transport := newScriptedStream(domain.SearchStarted(time.Time{}))
	ctx, cancel := context.WithCancel(context.Background())
	stream := NewStreamConsumer(&scriptedSource{streams: []*scriptedStream{transport}}).
		Open(ctx, "q", domain.SearchOptions{})

	_, ok := stream.Next(context.Background())
	require.True(t, ok)
	cancel()

	select {
	case <-stream.Finished():
	case <-time.After(2 * time.Second):
		t.Fatal("reader did not exit after context cancel")
	}
	_, ok = stream.Next(context.Background())
	assert.False(t, ok)
}
