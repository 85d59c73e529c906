package services

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/prodscout/internal/core/domain"
	"github.com/custodia-labs/prodscout/internal/core/ports/driven"
)

// --- Event source ---

// scriptedSource hands out one scriptedStream per Open call.
type scriptedSource struct {
	mu      sync.Mutex
	streams []*scriptedStream
	openErr error
	opened  []domain.SearchRequest
}

func (s *scriptedSource) Open(_ context.Context, req domain.SearchRequest) (driven.EventStream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opened = append(s.opened, req)
	if s.openErr != nil {
		return nil, s.openErr
	}
	if len(s.streams) == 0 {
		return newScriptedStream(), nil
	}
	next := s.streams[0]
	s.streams = s.streams[1:]
	return next, nil
}

func (s *scriptedSource) requests() []domain.SearchRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.SearchRequest(nil), s.opened...)
}

// scriptedStream yields whatever the test pushes, then err on end.
type scriptedStream struct {
	frames    chan domain.StreamEvent
	closed    chan struct{}
	closeOnce sync.Once
	endErr    error
}

func newScriptedStream(events ...domain.StreamEvent) *scriptedStream {
	s := &scriptedStream{
		frames: make(chan domain.StreamEvent, 64),
		closed: make(chan struct{}),
		endErr: io.EOF,
	}
	for _, ev := range events {
		s.frames <- ev
	}
	return s
}

func (s *scriptedStream) push(events ...domain.StreamEvent) {
	for _, ev := range events {
		s.frames <- ev
	}
}

// end makes Next return err once the buffered events are drained.
func (s *scriptedStream) end(err error) {
	s.endErr = err
	close(s.frames)
}

func (s *scriptedStream) Next(ctx context.Context) (domain.StreamEvent, error) {
	select {
	case ev, ok := <-s.frames:
		if !ok {
			return domain.StreamEvent{}, s.endErr
		}
		return ev, nil
	case <-s.closed:
		return domain.StreamEvent{}, io.ErrClosedPipe
	case <-ctx.Done():
		return domain.StreamEvent{}, ctx.Err()
	}
}

func (s *scriptedStream) Close() error {
	s.closeOnce.Do(func() { close(s.closed) })
	return nil
}

func (s *scriptedStream) isClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

// --- Clock ---

// fakeClock fires timers only when Advance is called, in deadline order.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) driven.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &fakeTimer{clock: c, at: c.now + d, seq: c.seq, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward by d, running due timers synchronously.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var due []*fakeTimer
		for _, t := range c.timers {
			if !t.stopped && !t.fired && t.at <= target {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			c.now = target
			c.mu.Unlock()
			return
		}
		sort.Slice(due, func(i, j int) bool {
			if due[i].at != due[j].at {
				return due[i].at < due[j].at
			}
			return due[i].seq < due[j].seq
		})
		next := due[0]
		next.fired = true
		c.now = next.at
		c.mu.Unlock()

		next.f()
	}
}

func (c *fakeClock) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// --- Product API ---

// MockProductAPI implements driven.ProductAPI with function fields.
type MockProductAPI struct {
	StarStatusFunc         func(ctx context.Context, documentID string) (bool, error)
	StarFunc               func(ctx context.Context, documentID string) error
	UnstarFunc             func(ctx context.Context, documentID string) error
	ListContributionsFunc  func(ctx context.Context, documentID string) ([]domain.Contribution, error)
	CreateContributionFunc func(ctx context.Context, documentID, content string) (domain.Contribution, error)
	UpdateContributionFunc func(ctx context.Context, contributionID, content string) (domain.Contribution, error)
	DeleteContributionFunc func(ctx context.Context, contributionID string) error
	LikeFunc               func(ctx context.Context, contributionID string) (int, error)
	UnlikeFunc             func(ctx context.Context, contributionID string) (int, error)
	DeleteTagFunc          func(ctx context.Context, product string) error
	DownloadDocumentFunc   func(ctx context.Context, documentID string) (io.ReadCloser, error)

	mu    sync.Mutex
	calls []string
}

func (m *MockProductAPI) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *MockProductAPI) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockProductAPI) StarStatus(ctx context.Context, documentID string) (bool, error) {
	m.record("StarStatus")
	if m.StarStatusFunc != nil {
		return m.StarStatusFunc(ctx, documentID)
	}
	return false, nil
}

func (m *MockProductAPI) Star(ctx context.Context, documentID string) error {
	m.record("Star")
	if m.StarFunc != nil {
		return m.StarFunc(ctx, documentID)
	}
	return nil
}

func (m *MockProductAPI) Unstar(ctx context.Context, documentID string) error {
	m.record("Unstar")
	if m.UnstarFunc != nil {
		return m.UnstarFunc(ctx, documentID)
	}
	return nil
}

func (m *MockProductAPI) ListContributions(ctx context.Context, documentID string) ([]domain.Contribution, error) {
	m.record("ListContributions")
	if m.ListContributionsFunc != nil {
		return m.ListContributionsFunc(ctx, documentID)
	}
	return nil, nil
}

func (m *MockProductAPI) CreateContribution(
	ctx context.Context, documentID, content string,
) (domain.Contribution, error) {
	m.record("CreateContribution")
	if m.CreateContributionFunc != nil {
		return m.CreateContributionFunc(ctx, documentID, content)
	}
	return domain.Contribution{ID: "new", Content: content}, nil
}

func (m *MockProductAPI) UpdateContribution(
	ctx context.Context, contributionID, content string,
) (domain.Contribution, error) {
	m.record("UpdateContribution")
	if m.UpdateContributionFunc != nil {
		return m.UpdateContributionFunc(ctx, contributionID, content)
	}
	return domain.Contribution{ID: contributionID, Content: content}, nil
}

func (m *MockProductAPI) DeleteContribution(ctx context.Context, contributionID string) error {
	m.record("DeleteContribution")
	if m.DeleteContributionFunc != nil {
		return m.DeleteContributionFunc(ctx, contributionID)
	}
	return nil
}

func (m *MockProductAPI) Like(ctx context.Context, contributionID string) (int, error) {
	m.record("Like")
	if m.LikeFunc != nil {
		return m.LikeFunc(ctx, contributionID)
	}
	return 1, nil
}

func (m *MockProductAPI) Unlike(ctx context.Context, contributionID string) (int, error) {
	m.record("Unlike")
	if m.UnlikeFunc != nil {
		return m.UnlikeFunc(ctx, contributionID)
	}
	return 0, nil
}

func (m *MockProductAPI) DeleteTag(ctx context.Context, product string) error {
	m.record("DeleteTag")
	if m.DeleteTagFunc != nil {
		return m.DeleteTagFunc(ctx, product)
	}
	return nil
}

func (m *MockProductAPI) DownloadDocument(ctx context.Context, documentID string) (io.ReadCloser, error) {
	m.record("DownloadDocument")
	if m.DownloadDocumentFunc != nil {
		return m.DownloadDocumentFunc(ctx, documentID)
	}
	return io.NopCloser(strings.NewReader("")), nil
}

// --- Misc ---

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

func confirmWith(answer bool) driven.Confirmer {
	return driven.ConfirmFunc(func(context.Context, string) (bool, error) {
		return answer, nil
	})
}

func acmeWidget() domain.ProductResult {
	return domain.ProductResult{
		Product:      "Acme Widget",
		Domain:       "hardware",
		AIDefinition: "A widget.",
		Producers:    []domain.Producer{{Name: "Acme", City: "Berlin"}},
		Occurrences:  &domain.Occurrences{Projects: []string{"p2"}, TotalOccurrences: 4},
		SourceDocument: domain.SourceDocument{
			Filename:          "widgets.pdf",
			DocumentID:        "doc1",
			ProjectID:         "p1",
			City:              "Hamburg",
			ContributionCount: 2,
		},
		AllDocumentIDs: []string{"doc1", "doc2"},
	}
}

func confirmFunc(fn func(prompt string) bool) driven.Confirmer {
	return driven.ConfirmFunc(func(_ context.Context, prompt string) (bool, error) {
		return fn(prompt), nil
	})
}

func confirmErr(err error) driven.Confirmer {
	return driven.ConfirmFunc(func(context.Context, string) (bool, error) {
		return false, err
	})
}
