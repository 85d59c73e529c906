package search

import (
	"context"
	"io"
	"sync"

	"github.com/custodia-labs/prodscout/internal/core/domain"
	"github.com/custodia-labs/prodscout/internal/core/ports/driving"
)

// MockSession implements driving.SearchSession and the reveal skipper.
type MockSession struct {
	SubmitFunc func(ctx context.Context, query string, opts domain.SearchOptions) error

	mu        sync.Mutex
	snap      driving.Snapshot
	submitted []string
	cancels   int
	skips     int
}

func (m *MockSession) Submit(ctx context.Context, query string, opts domain.SearchOptions) error {
	m.mu.Lock()
	m.submitted = append(m.submitted, query)
	m.mu.Unlock()
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, query, opts)
	}
	return nil
}

func (m *MockSession) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancels++
	m.snap.Done = true
}

func (m *MockSession) Snapshot() driving.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}

func (m *MockSession) Wait(context.Context) error { return nil }

func (m *MockSession) Subscribe(func(driving.Snapshot)) func() { return func() {} }

func (m *MockSession) SkipReveal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.skips++
	if m.snap.Reveal != nil && m.snap.State.Product != nil {
		r := domain.ResolvedRevealState(m.snap.Reveal.Identity, len([]rune(m.snap.State.Product.AIDefinition)))
		m.snap.Reveal = &r
	}
}

func (m *MockSession) set(snap driving.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap
}

// MockActions implements driving.ResultActionService with function fields.
type MockActions struct {
	LoadDocumentFunc     func(ctx context.Context, documentID string) (driving.DocumentView, error)
	ToggleStarFunc       func(ctx context.Context, documentID string) (bool, error)
	DeleteProductTagFunc func(ctx context.Context, product string) error
	DownloadFunc         func(ctx context.Context, documentID string, w io.Writer) (int64, error)
	CopyDefinitionFunc   func(ctx context.Context) error

	mu      sync.Mutex
	starred map[string]bool
	tags    map[string]bool
}

func (m *MockActions) LoadDocument(ctx context.Context, documentID string) (driving.DocumentView, error) {
	if m.LoadDocumentFunc != nil {
		return m.LoadDocumentFunc(ctx, documentID)
	}
	return driving.DocumentView{DocumentID: documentID}, nil
}

func (m *MockActions) Document(documentID string) driving.DocumentView {
	m.mu.Lock()
	defer m.mu.Unlock()
	return driving.DocumentView{DocumentID: documentID, IsStarred: m.starred[documentID]}
}

func (m *MockActions) ToggleStar(ctx context.Context, documentID string) (bool, error) {
	if m.ToggleStarFunc != nil {
		return m.ToggleStarFunc(ctx, documentID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.starred == nil {
		m.starred = make(map[string]bool)
	}
	m.starred[documentID] = !m.starred[documentID]
	return m.starred[documentID], nil
}

func (m *MockActions) SubmitContribution(context.Context, string, string) (domain.Contribution, error) {
	return domain.Contribution{}, nil
}

func (m *MockActions) EditContribution(context.Context, string, string) (domain.Contribution, error) {
	return domain.Contribution{}, nil
}

func (m *MockActions) ToggleLike(context.Context, string) (domain.Contribution, error) {
	return domain.Contribution{}, nil
}

func (m *MockActions) SetLike(_ context.Context, id string, liked bool) (domain.Contribution, error) {
	return domain.Contribution{ID: id, UserLiked: liked}, nil
}

func (m *MockActions) DeleteProductTag(ctx context.Context, product string) error {
	if m.DeleteProductTagFunc != nil {
		if err := m.DeleteProductTagFunc(ctx, product); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tags == nil {
		m.tags = make(map[string]bool)
	}
	m.tags[product] = true
	return nil
}

func (m *MockActions) TagDeleted(product string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tags[product]
}

func (m *MockActions) DeleteContribution(context.Context, string) error { return nil }

func (m *MockActions) Download(ctx context.Context, documentID string, w io.Writer) (int64, error) {
	if m.DownloadFunc != nil {
		return m.DownloadFunc(ctx, documentID, w)
	}
	return 0, nil
}

func (m *MockActions) CopyDefinition(ctx context.Context) error {
	if m.CopyDefinitionFunc != nil {
		return m.CopyDefinitionFunc(ctx)
	}
	return nil
}

func acmeWidget() domain.ProductResult {
	return domain.ProductResult{
		Product:      "Acme Widget",
		Domain:       "hardware",
		AIDefinition: "A widget.",
		Producers:    []domain.Producer{{Name: "Acme", City: "Berlin", Country: "DE"}},
		Occurrences:  &domain.Occurrences{Projects: []string{"p2"}, TotalOccurrences: 4},
		SourceDocument: domain.SourceDocument{
			Filename:          "widgets.pdf",
			ModifiedAt:        "2024-03-01",
			Tag:               "fasteners",
			DocumentID:        "doc1",
			ProjectID:         "p1",
			City:              "Hamburg",
			ContributionCount: 2,
		},
	}
}
