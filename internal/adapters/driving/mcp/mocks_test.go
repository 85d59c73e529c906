package mcp

import (
	"context"
	"io"
	"sync"

	"github.com/custodia-labs/prodscout/internal/core/domain"
	"github.com/custodia-labs/prodscout/internal/core/ports/driving"
)

// mockSession settles every Submit immediately on a fixed state.
type mockSession struct {
	mu        sync.Mutex
	state     domain.ReducerState
	filters   domain.FilterSet
	submitErr error
	waitErr   error
	submitted []string
	opts      []domain.SearchOptions
	cancelled int
}

func (m *mockSession) Submit(_ context.Context, query string, opts domain.SearchOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.submitErr != nil {
		return m.submitErr
	}
	m.submitted = append(m.submitted, query)
	m.opts = append(m.opts, opts)
	return nil
}

func (m *mockSession) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelled++
}

func (m *mockSession) Snapshot() driving.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	query := ""
	if n := len(m.submitted); n > 0 {
		query = m.submitted[n-1]
	}
	return driving.Snapshot{Query: query, State: m.state, Filters: m.filters, Done: true}
}

func (m *mockSession) Wait(context.Context) error {
	return m.waitErr
}

func (m *mockSession) Subscribe(func(driving.Snapshot)) func() {
	return func() {}
}

// mockDocuments implements driving.ResultActionService with function fields.
type mockDocuments struct {
	LoadDocumentFunc func(ctx context.Context, documentID string) (driving.DocumentView, error)
	ToggleStarFunc   func(ctx context.Context, documentID string) (bool, error)
}

func (m *mockDocuments) LoadDocument(ctx context.Context, documentID string) (driving.DocumentView, error) {
	if m.LoadDocumentFunc != nil {
		return m.LoadDocumentFunc(ctx, documentID)
	}
	return driving.DocumentView{DocumentID: documentID}, nil
}

func (m *mockDocuments) Document(documentID string) driving.DocumentView {
	return driving.DocumentView{DocumentID: documentID}
}

func (m *mockDocuments) ToggleStar(ctx context.Context, documentID string) (bool, error) {
	if m.ToggleStarFunc != nil {
		return m.ToggleStarFunc(ctx, documentID)
	}
	return true, nil
}

func (m *mockDocuments) SubmitContribution(context.Context, string, string) (domain.Contribution, error) {
	return domain.Contribution{}, nil
}

func (m *mockDocuments) EditContribution(context.Context, string, string) (domain.Contribution, error) {
	return domain.Contribution{}, nil
}

func (m *mockDocuments) ToggleLike(context.Context, string) (domain.Contribution, error) {
	return domain.Contribution{}, nil
}

func (m *mockDocuments) SetLike(_ context.Context, id string, liked bool) (domain.Contribution, error) {
	return domain.Contribution{ID: id, UserLiked: liked}, nil
}

func (m *mockDocuments) DeleteProductTag(context.Context, string) error {
	return nil
}

func (m *mockDocuments) TagDeleted(string) bool { return false }

func (m *mockDocuments) DeleteContribution(context.Context, string) error {
	return nil
}

func (m *mockDocuments) Download(context.Context, string, io.Writer) (int64, error) {
	return 0, nil
}

func (m *mockDocuments) CopyDefinition(context.Context) error {
	return nil
}
