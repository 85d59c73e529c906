package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"

	"github.com/custodia-labs/prodscout/internal/core/domain"
	"github.com/custodia-labs/prodscout/internal/core/ports/driving"
)

// fakeSession settles on a fixed snapshot as soon as a query is submitted.
type fakeSession struct {
	mu        sync.Mutex
	final     driving.Snapshot
	snap      driving.Snapshot
	subs      []func(driving.Snapshot)
	submitted []string
	opts      []domain.SearchOptions
	submitErr error
}

func newFakeSession(final driving.Snapshot) *fakeSession {
	return &fakeSession{final: final, snap: driving.Snapshot{State: domain.Idle()}}
}

func (f *fakeSession) Submit(_ context.Context, query string, opts domain.SearchOptions) error {
	f.mu.Lock()
	f.submitted = append(f.submitted, query)
	f.opts = append(f.opts, opts)
	if f.submitErr != nil {
		f.mu.Unlock()
		return f.submitErr
	}
	f.snap = f.final
	f.snap.Generation++
	f.snap.Query = query
	f.snap.Done = true
	snap, subs := f.snap, append([]func(driving.Snapshot){}, f.subs...)
	f.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
	return nil
}

func (f *fakeSession) Cancel() {}

func (f *fakeSession) Snapshot() driving.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func (f *fakeSession) Wait(context.Context) error { return nil }

func (f *fakeSession) Subscribe(fn func(driving.Snapshot)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, fn)
	return func() {}
}

// MockActions implements driving.ResultActionService with function fields.
type MockActions struct {
	LoadDocumentFunc       func(ctx context.Context, docID string) (driving.DocumentView, error)
	ToggleStarFunc         func(ctx context.Context, docID string) (bool, error)
	SubmitContributionFunc func(ctx context.Context, docID, text string) (domain.Contribution, error)
	EditContributionFunc   func(ctx context.Context, id, text string) (domain.Contribution, error)
	ToggleLikeFunc         func(ctx context.Context, id string) (domain.Contribution, error)
	SetLikeFunc            func(ctx context.Context, id string, liked bool) (domain.Contribution, error)
	DeleteProductTagFunc   func(ctx context.Context, product string) error
	DeleteContributionFunc func(ctx context.Context, id string) error
	DownloadFunc           func(ctx context.Context, docID string, w io.Writer) (int64, error)
}

func (m *MockActions) LoadDocument(ctx context.Context, docID string) (driving.DocumentView, error) {
	if m.LoadDocumentFunc != nil {
		return m.LoadDocumentFunc(ctx, docID)
	}
	return driving.DocumentView{DocumentID: docID}, nil
}

func (m *MockActions) Document(docID string) driving.DocumentView {
	return driving.DocumentView{DocumentID: docID}
}

func (m *MockActions) ToggleStar(ctx context.Context, docID string) (bool, error) {
	if m.ToggleStarFunc != nil {
		return m.ToggleStarFunc(ctx, docID)
	}
	return true, nil
}

func (m *MockActions) SubmitContribution(ctx context.Context, docID, text string) (domain.Contribution, error) {
	if m.SubmitContributionFunc != nil {
		return m.SubmitContributionFunc(ctx, docID, text)
	}
	return domain.Contribution{ID: "c1", Content: text}, nil
}

func (m *MockActions) EditContribution(ctx context.Context, id, text string) (domain.Contribution, error) {
	if m.EditContributionFunc != nil {
		return m.EditContributionFunc(ctx, id, text)
	}
	return domain.Contribution{ID: id, Content: text, IsEdited: true}, nil
}

func (m *MockActions) ToggleLike(ctx context.Context, id string) (domain.Contribution, error) {
	if m.ToggleLikeFunc != nil {
		return m.ToggleLikeFunc(ctx, id)
	}
	return domain.Contribution{ID: id, LikeCount: 1, UserLiked: true}, nil
}

func (m *MockActions) SetLike(ctx context.Context, id string, liked bool) (domain.Contribution, error) {
	if m.SetLikeFunc != nil {
		return m.SetLikeFunc(ctx, id, liked)
	}
	return domain.Contribution{ID: id, UserLiked: liked}, nil
}

func (m *MockActions) TagDeleted(string) bool { return false }

func (m *MockActions) DeleteProductTag(ctx context.Context, product string) error {
	if m.DeleteProductTagFunc != nil {
		return m.DeleteProductTagFunc(ctx, product)
	}
	return nil
}

func (m *MockActions) DeleteContribution(ctx context.Context, id string) error {
	if m.DeleteContributionFunc != nil {
		return m.DeleteContributionFunc(ctx, id)
	}
	return nil
}

func (m *MockActions) Download(ctx context.Context, docID string, w io.Writer) (int64, error) {
	if m.DownloadFunc != nil {
		return m.DownloadFunc(ctx, docID, w)
	}
	n, err := io.WriteString(w, "%PDF-1.7")
	return int64(n), err
}

func (m *MockActions) CopyDefinition(context.Context) error { return nil }

// MockSettingsService implements driving.SettingsService with function fields.
type MockSettingsService struct {
	settings domain.AppSettings
	GetErr   error
	SetFunc  func(key, value string) error
	set      map[string]string
}

func newMockSettings() *MockSettingsService {
	return &MockSettingsService{settings: domain.DefaultAppSettings(), set: make(map[string]string)}
}

func (m *MockSettingsService) Get() (*domain.AppSettings, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	s := m.settings
	return &s, nil
}

func (m *MockSettingsService) Save(s *domain.AppSettings) error {
	m.settings = *s
	return nil
}

func (m *MockSettingsService) Set(key, value string) error {
	if m.SetFunc != nil {
		if err := m.SetFunc(key, value); err != nil {
			return err
		}
	}
	m.set[key] = value
	return nil
}

func (m *MockSettingsService) Keys() []string { return []string{"server.base_url", "server.token"} }

func (m *MockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

// useServices injects services for one test.
func useServices(t *testing.T, svc *Services) {
	t.Helper()
	SetServices(svc)
	t.Cleanup(func() { SetServices(nil) })
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	color.NoColor = true

	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		searchJSON, searchNoReveal, assumeYes = false, false, false
		searchLimit, searchProjects = 0, nil
		downloadOutput = ""
	})

	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func widgetProduct() *domain.ProductResult {
	return &domain.ProductResult{
		Product:      "Widget",
		Domain:       "Hardware",
		AIDefinition: "A widget is a small device.",
		Producers:    []domain.Producer{{Name: "Acme", City: "Berlin", Country: "DE"}},
		Occurrences: &domain.Occurrences{
			Projects:         []string{"p1"},
			Companies:        []string{"Acme"},
			TotalOccurrences: 3,
		},
		SourceDocument: domain.SourceDocument{
			Filename:          "widgets.pdf",
			DocumentID:        "doc1",
			ProjectID:         "p1",
			City:              "Berlin",
			ContributionCount: 2,
		},
	}
}
