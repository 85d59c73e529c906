// Package search provides the main search view for the TUI.
package search

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/prodscout/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/prodscout/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/prodscout/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/prodscout/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/prodscout/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/prodscout/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/prodscout/internal/core/domain"
	"github.com/custodia-labs/prodscout/internal/core/ports/driving"
	"github.com/custodia-labs/prodscout/internal/logger"
)

// revealSkipper is implemented by sessions that can resolve a running reveal.
type revealSkipper interface {
	SkipReveal()
}

// View renders the current search snapshot and routes result actions.
//
// The view never holds reducer state of its own: every SnapshotChanged
// message pulls a fresh snapshot from the session.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SearchInput
	list      *list.ProductList
	statusbar *status.Bar
	spinner   spinner.Model

	session driving.SearchSession
	actions driving.ResultActionService
	ctx     context.Context
	opts    domain.SearchOptions

	snap       driving.Snapshot
	listGen    uint64
	loadedGen  uint64
	document   *driving.DocumentView
	confirm    *messages.ConfirmRequested
	notice     string
	err        error
	spinning   bool
	focusInput bool

	downloadDir string
	width       int
	height      int
	ready       bool
}

// NewView creates a new search view. actions may be nil, which disables
// star, copy, download and delete.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	session driving.SearchSession,
	actions driving.ResultActionService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(s.Stage))

	return &View{
		styles:      s,
		keymap:      km,
		input:       input.NewSearchInput(s),
		list:        list.NewProductList(s),
		statusbar:   status.NewBar(s, km),
		spinner:     sp,
		session:     session,
		actions:     actions,
		ctx:         context.Background(),
		snap:        driving.Snapshot{State: domain.Idle()},
		focusInput:  true,
		downloadDir: ".",
		width:       80,
		height:      24,
	}
}

// WithContext sets the context used for queries and actions.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// WithOptions sets the options sent with every query.
func (v *View) WithOptions(opts domain.SearchOptions) *View {
	v.opts = opts
	return v
}

// SetDownloadDir sets where downloaded documents are written.
func (v *View) SetDownloadDir(dir string) {
	v.downloadDir = dir
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
//
//nolint:gocyclo // central message handler
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SnapshotChanged:
		return v, v.refresh()

	case messages.SearchSubmitted:
		if msg.Err != nil {
			v.err = msg.Err
			v.focusInput = true
			v.input.Focus()
		}
		v.syncStatus()
		return v, v.refresh()

	case spinner.TickMsg:
		if v.snap.State.Kind != domain.StateStreaming || v.snap.Done {
			v.spinning = false
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case messages.ConfirmRequested:
		if v.confirm != nil {
			// One prompt at a time; the newer request is declined.
			msg.Reply <- false
			return v, nil
		}
		v.confirm = &msg
		v.syncStatus()
		return v, nil

	case messages.DocumentLoaded:
		if msg.Err != nil {
			logger.Warn("Loading document failed: %v", msg.Err)
			v.notice = "Could not load document details"
		} else if id, ok := v.snap.State.DocumentID(); ok && id == msg.View.DocumentID {
			doc := msg.View
			v.document = &doc
		}
		v.syncStatus()
		return v, nil

	case messages.StarToggled:
		v.handleStarToggled(msg)
		return v, nil

	case messages.ActionCompleted:
		v.handleActionCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.syncStatus()
		return v, nil
	}

	if v.focusInput {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.confirm != nil {
		return v.handleConfirmKey(msg)
	}
	if v.focusInput {
		return v.handleInputKey(msg)
	}

	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Cancel):
		if !v.snap.Done && v.snap.State.Kind != domain.StateIdle {
			v.session.Cancel()
			v.notice = "Cancelled"
			return v, v.refresh()
		}
		return v, v.focus()
	case keymap.Matches(key, v.keymap.NewSearch):
		v.input.Reset()
		return v, v.focus()
	case key == "q":
		return v, func() tea.Msg { return messages.Quit{} }
	case keymap.Matches(key, v.keymap.Help):
		return v, changeView(messages.ViewHelp)
	case keymap.Matches(key, v.keymap.Settings):
		return v, changeView(messages.ViewSettings)
	}

	switch v.snap.State.Kind {
	case domain.StateMultipleResults:
		return v.handleListKey(msg)
	case domain.StateSingleResult:
		return v.handleSingleKey(key)
	case domain.StateIdle, domain.StateStreaming, domain.StateNoResults,
		domain.StateError, domain.StatePlainText:
	}
	return v, nil
}

func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEnter:
		query := v.input.Submit()
		if query == "" {
			return v, nil
		}
		return v, v.submit(query)
	case tea.KeyEsc:
		if v.snap.State.Kind != domain.StateIdle {
			v.focusInput = false
			v.input.Blur()
			v.syncStatus()
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleListKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if keymap.Matches(msg.String(), v.keymap.Select) {
		item, ok := v.list.SelectedItem()
		if !ok {
			return v, nil
		}
		v.input.SetValue(item.Product)
		return v, v.submit(v.input.Submit())
	}
	v.list, _ = v.list.Update(msg)
	return v, nil
}

func (v *View) handleSingleKey(key string) (*View, tea.Cmd) {
	product := v.snap.State.Product
	docID, hasDoc := v.snap.State.DocumentID()

	switch {
	case keymap.Matches(key, v.keymap.Skip):
		if skipper, ok := v.session.(revealSkipper); ok {
			skipper.SkipReveal()
			return v, v.refresh()
		}
		return v, nil
	case v.actions == nil:
		if keymap.Matches(key, v.keymap.Star) || keymap.Matches(key, v.keymap.Copy) ||
			keymap.Matches(key, v.keymap.Download) || keymap.Matches(key, v.keymap.DeleteTag) {
			v.notice = ErrNoActions.Error()
			v.syncStatus()
		}
		return v, nil
	case keymap.Matches(key, v.keymap.Star) && hasDoc:
		return v, v.toggleStar(product, docID)
	case keymap.Matches(key, v.keymap.Copy):
		return v, v.copyDefinition()
	case keymap.Matches(key, v.keymap.Download) && hasDoc:
		return v, v.download(docID, product.SourceDocument.Filename)
	case keymap.Matches(key, v.keymap.DeleteTag):
		return v, v.deleteTag(product.Product)
	}
	return v, nil
}

func (v *View) handleConfirmKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	var answer bool
	switch {
	case keymap.Matches(key, v.keymap.Confirm):
		answer = true
	case keymap.Matches(key, v.keymap.Deny):
		answer = false
	default:
		return v, nil
	}
	v.confirm.Reply <- answer
	v.confirm = nil
	v.syncStatus()
	return v, nil
}

func (v *View) handleStarToggled(msg messages.StarToggled) {
	if v.actions != nil {
		doc := v.actions.Document(msg.DocumentID)
		v.document = &doc
	}
	switch {
	case msg.Err != nil:
		v.notice = "Star failed: " + msg.Err.Error()
	case msg.Starred:
		v.notice = "Starred"
	default:
		v.notice = "Unstarred"
	}
	v.syncStatus()
}

func (v *View) handleActionCompleted(msg messages.ActionCompleted) {
	switch {
	case errors.Is(msg.Err, domain.ErrConfirmationDeclined):
		v.notice = "Cancelled"
	case msg.Err != nil:
		v.notice = fmt.Sprintf("%s failed: %v", msg.Action, msg.Err)
	default:
		v.notice = msg.Message
	}
	v.syncStatus()
}

// refresh pulls the latest snapshot and derives the list, status and any
// follow-up commands from it.
func (v *View) refresh() tea.Cmd {
	if v.session == nil {
		return nil
	}
	prev := v.snap
	v.snap = v.session.Snapshot()
	st := v.snap.State

	var cmds []tea.Cmd
	if v.snap.Generation != prev.Generation && st.Kind == domain.StateIdle {
		v.document = nil
		v.notice = ""
	}
	if st.Kind == domain.StateMultipleResults && (v.listGen != v.snap.Generation || prev.State.Kind != st.Kind) {
		v.listGen = v.snap.Generation
		v.list.SetItems(st.Products)
	}
	if docID, ok := st.DocumentID(); ok && v.actions != nil && v.loadedGen != v.snap.Generation {
		v.loadedGen = v.snap.Generation
		cmds = append(cmds, v.loadDocument(docID))
	}
	if st.Kind == domain.StateStreaming && !v.snap.Done && !v.spinning {
		v.spinning = true
		cmds = append(cmds, v.spinner.Tick)
	}

	v.syncStatus()
	return tea.Batch(cmds...)
}

func (v *View) syncStatus() {
	bar := v.statusbar
	bar.SetMessage(v.notice)

	if v.confirm != nil {
		bar.SetState(status.StateConfirm)
		return
	}
	if v.err != nil {
		bar.SetState(status.StateError)
		bar.SetMessage(v.err.Error())
		return
	}

	st := v.snap.State
	switch st.Kind {
	case domain.StateIdle:
		bar.SetState(status.StateReady)
	case domain.StateStreaming:
		bar.SetState(status.StateStreaming)
		if v.notice == "" {
			bar.SetMessage(st.Stage)
		}
	case domain.StateSingleResult:
		bar.SetState(status.StateSingle)
	case domain.StateMultipleResults:
		bar.SetState(status.StateList)
		bar.SetCount(len(st.Products))
	case domain.StateError:
		bar.SetState(status.StateError)
		bar.SetMessage(st.Message)
	case domain.StateNoResults, domain.StatePlainText:
		bar.SetState(status.StateDone)
	}
	if v.focusInput && st.IsTerminal() && st.Kind != domain.StateError {
		bar.SetState(status.StateReady)
	}
}

func (v *View) focus() tea.Cmd {
	v.focusInput = true
	v.syncStatus()
	return v.input.Focus()
}

func (v *View) submit(query string) tea.Cmd {
	v.err = nil
	v.notice = ""
	v.document = nil
	v.focusInput = false
	v.input.Blur()

	session, ctx, opts := v.session, v.ctx, v.opts
	return func() tea.Msg {
		if session == nil {
			return messages.SearchSubmitted{Query: query, Err: ErrNoSearchSession}
		}
		return messages.SearchSubmitted{Query: query, Err: session.Submit(ctx, query, opts)}
	}
}

func (v *View) loadDocument(docID string) tea.Cmd {
	actions, ctx := v.actions, v.ctx
	return func() tea.Msg {
		doc, err := actions.LoadDocument(ctx, docID)
		return messages.DocumentLoaded{View: doc, Err: err}
	}
}

// toggleStar shows the flipped star at once; StarToggled then replaces it
// with the coordinator's view, which holds the reverted value on failure.
func (v *View) toggleStar(p *domain.ProductResult, docID string) tea.Cmd {
	doc := driving.DocumentView{DocumentID: docID, ContributionCount: p.SourceDocument.ContributionCount}
	if v.document != nil && v.document.DocumentID == docID {
		doc = *v.document
	}
	doc.IsStarred = !v.starred(p)
	v.document = &doc

	actions, ctx := v.actions, v.ctx
	return func() tea.Msg {
		starred, err := actions.ToggleStar(ctx, docID)
		return messages.StarToggled{DocumentID: docID, Starred: starred, Err: err}
	}
}

func (v *View) copyDefinition() tea.Cmd {
	actions, ctx := v.actions, v.ctx
	return func() tea.Msg {
		if err := actions.CopyDefinition(ctx); err != nil {
			return messages.ActionCompleted{Action: "Copy", Err: err}
		}
		return messages.ActionCompleted{Action: "Copy", Message: "Definition copied"}
	}
}

func (v *View) download(docID, filename string) tea.Cmd {
	actions, ctx, dir := v.actions, v.ctx, v.downloadDir
	return func() tea.Msg {
		name := filepath.Base(filename)
		if name == "." || name == string(filepath.Separator) {
			name = docID
		}
		path := filepath.Join(dir, name)

		f, err := os.Create(path) //nolint:gosec // G304: name is reduced to its base
		if err != nil {
			return messages.ActionCompleted{Action: "Download", Err: err}
		}
		n, err := actions.Download(ctx, docID, f)
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			_ = os.Remove(path)
			return messages.ActionCompleted{Action: "Download", Err: err}
		}
		return messages.ActionCompleted{
			Action:  "Download",
			Message: fmt.Sprintf("Saved %s (%d bytes)", path, n),
		}
	}
}

func (v *View) deleteTag(product string) tea.Cmd {
	actions, ctx := v.actions, v.ctx
	return func() tea.Msg {
		if err := actions.DeleteProductTag(ctx, product); err != nil {
			return messages.ActionCompleted{Action: "Delete tag", Err: err}
		}
		return messages.ActionCompleted{Action: "Delete tag", Message: fmt.Sprintf("Tag for %s deleted", product)}
	}
}

func changeView(view messages.ViewType) tea.Cmd {
	return func() tea.Msg { return messages.ViewChanged{View: view} }
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, v.styles.Title.Render("prodscout"), "", v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.renderBody())

	if v.confirm != nil {
		sections = append(sections, "", v.renderConfirm())
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10) // Reserve space for header, input, status
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Snapshot returns the last snapshot the view rendered.
func (v *View) Snapshot() driving.Snapshot {
	return v.snap
}

// Query returns the current input text.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the input text.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Notice returns the last action outcome shown in the status bar.
func (v *View) Notice() string {
	return v.notice
}

// Confirming returns whether a confirmation dialog is open.
func (v *View) Confirming() bool {
	return v.confirm != nil
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Reset returns the view to input mode. The session state is left alone.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.err = nil
	v.notice = ""
	v.syncStatus()
}
