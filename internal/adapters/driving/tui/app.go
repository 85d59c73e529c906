package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/prodscout/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/prodscout/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/prodscout/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/prodscout/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/prodscout/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/prodscout/internal/core/ports/driving"
	"github.com/custodia-labs/prodscout/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
//
// Session callbacks arrive on arbitrary goroutines. They only poke the
// updates channel; the program loop then pulls the snapshot itself.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	searchView   *search.View
	settingsView *settings.View

	currentView messages.ViewType

	updates     chan struct{}
	reloads     chan struct{}
	stop        chan struct{}
	stopOnce    sync.Once
	unsubscribe func()

	err    error
	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	a := &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		searchView:   search.NewView(s, km, ports.Session, ports.Actions).WithOptions(ports.Options),
		settingsView: settings.NewView(s, ports.Settings),
		currentView:  messages.ViewSearch,
		updates:      make(chan struct{}, 1),
		reloads:      make(chan struct{}, 1),
		stop:         make(chan struct{}),
	}
	a.unsubscribe = ports.Session.Subscribe(func(driving.Snapshot) { poke(a.updates) })
	return a, nil
}

// WithContext sets the context for queries and actions.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("prodscout"),
		a.searchView.Init(),
		a.waitFor(a.updates, messages.SnapshotChanged{}),
		a.waitFor(a.reloads, messages.ConfigReloaded{}),
	)
}

// waitFor returns a command that yields msg on the next signal from ch.
// It re-arms itself each time the message is handled.
func (a *App) waitFor(ch <-chan struct{}, msg tea.Msg) tea.Cmd {
	stop := a.stop
	return func() tea.Msg {
		select {
		case <-ch:
			return msg
		case <-stop:
			return nil
		}
	}
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, a.quit()
		}
		switch a.currentView {
		case messages.ViewSearch:
			a.searchView, cmd = a.searchView.Update(msg)
		case messages.ViewSettings:
			a.settingsView, cmd = a.settingsView.Update(msg)
		case messages.ViewHelp:
			if msg.Type == tea.KeyEsc || msg.String() == "q" || msg.String() == "?" {
				a.currentView = messages.ViewSearch
			}
		}
		return a, cmd

	case messages.SnapshotChanged:
		a.searchView, cmd = a.searchView.Update(msg)
		return a, tea.Batch(cmd, a.waitFor(a.updates, messages.SnapshotChanged{}))

	case messages.ConfigReloaded:
		logger.Debug("Config file changed, reloading settings")
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, tea.Batch(cmd, a.waitFor(a.reloads, messages.ConfigReloaded{}))

	case messages.ConfirmRequested:
		// Prompts always surface on the search view.
		a.currentView = messages.ViewSearch
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewSettings:
			a.settingsView.Reset()
			return a, a.settingsView.Init()
		case messages.ViewSearch, messages.ViewHelp:
		}
		return a, nil

	case messages.SettingsLoaded, messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd

	case messages.Quit:
		return a, a.quit()
	}

	switch a.currentView {
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
	}
	return a, cmd
}

func (a *App) quit() tea.Cmd {
	a.ports.Session.Cancel()
	a.Close()
	return tea.Quit
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	case messages.ViewSearch:
		return a.searchView.View()
	}
	return a.searchView.View()
}

func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(&b, "  %-8s %s\n", h.Key, h.Desc)
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("[esc] back"))
	return b.String()
}

// Run starts the TUI and blocks until it exits.
func (a *App) Run() error {
	defer a.Close()

	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	if c := a.ports.Confirmer; c != nil {
		c.Attach(p.Send)
		defer c.Attach(nil)
	}

	if watch := a.ports.WatchConfig; watch != nil {
		ctx, cancel := context.WithCancel(a.ctx)
		defer cancel()
		go func() {
			if err := watch(ctx, func() { poke(a.reloads) }); err != nil {
				logger.Warn("Config watch stopped: %v", err)
			}
		}()
	}

	_, err := p.Run()
	return err
}

// Close unsubscribes from the session and releases pending commands.
func (a *App) Close() {
	a.stopOnce.Do(func() {
		a.unsubscribe()
		close(a.stop)
	})
}

// poke signals ch without blocking; one pending signal is enough.
func poke(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// SearchView returns the search view.
func (a *App) SearchView() *search.View {
	return a.searchView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.searchView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
