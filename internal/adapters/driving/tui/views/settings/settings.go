// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/prodscout/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/prodscout/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/prodscout/internal/core/domain"
	"github.com/custodia-labs/prodscout/internal/core/ports/driving"
)

// ErrNoSettingsService is returned when the view has no settings service.
var ErrNoSettingsService = errors.New("settings service not available")

const tokenKey = "server.token" //nolint:gosec // G101: config key name

// View lists every config key and edits one at a time.
//
// Most keys are read at startup, so a note reminds the user that server
// and cache changes apply on the next launch.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	settings *domain.AppSettings
	keys     []string
	err      error
	saved    string

	selected int
	editing  bool
	input    textinput.Model

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.CharLimit = 512

	var keys []string
	if settingsService != nil {
		keys = settingsService.Keys()
	}

	return &View{
		styles:          s,
		settingsService: settingsService,
		keys:            keys,
		input:           ti,
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

func (v *View) loadSettings() tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsLoaded{Err: ErrNoSettingsService}
		}
		settings, err := svc.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

func (v *View) save(key, value string) tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsSaved{Key: key, Err: ErrNoSettingsService}
		}
		return messages.SettingsSaved{Key: key, Err: svc.Set(key, value)}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.settings = msg.Settings
			v.err = nil
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.saved = msg.Key
		return v, v.loadSettings()

	case messages.ConfigReloaded:
		return v, v.loadSettings()

	case tea.KeyMsg:
		if v.editing {
			return v.handleEditKey(msg)
		}
		return v.handleListKey(msg)
	}

	if v.editing {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleListKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewSearch} }
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.keys)-1 {
			v.selected++
		}
	case "enter":
		if len(v.keys) == 0 {
			return v, nil
		}
		key := v.keys[v.selected]
		v.editing = true
		v.saved = ""
		v.input.Reset()
		if key == tokenKey {
			v.input.EchoMode = textinput.EchoPassword
			v.input.Placeholder = "new token"
		} else {
			v.input.EchoMode = textinput.EchoNormal
			v.input.Placeholder = ""
			v.input.SetValue(valueOf(v.settings, key))
			v.input.CursorEnd()
		}
		return v, v.input.Focus()
	}
	return v, nil
}

func (v *View) handleEditKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEsc:
		v.editing = false
		v.input.Blur()
		return v, nil
	case tea.KeyEnter:
		v.editing = false
		v.input.Blur()
		return v, v.save(v.keys[v.selected], v.input.Value())
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n\n")
	}

	width := 0
	for _, key := range v.keys {
		if len(key) > width {
			width = len(key)
		}
	}

	for i, key := range v.keys {
		value := valueOf(v.settings, key)
		if key == tokenKey {
			value = maskToken(value)
		}
		line := fmt.Sprintf("%-*s  ", width, key)
		switch {
		case i == v.selected && v.editing:
			b.WriteString(v.styles.Selected.Render("> "+line) + v.input.View())
		case i == v.selected:
			b.WriteString(v.styles.Selected.Render("> " + line + value))
		default:
			b.WriteString(v.styles.Normal.Render("  "+line) + v.styles.Muted.Render(value))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.saved != "" {
		b.WriteString(v.styles.Success.Render("Saved " + v.saved))
		b.WriteString("\n")
	}
	b.WriteString(v.styles.Muted.Render("Server and cache changes apply on the next launch."))
	b.WriteString("\n\n")
	if v.editing {
		b.WriteString(v.styles.Help.Render("[enter] save  [esc] cancel"))
	} else {
		b.WriteString(v.styles.Help.Render("[j/k] navigate  [enter] edit  [esc] back"))
	}
	return b.String()
}

// valueOf renders the current value of key in the form Set accepts.
func valueOf(s *domain.AppSettings, key string) string {
	if s == nil {
		return ""
	}
	switch key {
	case "server.base_url":
		return s.Server.BaseURL
	case tokenKey:
		return s.Server.Token
	case "server.timeout_seconds":
		return strconv.Itoa(int(s.Server.Timeout / time.Second))
	case "api.rate_per_second":
		return strconv.FormatFloat(s.Server.RatePerSecond, 'g', -1, 64)
	case "stream.typewriter_ms":
		return strconv.Itoa(int(s.Stream.TypewriterInterval / time.Millisecond))
	case "stream.reveal":
		return strconv.FormatBool(s.Stream.Reveal)
	case "cache.backend":
		return s.Cache.Backend.String()
	case "cache.ttl_seconds":
		return strconv.Itoa(int(s.Cache.TTL / time.Second))
	}
	return ""
}

func maskToken(token string) string {
	if token == "" {
		return "(not set)"
	}
	if len(token) <= 4 {
		return "****"
	}
	return "****" + token[len(token)-4:]
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Editing returns whether a value is being edited.
func (v *View) Editing() bool {
	return v.editing
}

// Selected returns the index of the highlighted key.
func (v *View) Selected() int {
	return v.selected
}

// Err returns the last load or save error.
func (v *View) Err() error {
	return v.err
}

// Reset clears editing state and errors.
func (v *View) Reset() {
	v.editing = false
	v.input.Blur()
	v.err = nil
	v.saved = ""
}
