package settings

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/prodscout/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/prodscout/internal/core/domain"
)

// MockSettingsService is a mock implementation of driving.SettingsService.
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Get() (*domain.AppSettings, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AppSettings), args.Error(1)
}

func (m *MockSettingsService) Save(settings *domain.AppSettings) error {
	return m.Called(settings).Error(0)
}

func (m *MockSettingsService) Set(key, value string) error {
	return m.Called(key, value).Error(0)
}

func (m *MockSettingsService) Keys() []string {
	return []string{
		"server.base_url",
		"server.token",
		"server.timeout_seconds",
		"api.rate_per_second",
		"stream.typewriter_ms",
		"stream.reveal",
		"cache.backend",
		"cache.ttl_seconds",
	}
}

func (m *MockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func testSettings() *domain.AppSettings {
	s := domain.DefaultAppSettings()
	s.Server.Token = "secret-abcd"
	return &s
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loaded(t *testing.T, svc *MockSettingsService) *View {
	t.Helper()
	svc.On("Get").Return(testSettings(), nil)
	v := NewView(nil, svc)
	v.SetDimensions(100, 30)
	msg := v.Init()()
	v, _ = v.Update(msg)
	require.NoError(t, v.Err())
	return v
}

func TestNewView_NilService(t *testing.T) {
	v := NewView(nil, nil)

	msg := v.Init()()

	loadedMsg, ok := msg.(messages.SettingsLoaded)
	require.True(t, ok)
	assert.ErrorIs(t, loadedMsg.Err, ErrNoSettingsService)
}

func TestView_RendersValues(t *testing.T) {
	v := loaded(t, &MockSettingsService{})

	view := v.View()

	assert.Contains(t, view, "server.base_url")
	assert.Contains(t, view, "http://localhost:8000/api")
	assert.Contains(t, view, "30")
	assert.Contains(t, view, "****abcd")
	assert.NotContains(t, view, "secret-abcd")
	assert.Contains(t, view, "[enter] edit")
}

func TestView_LoadError(t *testing.T) {
	svc := &MockSettingsService{}
	svc.On("Get").Return(nil, errors.New("disk gone"))
	v := NewView(nil, svc)

	v, _ = v.Update(v.Init()())

	require.Error(t, v.Err())
	assert.Contains(t, v.View(), "disk gone")
}

func TestView_EditAndSave(t *testing.T) {
	svc := &MockSettingsService{}
	svc.On("Set", "server.timeout_seconds", "45").Return(nil)
	v := loaded(t, svc)

	v, _ = v.Update(key("down"))
	v, _ = v.Update(key("down"))
	require.Equal(t, 2, v.Selected())

	v, _ = v.Update(key("enter"))
	require.True(t, v.Editing())
	assert.Equal(t, "30", v.input.Value())

	v.input.SetValue("45")
	v, cmd := v.Update(key("enter"))
	require.NotNil(t, cmd)
	assert.False(t, v.Editing())

	v, reload := v.Update(cmd())
	require.NotNil(t, reload)
	assert.Contains(t, v.View(), "Saved server.timeout_seconds")
	svc.AssertExpectations(t)
}

func TestView_SaveErrorIsShown(t *testing.T) {
	svc := &MockSettingsService{}
	svc.On("Set", "server.base_url", "nope").Return(domain.ErrInvalidInput)
	v := loaded(t, svc)

	v, _ = v.Update(key("enter"))
	v.input.SetValue("nope")
	v, cmd := v.Update(key("enter"))
	v, _ = v.Update(cmd())

	assert.ErrorIs(t, v.Err(), domain.ErrInvalidInput)
}

func TestView_TokenEditStartsBlank(t *testing.T) {
	v := loaded(t, &MockSettingsService{})

	v, _ = v.Update(key("down"))
	v, _ = v.Update(key("enter"))

	assert.True(t, v.Editing())
	assert.Empty(t, v.input.Value())
}

func TestView_EscCancelsEditThenLeaves(t *testing.T) {
	v := loaded(t, &MockSettingsService{})

	v, _ = v.Update(key("enter"))
	v, cmd := v.Update(key("esc"))
	assert.False(t, v.Editing())
	assert.Nil(t, cmd)

	_, cmd = v.Update(key("esc"))
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewSearch}, cmd())
}

func TestView_ConfigReloadedRefetches(t *testing.T) {
	svc := &MockSettingsService{}
	v := loaded(t, svc)

	_, cmd := v.Update(messages.ConfigReloaded{})

	require.NotNil(t, cmd)
	_, ok := cmd().(messages.SettingsLoaded)
	assert.True(t, ok)
	svc.AssertNumberOfCalls(t, "Get", 2)
}

func TestValueOf(t *testing.T) {
	s := domain.DefaultAppSettings()
	s.Stream.TypewriterInterval = 20 * time.Millisecond
	s.Server.RatePerSecond = 2.5

	assert.Equal(t, "20", valueOf(&s, "stream.typewriter_ms"))
	assert.Equal(t, "2.5", valueOf(&s, "api.rate_per_second"))
	assert.Equal(t, "true", valueOf(&s, "stream.reveal"))
	assert.Equal(t, "memory", valueOf(&s, "cache.backend"))
	assert.Empty(t, valueOf(&s, "unknown"))
	assert.Empty(t, valueOf(nil, "server.base_url"))
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "(not set)", maskToken(""))
	assert.Equal(t, "****", maskToken("abc"))
	assert.True(t, strings.HasSuffix(maskToken("abcdefgh"), "efgh"))
}
