package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/prodscout/internal/adapters/driving/tui/styles"
)

func TestNewSearchInput(t *testing.T) {
	input := NewSearchInput(styles.DefaultStyles())

	require.NotNil(t, input)
	assert.Equal(t, "", input.Value())
	assert.True(t, input.Focused())
	assert.Empty(t, input.History())
}

func TestNewSearchInput_NilStyles(t *testing.T) {
	input := NewSearchInput(nil)

	require.NotNil(t, input)
	assert.NotNil(t, input.styles)
}

func TestSearchInput_Init(t *testing.T) {
	assert.NotNil(t, NewSearchInput(nil).Init())
}

func TestSearchInput_Typing(t *testing.T) {
	input := NewSearchInput(nil)

	updated, _ := input.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ab")})

	assert.Equal(t, input, updated)
	assert.Equal(t, "ab", input.Value())
}

func TestSearchInput_View(t *testing.T) {
	view := NewSearchInput(nil).View()

	assert.Contains(t, view, "Search")
}

func TestSearchInput_Submit(t *testing.T) {
	t.Run("trims and records", func(t *testing.T) {
		input := NewSearchInput(nil)
		input.SetValue("  Widget  ")

		assert.Equal(t, "Widget", input.Submit())
		assert.Equal(t, []string{"Widget"}, input.History())
	})

	t.Run("blank is ignored", func(t *testing.T) {
		input := NewSearchInput(nil)
		input.SetValue("   ")

		assert.Equal(t, "", input.Submit())
		assert.Empty(t, input.History())
	})

	t.Run("repeat is recorded once", func(t *testing.T) {
		input := NewSearchInput(nil)
		input.SetValue("Widget")
		input.Submit()
		input.Submit()

		assert.Len(t, input.History(), 1)
	})

	t.Run("history is bounded", func(t *testing.T) {
		input := NewSearchInput(nil)
		for i := 0; i < maxHistory+5; i++ {
			input.SetValue(string(rune('a'+i%26)) + string(rune('0'+i/26)))
			input.Submit()
		}

		assert.Len(t, input.History(), maxHistory)
	})
}

func TestSearchInput_HistoryRecall(t *testing.T) {
	input := NewSearchInput(nil)
	for _, q := range []string{"first", "second"} {
		input.SetValue(q)
		input.Submit()
	}
	input.Reset()

	up := tea.KeyMsg{Type: tea.KeyUp}
	down := tea.KeyMsg{Type: tea.KeyDown}

	input.Update(up)
	assert.Equal(t, "second", input.Value())
	input.Update(up)
	assert.Equal(t, "first", input.Value())
	input.Update(up)
	assert.Equal(t, "first", input.Value(), "stays on oldest entry")
	input.Update(down)
	assert.Equal(t, "second", input.Value())
	input.Update(down)
	assert.Equal(t, "", input.Value(), "walking past newest clears the field")
}

func TestSearchInput_HistoryRecall_Empty(t *testing.T) {
	input := NewSearchInput(nil)
	input.SetValue("draft")

	input.Update(tea.KeyMsg{Type: tea.KeyUp})

	assert.Equal(t, "draft", input.Value())
}

func TestSearchInput_FocusBlur(t *testing.T) {
	input := NewSearchInput(nil)

	input.Blur()
	assert.False(t, input.Focused())

	input.Focus()
	assert.True(t, input.Focused())
}

func TestSearchInput_SetWidth(t *testing.T) {
	input := NewSearchInput(nil)

	input.SetWidth(100)
	assert.Equal(t, 100, input.Width())
	assert.Equal(t, 86, input.textinput.Width)

	input.SetWidth(10)
	assert.Equal(t, 20, input.textinput.Width)
}
