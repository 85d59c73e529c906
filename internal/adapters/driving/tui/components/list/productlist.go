// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/prodscout/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/prodscout/internal/core/domain"
)

// ProductList displays the candidates of a multiple-results outcome.
// Items are shown in the order given, which is descending score.
type ProductList struct {
	items    []domain.ProductListItem
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewProductList creates a new product list component.
func NewProductList(s *styles.Styles) *ProductList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ProductList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the product list.
func (r *ProductList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ProductList) Update(msg tea.Msg) (*ProductList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the product list.
func (r *ProductList) View() string {
	if len(r.items) == 0 {
		return r.styles.Muted.Render("No products")
	}

	lines := make([]string, 0, len(r.items)*2+2)
	header := r.styles.Subtitle.Render(fmt.Sprintf("%d products match", len(r.items)))
	lines = append(lines, header, "")

	// Two lines per item.
	visible := (r.height - 2) / 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := start + visible
	if end > len(r.items) {
		end = len(r.items)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderItem(i, r.items[i]))
	}
	if end < len(r.items) {
		lines = append(lines, r.styles.Muted.Render(fmt.Sprintf("  … %d more", len(r.items)-end)))
	}

	return strings.Join(lines, "\n")
}

func (r *ProductList) renderItem(index int, item domain.ProductListItem) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	name := item.Product
	maxName := r.width - 16
	if maxName < 10 {
		maxName = 10
	}
	if len([]rune(name)) > maxName {
		name = string([]rune(name)[:maxName-1]) + "…"
	}
	score := fmt.Sprintf("%3.0f%%", item.BestMatchScore*100)

	var title string
	if index == r.selected {
		title = r.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxName, name, score))
	} else {
		title = r.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxName, name)) +
			r.styles.Muted.Render(score)
	}

	detail := fmt.Sprintf("%d documents, %d chunks", item.DocumentCount, item.ChunkCount)
	if f := item.SampleDocument.Filename; f != "" {
		detail += " · " + f
	}
	return title + "\n" + r.styles.Muted.Render("    "+detail)
}

// SetItems replaces the list and resets the selection.
func (r *ProductList) SetItems(items []domain.ProductListItem) {
	r.items = items
	r.selected = 0
}

// Items returns the current items.
func (r *ProductList) Items() []domain.ProductListItem {
	return r.items
}

// Selected returns the index of the selected item.
func (r *ProductList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *ProductList) SetSelected(index int) {
	if index >= 0 && index < len(r.items) {
		r.selected = index
	}
}

// SelectedItem returns the highlighted item, or false if the list is empty.
func (r *ProductList) SelectedItem() (domain.ProductListItem, bool) {
	if r.selected < 0 || r.selected >= len(r.items) {
		return domain.ProductListItem{}, false
	}
	return r.items[r.selected], true
}

// MoveUp moves selection up.
func (r *ProductList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ProductList) MoveDown() {
	if r.selected < len(r.items)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ProductList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of items.
func (r *ProductList) Count() int {
	return len(r.items)
}
