package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/custodia-labs/prodscout/internal/core/domain"
	"github.com/custodia-labs/prodscout/internal/core/ports/driving"
)

var (
	bold    = color.New(color.Bold).SprintFunc()
	faint   = color.New(color.Faint).SprintFunc()
	heading = color.New(color.Bold, color.FgCyan).SprintFunc()
	warn    = color.New(color.FgYellow).SprintFunc()
	failure = color.New(color.FgRed).SprintFunc()
)

// resultPrinter writes a search to a line-oriented terminal.
// It is fed every snapshot and prints only what is new since the last one.
type resultPrinter struct {
	out    io.Writer
	status io.Writer

	// tagDeleted hides tags removed earlier in the process. Optional.
	tagDeleted func(product string) bool

	cachedShown bool
	stage       string
	streamed    int
	settled     bool

	// single result progress
	section int
	typed   int
	filters bool
}

func newResultPrinter(out, status io.Writer) *resultPrinter {
	return &resultPrinter{out: out, status: status}
}

// Update prints the difference between the last snapshot and snap.
func (p *resultPrinter) Update(snap driving.Snapshot) {
	if snap.Cached != nil && !p.cachedShown {
		p.cachedShown = true
		fmt.Fprintln(p.status, faint("Last time: "+summarise(*snap.Cached)))
	}

	state := snap.State
	switch state.Kind {
	case domain.StateIdle:
		return

	case domain.StateStreaming:
		if state.Stage != "" && state.Stage != p.stage {
			p.stage = state.Stage
			fmt.Fprintln(p.status, faint("… "+state.Stage))
		}
		p.streamPartial(state.PartialText)
		return

	case domain.StateSingleResult:
		p.settle()
		p.printSingle(*state.Product, snap.Reveal)
		if snap.Reveal == nil || snap.Reveal.Complete {
			p.printFilters(snap.Filters)
		}
		return
	}

	if p.settled {
		return
	}
	if state.Kind == domain.StatePlainText {
		// The answer continues the streamed line.
		p.settled = true
		p.streamPartial(state.Text)
		if p.streamed > 0 {
			fmt.Fprintln(p.out)
		}
		return
	}
	p.settle()

	switch state.Kind {
	case domain.StateMultipleResults:
		p.printList(state.Products)
		p.printFilters(snap.Filters)
	case domain.StateNoResults:
		fmt.Fprintln(p.out, warn(state.Message))
	case domain.StateError:
		fmt.Fprintln(p.status, failure("Error: "+state.Message))
	}
}

// streamPartial prints the unseen suffix of text.
func (p *resultPrinter) streamPartial(text string) {
	if len(text) <= p.streamed {
		return
	}
	fmt.Fprint(p.out, text[p.streamed:])
	p.streamed = len(text)
}

// settle ends any streamed partial line before a structured result.
func (p *resultPrinter) settle() {
	if p.settled {
		return
	}
	p.settled = true
	if p.streamed > 0 {
		fmt.Fprintln(p.out)
		fmt.Fprintln(p.out)
	}
}

// printSingle prints sections in order as they resolve. A section is only
// printed once every earlier one is, and the definition types out in full
// before the next section starts.
func (p *resultPrinter) printSingle(product domain.ProductResult, reveal *domain.RevealState) {
	resolved := domain.ResolvedRevealState(product.Identity(), len([]rune(product.AIDefinition)))
	if reveal == nil {
		reveal = &resolved
	}

	for p.section < len(domain.Sections) {
		name := domain.Sections[p.section]
		if !reveal.Section(name).Resolved {
			return
		}

		if name == domain.SectionDefinition {
			visible := []rune(reveal.VisibleDefinition(product.AIDefinition))
			if p.typed == 0 {
				fmt.Fprintln(p.out, heading("Definition"))
			}
			if len(visible) > p.typed {
				fmt.Fprint(p.out, string(visible[p.typed:]))
				p.typed = len(visible)
			}
			if !reveal.TypewriterDone {
				return
			}
			fmt.Fprintln(p.out)
			fmt.Fprintln(p.out)
			p.section++
			continue
		}

		p.printSection(name, product)
		p.section++
	}
}

func (p *resultPrinter) printSection(name domain.Section, product domain.ProductResult) {
	switch name {
	case domain.SectionHeader:
		title := bold(product.Product)
		if product.Domain != "" {
			title += faint(" · " + product.Domain)
		}
		fmt.Fprintln(p.out, title)
		fmt.Fprintln(p.out)

	case domain.SectionProducers:
		if len(product.Producers) == 0 {
			return
		}
		fmt.Fprintln(p.out, heading("Producers"))
		for _, pr := range product.Producers {
			fmt.Fprintf(p.out, "  - %s\n", joinNonEmpty(", ", pr.Name, pr.City, pr.Country))
		}
		fmt.Fprintln(p.out)

	case domain.SectionOccurrences:
		occ := product.Occurrences
		if occ == nil {
			return
		}
		fmt.Fprintln(p.out, heading("Occurrences"))
		fmt.Fprintf(p.out, "  Total:     %d\n", occ.TotalOccurrences)
		if len(occ.Projects) > 0 {
			fmt.Fprintf(p.out, "  Projects:  %s\n", strings.Join(occ.Projects, ", "))
		}
		if len(occ.Companies) > 0 {
			fmt.Fprintf(p.out, "  Companies: %s\n", strings.Join(occ.Companies, ", "))
		}
		fmt.Fprintln(p.out)

	case domain.SectionSource:
		doc := product.SourceDocument
		fmt.Fprintln(p.out, heading("Source"))
		fmt.Fprintf(p.out, "  %s %s\n", doc.Filename, faint("("+doc.DocumentID+")"))
		if where := joinNonEmpty(", ", doc.ProjectID, doc.City); where != "" {
			fmt.Fprintf(p.out, "  %s\n", where)
		}
		if doc.ModifiedAt != "" {
			fmt.Fprintf(p.out, "  Modified:      %s\n", doc.ModifiedAt)
		}
		if doc.Tag != "" && (p.tagDeleted == nil || !p.tagDeleted(product.Product)) {
			fmt.Fprintf(p.out, "  Tag:           %s\n", doc.Tag)
		}
		fmt.Fprintf(p.out, "  Contributions: %d\n", doc.ContributionCount)
		if doc.IsStarred {
			fmt.Fprintln(p.out, "  ★ starred")
		}
		if n := len(product.AllDocumentIDs); n > 1 {
			fmt.Fprintf(p.out, "  %d documents mention this product\n", n)
		}
		fmt.Fprintln(p.out)

	case domain.SectionDefinition:
	}
}

func (p *resultPrinter) printList(products []domain.ProductListItem) {
	fmt.Fprintf(p.out, "%s\n\n", heading(fmt.Sprintf("%d candidate products", len(products))))
	for i, item := range products {
		fmt.Fprintf(p.out, "  [%d] %s %s\n", i+1, bold(item.Product), faint(fmt.Sprintf("(%.2f)", item.BestMatchScore)))
		fmt.Fprintf(p.out, "      %d documents, %d chunks\n", item.DocumentCount, item.ChunkCount)
		if s := item.SampleDocument; s.Filename != "" {
			fmt.Fprintf(p.out, "      e.g. %s %s\n", s.Filename, faint("("+s.DocumentID+")"))
		}
	}
	fmt.Fprintln(p.out)
}

func (p *resultPrinter) printFilters(filters domain.FilterSet) {
	if p.filters || filters.IsEmpty() {
		return
	}
	p.filters = true
	if len(filters.Projects) > 0 {
		fmt.Fprintf(p.out, "%s %s\n", faint("Projects:"), strings.Join(filters.Projects, ", "))
	}
	if len(filters.Cities) > 0 {
		fmt.Fprintf(p.out, "%s %s\n", faint("Cities:"), strings.Join(filters.Cities, ", "))
	}
}

// summarise is a one-line description of a settled state.
func summarise(state domain.ReducerState) string {
	switch state.Kind {
	case domain.StateSingleResult:
		return state.Product.Product
	case domain.StateMultipleResults:
		return fmt.Sprintf("%d candidate products", len(state.Products))
	case domain.StatePlainText:
		return truncate(state.Text, 60)
	default:
		return state.Message
	}
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
