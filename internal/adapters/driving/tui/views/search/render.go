package search

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/prodscout/internal/core/domain"
)

const skeletonBar = "░░░░░░░░░░░░░░░░░░░░░░░░"

func (v *View) renderBody() string {
	var parts []string

	st := v.snap.State
	if cached := v.snap.Cached; cached != nil && !st.IsTerminal() {
		parts = append(parts, v.styles.Muted.Render("Last time: "+summarise(*cached)), "")
	}

	switch st.Kind {
	case domain.StateIdle:
		if v.snap.Query == "" {
			parts = append(parts, v.styles.Muted.Render("Type a product name and press enter."))
		}
	case domain.StateStreaming:
		stage := st.Stage
		if stage == "" {
			stage = "Searching"
		}
		parts = append(parts, v.spinner.View()+" "+v.styles.Stage.Render(stage))
		if st.PartialText != "" {
			parts = append(parts, "", v.wrap(st.PartialText))
		}
	case domain.StatePlainText:
		parts = append(parts, v.wrap(st.Text))
	case domain.StateNoResults:
		parts = append(parts, v.styles.Warning.Render(st.Message))
	case domain.StateError:
		parts = append(parts, v.styles.Error.Render(st.Message))
	case domain.StateMultipleResults:
		parts = append(parts, v.list.View())
	case domain.StateSingleResult:
		parts = append(parts, v.renderSingle(st.Product))
	}

	if filters := v.renderFilters(); filters != "" {
		parts = append(parts, "", filters)
	}
	return strings.Join(parts, "\n")
}

// renderSingle draws each section according to the reveal state: hidden
// sections are skipped, pending ones show a skeleton.
func (v *View) renderSingle(p *domain.ProductResult) string {
	reveal := domain.ResolvedRevealState(p.Identity(), len([]rune(p.AIDefinition)))
	if v.snap.Reveal != nil {
		reveal = *v.snap.Reveal
	}

	var blocks []string
	for _, name := range domain.Sections {
		sec := reveal.Section(name)
		if !sec.Visible {
			continue
		}
		if sec.SkeletonActive || !sec.Resolved {
			blocks = append(blocks, v.renderSkeleton(name))
			continue
		}
		blocks = append(blocks, v.renderSection(name, p, reveal))
	}
	return strings.Join(blocks, "\n\n")
}

func (v *View) renderSkeleton(name domain.Section) string {
	bar := v.styles.Skeleton.Render(skeletonBar)
	if name == domain.SectionHeader {
		return bar
	}
	return v.styles.SectionTitle.Render(sectionTitle(name)) + "\n" + bar + "\n" + bar
}

func (v *View) renderSection(name domain.Section, p *domain.ProductResult, reveal domain.RevealState) string {
	switch name {
	case domain.SectionHeader:
		header := v.styles.Title.Render(p.Product)
		if p.Domain != "" {
			header += "  " + v.styles.Muted.Render(p.Domain)
		}
		if v.starred(p) {
			header += "  " + v.styles.Star.Render("★")
		}
		return header

	case domain.SectionDefinition:
		text := reveal.VisibleDefinition(p.AIDefinition)
		if !reveal.TypewriterDone {
			text += "▌"
		}
		return v.styles.SectionTitle.Render(sectionTitle(name)) + "\n" + v.wrap(text)

	case domain.SectionProducers:
		lines := []string{v.styles.SectionTitle.Render(sectionTitle(name))}
		if len(p.Producers) == 0 {
			lines = append(lines, v.styles.Muted.Render("None listed"))
		}
		for _, producer := range p.Producers {
			line := "• " + producer.Name
			if where := joinNonEmpty(", ", producer.City, producer.Country); where != "" {
				line += v.styles.Muted.Render(" (" + where + ")")
			}
			lines = append(lines, line)
		}
		return strings.Join(lines, "\n")

	case domain.SectionOccurrences:
		lines := []string{v.styles.SectionTitle.Render(sectionTitle(name))}
		occ := p.Occurrences
		if occ == nil {
			lines = append(lines, v.styles.Muted.Render("Not available"))
			return strings.Join(lines, "\n")
		}
		lines = append(lines, fmt.Sprintf("%d mentions", occ.TotalOccurrences))
		if len(occ.Projects) > 0 {
			lines = append(lines, "Projects: "+strings.Join(occ.Projects, ", "))
		}
		if len(occ.Companies) > 0 {
			lines = append(lines, "Companies: "+strings.Join(occ.Companies, ", "))
		}
		return strings.Join(lines, "\n")

	case domain.SectionSource:
		doc := p.SourceDocument
		lines := []string{
			v.styles.SectionTitle.Render(sectionTitle(name)),
			doc.Filename + v.styles.Muted.Render("  "+joinNonEmpty(" · ", doc.ModifiedAt, doc.ProjectID, doc.City)),
		}
		count := doc.ContributionCount
		if v.document != nil && v.document.DocumentID == doc.DocumentID {
			count = v.document.ContributionCount
		}
		lines = append(lines, v.styles.Muted.Render(fmt.Sprintf("%d contributions · %s", count, doc.DocumentID)))
		if doc.Tag != "" && !v.tagDeleted(p.Product) {
			lines = append(lines, "Tag: "+doc.Tag)
		}
		return strings.Join(lines, "\n")
	}
	return ""
}

func (v *View) starred(p *domain.ProductResult) bool {
	if v.document != nil && v.document.DocumentID == p.SourceDocument.DocumentID {
		return v.document.IsStarred
	}
	return p.SourceDocument.IsStarred
}

func (v *View) tagDeleted(product string) bool {
	return v.actions != nil && v.actions.TagDeleted(product)
}

func (v *View) renderFilters() string {
	f := v.snap.Filters
	if f.IsEmpty() || !v.snap.State.IsStable() {
		return ""
	}
	var parts []string
	if len(f.Projects) > 0 {
		parts = append(parts, "Projects: "+strings.Join(f.Projects, ", "))
	}
	if len(f.Cities) > 0 {
		parts = append(parts, "Cities: "+strings.Join(f.Cities, ", "))
	}
	return v.styles.Help.Render(strings.Join(parts, "   "))
}

func (v *View) renderConfirm() string {
	body := v.styles.Warning.Render(v.confirm.Prompt) + "\n\n" + v.styles.Muted.Render("[y] yes   [n] no")
	return v.styles.Dialog.Render(body)
}

func (v *View) wrap(text string) string {
	width := v.width - 4
	if width < 20 {
		width = 20
	}
	return v.styles.Normal.Width(width).Render(text)
}

func sectionTitle(name domain.Section) string {
	switch name {
	case domain.SectionHeader:
		return "Product"
	case domain.SectionDefinition:
		return "Definition"
	case domain.SectionProducers:
		return "Producers"
	case domain.SectionOccurrences:
		return "Occurrences"
	case domain.SectionSource:
		return "Source document"
	}
	return string(name)
}

// summarise describes a terminal state in one line.
func summarise(st domain.ReducerState) string {
	switch st.Kind {
	case domain.StateSingleResult:
		if st.Product != nil {
			return st.Product.Product
		}
	case domain.StateMultipleResults:
		return fmt.Sprintf("%d products", len(st.Products))
	case domain.StateNoResults, domain.StateError:
		return st.Message
	case domain.StatePlainText:
		text := []rune(st.Text)
		if len(text) > 60 {
			return string(text[:59]) + "…"
		}
		return st.Text
	case domain.StateIdle, domain.StateStreaming:
	}
	return string(st.Kind)
}

func joinNonEmpty(sep string, values ...string) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return strings.Join(out, sep)
}
