package domain

import "time"

// Section names a block of the single-result view.
type Section string

// Sections of the single-result view, in display order.
const (
	SectionHeader      Section = "header"
	SectionDefinition  Section = "definition"
	SectionProducers   Section = "producers"
	SectionOccurrences Section = "occurrences"
	SectionSource      Section = "source"
)

// Sections lists every section in display order.
var Sections = []Section{
	SectionHeader,
	SectionDefinition,
	SectionProducers,
	SectionOccurrences,
	SectionSource,
}

// RevealAction is what a timeline step does to its section.
type RevealAction string

// Timeline actions.
const (
	// RevealSkeleton makes the section visible as a placeholder.
	RevealSkeleton RevealAction = "skeleton"

	// RevealContent replaces the placeholder with the real content.
	RevealContent RevealAction = "content"

	// RevealTypewriter replaces the placeholder and starts the typewriter.
	RevealTypewriter RevealAction = "typewriter"

	// RevealComplete marks the whole sequence finished.
	RevealComplete RevealAction = "complete"
)

// RevealStep is one scheduled change, relative to the moment the single
// result arrived.
type RevealStep struct {
	At      time.Duration
	Section Section
	Action  RevealAction
}

// DefaultTypewriterInterval is the delay between two revealed runes.
const DefaultTypewriterInterval = 15 * time.Millisecond

// revealTimeline is ordered by At; steps sharing an instant keep this order.
var revealTimeline = []RevealStep{
	{At: 0, Section: SectionHeader, Action: RevealSkeleton},
	{At: 300 * time.Millisecond, Section: SectionDefinition, Action: RevealSkeleton},
	{At: 400 * time.Millisecond, Section: SectionHeader, Action: RevealContent},
	{At: 600 * time.Millisecond, Section: SectionProducers, Action: RevealSkeleton},
	{At: 700 * time.Millisecond, Section: SectionDefinition, Action: RevealTypewriter},
	{At: 900 * time.Millisecond, Section: SectionOccurrences, Action: RevealSkeleton},
	{At: 1200 * time.Millisecond, Section: SectionProducers, Action: RevealContent},
	{At: 1200 * time.Millisecond, Section: SectionSource, Action: RevealSkeleton},
	{At: 1600 * time.Millisecond, Section: SectionOccurrences, Action: RevealContent},
	{At: 2000 * time.Millisecond, Section: SectionSource, Action: RevealContent},
	{At: 2500 * time.Millisecond, Action: RevealComplete},
}

// RevealTimeline returns a copy of the fixed reveal schedule.
func RevealTimeline() []RevealStep {
	steps := make([]RevealStep, len(revealTimeline))
	copy(steps, revealTimeline)
	return steps
}

// SectionState is the presentation state of one section.
type SectionState struct {
	Name           Section `json:"name"`
	Visible        bool    `json:"visible"`
	SkeletonActive bool    `json:"skeleton_active"`
	Resolved       bool    `json:"resolved"`
}

// RevealState is the presentation-only disclosure state of a single result.
// It is derived, never persisted.
type RevealState struct {
	// Identity is the ProductResult identity this state belongs to.
	Identity string `json:"identity"`

	// Sections is ordered as Sections.
	Sections []SectionState `json:"sections"`

	// TypewriterCursor counts revealed runes of the definition. It only grows.
	TypewriterCursor int `json:"typewriter_cursor"`

	// TypewriterDone is set once the whole definition is revealed.
	TypewriterDone bool `json:"typewriter_done"`

	// Complete is set when the whole schedule has run.
	Complete bool `json:"complete"`
}

// NewRevealState returns a fresh state with every section hidden.
func NewRevealState(identity string) RevealState {
	sections := make([]SectionState, len(Sections))
	for i, name := range Sections {
		sections[i] = SectionState{Name: name}
	}
	return RevealState{Identity: identity, Sections: sections}
}

// ResolvedRevealState returns a state with every section already showing
// content and the definition fully typed.
func ResolvedRevealState(identity string, definitionLen int) RevealState {
	sections := make([]SectionState, len(Sections))
	for i, name := range Sections {
		sections[i] = SectionState{Name: name, Visible: true, Resolved: true}
	}
	return RevealState{
		Identity:         identity,
		Sections:         sections,
		TypewriterCursor: definitionLen,
		TypewriterDone:   true,
		Complete:         true,
	}
}

// Section returns the state of the named section.
func (r RevealState) Section(name Section) SectionState {
	for _, s := range r.Sections {
		if s.Name == name {
			return s
		}
	}
	return SectionState{Name: name}
}

// Apply returns a copy of r with the step applied.
func (r RevealState) Apply(step RevealStep) RevealState {
	next := r.clone()
	if step.Action == RevealComplete {
		next.Complete = true
		return next
	}
	for i := range next.Sections {
		if next.Sections[i].Name != step.Section {
			continue
		}
		switch step.Action {
		case RevealSkeleton:
			next.Sections[i].Visible = true
			next.Sections[i].SkeletonActive = !next.Sections[i].Resolved
		case RevealContent, RevealTypewriter:
			next.Sections[i].Visible = true
			next.Sections[i].SkeletonActive = false
			next.Sections[i].Resolved = true
		case RevealComplete:
		}
	}
	return next
}

// AdvanceTypewriter reveals one more rune of a definition of total runes.
func (r RevealState) AdvanceTypewriter(total int) RevealState {
	next := r.clone()
	if next.TypewriterCursor < total {
		next.TypewriterCursor++
	}
	if next.TypewriterCursor >= total {
		next.TypewriterCursor = total
		next.TypewriterDone = true
	}
	return next
}

// VisibleDefinition returns the part of definition revealed so far.
// Copy and export actions must use the full definition instead.
func (r RevealState) VisibleDefinition(definition string) string {
	runes := []rune(definition)
	if r.TypewriterDone || r.TypewriterCursor >= len(runes) {
		return definition
	}
	return string(runes[:r.TypewriterCursor])
}

// Progress is a monotonic measure of how far the reveal has run. A state
// with lower progress than another of the same identity is older.
func (r RevealState) Progress() int {
	n := r.TypewriterCursor
	for _, s := range r.Sections {
		if s.Visible {
			n++
		}
		if s.Resolved {
			n++
		}
	}
	if r.TypewriterDone {
		n++
	}
	if r.Complete {
		n++
	}
	return n
}

func (r RevealState) clone() RevealState {
	next := r
	next.Sections = make([]SectionState, len(r.Sections))
	copy(next.Sections, r.Sections)
	return next
}
