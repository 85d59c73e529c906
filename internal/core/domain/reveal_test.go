package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevealTimeline_Ordered(t *testing.T) {
	steps := RevealTimeline()

	require.NotEmpty(t, steps)
	for i := 1; i < len(steps); i++ {
		assert.LessOrEqual(t, steps[i-1].At, steps[i].At)
	}
	assert.Equal(t, RevealComplete, steps[len(steps)-1].Action)
	assert.Equal(t, int64(2500), steps[len(steps)-1].At.Milliseconds())
}

func TestRevealTimeline_SkeletonBeforeContent(t *testing.T) {
	expected := map[Section][2]int64{
		SectionHeader:      {0, 400},
		SectionDefinition:  {300, 700},
		SectionProducers:   {600, 1200},
		SectionOccurrences: {900, 1600},
		SectionSource:      {1200, 2000},
	}

	for _, step := range RevealTimeline() {
		if step.Action == RevealComplete {
			continue
		}
		want := expected[step.Section]
		if step.Action == RevealSkeleton {
			assert.Equal(t, want[0], step.At.Milliseconds(), "skeleton %s", step.Section)
		} else {
			assert.Equal(t, want[1], step.At.Milliseconds(), "content %s", step.Section)
		}
	}
}

func TestRevealTimeline_ReturnsCopy(t *testing.T) {
	steps := RevealTimeline()
	steps[0].At = 999

	assert.Equal(t, int64(0), RevealTimeline()[0].At.Milliseconds())
}

func TestNewRevealState_AllHidden(t *testing.T) {
	r := NewRevealState("doc1")

	require.Len(t, r.Sections, len(Sections))
	for i, s := range r.Sections {
		assert.Equal(t, Sections[i], s.Name)
		assert.False(t, s.Visible)
		assert.False(t, s.SkeletonActive)
	}
	assert.False(t, r.Complete)
}

func TestResolvedRevealState_NoSkeleton(t *testing.T) {
	r := ResolvedRevealState("doc1", 12)

	for _, s := range r.Sections {
		assert.True(t, s.Visible)
		assert.True(t, s.Resolved)
		assert.False(t, s.SkeletonActive)
	}
	assert.Equal(t, 12, r.TypewriterCursor)
	assert.True(t, r.TypewriterDone)
	assert.True(t, r.Complete)
}

func TestRevealState_ApplyFullTimeline(t *testing.T) {
	r := NewRevealState("doc1")

	r = r.Apply(RevealStep{Section: SectionHeader, Action: RevealSkeleton})
	header := r.Section(SectionHeader)
	assert.True(t, header.Visible)
	assert.True(t, header.SkeletonActive)

	for _, step := range RevealTimeline() {
		r = r.Apply(step)
	}

	for _, s := range r.Sections {
		assert.True(t, s.Resolved, s.Name)
		assert.False(t, s.SkeletonActive, s.Name)
	}
	assert.True(t, r.Complete)
}

func TestRevealState_ApplyDoesNotMutateReceiver(t *testing.T) {
	r := NewRevealState("doc1")
	_ = r.Apply(RevealStep{Section: SectionSource, Action: RevealContent})

	assert.False(t, r.Section(SectionSource).Visible)
}

func TestRevealState_TypewriterMonotonic(t *testing.T) {
	r := NewRevealState("doc1")
	definition := "héllo"
	total := len([]rune(definition))

	last := 0
	for i := 0; i < total+3; i++ {
		r = r.AdvanceTypewriter(total)
		assert.GreaterOrEqual(t, r.TypewriterCursor, last)
		last = r.TypewriterCursor
	}

	assert.Equal(t, total, r.TypewriterCursor)
	assert.True(t, r.TypewriterDone)
	assert.Equal(t, definition, r.VisibleDefinition(definition))
}

func TestRevealState_VisibleDefinitionPartial(t *testing.T) {
	r := NewRevealState("doc1").AdvanceTypewriter(5).AdvanceTypewriter(5)

	assert.Equal(t, "hé", r.VisibleDefinition("héllo"))
	assert.False(t, r.TypewriterDone)
}

func TestRevealState_ProgressGrowsAlongTimeline(t *testing.T) {
	state := NewRevealState("doc1")
	last := state.Progress()

	for _, step := range RevealTimeline() {
		state = state.Apply(step)
		assert.GreaterOrEqual(t, state.Progress(), last)
		last = state.Progress()
	}

	assert.Less(t, last, ResolvedRevealState("doc1", 4).Progress())
}
