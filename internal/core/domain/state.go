package domain

// StateKind discriminates the ReducerState union.
type StateKind string

// Reducer state variants.
const (
	StateIdle            StateKind = "idle"
	StateStreaming       StateKind = "streaming"
	StateSingleResult    StateKind = "single_result"
	StateMultipleResults StateKind = "multiple_results"
	StateNoResults       StateKind = "no_results"
	StateError           StateKind = "error"
	StatePlainText       StateKind = "plain_text"
)

// String returns the string representation.
func (k StateKind) String() string {
	return string(k)
}

// ReducerState is the single view state a search stream reduces to.
// Exactly one variant is active; fields belonging to other variants are zero.
type ReducerState struct {
	Kind StateKind `json:"kind"`

	// PartialText and Stage belong to Streaming.
	PartialText string `json:"partial_text,omitempty"`
	Stage       string `json:"stage,omitempty"`

	// Text belongs to PlainText.
	Text string `json:"text,omitempty"`

	// Product belongs to SingleResult.
	Product *ProductResult `json:"product,omitempty"`

	// Products belongs to MultipleResults and is sorted by descending score.
	Products []ProductListItem `json:"products,omitempty"`

	// Message belongs to NoResults and Error.
	Message string `json:"message,omitempty"`
}

// Idle is the state before any stream has started.
func Idle() ReducerState {
	return ReducerState{Kind: StateIdle}
}

// Streaming is the in-flight state.
func Streaming(partialText, stage string) ReducerState {
	return ReducerState{Kind: StateStreaming, PartialText: partialText, Stage: stage}
}

// SingleResult is the terminal state for one strong match.
func SingleResult(product ProductResult) ReducerState {
	return ReducerState{Kind: StateSingleResult, Product: &product}
}

// MultipleResults is the terminal state for several candidates.
// The products are stored sorted by descending best match score.
func MultipleResults(products []ProductListItem) ReducerState {
	return ReducerState{Kind: StateMultipleResults, Products: SortByScore(products)}
}

// NoResults is the terminal state when nothing matched.
func NoResults(message string) ReducerState {
	if message == "" {
		message = MessageDefaultNoResults
	}
	return ReducerState{Kind: StateNoResults, Message: message}
}

// Failed is the terminal error state.
func Failed(message string) ReducerState {
	if message == "" {
		message = MessageDefaultError
	}
	return ReducerState{Kind: StateError, Message: message}
}

// PlainText is the terminal state for a completed text-only answer.
func PlainText(text string) ReducerState {
	return ReducerState{Kind: StatePlainText, Text: text}
}

// IsTerminal returns true for the five outcome variants.
func (s ReducerState) IsTerminal() bool {
	switch s.Kind {
	case StateSingleResult, StateMultipleResults, StateNoResults, StateError, StatePlainText:
		return true
	default:
		return false
	}
}

// IsStable returns true for every variant other than Streaming.
func (s ReducerState) IsStable() bool {
	return s.Kind != StateStreaming
}

// BestMatch returns the top-scoring product of a MultipleResults state.
func (s ReducerState) BestMatch() (ProductListItem, bool) {
	if s.Kind != StateMultipleResults || len(s.Products) == 0 {
		return ProductListItem{}, false
	}
	return s.Products[0], true
}

// DocumentID returns the source document id of a SingleResult state.
func (s ReducerState) DocumentID() (string, bool) {
	if s.Kind != StateSingleResult || s.Product == nil || s.Product.SourceDocument.DocumentID == "" {
		return "", false
	}
	return s.Product.SourceDocument.DocumentID, true
}
