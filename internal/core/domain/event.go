package domain

import "time"

// EventType discriminates the StreamEvent union.
type EventType string

// Event types carried in the `type` field of each stream frame.
const (
	EventSearchStarted   EventType = "search_started"
	EventStageUpdate     EventType = "stage_update"
	EventContentChunk    EventType = "content_chunk"
	EventDocumentGroups  EventType = "document_groups"
	EventSingleResult    EventType = "single_result"
	EventMultipleResults EventType = "multiple_results"
	EventNoResults       EventType = "no_results"
	EventError           EventType = "error"
	EventContentComplete EventType = "content_complete"
	EventSearchComplete  EventType = "search_complete"
)

// IsValid returns true if the event type is recognised.
func (t EventType) IsValid() bool {
	switch t {
	case EventSearchStarted, EventStageUpdate, EventContentChunk, EventDocumentGroups,
		EventSingleResult, EventMultipleResults, EventNoResults, EventError,
		EventContentComplete, EventSearchComplete:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if an event of this type ends its stream.
func (t EventType) IsTerminal() bool {
	switch t {
	case EventSingleResult, EventMultipleResults, EventNoResults, EventError,
		EventContentComplete, EventSearchComplete:
		return true
	default:
		return false
	}
}

// String returns the wire name of the event type.
func (t EventType) String() string {
	return string(t)
}

// StreamEvent is one unit delivered by the search stream.
// Only the fields belonging to Type are meaningful.
type StreamEvent struct {
	Type EventType `json:"type"`

	// Timestamp is set on search_started when the server sent a usable one.
	Timestamp *time.Time `json:"timestamp,omitempty"`

	// Stage and Message are set on stage_update. Message is also used by
	// no_results and error.
	Stage   string `json:"stage,omitempty"`
	Message string `json:"message,omitempty"`

	// Text is set on content_chunk.
	Text string `json:"text,omitempty"`

	// Groups is set on document_groups.
	Groups map[string][]DocumentRef `json:"groups,omitempty"`

	// Product is set on single_result.
	Product *ProductResult `json:"product,omitempty"`

	// Products is set on multiple_results.
	Products []ProductListItem `json:"products,omitempty"`
}

// IsTerminal returns true if the event ends its stream.
func (e StreamEvent) IsTerminal() bool {
	return e.Type.IsTerminal()
}

// SearchStarted builds a search_started event.
func SearchStarted(ts time.Time) StreamEvent {
	ev := StreamEvent{Type: EventSearchStarted}
	if !ts.IsZero() {
		ev.Timestamp = &ts
	}
	return ev
}

// StageUpdate builds a stage_update event.
func StageUpdate(stage, message string) StreamEvent {
	return StreamEvent{Type: EventStageUpdate, Stage: stage, Message: message}
}

// ContentChunk builds a content_chunk event.
func ContentChunk(text string) StreamEvent {
	return StreamEvent{Type: EventContentChunk, Text: text}
}

// DocumentGroups builds a document_groups event.
func DocumentGroups(groups map[string][]DocumentRef) StreamEvent {
	return StreamEvent{Type: EventDocumentGroups, Groups: groups}
}

// SingleResultEvent builds a single_result event.
func SingleResultEvent(product ProductResult) StreamEvent {
	return StreamEvent{Type: EventSingleResult, Product: &product}
}

// MultipleResultsEvent builds a multiple_results event.
func MultipleResultsEvent(products []ProductListItem) StreamEvent {
	return StreamEvent{Type: EventMultipleResults, Products: products}
}

// NoResultsEvent builds a no_results event. The message may be empty.
func NoResultsEvent(message string) StreamEvent {
	return StreamEvent{Type: EventNoResults, Message: message}
}

// ErrorEvent builds an error event.
func ErrorEvent(message string) StreamEvent {
	return StreamEvent{Type: EventError, Message: message}
}

// ContentComplete builds a content_complete event.
func ContentComplete() StreamEvent {
	return StreamEvent{Type: EventContentComplete}
}

// SearchComplete builds a search_complete event.
func SearchComplete() StreamEvent {
	return StreamEvent{Type: EventSearchComplete}
}
