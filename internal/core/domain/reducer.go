package domain

// Reduce applies one stream event to the prior state and returns the next state.
//
// Reduce is pure. Resetting to Idle when a new query starts is the caller's
// job; Reduce only ever sees events belonging to one stream.
//
// Once a terminal variant is set every further event is a no-op, so replayed
// or duplicated frames cannot disturb a settled state.
func Reduce(prior ReducerState, ev StreamEvent) ReducerState {
	if prior.IsTerminal() {
		return prior
	}

	switch ev.Type {
	case EventSearchStarted:
		return Streaming("", "")

	case EventStageUpdate:
		return Streaming(prior.PartialText, ev.Stage)

	case EventContentChunk:
		return Streaming(prior.PartialText+ev.Text, prior.Stage)

	case EventDocumentGroups:
		return prior

	case EventSingleResult:
		if ev.Product == nil || ev.Product.Product == "" {
			return Failed(MessageInvalidResult)
		}
		return SingleResult(*ev.Product)

	case EventMultipleResults:
		if len(ev.Products) == 0 {
			return NoResults("")
		}
		return MultipleResults(ev.Products)

	case EventNoResults:
		return NoResults(ev.Message)

	case EventError:
		return Failed(ev.Message)

	case EventContentComplete, EventSearchComplete:
		if prior.PartialText == "" {
			return NoResults("")
		}
		return PlainText(prior.PartialText)
	}

	// Unknown types never reach here from the decoder, but stay inert if they do.
	return prior
}

// ReduceAll folds a sequence of events over a fresh Idle state.
func ReduceAll(events ...StreamEvent) ReducerState {
	state := Idle()
	for _, ev := range events {
		state = Reduce(state, ev)
	}
	return state
}
