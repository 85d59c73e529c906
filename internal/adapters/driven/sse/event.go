package sse

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/custodia-labs/prodscout/internal/core/domain"
)

// ErrUnknownType is returned for frames whose type is not a known event.
var ErrUnknownType = errors.New("unknown event type")

// wireEvent mirrors the JSON body of a frame. Timestamps arrive either as
// RFC 3339 strings or as Unix epoch numbers.
type wireEvent struct {
	Type      domain.EventType                `json:"type"`
	Timestamp json.RawMessage                 `json:"timestamp"`
	Stage     string                          `json:"stage"`
	Message   string                          `json:"message"`
	Text      string                          `json:"text"`
	Groups    map[string][]domain.DocumentRef `json:"groups"`
	Product   *domain.ProductResult           `json:"product"`
	Products  []domain.ProductListItem        `json:"products"`
}

// ParseEvent decodes one frame payload.
func ParseEvent(payload []byte) (domain.StreamEvent, error) {
	var w wireEvent
	if err := json.Unmarshal(payload, &w); err != nil {
		return domain.StreamEvent{}, fmt.Errorf("decode frame: %w", err)
	}
	if !w.Type.IsValid() {
		return domain.StreamEvent{}, fmt.Errorf("%w: %q", ErrUnknownType, w.Type)
	}

	ev := domain.StreamEvent{Type: w.Type}
	switch w.Type {
	case domain.EventSearchStarted:
		if ts := parseTimestamp(w.Timestamp); !ts.IsZero() {
			ev.Timestamp = &ts
		}
	case domain.EventStageUpdate:
		ev.Stage = w.Stage
		ev.Message = w.Message
	case domain.EventContentChunk:
		ev.Text = w.Text
	case domain.EventDocumentGroups:
		ev.Groups = w.Groups
	case domain.EventSingleResult:
		ev.Product = w.Product
	case domain.EventMultipleResults:
		ev.Products = w.Products
	case domain.EventNoResults, domain.EventError:
		ev.Message = w.Message
	case domain.EventContentComplete, domain.EventSearchComplete:
	}
	return ev, nil
}

// parseTimestamp accepts RFC 3339 strings and Unix seconds or milliseconds.
// Anything else yields the zero time.
func parseTimestamp(raw json.RawMessage) time.Time {
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return fromEpoch(n)
		}
		return time.Time{}
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return fromEpoch(n)
	}
	return time.Time{}
}

func fromEpoch(n float64) time.Time {
	if n > 1e12 {
		return time.UnixMilli(int64(n)).UTC()
	}
	sec := int64(n)
	return time.Unix(sec, int64((n-float64(sec))*1e9)).UTC()
}
