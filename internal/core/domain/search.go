package domain

import "strings"

// SearchOptions configures a streamed search.
type SearchOptions struct {
	// Limit is the maximum number of candidate products. Zero lets the server decide.
	Limit int `json:"limit,omitempty"`

	// Projects restricts the search to these project identifiers.
	Projects []string `json:"projects,omitempty"`

	// Cities restricts the search to documents from these cities.
	Cities []string `json:"cities,omitempty"`
}

// SearchRequest is the body of POST /search/stream.
type SearchRequest struct {
	Query   string        `json:"query"`
	Options SearchOptions `json:"options"`
}

// NormaliseQuery trims and lower-cases a query so equivalent queries share a cache key.
func NormaliseQuery(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}
