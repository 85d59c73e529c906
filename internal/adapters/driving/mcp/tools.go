package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/prodscout/internal/core/domain"
)

// SearchInput is the input schema for the search_products tool.
type SearchInput struct {
	Query    string   `json:"query" jsonschema:"the product or question to search for"`
	Limit    int      `json:"limit,omitempty" jsonschema:"maximum number of candidate products (0 = server default)"`
	Projects []string `json:"projects,omitempty" jsonschema:"restrict the search to these project ids"`
}

// SearchOutput is the output schema for the search_products tool.
type SearchOutput struct {
	// Kind is one of single_result, multiple_results, no_results, error, plain_text.
	Kind     string                   `json:"kind"`
	Text     string                   `json:"text,omitempty"`
	Message  string                   `json:"message,omitempty"`
	Product  *domain.ProductResult    `json:"product,omitempty"`
	Products []domain.ProductListItem `json:"products,omitempty"`
	Filters  domain.FilterSet         `json:"filters"`
}

// StarInput is the input schema for the star_document tool.
type StarInput struct {
	DocumentID string `json:"document_id" jsonschema:"source document id from a search result"`
}

// StarOutput is the output schema for the star_document tool.
type StarOutput struct {
	DocumentID string `json:"document_id"`
	Starred    bool   `json:"starred"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "search_products",
		Description: "Search the product corpus. Returns a single product with its definition, " +
			"a ranked list of candidates, a plain answer, or nothing.",
	}, s.handleSearch)

	if s.ports.Documents != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "star_document",
			Description: "Toggle the star on a source document and return the new status",
		}, s.handleStar)
	}
}

// handleSearch runs one query to completion.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	s.searchMu.Lock()
	defer s.searchMu.Unlock()

	session := s.ports.Session
	opts := domain.SearchOptions{Limit: input.Limit, Projects: input.Projects}
	if err := session.Submit(ctx, input.Query, opts); err != nil {
		return nil, SearchOutput{}, err
	}
	if err := session.Wait(ctx); err != nil {
		session.Cancel()
		return nil, SearchOutput{}, fmt.Errorf("search interrupted: %w", err)
	}

	snap := session.Snapshot()
	state := snap.State
	output := SearchOutput{
		Kind:     state.Kind.String(),
		Text:     state.Text,
		Message:  state.Message,
		Product:  state.Product,
		Products: state.Products,
		Filters:  snap.Filters,
	}

	if state.Kind == domain.StateError {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{&mcp.TextContent{Text: state.Message}},
		}, output, nil
	}
	return nil, output, nil
}

// handleStar loads the current status and flips it.
func (s *Server) handleStar(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input StarInput,
) (*mcp.CallToolResult, StarOutput, error) {
	if _, err := s.ports.Documents.LoadDocument(ctx, input.DocumentID); err != nil {
		return nil, StarOutput{}, fmt.Errorf("loading document: %w", err)
	}
	starred, err := s.ports.Documents.ToggleStar(ctx, input.DocumentID)
	if err != nil {
		return nil, StarOutput{}, err
	}
	return nil, StarOutput{DocumentID: input.DocumentID, Starred: starred}, nil
}
