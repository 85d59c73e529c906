package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for prodscout resources.
	uriScheme = "prodscout://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "search/last",
		Name:        "last-search",
		Description: "Query, outcome and filters of the most recent search",
		MIMEType:    "application/json",
	}, s.handleLastSearchResource)

	if s.ports.Documents != nil {
		s.server.AddResourceTemplate(&mcp.ResourceTemplate{
			URITemplate: uriScheme + "documents/{documentId}",
			Name:        "document",
			Description: "Star status and contributions of a source document",
			MIMEType:    "application/json",
		}, s.handleDocumentResource)
	}
}

// handleLastSearchResource returns the session's current snapshot.
func (s *Server) handleLastSearchResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	snap := s.ports.Session.Snapshot()

	info := struct {
		Query   string `json:"query"`
		Done    bool   `json:"done"`
		State   any    `json:"state"`
		Filters any    `json:"filters"`
	}{
		Query:   snap.Query,
		Done:    snap.Done,
		State:   snap.State,
		Filters: snap.Filters,
	}

	return jsonResource(req.Params.URI, info)
}

// handleDocumentResource returns the star status and contributions of a document.
func (s *Server) handleDocumentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	docID := extractDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	view, err := s.ports.Documents.LoadDocument(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("loading document: %w", err)
	}

	return jsonResource(req.Params.URI, view)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractDocumentID extracts the document ID from a URI like prodscout://documents/{documentId}.
func extractDocumentID(uri string) string {
	const prefix = uriScheme + "documents/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
