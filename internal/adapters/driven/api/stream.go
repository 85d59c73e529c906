package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/custodia-labs/prodscout/internal/adapters/driven/sse"
	"github.com/custodia-labs/prodscout/internal/core/domain"
	"github.com/custodia-labs/prodscout/internal/core/ports/driven"
	"github.com/custodia-labs/prodscout/internal/logger"
)

// Ensure Client implements the interfaces.
var (
	_ driven.EventSource = (*Client)(nil)
	_ driven.ProductAPI  = (*Client)(nil)
)

// Open starts a search stream. Cancelling ctx aborts the request and
// unblocks any pending read.
func (c *Client) Open(ctx context.Context, req domain.SearchRequest) (driven.EventStream, error) {
	httpReq, err := c.newRequest(ctx, http.MethodPost, c.endpoint("search", "stream"), req)
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Cache-Control", "no-cache")

	logger.Debug("POST %s (request %s)", httpReq.URL, httpReq.Header.Get(HeaderRequestID))

	resp, err := c.stream.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("open stream: %w: %w", domain.ErrTransport, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, statusError("open stream", resp)
	}

	return sse.NewEventReader(resp.Body), nil
}
