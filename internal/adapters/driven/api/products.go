package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/custodia-labs/prodscout/internal/core/domain"
)

type starResponse struct {
	IsStarred bool `json:"is_starred"`
}

type likeResponse struct {
	LikeCount int `json:"like_count"`
}

type contributionRequest struct {
	Content string `json:"content"`
}

// StarStatus reports whether the document is starred.
func (c *Client) StarStatus(ctx context.Context, documentID string) (bool, error) {
	var out starResponse
	err := c.call(ctx, "star status", http.MethodGet, c.endpoint("documents", documentID, "star"), nil, &out)
	return out.IsStarred, err
}

// Star stars the document.
func (c *Client) Star(ctx context.Context, documentID string) error {
	return c.call(ctx, "star", http.MethodPost, c.endpoint("documents", documentID, "star"), nil, nil)
}

// Unstar removes the star.
func (c *Client) Unstar(ctx context.Context, documentID string) error {
	return c.call(ctx, "unstar", http.MethodDelete, c.endpoint("documents", documentID, "star"), nil, nil)
}

// ListContributions returns the document's contributions. The service
// answers with either a bare array or {"contributions": [...]}.
func (c *Client) ListContributions(ctx context.Context, documentID string) ([]domain.Contribution, error) {
	var raw json.RawMessage
	target := c.endpoint("documents", documentID, "contributions")
	if err := c.call(ctx, "list contributions", http.MethodGet, target, nil, &raw); err != nil {
		return nil, err
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var list []domain.Contribution
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("list contributions: decode response: %w", err)
		}
		return list, nil
	}

	var wrapped struct {
		Contributions []domain.Contribution `json:"contributions"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("list contributions: decode response: %w", err)
	}
	return wrapped.Contributions, nil
}

// CreateContribution adds a contribution.
func (c *Client) CreateContribution(ctx context.Context, documentID, content string) (domain.Contribution, error) {
	var out domain.Contribution
	target := c.endpoint("documents", documentID, "contributions")
	err := c.call(ctx, "create contribution", http.MethodPost, target, contributionRequest{Content: content}, &out)
	return out, err
}

// UpdateContribution edits a contribution.
func (c *Client) UpdateContribution(ctx context.Context, contributionID, content string) (domain.Contribution, error) {
	var out domain.Contribution
	target := c.endpoint("contributions", contributionID)
	err := c.call(ctx, "update contribution", http.MethodPut, target, contributionRequest{Content: content}, &out)
	return out, err
}

// DeleteContribution removes a contribution.
func (c *Client) DeleteContribution(ctx context.Context, contributionID string) error {
	return c.call(ctx, "delete contribution", http.MethodDelete, c.endpoint("contributions", contributionID), nil, nil)
}

// Like likes a contribution.
func (c *Client) Like(ctx context.Context, contributionID string) (int, error) {
	var out likeResponse
	err := c.call(ctx, "like", http.MethodPost, c.endpoint("contributions", contributionID, "like"), nil, &out)
	return out.LikeCount, err
}

// Unlike removes a like.
func (c *Client) Unlike(ctx context.Context, contributionID string) (int, error) {
	var out likeResponse
	err := c.call(ctx, "unlike", http.MethodDelete, c.endpoint("contributions", contributionID, "like"), nil, &out)
	return out.LikeCount, err
}

// DeleteTag removes a product tag.
func (c *Client) DeleteTag(ctx context.Context, product string) error {
	return c.call(ctx, "delete tag", http.MethodDelete, c.endpoint("products", product, "tag"), nil, nil)
}

// DownloadDocument streams the original document. The caller closes it.
// Only the request is rate limited; the body is not bound by the REST timeout.
func (c *Client) DownloadDocument(ctx context.Context, documentID string) (io.ReadCloser, error) {
	target := c.endpoint("documents", documentID, "download")
	resp, err := c.send(ctx, c.stream, "download", http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
