package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/prodscout/internal/core/domain"
)

const (
	// DefaultTimeout is the default REST request timeout.
	DefaultTimeout = 30 * time.Second

	// HeaderRequestID carries a per-request id for server-side tracing.
	HeaderRequestID = "X-Request-ID"
)

// Config configures a Client.
type Config struct {
	// BaseURL is the service root, e.g. http://localhost:8000/api.
	BaseURL string

	// Token is sent as a bearer token when non-empty.
	Token string

	// Timeout bounds REST calls. Streams are bounded by their context only.
	Timeout time.Duration

	// RatePerSecond throttles REST calls.
	RatePerSecond float64

	// HTTPClient is the base client. Defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// ConfigFromSettings builds a Config from application settings.
func ConfigFromSettings(s domain.AppSettings) Config {
	return Config{
		BaseURL:       s.Server.BaseURL,
		Token:         s.Server.Token,
		Timeout:       s.Server.Timeout,
		RatePerSecond: s.Server.RatePerSecond,
	}
}

// Client talks to the product search service.
type Client struct {
	baseURL string
	rest    *http.Client
	stream  *http.Client
	limiter *RateLimiter
}

// NewClient creates a client. The token, if any, is attached by an
// oauth2 transport to every request.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: base URL %q is not absolute", domain.ErrInvalidInput, cfg.BaseURL)
	}

	base := cfg.HTTPClient
	if base == nil {
		base = http.DefaultClient
	}

	stream := base
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"})
		stream = oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, base), ts)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	rest := *stream
	rest.Timeout = timeout

	streamClient := *stream
	streamClient.Timeout = 0

	return &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		rest:    &rest,
		stream:  &streamClient,
		limiter: NewRateLimiter(cfg.RatePerSecond),
	}, nil
}

// endpoint joins escaped path segments onto the base URL.
func (c *Client) endpoint(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return c.baseURL + "/" + strings.Join(escaped, "/")
}

func (c *Client) newRequest(ctx context.Context, method, target string, in any) (*http.Request, error) {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(HeaderRequestID, uuid.New().String())
	return req, nil
}

// send performs a rate-limited call and returns the open response.
// Non-2xx responses are closed and returned as *StatusError.
func (c *Client) send(
	ctx context.Context, client *http.Client, op, method, target string, in any,
) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: rate limit wait: %w", op, err)
	}

	req, err := c.newRequest(ctx, method, target, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if in != nil || client == c.rest {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrTransport, err)
	}
	c.limiter.Observe(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, statusError(op, resp)
	}
	return resp, nil
}

// call performs a REST call and decodes the JSON response into out, if set.
func (c *Client) call(ctx context.Context, op, method, target string, in, out any) error {
	resp, err := c.send(ctx, c.rest, op, method, target, in)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}
