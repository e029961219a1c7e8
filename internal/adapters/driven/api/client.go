package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/tidewater-labs/kbsync/internal/core/ports/driven"
	"github.com/tidewater-labs/kbsync/internal/logger"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// basePath roots every operation; all entities are scoped per bot.
	basePath = "/api/bots"

	// Default client-side rate limit towards the service.
	defaultRateLimit = rate.Limit(10)
	defaultRateBurst = 20
)

// Ensure Client implements the interface.
var _ driven.KnowledgeAPI = (*Client)(nil)

// Client talks to the remote knowledge service.
type Client struct {
	baseURL string
	httpc   *http.Client
	tokens  driven.TokenProvider
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// WithRateLimit overrides the client-side request rate limit.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(limit, burst) }
}

// NewClient creates a client for the service at baseURL. tokens supplies
// bearer tokens; a nil provider sends unauthenticated requests.
func NewClient(baseURL string, tokens driven.TokenProvider, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: DefaultTimeout},
		tokens:  tokens,
		limiter: rate.NewLimiter(defaultRateLimit, defaultRateBurst),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// botPath builds a bot-scoped endpoint path.
func (c *Client) botPath(botID string, parts ...string) string {
	segs := []string{basePath, url.PathEscape(botID)}
	for _, p := range parts {
		segs = append(segs, url.PathEscape(p))
	}
	return strings.Join(segs, "/")
}

// do runs a JSON request with the single-retry-on-401 policy.
// body is marshalled to JSON when non-nil; out is decoded into when non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	return c.doJSON(ctx, method, path, query, body, out, true)
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any, retryAllowed bool) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := c.newRequest(ctx, method, path, query, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && retryAllowed {
		reqErr := newRequestError(resp)
		if !c.refresh(ctx) {
			// Refresh failed: the original 401 surfaces.
			return reqErr
		}
		return c.doJSON(ctx, method, path, query, body, out, false)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newRequestError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response from %s: %w", path, err)
		}
	}
	return nil
}

// doMultipart uploads a file under the "file" form field. The multipart
// body is built once and replayed on the 401 retry; the content type comes
// from the multipart writer, never set by hand. This path deliberately
// mirrors doJSON's retry policy rather than sharing its body handling.
func (c *Client) doMultipart(ctx context.Context, path, filename string, r io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("build multipart form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("read upload %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("finalise multipart form: %w", err)
	}

	return c.sendMultipart(ctx, path, mw.FormDataContentType(), buf.Bytes(), out, true)
}

func (c *Client) sendMultipart(ctx context.Context, path, contentType string, body []byte, out any, retryAllowed bool) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && retryAllowed {
		reqErr := newRequestError(resp)
		if !c.refresh(ctx) {
			return reqErr
		}
		return c.sendMultipart(ctx, path, contentType, body, out, false)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newRequestError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response from %s: %w", path, err)
		}
	}
	return nil
}

// newRequest builds a request with auth and correlation headers attached.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("create request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("get token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

// refresh attempts a token refresh, reporting whether the retry should
// proceed.
func (c *Client) refresh(ctx context.Context) bool {
	if c.tokens == nil {
		return false
	}
	if _, err := c.tokens.Refresh(ctx); err != nil {
		logger.Debug("token refresh failed: %v", err)
		return false
	}
	logger.Debug("token refreshed, retrying request once")
	return true
}
