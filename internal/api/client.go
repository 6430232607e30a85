// Package api provides the HTTP client for the ChartMogul v1 REST API.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/stephendolan/chartmogul-cli/internal/apierror"
	"github.com/stephendolan/chartmogul-cli/internal/auth"
)

// DefaultBaseURL is the production ChartMogul API endpoint.
const DefaultBaseURL = "https://api.chartmogul.com/v1"

// EnvBaseURL overrides the API base URL (used by tests and staging setups).
const EnvBaseURL = "CHARTMOGUL_API_URL"

// requestTimeout bounds every API call; a hung request is reported as a
// failed one.
const requestTimeout = 10 * time.Second

// KeyProvider supplies the API key for each request.
type KeyProvider func() string

// Client issues authenticated requests against the ChartMogul API and decodes
// responses into plain JSON values.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  KeyProvider
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(base, "/") }
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithKeyProvider substitutes the API key source.
func WithKeyProvider(provider KeyProvider) Option {
	return func(c *Client) { c.apiKey = provider }
}

// New creates a Client using the stored credentials and the default base URL,
// honoring the CHARTMOGUL_API_URL override.
func New(opts ...Option) *Client {
	base := DefaultBaseURL
	if override := os.Getenv(EnvBaseURL); override != "" {
		base = override
	}

	c := &Client{
		http:    &http.Client{Timeout: requestTimeout},
		baseURL: strings.TrimRight(base, "/"),
		apiKey:  auth.APIKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get issues a GET request against path and decodes the JSON response.
//
// Failure mapping: missing credentials and network errors become CLIErrors;
// HTTP 429 becomes a CLIError carrying the Retry-After hint; any other
// non-2xx status becomes an APIError carrying the decoded error body; HTTP
// 204 yields an empty object.
func (c *Client) get(ctx context.Context, path string, params url.Values) (any, error) {
	key := c.apiKey()
	if key == "" {
		return nil, apierror.NewCLIError(401, "Not authenticated. Please run: chartmogul auth login")
	}

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.SetBasicAuth(key, "")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apierror.NewCLIError(0, "Network request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := resp.Header.Get("Retry-After")
		if retryAfter == "" {
			retryAfter = "60"
		}
		return nil, apierror.NewCLIError(429,
			"Rate limited by ChartMogul API. Retry after %s seconds.", retryAfter)
	}

	if resp.StatusCode == http.StatusNoContent {
		return map[string]any{}, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload any
		if err := json.Unmarshal(body, &payload); err != nil {
			payload = map[string]any{}
		}
		return nil, &apierror.APIError{
			Message:    "API request failed",
			Payload:    payload,
			StatusCode: resp.StatusCode,
		}
	}

	var result any
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return result, nil
}
