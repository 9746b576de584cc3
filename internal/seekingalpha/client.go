// Package seekingalpha is a client for the Seeking Alpha news endpoints on RapidAPI.
package seekingalpha

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"newsfetch/internal/config"
	"newsfetch/pkg/utils"
)

const maxBodyBytes = 8 * 1024 * 1024

// Client issues paced, sequential requests against the news API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	headers    *utils.HTTPHelper
	baseURL    string
	host       string
	key        string
	pageSize   int
}

// NewClient creates a client from the API configuration.
func NewClient(api *config.APIConfig) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: api.Timeout(),
		},
		limiter:  newLimiter(api.Pacing()),
		headers:  utils.NewHTTPHelper(),
		baseURL:  strings.TrimRight(api.BaseURL, "/"),
		host:     api.Host,
		key:      api.Key,
		pageSize: api.PageSize,
	}
}

// newLimiter allows one request per pacing interval. The first request is
// never delayed.
func newLimiter(pacing time.Duration) *rate.Limiter {
	if pacing <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}

	return rate.NewLimiter(rate.Every(pacing), 1)
}

// SetHTTPClient replaces the underlying HTTP client.
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

// HasCredential reports whether an API key is configured.
func (c *Client) HasCredential() bool {
	return strings.TrimSpace(c.key) != ""
}

// get performs one paced GET request and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("pacing: %w", err)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header = c.headers.BuildHeaders(map[string]string{
		"x-rapidapi-key":  c.key,
		"x-rapidapi-host": c.host,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	return body, nil
}
