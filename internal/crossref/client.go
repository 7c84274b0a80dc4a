// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package crossref queries the Crossref works API: direct lookup by DOI
// and bibliographic search. Responses can be cached in a local SQLite
// database to spare the provider repeat queries.
package crossref

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pdiddy/citecheck/internal/httputil"
	"github.com/pdiddy/citecheck/pkg/types"
)

// worksBase is the Crossref works endpoint. Declared as a var so tests
// can substitute an httptest server.
var worksBase = "https://api.crossref.org/works"

// ErrNotFound marks a DOI that Crossref does not know.
var ErrNotFound = errors.New("crossref: work not found")

// Client talks to the Crossref works API.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	// Email is sent as the mailto parameter for polite pool access.
	Email string
	Retry httputil.RetryPolicy
	// Cache is optional; nil disables response caching.
	Cache *Cache
}

// NewClient builds a Client from the run configuration. The contact email
// is advertised both in the User-Agent and as the mailto parameter.
func NewClient(cfg types.CheckConfig, cache *Cache) *Client {
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "citecheck/0.1"
	}
	if cfg.Email != "" {
		userAgent = fmt.Sprintf("%s (mailto:%s)", userAgent, cfg.Email)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		HTTPClient: &http.Client{Timeout: timeout},
		UserAgent:  userAgent,
		Email:      cfg.Email,
		Retry:      httputil.DefaultRetryPolicy(),
		Cache:      cache,
	}
}

// Work fetches the metadata record for a normalized DOI. A 404 yields
// ErrNotFound; transient failures surface as errors after the retry
// policy is exhausted.
func (c *Client) Work(ctx context.Context, doi string) (*Work, error) {
	reqURL := worksBase + "/" + doi
	body, status, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("crossref returned HTTP %d for %s", status, doi)
	}

	var envelope struct {
		Message Work `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("parsing crossref work: %w", err)
	}
	return &envelope.Message, nil
}

// Search issues a bibliographic query and returns up to rows works in the
// provider's native relevance order.
func (c *Client) Search(ctx context.Context, query string, rows int) ([]Work, error) {
	if rows <= 0 {
		rows = 6
	}
	params := url.Values{
		"query.bibliographic": {query},
		"rows":                {fmt.Sprintf("%d", rows)},
	}
	if c.Email != "" {
		params.Set("mailto", c.Email)
	}

	body, status, err := c.get(ctx, worksBase+"?"+params.Encode())
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("crossref search returned HTTP %d", status)
	}

	var envelope struct {
		Message struct {
			Items []Work `json:"items"`
		} `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("parsing crossref search response: %w", err)
	}
	return envelope.Message.Items, nil
}

// get fetches one URL through the cache and the retry policy, returning
// the body and status. Only 200 responses enter the cache.
func (c *Client) get(ctx context.Context, reqURL string) ([]byte, int, error) {
	if c.Cache != nil {
		if body, ok := c.Cache.Get(reqURL); ok {
			return body, http.StatusOK, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.Retry.Do(ctx, c.HTTPClient, req)
	if err != nil {
		return nil, 0, fmt.Errorf("crossref request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("reading crossref response: %w", err)
	}

	if resp.StatusCode == http.StatusOK && c.Cache != nil {
		c.Cache.Put(reqURL, body)
	}
	return body, resp.StatusCode, nil
}
