// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package wiki queries the MediaWiki public API for page search and
// plain-text extracts.
package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pdiddy/wikirag/pkg/types"
)

// apiBase is the MediaWiki query endpoint. Declared as a var so tests can
// substitute an httptest server.
var apiBase = "https://en.wikipedia.org/w/api.php"

// SetAPIBase replaces the API endpoint and returns the previous value.
// Intended for tests in other packages.
func SetAPIBase(u string) string {
	old := apiBase
	apiBase = u
	return old
}

// APIError reports a non-success HTTP status from the MediaWiki API.
type APIError struct {
	Status int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Wikipedia API returned HTTP %d", e.Status)
}

// NotFoundError reports a page identifier absent from an extract response.
type NotFoundError struct {
	PageID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("page %s not found", e.PageID)
}

// Client issues GET queries against the MediaWiki API.
type Client struct {
	Client    *http.Client
	UserAgent string

	// RawLog, when non-nil, receives every raw response body.
	RawLog io.Writer
}

// get performs one API request and returns the response body.
func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	reqURL := apiBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Wikipedia API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading Wikipedia response: %w", err)
	}

	if c.RawLog != nil {
		fmt.Fprintf(c.RawLog, "Raw response: %s\n", body)
	}
	return body, nil
}

// Search API JSON structures.
type searchResponse struct {
	Query searchQuery `json:"query"`
}

type searchQuery struct {
	Search []searchEntry `json:"search"`
}

type searchEntry struct {
	Title  string `json:"title"`
	PageID int    `json:"pageid"`
}

// Search runs a full-text search for keyword and returns the matched pages
// in API order, which the API ranks by relevance. An empty result list is a
// legal outcome, not an error.
func (c *Client) Search(ctx context.Context, keyword string) ([]types.SearchResult, error) {
	params := url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {keyword},
		"format":   {"json"},
	}

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("parsing Wikipedia search response: %w", err)
	}

	results := make([]types.SearchResult, 0, len(sr.Query.Search))
	for _, entry := range sr.Query.Search {
		results = append(results, types.SearchResult{
			PageID: strconv.Itoa(entry.PageID),
			Title:  entry.Title,
		})
	}
	return results, nil
}

// Extract API JSON structures. Pages are keyed by identifier, not ordered.
type extractResponse struct {
	Query extractQuery `json:"query"`
}

type extractQuery struct {
	Pages map[string]extractPage `json:"pages"`
}

type extractPage struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`

	// Missing marks a nonexistent page. The API emits it as an empty
	// string, so only presence matters.
	Missing *string `json:"missing"`
}

// Extract downloads the plain-text extract for one page identifier. A
// response that does not contain the requested identifier yields a
// NotFoundError.
func (c *Client) Extract(ctx context.Context, pageID string) (string, error) {
	params := url.Values{
		"action":      {"query"},
		"pageids":     {pageID},
		"prop":        {"extracts"},
		"explaintext": {"true"},
		"format":      {"json"},
	}

	body, err := c.get(ctx, params)
	if err != nil {
		return "", err
	}

	var er extractResponse
	if err := json.Unmarshal(body, &er); err != nil {
		return "", fmt.Errorf("parsing Wikipedia extract response: %w", err)
	}

	page, ok := er.Query.Pages[pageID]
	if !ok || page.Missing != nil {
		return "", &NotFoundError{PageID: pageID}
	}
	return page.Extract, nil
}
