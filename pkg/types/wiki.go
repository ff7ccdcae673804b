// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the wikirag pipeline.
package types

// SearchResult represents one page matched by a Wikipedia search query.
// The search API returns results in relevance order; that order is preserved.
type SearchResult struct {
	// PageID is the numeric page identifier, stringified for use in
	// follow-up extract requests.
	PageID string `json:"pageid" yaml:"pageid"`

	// Title is the page title as returned by the API.
	Title string `json:"title" yaml:"title"`
}

// PageExtract carries the plain-text body of one downloaded page.
type PageExtract struct {
	PageID string `json:"pageid" yaml:"pageid"`
	Title  string `json:"title" yaml:"title"`

	// Text is the article body stripped of markup.
	Text string `json:"text" yaml:"text"`
}
