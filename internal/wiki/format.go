// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wiki

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/wikirag/pkg/types"
)

// FormatTable writes results as a human-readable table to w.
func FormatTable(results []types.SearchResult, w io.Writer) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-10s  %s\n", "Rank", "Page ID", "Title")
	fmt.Fprintln(w, strings.Repeat("-", 50))
	for i, r := range results {
		fmt.Fprintf(w, "%-4d  %-10s  %s\n", i+1, r.PageID, r.Title)
	}
	fmt.Fprintf(w, "\n%d results\n", len(results))
}

// FormatJSON writes results as indented JSON to w.
func FormatJSON(results []types.SearchResult, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// FormatYAML writes results as YAML to w.
func FormatYAML(results []types.SearchResult, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(results); err != nil {
		return err
	}
	return enc.Close()
}
