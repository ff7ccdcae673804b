// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/pdiddy/wikirag/internal/wiki"
	"github.com/pdiddy/wikirag/pkg/types"
)

// FetchExtracts downloads the plain-text extracts for the first count
// search results. A count below 1 is coerced to 1 so at least one page is
// always fetched. Downloads fan out concurrently, but results keep search
// order and the surfaced failure is the first error in that order, so the
// observable behavior matches a sequential run.
func FetchExtracts(ctx context.Context, client *wiki.Client, pages []types.SearchResult, count int, w io.Writer) ([]types.PageExtract, error) {
	if count < 1 {
		count = 1
	}
	if count > len(pages) {
		count = len(pages)
	}

	extracts := make([]types.PageExtract, count)
	errs := make([]error, count)

	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func(i int, page types.SearchResult) {
			defer wg.Done()
			text, err := client.Extract(ctx, page.PageID)
			if err != nil {
				errs[i] = fmt.Errorf("downloading page %s (%q): %w", page.PageID, page.Title, err)
				return
			}
			extracts[i] = types.PageExtract{
				PageID: page.PageID,
				Title:  page.Title,
				Text:   text,
			}
		}(i, pages[i])
	}
	wg.Wait()

	for i := 0; i < count; i++ {
		if errs[i] != nil {
			return nil, errs[i]
		}
	}

	for _, ex := range extracts {
		fmt.Fprintf(w, "Wikipedia page downloaded %q: size: %d\n", ex.Title, len(ex.Text))
	}
	return extracts, nil
}
