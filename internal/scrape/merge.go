// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/scholarmind/scholarmind/pkg/types"
)

const (
	// minAcceptLen is the floor below which an extracted page is discarded
	// as too thin to contribute to the corpus.
	minAcceptLen = 200

	// corpusCap bounds the merged corpus to stay within generation context
	// limits.
	corpusCap = 25000

	// defaultMaxPages is the number of accepted pages after which the
	// merger stops.
	defaultMaxPages = 6
)

// TruncationMarker is appended to a corpus that was cut at corpusCap, so
// consumers can detect truncation without measuring against the constant.
const TruncationMarker = "\n\n[Content truncated for processing...]"

// Placeholder is returned when neither page extraction nor search snippets
// produced any text. It is an explicit low-content signal, not an error.
const Placeholder = "Limited information available from web sources."

const blockDivider = "\n\n---\n\n"

// Merge drives the extractor across search results in order and merges the
// accepted pages into one source-labeled corpus. Extraction failures do not
// count against the page cap, so the loop may scan the whole result list.
// If no page is accepted the non-empty snippets are joined instead; if
// there are none, Placeholder is returned. Merge never fails.
func (e *Extractor) Merge(ctx context.Context, results []types.SearchResult, cfg types.ScrapeConfig, w io.Writer) string {
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}

	var blocks []string
	accepted := 0

	for _, r := range results {
		if accepted >= maxPages {
			break
		}

		fmt.Fprintf(w, "fetching %s\n", truncateForLog(r.URL))

		content := e.ExtractContent(ctx, r.URL, cfg)
		if len(content) <= minAcceptLen {
			continue
		}

		title := r.Title
		if title == "" {
			title = "Source"
		}
		blocks = append(blocks, fmt.Sprintf("[Source: %s]\n%s", title, content))
		accepted++
	}

	if len(blocks) == 0 {
		fmt.Fprintln(w, "no page content extracted, using search snippets")
		var snippets []string
		for _, r := range results {
			if r.Snippet != "" {
				snippets = append(snippets, r.Snippet)
			}
		}
		if len(snippets) > 0 {
			return strings.Join(snippets, " ")
		}
		return Placeholder
	}

	merged := Truncate(strings.Join(blocks, blockDivider))
	fmt.Fprintf(w, "merged %d chars from %d pages\n", len(merged), accepted)
	return merged
}

// Truncate enforces the corpus size cap, appending TruncationMarker when
// content was cut.
func Truncate(corpus string) string {
	if len(corpus) <= corpusCap {
		return corpus
	}
	return corpus[:corpusCap] + TruncationMarker
}
