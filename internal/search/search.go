// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries public web search backends and returns a unified,
// deduplicated result list for a research topic.
//
// Backends are queried in a fixed priority order: the Wikipedia API first
// (high precision), then DuckDuckGo Lite, then Bing only when the first two
// yielded too few unique results. A failing backend contributes nothing and
// never aborts aggregation.
//
// See docs/ARCHITECTURE.md § Search.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/scholarmind/scholarmind/pkg/types"
)

// Backend searches a single web search service. Each backend (Wikipedia,
// DuckDuckGo Lite, Bing) implements this interface per the Strategy pattern.
type Backend interface {
	Name() string
	Search(ctx context.Context, topic string, cfg types.SearchConfig) ([]types.SearchResult, error)
}

// defaultMaxResults caps the aggregated result list when the config does
// not specify a limit.
const defaultMaxResults = 10

// fallbackThreshold is the minimum number of unique results the primary
// backends must produce; below it the fallback backend is queried.
const fallbackThreshold = 4

// blockedDomains lists video/social platforms that never carry extractable
// research content. Matching is by substring on the lowercased URL.
var blockedDomains = []string{
	"youtube.com", "facebook.com", "twitter.com",
	"instagram.com", "tiktok.com", "reddit.com",
	"duckduckgo.com",
}

// blockedDomain reports whether the URL belongs to a denylisted domain.
func blockedDomain(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, d := range blockedDomains {
		if strings.Contains(lower, d) {
			return true
		}
	}
	return false
}

// Aggregator composes search backends. Primary backends are queried
// unconditionally in order; the fallback backend is queried only when the
// primary backends together yield fewer than fallbackThreshold unique results.
type Aggregator struct {
	Primary  []Backend
	Fallback Backend
}

// Search queries the backends in priority order and returns up to
// cfg.MaxResults results with unique URLs, in insertion order. Backend
// failures are reported as warnings on w and degrade to an empty
// contribution; if every backend fails the result is empty and the caller
// must treat the topic as having no results.
func (a Aggregator) Search(ctx context.Context, topic string, cfg types.SearchConfig, w io.Writer) []types.SearchResult {
	max := cfg.MaxResults
	if max <= 0 {
		max = defaultMaxResults
	}

	seen := make(map[string]bool)
	var all []types.SearchResult

	merge := func(results []types.SearchResult) {
		for _, r := range results {
			if r.URL == "" || !strings.HasPrefix(r.URL, "http") {
				continue
			}
			if blockedDomain(r.URL) {
				continue
			}
			if seen[r.URL] {
				continue
			}
			seen[r.URL] = true
			all = append(all, r)
		}
	}

	query := func(b Backend) {
		results, err := b.Search(ctx, topic, cfg)
		if err != nil {
			fmt.Fprintf(w, "warning: backend %s failed: %v\n", b.Name(), err)
			return
		}
		merge(results)
		fmt.Fprintf(w, "%s: %d results, %d unique total\n", b.Name(), len(results), len(all))
	}

	for _, b := range a.Primary {
		query(b)
	}

	if len(all) < fallbackThreshold && a.Fallback != nil {
		query(a.Fallback)
	}

	if len(all) > max {
		all = all[:max]
	}
	return all
}

// FormatTable writes results as a human-readable table to w.
func FormatTable(results []types.SearchResult, w io.Writer) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-50s  %-12s  %s\n", "Rank", "Title", "Backend", "URL")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, r := range results {
		fmt.Fprintf(w, "%-4d  %-50s  %-12s  %s\n",
			i+1, truncate(r.Title, 50), r.Source, truncate(r.URL, 60))
	}

	fmt.Fprintf(w, "\n%d results\n", len(results))
}

// FormatJSON writes results as indented JSON to w.
func FormatJSON(results []types.SearchResult, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
