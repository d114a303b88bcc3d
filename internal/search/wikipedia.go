// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/scholarmind/scholarmind/internal/httputil"
	"github.com/scholarmind/scholarmind/pkg/types"
)

// wikipediaAPIBase is the MediaWiki API endpoint. Declared as a var so tests
// can substitute an httptest server.
var wikipediaAPIBase = "https://en.wikipedia.org/w/api.php"

// defaultWikipediaLimit is the per-query result cap for this backend.
const defaultWikipediaLimit = 4

// tagPattern strips HTML markup from API snippets (the search API wraps
// matched terms in <span class="searchmatch">).
var tagPattern = regexp.MustCompile(`<[^>]+>`)

// WikipediaBackend queries the MediaWiki search API. It is the highest
// priority backend: the API is structurally stable and its articles almost
// always survive content extraction.
type WikipediaBackend struct {
	Client *http.Client
}

// Name returns the backend identifier.
func (b *WikipediaBackend) Name() string { return "wikipedia" }

// Search queries the MediaWiki search API for article titles matching the
// topic and maps each hit to its canonical article URL.
func (b *WikipediaBackend) Search(ctx context.Context, topic string, cfg types.SearchConfig) ([]types.SearchResult, error) {
	limit := cfg.WikipediaLimit
	if limit <= 0 {
		limit = defaultWikipediaLimit
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", topic)
	params.Set("srlimit", strconv.Itoa(limit))
	params.Set("format", "json")
	params.Set("srprop", "snippet")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, wikipediaAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httputil.BrowserHeaders(req)

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("wikipedia API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wikipedia API returned HTTP %d", resp.StatusCode)
	}

	var payload wikipediaSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("parsing wikipedia response: %w", err)
	}

	var results []types.SearchResult
	for _, item := range payload.Query.Search {
		if item.Title == "" {
			continue
		}
		results = append(results, types.SearchResult{
			URL:     ArticleURL(item.Title),
			Title:   "Wikipedia: " + item.Title,
			Snippet: stripTags(item.Snippet),
			Source:  "wikipedia",
		})
	}
	return results, nil
}

// ArticleURL returns the canonical article URL for a Wikipedia page title.
func ArticleURL(title string) string {
	return "https://en.wikipedia.org/wiki/" + url.PathEscape(strings.ReplaceAll(title, " ", "_"))
}

// stripTags removes HTML markup and unescapes entities in an API snippet.
func stripTags(s string) string {
	return html.UnescapeString(tagPattern.ReplaceAllString(s, ""))
}

// MediaWiki search API JSON structures.
type wikipediaSearchResponse struct {
	Query struct {
		Search []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
		} `json:"search"`
	} `json:"query"`
}
