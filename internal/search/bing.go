// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/scholarmind/scholarmind/internal/httputil"
	"github.com/scholarmind/scholarmind/pkg/types"
)

// bingSearchURL is the Bing search endpoint. Declared as a var so tests can
// substitute an httptest server.
var bingSearchURL = "https://www.bing.com/search"

// defaultBingLimit is the per-query result cap for this backend.
const defaultBingLimit = 6

// BingBackend scrapes Bing's result page. It is the fallback backend, used
// only when Wikipedia and DuckDuckGo together yield too few unique results.
type BingBackend struct {
	Client *http.Client
}

// Name returns the backend identifier.
func (b *BingBackend) Name() string { return "bing" }

// Search fetches one Bing result page for the topic (suffixed with
// "research" to bias toward substantive pages) and parses the organic
// result blocks.
func (b *BingBackend) Search(ctx context.Context, topic string, cfg types.SearchConfig) ([]types.SearchResult, error) {
	limit := cfg.BingLimit
	if limit <= 0 {
		limit = defaultBingLimit
	}

	params := url.Values{}
	params.Set("q", topic+" research")
	params.Set("count", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, bingSearchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httputil.BrowserHeaders(req)

	resp, err := b.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bing returned HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing bing response: %w", err)
	}

	seen := make(map[string]bool)
	var results []types.SearchResult

	doc.Find("li.b_algo").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		a := li.Find("h2 a").First()
		href, _ := a.Attr("href")
		if !strings.HasPrefix(href, "http") || seen[href] {
			return true
		}

		snippet := strings.TrimSpace(li.Find(".b_caption p").First().Text())

		seen[href] = true
		results = append(results, types.SearchResult{
			URL:     href,
			Title:   strings.TrimSpace(a.Text()),
			Snippet: snippet,
			Source:  "bing",
		})
		return len(results) < limit
	})

	return results, nil
}
