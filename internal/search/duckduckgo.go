// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/scholarmind/scholarmind/internal/httputil"
	"github.com/scholarmind/scholarmind/pkg/types"
)

// duckduckgoLiteURL is the DuckDuckGo Lite endpoint. The lite HTML interface
// is far more stable for scraping than the full site. Declared as a var so
// tests can substitute an httptest server.
var duckduckgoLiteURL = "https://lite.duckduckgo.com/lite/"

// interQueryDelay is the pause between the query variants, to stay under the
// endpoint's informal rate limit. Tests zero it.
var interQueryDelay = 300 * time.Millisecond

// defaultDuckDuckGoLimit is the per-query result cap for this backend.
const defaultDuckDuckGoLimit = 6

// DuckDuckGoBackend scrapes DuckDuckGo Lite. To raise coverage it issues two
// query variants: the bare topic and the topic suffixed with a research
// qualifier.
type DuckDuckGoBackend struct {
	Client *http.Client
}

// Name returns the backend identifier.
func (b *DuckDuckGoBackend) Name() string { return "duckduckgo" }

// Search posts each query variant to the lite endpoint and parses result
// links out of the response HTML, stopping once the limit is reached.
func (b *DuckDuckGoBackend) Search(ctx context.Context, topic string, cfg types.SearchConfig) ([]types.SearchResult, error) {
	limit := cfg.DuckDuckGoLimit
	if limit <= 0 {
		limit = defaultDuckDuckGoLimit
	}

	variants := []string{topic, topic + " research overview"}

	seen := make(map[string]bool)
	var results []types.SearchResult
	var lastErr error

	for i, query := range variants {
		if len(results) >= limit {
			break
		}
		if i > 0 && interQueryDelay > 0 {
			select {
			case <-ctx.Done():
				return results, ctx.Err()
			case <-time.After(interQueryDelay):
			}
		}

		page, err := b.fetch(ctx, query)
		if err != nil {
			lastErr = err
			continue
		}
		parseLiteResults(page, limit, seen, &results)
	}

	if len(results) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return results, nil
}

// fetch posts one query to the lite endpoint and returns the parsed document.
func (b *DuckDuckGoBackend) fetch(ctx context.Context, query string) (*goquery.Document, error) {
	form := url.Values{}
	form.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, duckduckgoLiteURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httputil.BrowserHeaders(req)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo lite request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo lite returned HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing duckduckgo response: %w", err)
	}
	return doc, nil
}

// parseLiteResults extracts result links from a lite page into results,
// deduplicating against seen. The lite page marks results with the
// "result-link" anchor class; when that yields nothing (the markup has
// drifted before) a looser pass over all anchors is used.
func parseLiteResults(doc *goquery.Document, limit int, seen map[string]bool, results *[]types.SearchResult) {
	doc.Find("a.result-link").Each(func(_ int, s *goquery.Selection) {
		if len(*results) >= limit {
			return
		}
		href, _ := s.Attr("href")
		if !strings.HasPrefix(href, "http") || seen[href] || blockedDomain(href) {
			return
		}
		seen[href] = true
		*results = append(*results, types.SearchResult{
			URL:    href,
			Title:  strings.TrimSpace(s.Text()),
			Source: "duckduckgo",
		})
	})

	if len(*results) > 0 {
		return
	}

	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		if len(*results) >= limit {
			return
		}
		href, _ := s.Attr("href")
		text := strings.TrimSpace(s.Text())
		if !strings.HasPrefix(href, "http") || seen[href] || blockedDomain(href) {
			return
		}
		if len(text) <= 10 {
			return
		}
		seen[href] = true
		*results = append(*results, types.SearchResult{
			URL:    href,
			Title:  text,
			Source: "duckduckgo",
		})
	})
}
