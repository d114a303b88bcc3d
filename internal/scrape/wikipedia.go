// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/scholarmind/scholarmind/internal/httputil"
	"github.com/scholarmind/scholarmind/pkg/types"
)

// wikipediaAPIBase is the MediaWiki API endpoint. Declared as a var so tests
// can substitute an httptest server.
var wikipediaAPIBase = "https://en.wikipedia.org/w/api.php"

// wikipediaExtractCap bounds a single article extract so one long article
// cannot dominate the corpus.
const wikipediaExtractCap = 8000

// wikipediaExtract fetches article plain text via the MediaWiki extracts
// API. The article title is taken from the /wiki/ URL path. Returns an
// empty string on any failure so the caller can fall through to generic
// HTML scraping.
func (e *Extractor) wikipediaExtract(ctx context.Context, pageURL string, cfg types.ScrapeConfig) string {
	title := articleTitle(pageURL)
	if title == "" {
		return ""
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("titles", title)
	params.Set("prop", "extracts")
	params.Set("explaintext", "1")
	params.Set("exsectionformat", "plain")
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, wikipediaAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return ""
	}
	httputil.BrowserHeaders(req)

	resp, err := httputil.DoWithRetry(ctx, e.Client, req, 0)
	if err != nil {
		fmt.Fprintf(e.log(), "wikipedia API error for %q: %v\n", title, err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(e.log(), "wikipedia API for %q: HTTP %d\n", title, resp.StatusCode)
		return ""
	}

	var payload wikipediaExtractResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		fmt.Fprintf(e.log(), "wikipedia API parse error for %q: %v\n", title, err)
		return ""
	}

	for pageID, page := range payload.Query.Pages {
		if pageID == "-1" {
			return ""
		}
		if page.Extract == "" {
			continue
		}
		content := page.Extract
		if len(content) > wikipediaExtractCap {
			content = content[:wikipediaExtractCap] + "..."
		}
		fmt.Fprintf(e.log(), "wikipedia API: got %d chars for %q\n", len(content), title)
		return content
	}

	return ""
}

// articleTitle recovers the article title from a /wiki/ URL.
func articleTitle(pageURL string) string {
	const marker = "/wiki/"
	idx := strings.Index(pageURL, marker)
	if idx < 0 {
		return ""
	}
	slug := pageURL[idx+len(marker):]
	if slug == "" {
		return ""
	}
	if unescaped, err := url.PathUnescape(slug); err == nil {
		slug = unescaped
	}
	return strings.ReplaceAll(slug, "_", " ")
}

// MediaWiki extracts API JSON structures. Pages is keyed by page ID;
// page ID "-1" marks a missing article.
type wikipediaExtractResponse struct {
	Query struct {
		Pages map[string]struct {
			Extract string `json:"extract"`
		} `json:"pages"`
	} `json:"query"`
}
