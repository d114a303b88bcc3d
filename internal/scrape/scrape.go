// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scrape fetches result pages, strips boilerplate and noise, and
// merges the surviving text into a single bounded research corpus.
//
// Extraction never fails: network errors, non-HTML responses, and parse
// failures all degrade to an empty string with a logged diagnostic, and the
// merger falls back to search snippets when no page yields usable content.
//
// See docs/ARCHITECTURE.md § Content Extraction.
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/scholarmind/scholarmind/internal/httputil"
	"github.com/scholarmind/scholarmind/pkg/types"
)

// defaultTimeout bounds a single page fetch.
const defaultTimeout = 10 * time.Second

// stripSelector lists tags removed from the DOM wholesale before any text
// extraction.
const stripSelector = "script, style, nav, footer, header, aside, form, iframe, noscript, svg, button, input, select, textarea, menu, dialog"

// noisePattern matches CSS classes and ids that typically mark non-article
// chrome. Best-effort heuristic, not exhaustive.
var noisePattern = regexp.MustCompile(`(?i)(sidebar|comment|advert|banner|popup|modal|cookie|consent|share|social|related|recommend|newsletter|subscribe|promo|widget|footer|nav|menu|breadcrumb)`)

// containerPattern matches class names that usually wrap the primary
// article body.
var containerPattern = regexp.MustCompile(`(?i)(content|article|post|entry)`)

var whitespacePattern = regexp.MustCompile(`\s+`)

// adURLPatterns mark tracking and ad-redirect URLs that are never worth a
// network round trip.
var adURLPatterns = []string{
	"duckduckgo.com/y.js",
	"duckduckgo.com/duckduckgo-help",
	"/ad_", "ad_domain=", "ad_provider=", "ad_type=",
	".js?", "/aclick?",
	"doubleclick.net", "googlesyndication.com",
}

// Fragment length floors. These are denoising policy, not correctness: the
// element floor drops nav labels and buttons, the sentence floor drops
// leftover menu crumbs after whitespace normalization.
const (
	minElementTextLen  = 20
	minSentenceLen     = 30
)

// Extractor fetches single URLs and turns them into cleaned text.
type Extractor struct {
	Client *http.Client

	// Log receives per-URL diagnostics. Defaults to io.Discard.
	Log io.Writer
}

func (e *Extractor) log() io.Writer {
	if e.Log == nil {
		return io.Discard
	}
	return e.Log
}

// IsContentURL reports whether the URL looks like a real content page worth
// fetching, as opposed to an ad redirect or tracking endpoint.
func IsContentURL(rawURL string) bool {
	for _, p := range adURLPatterns {
		if strings.Contains(rawURL, p) {
			return false
		}
	}
	return true
}

// ExtractContent fetches a URL and extracts its main textual content.
// It returns cleaned text, or an empty string when the URL is denylisted,
// the fetch fails, the response is not HTML, or nothing substantive
// survives the noise filters. It never returns an error.
func (e *Extractor) ExtractContent(ctx context.Context, rawURL string, cfg types.ScrapeConfig) string {
	if !IsContentURL(rawURL) {
		fmt.Fprintf(e.log(), "skipping non-content URL: %s\n", truncateForLog(rawURL))
		return ""
	}

	// The MediaWiki API beats scraping the article HTML: it returns plain
	// text and is structurally stable.
	if strings.Contains(rawURL, "wikipedia.org/wiki/") {
		if content := e.wikipediaExtract(ctx, rawURL, cfg); content != "" {
			return content
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		fmt.Fprintf(e.log(), "bad URL %s: %v\n", truncateForLog(rawURL), err)
		return ""
	}
	httputil.BrowserHeaders(req)

	resp, err := e.Client.Do(req)
	if err != nil {
		fmt.Fprintf(e.log(), "failed to fetch %s: %v\n", truncateForLog(rawURL), err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(e.log(), "fetch %s: HTTP %d\n", truncateForLog(rawURL), resp.StatusCode)
		return ""
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		fmt.Fprintf(e.log(), "failed to parse %s: %v\n", truncateForLog(rawURL), err)
		return ""
	}

	return extractFromDocument(doc)
}

// extractFromDocument runs the noise-stripping pipeline on a parsed page and
// returns the cleaned article text.
func extractFromDocument(doc *goquery.Document) string {
	doc.Find(stripSelector).Remove()

	for _, root := range doc.Nodes {
		removeComments(root)
	}

	doc.Find("[class],[id]").Each(func(_ int, s *goquery.Selection) {
		class, _ := s.Attr("class")
		id, _ := s.Attr("id")
		if noisePattern.MatchString(class) || noisePattern.MatchString(id) {
			s.Remove()
		}
	})

	container := mainContainer(doc)
	if container.Length() == 0 {
		return ""
	}

	var parts []string
	container.Find("p, h1, h2, h3, h4, li").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if len(text) > minElementTextLen {
			parts = append(parts, text)
		}
	})

	return cleanText(strings.Join(parts, " "))
}

// mainContainer locates the primary content area: a <main> landmark, then
// <article>, then a role="main" container, then a class-name heuristic,
// falling back to the whole body.
func mainContainer(doc *goquery.Document) *goquery.Selection {
	for _, sel := range []string{"main", "article", `[role="main"]`} {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			return s
		}
	}

	var byClass *goquery.Selection
	doc.Find("div[class]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		if containerPattern.MatchString(class) {
			byClass = s
			return false
		}
		return true
	})
	if byClass != nil {
		return byClass
	}

	return doc.Find("body").First()
}

// removeComments strips HTML comment nodes, which goquery selectors cannot
// address.
func removeComments(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.CommentNode {
			n.RemoveChild(c)
		} else {
			removeComments(c)
		}
		c = next
	}
}

// cleanText normalizes whitespace, splits on sentence boundaries, and drops
// short fragments. This is lightweight denoising, not true sentence
// segmentation: fragments at or under minSentenceLen characters are assumed
// to be nav crumbs rather than prose.
func cleanText(text string) string {
	text = whitespacePattern.ReplaceAllString(text, " ")

	pieces := strings.Split(text, ". ")
	var kept []string
	for _, p := range pieces {
		p = strings.TrimSpace(p)
		if len(p) > minSentenceLen {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ". ")
}

func truncateForLog(s string) string {
	if len(s) <= 80 {
		return s
	}
	return s[:80] + "..."
}
