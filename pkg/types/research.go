// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the ScholarMind pipeline.
// See docs/ARCHITECTURE.md § Pipeline Interface, § Data Structures.
package types

import "time"

// SearchResult represents one page found by a search backend. The URL is the
// deduplication key across backends: two results with the same exact URL are
// the same result, regardless of which backend returned them.
type SearchResult struct {
	// URL is the page address. Exact string match is used for dedup; no
	// normalization is applied.
	URL string `json:"url" yaml:"url"`

	// Title is the page title as returned by the backend. Wikipedia results
	// carry a "Wikipedia: " prefix.
	Title string `json:"title" yaml:"title"`

	// Snippet is a short excerpt provided by the backend, possibly empty.
	// Snippets are the corpus fallback when page extraction fails everywhere.
	Snippet string `json:"snippet" yaml:"snippet"`

	// Source identifies which backend found this result
	// (e.g. "wikipedia", "duckduckgo", "bing").
	Source string `json:"source" yaml:"source"`
}

// Slide is one slide of a generated deck: a title and its bullet points.
type Slide struct {
	Title   string   `json:"title" yaml:"title"`
	Bullets []string `json:"bullets" yaml:"bullets"`
}

// GenerationRecord is the outcome of one completed research cycle. It is the
// value held by the single-slot session and read by the speech and chat
// stages; it is replaced wholesale on each successful cycle.
type GenerationRecord struct {
	Topic    string             `json:"topic" yaml:"topic"`
	Language string             `json:"language" yaml:"language"`
	Report   string             `json:"report" yaml:"report"`
	Slides   []Slide            `json:"slides" yaml:"slides"`
	Sources  []SearchResult     `json:"sources,omitempty" yaml:"sources,omitempty"`
	Created  time.Time          `json:"created" yaml:"created"`
}
