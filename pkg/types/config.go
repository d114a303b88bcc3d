// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests. Search and
	// scrape stages use a browser-like value because several sites refuse
	// non-browser clients.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the search aggregation stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the maximum number of aggregated results (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// WikipediaLimit is the per-query result cap for the Wikipedia backend
	// (default 4).
	WikipediaLimit int `json:"wikipedia_limit" yaml:"wikipedia_limit"`

	// DuckDuckGoLimit is the per-query result cap for the DuckDuckGo Lite
	// backend (default 6).
	DuckDuckGoLimit int `json:"duckduckgo_limit" yaml:"duckduckgo_limit"`

	// BingLimit is the per-query result cap for the Bing fallback backend
	// (default 6).
	BingLimit int `json:"bing_limit" yaml:"bing_limit"`
}

// ScrapeConfig holds settings for the content extraction and merge stage.
type ScrapeConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxPages is the number of pages that must be successfully extracted
	// before the merger stops (default 6). Failed extractions do not count.
	MaxPages int `json:"max_pages" yaml:"max_pages"`
}

// GenerationConfig holds settings for the generation driver.
type GenerationConfig struct {
	// APIKey is the Gemini API credential. Loaded from .secrets/gemini-api-key
	// or the SCHOLARMIND_GEMINI_API_KEY environment variable.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Models is the model priority list, fastest first. Each model has a
	// separate quota; the driver falls through the list in order.
	Models []string `json:"models" yaml:"models"`

	// Timeout is the per-call HTTP timeout for generation requests.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// HistoryConfig holds settings for the completed-run archive.
type HistoryConfig struct {
	// Dir is the directory containing the history database (default "output").
	Dir string `json:"dir" yaml:"dir"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Search     SearchConfig     `json:"search" yaml:"search"`
	Scrape     ScrapeConfig     `json:"scrape" yaml:"scrape"`
	Generation GenerationConfig `json:"generation" yaml:"generation"`
	History    HistoryConfig    `json:"history" yaml:"history"`
}
