// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/scholarmind/scholarmind/internal/gen"
	"github.com/scholarmind/scholarmind/internal/history"
	"github.com/scholarmind/scholarmind/internal/scrape"
	"github.com/scholarmind/scholarmind/internal/search"
	"github.com/scholarmind/scholarmind/pkg/types"
)

const (
	defaultTimeout    = 20 * time.Second
	defaultGenTimeout = 120 * time.Second
	defaultHistoryDir = "output"
)

// newSearcher builds the three-backend aggregator: Wikipedia and DuckDuckGo
// as primaries, Bing as the thin-result fallback.
func newSearcher(client *http.Client) search.Aggregator {
	return search.Aggregator{
		Primary: []search.Backend{
			&search.WikipediaBackend{Client: client},
			&search.DuckDuckGoBackend{Client: client},
		},
		Fallback: &search.BingBackend{Client: client},
	}
}

// searchConfig reads the search stage flags shared by the research and
// search commands.
func searchConfig(cmd *cobra.Command) types.SearchConfig {
	maxResults, _ := cmd.Flags().GetInt("max-results")
	return types.SearchConfig{
		HTTPConfig: types.HTTPConfig{Timeout: defaultTimeout},
		MaxResults: maxResults,
	}
}

// scrapeConfig reads the extraction stage flags shared by the research and
// corpus commands.
func scrapeConfig(cmd *cobra.Command) types.ScrapeConfig {
	maxPages, _ := cmd.Flags().GetInt("max-pages")
	return types.ScrapeConfig{
		HTTPConfig: types.HTTPConfig{Timeout: defaultTimeout},
		MaxPages:   maxPages,
	}
}

// newDriver builds the Gemini generation driver. The API key comes from
// .secrets/gemini-api-key or the GEMINI_API_KEY environment variable; the
// model priority list can be overridden via the models config key.
// Generation calls get a longer HTTP timeout than scraping: full-report
// completions routinely run over a minute.
func newDriver() (*gen.Driver, error) {
	apiKey := secretDefault("gemini-api-key", os.Getenv("GEMINI_API_KEY"))
	models := viper.GetStringSlice("models")
	client := &http.Client{Timeout: defaultGenTimeout}
	return gen.NewGeminiDriver(apiKey, models, client, os.Stderr)
}

// openHistory opens the completed-run archive named by the history-dir flag.
func openHistory(cmd *cobra.Command) (*history.Store, error) {
	dir, _ := cmd.Flags().GetString("history-dir")
	if dir == "" {
		dir = defaultHistoryDir
	}
	return history.NewStore(types.HistoryConfig{Dir: dir})
}

func newExtractor(client *http.Client) *scrape.Extractor {
	return &scrape.Extractor{Client: client, Log: os.Stderr}
}
