// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scholarmind/scholarmind/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search [topic...]",
	Short: "Aggregate web search results for a topic",
	Long: `Search queries Wikipedia and DuckDuckGo Lite for the topic, falling back
to Bing when fewer than four results come back. Results are deduplicated by
URL across backends, with social and video platforms filtered out.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("max-results", 0, "maximum aggregated results (default 10)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a search topic")
	}
	topic := strings.Join(args, " ")

	client := &http.Client{Timeout: defaultTimeout}
	results := newSearcher(client).Search(context.Background(), topic, searchConfig(cmd), os.Stderr)
	if len(results) == 0 {
		return fmt.Errorf("no results for %q", topic)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return search.FormatJSON(results, os.Stdout)
	}
	search.FormatTable(results, os.Stdout)
	return nil
}
