// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus [topic...]",
	Short: "Build and print the reference corpus for a topic",
	Long: `Corpus runs the acquisition half of the pipeline: search aggregation
followed by page extraction and merging. The merged corpus that would feed
report generation is printed to stdout, useful for judging source quality
before spending generation quota.`,
	RunE: runCorpus,
}

func init() {
	corpusCmd.Flags().Int("max-results", 0, "maximum aggregated search results (default 10)")
	corpusCmd.Flags().Int("max-pages", 0, "pages to extract (default 6)")

	rootCmd.AddCommand(corpusCmd)
}

func runCorpus(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a research topic")
	}
	topic := strings.Join(args, " ")
	ctx := context.Background()

	client := &http.Client{Timeout: defaultTimeout}
	results := newSearcher(client).Search(ctx, topic, searchConfig(cmd), os.Stderr)
	if len(results) == 0 {
		return fmt.Errorf("no search results for %q", topic)
	}

	corpus := newExtractor(client).Merge(ctx, results, scrapeConfig(cmd), os.Stderr)
	fmt.Println(corpus)
	return nil
}
