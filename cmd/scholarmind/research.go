// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/scholarmind/scholarmind/internal/gen"
	"github.com/scholarmind/scholarmind/internal/pipeline"
	"github.com/scholarmind/scholarmind/internal/search"
	"github.com/scholarmind/scholarmind/internal/session"
	"github.com/scholarmind/scholarmind/pkg/types"
)

var researchCmd = &cobra.Command{
	Use:   "research [topic...]",
	Short: "Run the full research cycle for a topic",
	Long: `Research runs the complete pipeline: aggregates web search results,
extracts and merges page content into a reference corpus, then generates an
academic-style report and a slide deck. Outputs are written to the output
directory and the completed cycle is archived for the speech and chat
commands.`,
	RunE: runResearch,
}

func init() {
	researchCmd.Flags().String("language", "English", "output language (see the languages command)")
	researchCmd.Flags().Int("max-results", 0, "maximum aggregated search results (default 10)")
	researchCmd.Flags().Int("max-pages", 0, "pages to extract for the corpus (default 6)")
	researchCmd.Flags().Int("speech", 0, "also generate a speech of this many minutes (5, 10, 15, or 20)")
	researchCmd.Flags().String("output-dir", "output", "directory for generated files")
	researchCmd.Flags().String("history-dir", defaultHistoryDir, "directory for the run archive")

	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a research topic")
	}
	topic := strings.Join(args, " ")
	language, _ := cmd.Flags().GetString("language")
	outputDir, _ := cmd.Flags().GetString("output-dir")

	driver, err := newDriver()
	if err != nil {
		if errors.Is(err, gen.ErrNoAPIKey) {
			return fmt.Errorf("no Gemini API key: add .secrets/gemini-api-key or set GEMINI_API_KEY")
		}
		return err
	}

	archive, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer archive.Close()

	client := &http.Client{Timeout: defaultTimeout}
	p := newPipeline(cmd, client, driver, archive)

	rec, err := p.Run(context.Background(), topic, language, os.Stderr)
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrNoResults):
			return fmt.Errorf("no search results for %q: check connectivity or rephrase the topic", topic)
		case errors.Is(err, pipeline.ErrInsufficientContent):
			return fmt.Errorf("could not gather enough content for %q: try a different topic", topic)
		}
		return err
	}

	if err := writeOutputs(rec, outputDir); err != nil {
		return err
	}

	if minutes, _ := cmd.Flags().GetInt("speech"); minutes > 0 {
		speech, err := p.Speech(context.Background(), rec, minutes)
		if err != nil {
			return fmt.Errorf("speech generation failed: %w", err)
		}
		path := filepath.Join(outputDir, "speech.txt")
		if err := os.WriteFile(path, []byte(speech), 0o644); err != nil {
			return fmt.Errorf("writing speech: %w", err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", path)
	}

	fmt.Printf("Completed research cycle for %q (%s)\n\nSources:\n", rec.Topic, rec.Language)
	search.FormatTable(rec.Sources, os.Stdout)
	return nil
}

// newPipeline wires the configured stages into a pipeline.
func newPipeline(cmd *cobra.Command, client *http.Client, driver *gen.Driver, archive pipeline.Archive) *pipeline.Pipeline {
	searcher := newSearcher(client)
	extractor := newExtractor(client)
	searchCfg := searchConfig(cmd)
	scrapeCfg := scrapeConfig(cmd)

	return &pipeline.Pipeline{
		Search: func(ctx context.Context, topic string, w io.Writer) []types.SearchResult {
			return searcher.Search(ctx, topic, searchCfg, w)
		},
		Merge: func(ctx context.Context, results []types.SearchResult, w io.Writer) string {
			return extractor.Merge(ctx, results, scrapeCfg, w)
		},
		Generate: driver.Generate,
		Session:  &session.Store{},
		Archive:  archive,
	}
}

// writeOutputs persists the report and deck under outputDir.
func writeOutputs(rec types.GenerationRecord, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	reportPath := filepath.Join(outputDir, "report.md")
	if err := os.WriteFile(reportPath, []byte(rec.Report), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", reportPath)

	slidesData, err := yaml.Marshal(rec.Slides)
	if err != nil {
		return fmt.Errorf("serializing slides: %w", err)
	}
	slidesPath := filepath.Join(outputDir, "slides.yaml")
	if err := os.WriteFile(slidesPath, slidesData, 0o644); err != nil {
		return fmt.Errorf("writing slides: %w", err)
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", slidesPath)

	return nil
}
