// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scholarmind/scholarmind/internal/pipeline"
)

var speechCmd = &cobra.Command{
	Use:   "speech",
	Short: "Generate a presentation speech for the latest research cycle",
	Long: `Speech generates a timed speaking script from the most recently
completed research cycle: per-slide spoken text with timing markers and
speaker tips, paced to the requested duration.`,
	RunE: runSpeech,
}

func init() {
	speechCmd.Flags().Int("duration", 10, "speech length in minutes (5, 10, 15, or 20)")
	speechCmd.Flags().String("history-dir", defaultHistoryDir, "directory for the run archive")

	rootCmd.AddCommand(speechCmd)
}

func runSpeech(cmd *cobra.Command, args []string) error {
	archive, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer archive.Close()

	ctx := context.Background()
	rec, ok, err := archive.Latest(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no completed research cycle: run the research command first")
	}

	driver, err := newDriver()
	if err != nil {
		return err
	}

	duration, _ := cmd.Flags().GetInt("duration")
	p := &pipeline.Pipeline{Generate: driver.Generate}
	speech, err := p.Speech(ctx, rec, duration)
	if err != nil {
		return err
	}

	fmt.Println(speech)
	return nil
}
