// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scholarmind/scholarmind/internal/pipeline"
	"github.com/scholarmind/scholarmind/pkg/types"
)

var chatCmd = &cobra.Command{
	Use:   "chat [question...]",
	Short: "Ask a follow-up question about the latest research cycle",
	Long: `Chat answers a question using the most recently completed research
report as context. Without a completed cycle the question is answered from
general knowledge.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().String("history-dir", defaultHistoryDir, "directory for the run archive")

	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a question")
	}
	message := strings.Join(args, " ")

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
		rec = types.GenerationRecord{Topic: "general", Language: "English"}
	}

	driver, err := newDriver()
	if err != nil {
		return err
	}

	p := &pipeline.Pipeline{Generate: driver.Generate}
	reply, err := p.Chat(ctx, rec, message)
	if err != nil {
		return err
	}

	fmt.Println(reply)
	return nil
}
