// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List archived research cycles",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 0, "maximum runs to list (default 20)")
	historyCmd.Flags().String("history-dir", defaultHistoryDir, "directory for the run archive")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	archive, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer archive.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	recs, err := archive.List(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("no archived research cycles")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CREATED\tTOPIC\tLANGUAGE\tREPORT\tSLIDES")
	for _, rec := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d chars\t%d\n",
			rec.Created.Local().Format("2006-01-02 15:04"),
			rec.Topic, rec.Language, len(rec.Report), len(rec.Slides))
	}
	return tw.Flush()
}
