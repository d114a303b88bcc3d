// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/scholarmind/scholarmind/internal/gen"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported output languages",
	Run: func(cmd *cobra.Command, args []string) {
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "LANGUAGE\tNATIVE NAME")
		for _, l := range gen.Languages() {
			fmt.Fprintf(tw, "%s\t%s\n", l.Name, l.Native)
		}
		tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}
