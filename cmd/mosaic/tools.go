package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/mosaic/internal/presentation/tui"
	"github.com/aretw0/mosaic/pkg/domain"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools panes can host",
	Run: func(cmd *cobra.Command, args []string) {
		reg := tui.Tools(nil, nil)
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KIND\tTITLE\t")
		for _, t := range reg.Tools() {
			marker := ""
			if t.Kind == domain.DefaultTool {
				marker = "(default)"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", t.Kind, t.Title, marker)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}
