package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/meikuraledutech/flow"
	"github.com/spf13/cobra"
)

var paletteCmd = &cobra.Command{
	Use:   "palette",
	Short: "List the node types available on the canvas",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TYPE\tLABEL\tRENDERER\tDESCRIPTION")
		for _, t := range flow.DefaultRegistry().Templates() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.Type, t.Label, t.Renderer, t.Description)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(paletteCmd)
}
