package cmd

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dsvalidate-cli/internal/loader"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported input formats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fs := loader.SupportedFormats()
		width := runewidth.StringWidth("EXTENSION")
		for _, f := range fs {
			if w := runewidth.StringWidth(f.Extension); w > width {
				width = w
			}
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s  %s\n", runewidth.FillRight("EXTENSION", width), "DESCRIPTION")
		for _, f := range fs {
			fmt.Fprintf(out, "%s  %s\n", runewidth.FillRight(f.Extension, width), f.Description)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
