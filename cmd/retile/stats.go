package main

import (
	"github.com/spf13/cobra"
	"github.com/tingold/retile"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var statsCmd = &cobra.Command{
	Use:   "stats FILE...",
	Short: "Report how much of each tile holds data",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	p := message.NewPrinter(language.English)
	for _, path := range args {
		b, err := readTile(path)
		if err != nil {
			return err
		}
		n, err := retile.CountNonTransparentROI(b, 0, 0, b.Width-1, b.Height-1)
		if err != nil {
			return err
		}
		total := b.Width * b.Height
		p.Fprintf(cmd.OutOrStdout(), "%s: %dx%d, %d of %d pixels hold data (%.1f%%)\n",
			path, b.Width, b.Height, n, total, 100*float64(n)/float64(total))
	}
	return nil
}
