package main

import (
	"github.com/example/go-tokenmaster/internal/render"
	"github.com/example/go-tokenmaster/internal/stats"
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [text|-]",
		Short: "Count tokens by type, words, unique ids and lines",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}

			input, err := readInput(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			s := stats.ForText(newTokenizer(), input)

			if format == render.FormatJSON {
				return render.JSON(cmd.OutOrStdout(), s)
			}
			render.StatsTable(cmd.OutOrStdout(), s)
			return nil
		},
	}
}
