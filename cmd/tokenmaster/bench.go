package main

import (
	"fmt"

	"github.com/example/go-tokenmaster/internal/bench"
	"github.com/example/go-tokenmaster/internal/render"
	"github.com/spf13/cobra"
)

func newBenchCmd() *cobra.Command {
	var (
		runs    int
		minRate float64
	)

	cmd := &cobra.Command{
		Use:   "bench [text|-]",
		Short: "Benchmark encode latency and throughput",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}
			if runs < 1 {
				return fmt.Errorf("--runs must be at least 1")
			}

			input, err := readInput(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			results, err := bench.Run(newTokenizer(), input, runs)
			if err != nil {
				return err
			}

			stats := bench.ComputeStats(bench.Durations(results))

			switch format {
			case render.FormatJSON:
				bench.FormatJSON(results, stats, cmd.OutOrStdout())
			default:
				bench.FormatTable(results, stats, cmd.OutOrStdout())
			}

			return bench.CheckThroughputThreshold(bench.MeanThroughput(results), minRate)
		},
	}

	cmd.Flags().IntVar(&runs, "runs", 5, "Number of encode runs")
	cmd.Flags().Float64Var(&minRate, "min-ids-per-sec", 0, "Exit non-zero if mean throughput is below this value (0 = disabled)")

	return cmd
}
