package main

import (
	"github.com/example/go-tokenmaster/internal/render"
	"github.com/spf13/cobra"
)

func newTokenizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokenize [text|-]",
		Short: "Split text into classified tokens",
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

			tokens := newTokenizer().Tokenize(input)

			if format == render.FormatJSON {
				return render.JSON(cmd.OutOrStdout(), tokens)
			}
			render.TokensTable(cmd.OutOrStdout(), tokens)
			return nil
		},
	}
}
