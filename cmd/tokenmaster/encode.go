package main

import (
	"fmt"

	"github.com/example/go-tokenmaster/internal/render"
	"github.com/spf13/cobra"
)

func newEncodeCmd() *cobra.Command {
	var lines bool
	var records bool

	cmd := &cobra.Command{
		Use:   "encode [text|-]",
		Short: "Encode text to vocabulary ids",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if lines && records {
				return fmt.Errorf("--lines and --records are mutually exclusive")
			}

			format, err := outputFormat()
			if err != nil {
				return err
			}

			input, err := readInput(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			tok := newTokenizer()
			out := cmd.OutOrStdout()

			switch {
			case records:
				recs, err := tok.EncodedTokens(input)
				if err != nil {
					return err
				}
				if format == render.FormatJSON {
					return render.JSON(out, recs)
				}
				render.RecordsTable(out, recs)
				return nil

			case lines:
				ids, err := tok.EncodeByLine(input)
				if err != nil {
					return err
				}
				if format == render.FormatJSON {
					return render.JSON(out, ids)
				}
				_, err = fmt.Fprintln(out, render.LineIDs(ids))
				return err

			default:
				ids, err := tok.Encode(input)
				if err != nil {
					return err
				}
				if format == render.FormatJSON {
					return render.JSON(out, ids)
				}
				_, err = fmt.Fprintln(out, render.IDs(ids))
				return err
			}
		},
	}

	cmd.Flags().BoolVar(&lines, "lines", false, "Group ids by non-blank input line")
	cmd.Flags().BoolVar(&records, "records", false, "Emit encoded-token records that restore the exact text")

	return cmd
}
