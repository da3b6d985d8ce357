package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/example/go-tokenmaster/internal/render"
	"github.com/example/go-tokenmaster/internal/tokenizer"
	"github.com/spf13/cobra"
)

func newDecodeCmd() *cobra.Command {
	var recordsFile string

	cmd := &cobra.Command{
		Use:   "decode [ids|-]",
		Short: "Decode ids ([1,2,3] or 1,2,3) back to text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}

			var text string
			if recordsFile != "" {
				text, err = decodeRecordsFile(recordsFile)
			} else {
				var input string
				input, err = readInput(args, cmd.InOrStdin())
				if err != nil {
					return err
				}
				text, err = newTokenizer().DecodeString(input)
			}
			if err != nil {
				return err
			}

			if format == render.FormatJSON {
				return render.JSON(cmd.OutOrStdout(), map[string]string{"text": text})
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}

	cmd.Flags().StringVar(&recordsFile, "records", "", "JSON file of encoded-token records to decode exactly")

	return cmd
}

func decodeRecordsFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read records: %w", err)
	}

	var records []tokenizer.EncodedToken
	if err := json.Unmarshal(b, &records); err != nil {
		return "", fmt.Errorf("parse records %s: %w", path, err)
	}

	return tokenizer.DecodeRecords(records), nil
}
