package main

import (
	"github.com/example/go-tokenmaster/internal/render"
	"github.com/example/go-tokenmaster/internal/vocab"
	"github.com/spf13/cobra"
)

func newVocabCmd() *cobra.Command {
	var prefix string
	var seedOnly bool
	var learn string

	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "List vocabulary entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			format, err := render.ParseFormat(cfg.Output.Format)
			if err != nil {
				return err
			}

			tok := newTokenizer()
			if learn != "" {
				if _, err := tok.Encode(learn); err != nil {
					return err
				}
			}

			entries := filterEntries(tok.Vocabulary().WithPrefix(prefix), seedOnly, cfg.Vocab.ListLimit)

			if format == render.FormatJSON {
				return render.JSON(cmd.OutOrStdout(), entries)
			}
			render.VocabTable(cmd.OutOrStdout(), entries)
			return nil
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "Only list entries starting with this prefix")
	cmd.Flags().BoolVar(&seedOnly, "seed-only", false, "Only list seeded entries")
	cmd.Flags().StringVar(&learn, "learn", "", "Encode this text first so its learned entries are listed")

	return cmd
}

// filterEntries drops learned entries when seedOnly is set and caps the
// result at limit entries. A zero limit keeps everything.
func filterEntries(entries []vocab.Entry, seedOnly bool, limit int) []vocab.Entry {
	out := make([]vocab.Entry, 0, len(entries))
	for _, e := range entries {
		if seedOnly && !e.Seeded {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
