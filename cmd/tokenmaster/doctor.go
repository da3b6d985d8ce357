package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/example/go-tokenmaster/internal/doctor"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check vocabulary and codec invariants",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := requireConfig(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			result := doctor.Run(doctor.Config{}, out)

			if result.Failed() {
				for _, f := range result.Failures() {
					// #nosec G705 -- Writes plain diagnostic text to stderr for CLI output, not HTML rendering.
					fmt.Fprintf(os.Stderr, "FAIL: %s\n", f)
				}

				return errors.New("doctor checks failed")
			}

			_, _ = fmt.Fprintln(out, "doctor checks passed")

			return nil
		},
	}
}
