package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/example/go-tokenmaster/internal/config"
	"github.com/example/go-tokenmaster/internal/render"
	"github.com/example/go-tokenmaster/internal/server"
	"github.com/example/go-tokenmaster/internal/tokenizer"
	"github.com/example/go-tokenmaster/internal/vocab"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	activeCfg config.Config
)

func NewRootCmd() *cobra.Command {
	defaults := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:           "tokenmaster",
		Short:         "Tokenize, encode and decode text against a learned vocabulary",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(config.LoadOptions{
				Cmd:        cmd,
				ConfigFile: cfgFile,
				Defaults:   defaults,
			})
			if err != nil {
				return err
			}
			activeCfg = loaded
			setupLogger(loaded.LogLevel)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Optional config file (yaml|toml|json)")
	config.RegisterFlags(cmd.PersistentFlags(), defaults)

	cmd.AddCommand(newTokenizeCmd())
	cmd.AddCommand(newEncodeCmd())
	cmd.AddCommand(newDecodeCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newVocabCmd())
	cmd.AddCommand(newBenchCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newHealthCmd())

	return cmd
}

// setupLogger configures the process-wide slog default logger.
func setupLogger(levelStr string) {
	lvl, err := server.ParseLogLevel(levelStr)
	if err != nil {
		lvl = slog.LevelInfo
	}
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(h))
}

func requireConfig() (config.Config, error) {
	if activeCfg.Output.Format == "" {
		return config.Config{}, fmt.Errorf("configuration not loaded")
	}
	return activeCfg, nil
}

// outputFormat returns the validated output format of the loaded config.
func outputFormat() (string, error) {
	cfg, err := requireConfig()
	if err != nil {
		return "", err
	}
	return render.ParseFormat(cfg.Output.Format)
}

// newTokenizer returns a tokenizer over a freshly seeded table. Each CLI
// invocation owns one table for the lifetime of the process.
func newTokenizer() *tokenizer.Tokenizer {
	return tokenizer.New(vocab.New(vocab.WithLogger(slog.Default())))
}
