// Package cli implements the caserisk command-line interface: one-shot
// invocations of the analytics engine and migration management, sharing the
// worker's configuration and wiring.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/turtacn/CaseRisk-Intelligence/internal/config"
	"github.com/turtacn/CaseRisk-Intelligence/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds the global CLI flags.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	Quiet      bool
}

// NewRootCommand creates the root cobra command with all global flags and
// subcommands attached.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "caserisk",
		Short: "CaseRisk-Intelligence — legal-entity risk analytics from case corpora",
		Long: "CaseRisk-Intelligence derives per-entity risk assessments and\n" +
			"financial-exposure summaries from the free-text corpus of legal case\n" +
			"records mentioning each entity: weighted risk scoring, financial-impact\n" +
			"classification, subject-matter categorization, and success rates.",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "configs/config.yaml", "path to configuration file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "override the configured log level")
	cmd.PersistentFlags().BoolVarP(&opts.Quiet, "quiet", "q", false, "suppress log output, print results only")

	cmd.AddCommand(
		newAnalyzeCommand(opts),
		newSweepCommand(opts),
		newMigrateCommand(opts),
	)
	return cmd
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCommand().Execute()
}

// loadConfig resolves the effective configuration for a command invocation,
// falling back to environment-only configuration when the file is absent.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if _, statErr := os.Stat(opts.ConfigPath); statErr != nil {
		cfg, err = config.LoadFromEnv()
	} else {
		cfg, err = config.Load(opts.ConfigPath)
	}
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	return cfg, nil
}

// newLogger builds the command logger.  Quiet mode discards everything so
// stdout carries only the printed result.
func newLogger(cfg *config.Config, opts *RootOptions) (logging.Logger, error) {
	if opts.Quiet {
		return logging.NewNopLogger(), nil
	}
	lc := logging.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		// Keep stdout free for command output.
		OutputPaths: []string{"stderr"},
	}
	return logging.NewLogger(lc)
}

// printJSON renders v as indented JSON on the command's stdout.
func printJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
