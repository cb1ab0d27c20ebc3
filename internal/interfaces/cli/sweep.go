package cli

import (
	"github.com/spf13/cobra"

	"github.com/turtacn/CaseRisk-Intelligence/internal/platform"
	appErrors "github.com/turtacn/CaseRisk-Intelligence/pkg/errors"
)

// newSweepCommand builds "caserisk sweep": run one corpus-wide analytics
// sweep and print the tally.
func newSweepCommand(opts *RootOptions) *cobra.Command {
	var (
		concurrency int
		failOnError bool
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Recompute analytics for every entity",
		Long: "Pages through the entity store and recomputes each entity's\n" +
			"analytics record with a bounded worker pool.  One entity's failure\n" +
			"never aborts the sweep; the final tally is printed as JSON.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if concurrency > 0 {
				cfg.Worker.Concurrency = concurrency
			}
			logger, err := newLogger(cfg, opts)
			if err != nil {
				return err
			}

			p, err := platform.NewPlatform(cmd.Context(), cfg, logger, platform.Options{})
			if err != nil {
				return err
			}
			defer p.Close()

			result, sweepErr := p.Analytics.ComputeForAllEntities(cmd.Context())
			if err := printJSON(cmd, result); err != nil {
				return err
			}
			if sweepErr != nil {
				return sweepErr
			}
			if failOnError && result.Failed > 0 {
				return appErrors.New(appErrors.ErrCodeSweepAborted, "sweep finished with failed entities")
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "override worker.concurrency for this sweep")
	cmd.Flags().BoolVar(&failOnError, "fail-on-error", false, "exit non-zero when any entity failed")
	return cmd
}
