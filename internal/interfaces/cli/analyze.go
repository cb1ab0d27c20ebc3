package cli

import (
	"github.com/spf13/cobra"

	"github.com/turtacn/CaseRisk-Intelligence/internal/platform"
	commonTypes "github.com/turtacn/CaseRisk-Intelligence/pkg/types/common"
)

// newAnalyzeCommand builds "caserisk analyze <entity-id>": recompute (or
// just fetch) the analytics record for one entity and print it.
func newAnalyzeCommand(opts *RootOptions) *cobra.Command {
	var readOnly bool

	cmd := &cobra.Command{
		Use:   "analyze <entity-id>",
		Short: "Compute the analytics record for one entity",
		Long: "Retrieves the entity's case corpus, recomputes its risk score,\n" +
			"financial exposure, subject matter and success rate, persists the\n" +
			"record, and prints it as JSON.  With --read-only the stored record is\n" +
			"fetched without recomputation.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
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

			entityID := commonTypes.ID(args[0])
			rec, err := fetchOrCompute(cmd, p, entityID, readOnly)
			if err != nil {
				return err
			}
			return printJSON(cmd, rec)
		},
	}

	cmd.Flags().BoolVar(&readOnly, "read-only", false, "fetch the stored record without recomputing")
	return cmd
}

func fetchOrCompute(cmd *cobra.Command, p *platform.Platform, entityID commonTypes.ID, readOnly bool) (interface{}, error) {
	if readOnly {
		return p.Analytics.GetForEntity(cmd.Context(), entityID)
	}
	return p.Analytics.ComputeForEntity(cmd.Context(), entityID)
}
