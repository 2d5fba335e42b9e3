// -- cmd/analyze.go --
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/davenull7x/listforge/internal/observability"
	"github.com/davenull7x/listforge/internal/runner"
)

// newAnalyzeCmd creates and configures the `analyze` command.
func newAnalyzeCmd() *cobra.Command {
	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Profiles every pending directory and persists its site configuration",
		Long: `Visits each directory's submission page with a shared headless browser,
extracts its form structure, classifies fields into canonical keys and writes
the resulting site profiles and field statistics to disk.`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Flag overrides take precedence over config file and env values.
			if err := viper.BindPFlag("run.directory_status", cmd.Flags().Lookup("status")); err != nil {
				return err
			}
			return viper.BindPFlag("stores.directory_list", cmd.Flags().Lookup("directories"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			components, err := initializePassComponents(ctx, logger)
			if err != nil {
				return err
			}
			defer components.Shutdown(ctx)

			analyzer := runner.NewAnalyzer(components.Config, components.Store, logger)
			summary, err := analyzer.Run(ctx, components.Session, components.Directories)
			if err != nil {
				logger.Error("Profiling pass failed", zap.Error(err))
				return err
			}

			fmt.Printf("\nAnalysis complete: %d profiled, %d failed.\n", summary.Analyzed, summary.Failed)
			fmt.Printf("Profiles written to %s, statistics to %s.\n",
				components.Config.Stores.SiteProfiles, components.Config.Stores.FieldStats)
			return nil
		},
	}

	analyzeCmd.Flags().String("status", "pending", "only process directories with this status (empty for all)")
	analyzeCmd.Flags().String("directories", "directories.csv", "path to the directory list CSV")

	return analyzeCmd
}
