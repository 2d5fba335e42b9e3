// -- cmd/submit.go --
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/davenull7x/listforge/internal/enhance"
	"github.com/davenull7x/listforge/internal/observability"
	"github.com/davenull7x/listforge/internal/runner"
	"github.com/davenull7x/listforge/internal/schema"
)

// newSubmitCmd creates and configures the `submit` command.
func newSubmitCmd() *cobra.Command {
	var dataFile string

	submitCmd := &cobra.Command{
		Use:   "submit",
		Short: "Replays stored site profiles with the listing data from a JSON file",
		Long: `Loads the listing data, validates it, then walks every pending directory
through its stored profile: navigate, reveal, fill, pause for CAPTCHA when
present, submit. Each attempt is appended to the results log as it finishes.`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlag("run.directory_status", cmd.Flags().Lookup("status")); err != nil {
				return err
			}
			if err := viper.BindPFlag("enhancer.enabled", cmd.Flags().Lookup("enhance")); err != nil {
				return err
			}
			return viper.BindPFlag("stores.directory_list", cmd.Flags().Lookup("directories"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			data, err := loadSubmissionData(dataFile)
			if err != nil {
				return err
			}

			components, err := initializePassComponents(ctx, logger)
			if err != nil {
				return err
			}
			defer components.Shutdown(ctx)

			var enhancer enhance.Enhancer
			if components.Config.Enhancer.Enabled {
				gem, err := enhance.NewGemini(ctx, components.Config.Enhancer, logger)
				if err != nil {
					logger.Warn("Content enhancer unavailable; continuing without it", zap.Error(err))
				} else {
					enhancer = gem
				}
			}

			submitter := runner.NewSubmitter(components.Config, components.Store, enhancer, logger)
			summary, err := submitter.Run(ctx, components.Session, components.Directories, data)
			if err != nil {
				logger.Error("Submission pass failed", zap.Error(err))
				return err
			}

			fmt.Printf("\nSubmission complete: %d succeeded, %d failed, %d require manual handling.\n",
				summary.Succeeded, summary.Failed, summary.Manual)
			fmt.Printf("Results appended to %s.\n", components.Config.Stores.Results)
			return nil
		},
	}

	submitCmd.Flags().StringVarP(&dataFile, "data", "d", "listing.json", "path to the listing data JSON file")
	submitCmd.Flags().String("status", "pending", "only process directories with this status (empty for all)")
	submitCmd.Flags().String("directories", "directories.csv", "path to the directory list CSV")
	submitCmd.Flags().Bool("enhance", false, "improve description/category/tags with the content enhancer")

	return submitCmd
}

// loadSubmissionData reads and validates the listing data before any
// browser work starts.
func loadSubmissionData(path string) (schema.SubmissionData, error) {
	var data schema.SubmissionData

	raw, err := os.ReadFile(path)
	if err != nil {
		return data, fmt.Errorf("failed to read listing data %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("failed to parse listing data %s: %w", path, err)
	}
	if err := data.Validate(); err != nil {
		return data, fmt.Errorf("invalid listing data: %w", err)
	}
	return data, nil
}
