// -- cmd/stats.go --
package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/davenull7x/listforge/internal/config"
	"github.com/davenull7x/listforge/internal/observability"
	"github.com/davenull7x/listforge/internal/store"
)

// newStatsCmd creates and configures the `stats` command.
func newStatsCmd() *cobra.Command {
	var showResults bool

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Prints the field requirement statistics from the last analysis",
		Long: `Renders the persisted field statistics report: how many sites were
analyzed, which canonical fields their forms require and how often. With
--results it also tallies the submission results log.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()

			cfg, err := config.NewFromViper(viper.GetViper())
			if err != nil {
				return err
			}
			st := store.New(cfg.Stores.SiteProfiles, cfg.Stores.Results, cfg.Stores.FieldStats, logger)

			report, err := st.LoadStats()
			if err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to load field statistics: %w", err)
			}
			if report.TotalSites == 0 {
				fmt.Println("No field statistics recorded yet. Run `listforge analyze` first.")
				return nil
			}

			fmt.Printf("Sites analyzed: %d (%d with a usable form)\n\n", report.TotalSites, report.SuccessfulAnalysis)

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FIELD\tOCCURRENCES\tSITES\tFREQUENCY")
			for _, stat := range report.FieldRequirements {
				fmt.Fprintf(w, "%s\t%d\t%d\t%.0f%%\n", stat.Key, stat.Count, len(stat.Sites), stat.Frequency)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if showResults {
				if err := printResultTally(st); err != nil {
					return err
				}
			}
			return nil
		},
	}

	statsCmd.Flags().BoolVar(&showResults, "results", false, "also tally the submission results log")

	return statsCmd
}

func printResultTally(st *store.Store) error {
	records, err := st.LoadResults()
	if err != nil {
		return fmt.Errorf("failed to load submission results: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("\nNo submissions recorded yet.")
		return nil
	}

	var succeeded, failed, manual int
	for _, rec := range records {
		switch {
		case rec.Result.RequiresManual:
			manual++
		case rec.Result.Success:
			succeeded++
		default:
			failed++
		}
	}
	fmt.Printf("\nSubmissions: %d total: %d succeeded, %d failed, %d manual.\n",
		len(records), succeeded, failed, manual)
	return nil
}
