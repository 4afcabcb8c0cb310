package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/citelens/citelens/internal/metrics"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show citation summary statistics",
	Long: `Show aggregate statistics over all tracked papers: paper count,
total citations, h-index and average citations per paper.`,
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	mustLoadConfig()
	db := mustOpenDatabase()
	defer db.Close()

	summary, err := metrics.NewCalculator(db).Summary()
	if err != nil {
		exitWithError(ExitDataError, "computing summary: %v", err)
	}

	if humanOutput {
		fmt.Printf("Papers:          %d\n", summary.TotalPapers)
		fmt.Printf("Total citations: %d\n", summary.TotalCitations)
		fmt.Printf("h-index:         %d\n", summary.HIndex)
		fmt.Printf("Avg citations:   %.1f\n", summary.AvgCitations)
	} else {
		outputJSON(summary)
	}

	return nil
}
