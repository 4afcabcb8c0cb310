package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/citelens/citelens/internal/metrics"
)

var promoteThreshold int

func init() {
	promoteCmd.Flags().IntVar(&promoteThreshold, "threshold", 10, "Citation count below which a paper is flagged")
	rootCmd.AddCommand(promoteCmd)
}

var promoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "Find low-visibility papers worth promoting",
	Long: `Find papers at least one year old with citations below the threshold,
ranked by a promotion-potential heuristic combining venue tier, recency
and current citations.

Examples:
  citelens promote
  citelens promote --threshold 5`,
	RunE: runPromote,
}

func runPromote(cmd *cobra.Command, args []string) error {
	mustLoadConfig()
	db := mustOpenDatabase()
	defer db.Close()

	flagged, err := metrics.NewCalculator(db).LowVisibilityPapers(promoteThreshold)
	if err != nil {
		exitWithError(ExitDataError, "finding candidates: %v", err)
	}

	if humanOutput {
		if len(flagged) == 0 {
			fmt.Println("No promotion candidates found")
			return nil
		}
		for i, p := range flagged {
			fmt.Printf("%2d. [%.1f] %s (%d, %d citations)\n",
				i+1, p.Potential, truncateString(p.Title, TopTitleMaxLen), p.Year, p.Citations)
		}
	} else {
		if flagged == nil {
			flagged = []metrics.LowVisibilityPaper{}
		}
		outputJSON(flagged)
	}

	return nil
}
