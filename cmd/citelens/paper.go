package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/citelens/citelens/internal/metrics"
	"github.com/citelens/citelens/internal/storage"
)

func init() {
	rootCmd.AddCommand(paperCmd)
}

var paperCmd = &cobra.Command{
	Use:   "paper <identifier>",
	Short: "Show detailed stats for one paper",
	Long: `Show citation statistics for one paper, identified by DOI, arXiv ID
or exact title.

Growth figures report citations gained over the last week, month and
year, based on the locally recorded snapshots.

Examples:
  citelens paper 10.1093/sysbio/syaa001
  citelens paper 2101.00001`,
	Args: cobra.ExactArgs(1),
	RunE: runPaper,
}

func runPaper(cmd *cobra.Command, args []string) error {
	mustLoadConfig()
	db := mustOpenDatabase()
	defer db.Close()

	stats, err := metrics.NewCalculator(db).PaperStats(args[0])
	if err != nil {
		if errors.Is(err, storage.ErrPaperNotFound) {
			exitWithError(ExitNotFound, "paper not found: %s", args[0])
		}
		exitWithError(ExitDataError, "computing paper stats: %v", err)
	}

	if humanOutput {
		fmt.Println(stats.Title)
		if stats.Venue != "" {
			fmt.Printf("  venue:     %s\n", stats.Venue)
		}
		if stats.Year > 0 {
			fmt.Printf("  year:      %d\n", stats.Year)
		}
		if stats.DOI != "" {
			fmt.Printf("  doi:       %s\n", stats.DOI)
		}
		if stats.ArXivID != "" {
			fmt.Printf("  arxiv:     %s\n", stats.ArXivID)
		}
		fmt.Printf("  citations: %d\n", stats.Citations)
		fmt.Printf("  growth:    +%d (7d), +%d (30d), +%d (1y)\n",
			stats.Citations7d, stats.Citations30d, stats.Citations1y)
	} else {
		outputJSON(stats)
	}

	return nil
}
