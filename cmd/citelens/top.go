package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/citelens/citelens/internal/metrics"
)

var topLimit int

func init() {
	topCmd.Flags().IntVar(&topLimit, "limit", 10, "Number of papers to show")
	rootCmd.AddCommand(topCmd)
}

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Show the most cited papers",
	Long: `Show papers ranked by citation count, highest first.

Examples:
  citelens top
  citelens top --limit 5`,
	RunE: runTop,
}

func runTop(cmd *cobra.Command, args []string) error {
	mustLoadConfig()
	db := mustOpenDatabase()
	defer db.Close()

	top, err := metrics.NewCalculator(db).TopPapers(topLimit)
	if err != nil {
		exitWithError(ExitDataError, "ranking papers: %v", err)
	}

	if humanOutput {
		if len(top) == 0 {
			fmt.Println("No papers tracked; run citelens fetch")
			return nil
		}
		for i, p := range top {
			fmt.Printf("%2d. %5d  %s", i+1, p.Citations, truncateString(p.Title, TopTitleMaxLen))
			if p.Year > 0 {
				fmt.Printf(" (%d)", p.Year)
			}
			fmt.Println()
		}
	} else {
		if top == nil {
			top = []metrics.TopPaper{}
		}
		outputJSON(top)
	}

	return nil
}
