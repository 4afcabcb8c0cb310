package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/citelens/citelens/internal/metrics"
)

func init() {
	rootCmd.AddCommand(trendsCmd)
}

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show papers and citations by publication year",
	RunE:  runTrends,
}

func runTrends(cmd *cobra.Command, args []string) error {
	mustLoadConfig()
	db := mustOpenDatabase()
	defer db.Close()

	trends, err := metrics.NewCalculator(db).CitationTrends()
	if err != nil {
		exitWithError(ExitDataError, "computing trends: %v", err)
	}

	if humanOutput {
		if trends.TotalPapers == 0 {
			fmt.Println("No papers tracked; run citelens fetch")
			return nil
		}

		years := make([]int, 0, len(trends.ByYear))
		for year := range trends.ByYear {
			years = append(years, year)
		}
		sort.Ints(years)

		fmt.Println("Year   Papers  Citations")
		for _, year := range years {
			yt := trends.ByYear[year]
			fmt.Printf("%d  %6d  %9d\n", year, yt.Papers, yt.Citations)
		}
		fmt.Printf("Total  %6d  %9d\n", trends.TotalPapers, trends.TotalCitations)
	} else {
		outputJSON(trends)
	}

	return nil
}
