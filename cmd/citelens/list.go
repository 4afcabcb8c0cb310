package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/citelens/citelens/internal/storage"
)

var listLimit int

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum results to return (0 = all)")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tracked papers",
	Long: `List all tracked papers with their current citation counts.

Examples:
  citelens list
  citelens list --limit 20`,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	mustLoadConfig()
	db := mustOpenDatabase()
	defer db.Close()

	papers, err := db.PapersWithLatestCitations()
	if err != nil {
		exitWithError(ExitDataError, "listing papers: %v", err)
	}
	if listLimit > 0 && len(papers) > listLimit {
		papers = papers[:listLimit]
	}

	if humanOutput {
		if len(papers) == 0 {
			fmt.Println("No papers tracked; run citelens fetch")
			return nil
		}
		for _, p := range papers {
			year := "    "
			if p.Year > 0 {
				year = fmt.Sprintf("%d", p.Year)
			}
			fmt.Printf("  %s %5d  %s\n", year, p.Citations, truncateString(p.Title, ListTitleMaxLen))
		}
	} else {
		if papers == nil {
			papers = []storage.PaperCitations{}
		}
		outputJSON(papers)
	}

	return nil
}
