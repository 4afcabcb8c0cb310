package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/citelens/citelens/internal/fetcher"
	"github.com/citelens/citelens/internal/paper"
)

func init() {
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [platform]",
	Short: "Fetch publication data from platforms",
	Long: `Fetch publication and citation data.

With no argument, fetches from every enabled platform. A platform that
fails does not stop the others; failures are reported per platform.

Examples:
  citelens fetch
  citelens fetch semantic_scholar`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFetch,
}

// fetchReport is the JSON shape of a full fetch run.
type fetchReport struct {
	Results map[paper.Platform]*fetcher.Result `json:"results"`
	Errors  map[paper.Platform]string          `json:"errors,omitempty"`
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	db := mustOpenDatabase()
	defer db.Close()

	f := fetcher.New(cfg, db)
	ctx := context.Background()

	if len(args) == 1 {
		if !paper.IsValidPlatform(args[0]) {
			exitWithError(ExitError, "unknown platform: %s", args[0])
		}
		platform := paper.Platform(args[0])

		result, err := f.FetchPlatform(ctx, platform)
		if err != nil {
			exitWithError(ExitError, "fetching %s: %v", platform, err)
		}
		printFetchResult(result)
		return nil
	}

	results, failures := f.FetchAll(ctx)
	if len(results) == 0 && len(failures) == 0 {
		exitWithError(ExitConfigError, "no platforms enabled")
	}

	if humanOutput {
		for _, platform := range paper.AllPlatforms {
			if result, ok := results[platform]; ok {
				printFetchResult(result)
			}
			if err, ok := failures[platform]; ok {
				fmt.Printf("%-18s failed: %v\n", platform+":", err)
			}
		}
	} else {
		report := fetchReport{Results: results}
		if len(failures) > 0 {
			report.Errors = make(map[paper.Platform]string, len(failures))
			for platform, err := range failures {
				report.Errors[platform] = err.Error()
			}
		}
		outputJSON(report)
	}

	// All platforms failing is a failed run.
	if len(results) == 0 {
		return fmt.Errorf("all platforms failed")
	}
	return nil
}

func printFetchResult(result *fetcher.Result) {
	if !humanOutput {
		outputJSON(result)
		return
	}
	line := fmt.Sprintf("%-18s %d papers", string(result.Platform)+":", result.Papers)
	if result.Citations > 0 {
		line += fmt.Sprintf(", %d citations", result.Citations)
	}
	if result.HIndex > 0 {
		line += fmt.Sprintf(", h-index %d", result.HIndex)
	}
	fmt.Println(line)
}
