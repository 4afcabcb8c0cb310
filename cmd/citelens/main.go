// Package main provides the citelens CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	// API keys may live in a local .env instead of the config file.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "citelens",
	Short: "Track your publications and citations across platforms",
	Long: `citelens aggregates a researcher's publications and citation counts
from ORCID, arXiv, Semantic Scholar and Google Scholar into a local
SQLite database, then computes metrics over the collected history:
h-index, citation growth, per-year trends and promotion candidates.

All commands output JSON by default for easy scripting; pass --human
for readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}
