package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/citelens/citelens/internal/config"
	"github.com/citelens/citelens/internal/storage"
)

var (
	initName  string
	initORCID string
)

func init() {
	initCmd.Flags().StringVar(&initName, "name", "", "Researcher name used for author searches")
	initCmd.Flags().StringVar(&initORCID, "orcid", "", "ORCID iD (e.g., 0000-0002-1825-0097)")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the citelens data directory",
	Long: `Initialize the citelens data directory.

Creates:
  ~/.citelens/
  ├── config.yml      # Platform configuration
  └── citations.db    # SQLite citation database

The location can be overridden with the CITELENS_HOME environment
variable.

Examples:
  citelens init --name "Jane Smith" --orcid 0000-0002-1825-0097`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	if config.IsInitialized() {
		exitWithError(ExitError, "already initialized at %s", config.DataDir())
	}

	cfg := config.Default()
	cfg.User.Name = initName
	cfg.User.ORCID = initORCID

	if err := cfg.Save(); err != nil {
		exitWithError(ExitConfigError, "writing config: %v", err)
	}

	// Create the database up front so later commands never race on schema
	// creation.
	db, err := storage.Open(config.DBPath())
	if err != nil {
		exitWithError(ExitDataError, "creating database: %v", err)
	}
	db.Close()

	if humanOutput {
		fmt.Printf("Initialized citelens in %s\n", config.DataDir())
		if initName == "" {
			fmt.Println("Set your name with: citelens config user.name \"Your Name\"")
		}
	} else {
		outputJSON(StatusResponse{
			Status: "initialized",
			Path:   config.DataDir(),
		})
	}

	return nil
}
