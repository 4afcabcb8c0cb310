package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/citelens/citelens/internal/paper"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show last sync status per platform",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	mustLoadConfig()
	db := mustOpenDatabase()
	defer db.Close()

	statuses, err := db.SyncStatuses()
	if err != nil {
		exitWithError(ExitDataError, "reading sync status: %v", err)
	}

	if humanOutput {
		if len(statuses) == 0 {
			fmt.Println("No syncs recorded; run citelens fetch")
			return nil
		}
		for _, s := range statuses {
			line := fmt.Sprintf("%-18s %-8s %s", string(s.Platform)+":", s.Status, s.SyncedAt.Format("2006-01-02 15:04"))
			if s.Message != "" {
				line += "  " + s.Message
			}
			fmt.Println(line)
		}
	} else {
		if statuses == nil {
			statuses = []paper.SyncStatus{}
		}
		outputJSON(statuses)
	}

	return nil
}
