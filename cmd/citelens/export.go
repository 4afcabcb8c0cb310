package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/citelens/citelens/internal/export"
	"github.com/citelens/citelens/internal/storage"
)

var exportOutput string

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [identifier]",
	Short: "Export papers as BibTeX",
	Long: `Export tracked papers as BibTeX.

With no argument, exports every paper. With an identifier (DOI, arXiv
ID or title), exports just that paper.

Examples:
  citelens export
  citelens export -o papers.bib
  citelens export 10.1093/sysbio/syaa001`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	mustLoadConfig()
	db := mustOpenDatabase()
	defer db.Close()

	var bibtex string
	if len(args) == 1 {
		p, err := db.FindByIdentifier(args[0])
		if err != nil {
			if errors.Is(err, storage.ErrPaperNotFound) {
				exitWithError(ExitNotFound, "paper not found: %s", args[0])
			}
			exitWithError(ExitDataError, "finding paper: %v", err)
		}
		bibtex = export.ToBibTeX(*p)
	} else {
		papers, err := db.ListPapers(0)
		if err != nil {
			exitWithError(ExitDataError, "listing papers: %v", err)
		}
		bibtex = export.ToBibTeXList(papers)
	}

	if exportOutput != "" {
		if err := os.WriteFile(exportOutput, []byte(bibtex), 0644); err != nil {
			exitWithError(ExitError, "writing %s: %v", exportOutput, err)
		}
		if humanOutput {
			fmt.Printf("Exported to %s\n", exportOutput)
		} else {
			outputJSON(StatusResponse{Status: "exported", Path: exportOutput})
		}
		return nil
	}

	// BibTeX is the payload here, not a JSON wrapper.
	fmt.Print(bibtex)
	return nil
}
