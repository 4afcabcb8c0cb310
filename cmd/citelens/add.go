package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/citelens/citelens/internal/paper"
	"github.com/citelens/citelens/internal/pdfmeta"
	"github.com/citelens/citelens/internal/s2"
)

var (
	addPDF string
	addDOI string
)

func init() {
	addCmd.Flags().StringVar(&addPDF, "pdf", "", "Extract the identifier from a PDF file")
	addCmd.Flags().StringVar(&addDOI, "doi", "", "Add a paper by DOI")
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a single paper by DOI or from a PDF",
	Long: `Add a single paper to the database.

With --doi, the paper metadata and citation count are looked up on
Semantic Scholar. With --pdf, the DOI (or arXiv ID) is first extracted
from the PDF text, then looked up the same way.

Examples:
  citelens add --doi 10.1093/sysbio/syaa001
  citelens add --pdf ~/Downloads/paper.pdf`,
	RunE: runAdd,
}

// addResponse is the JSON shape of a successful add.
type addResponse struct {
	Status    string `json:"status"`
	Title     string `json:"title"`
	DOI       string `json:"doi,omitempty"`
	ArXivID   string `json:"arxiv_id,omitempty"`
	Citations int    `json:"citations"`
}

func runAdd(cmd *cobra.Command, args []string) error {
	if (addPDF == "") == (addDOI == "") {
		exitWithError(ExitError, "exactly one of --pdf or --doi is required")
	}

	cfg := mustLoadConfig()
	db := mustOpenDatabase()
	defer db.Close()

	ctx := context.Background()
	client := s2.NewClient(s2.WithAPIKey(cfg.Platform(paper.PlatformSemanticScholar).APIKey))

	var (
		sp  *s2.Paper
		err error
	)
	switch {
	case addDOI != "":
		sp, err = client.PaperByDOI(ctx, paper.NormalizeDOI(addDOI))
	default:
		sp, err = lookupFromPDF(ctx, client, addPDF)
	}
	if err != nil {
		if s2.IsNotFound(err) {
			exitWithError(ExitNotFound, "%v", err)
		}
		exitWithError(ExitError, "looking up paper: %v", err)
	}

	mapped := s2.MapPaper(*sp)
	if mapped.Title == "" {
		exitWithError(ExitDataError, "lookup returned a paper without a title")
	}

	id, err := db.UpsertPaper(mapped)
	if err != nil {
		exitWithError(ExitDataError, "storing paper: %v", err)
	}
	record := paper.CitationRecord{
		PaperID:       id,
		Platform:      paper.PlatformSemanticScholar,
		CitationCount: sp.CitationCount,
	}
	if err := db.AddCitationRecord(record); err != nil {
		exitWithError(ExitDataError, "storing citation record: %v", err)
	}

	if humanOutput {
		fmt.Printf("Added: %s (%d citations)\n", mapped.Title, sp.CitationCount)
	} else {
		outputJSON(addResponse{
			Status:    "added",
			Title:     mapped.Title,
			DOI:       mapped.DOI,
			ArXivID:   mapped.ArXivID,
			Citations: sp.CitationCount,
		})
	}

	return nil
}

// lookupFromPDF extracts an identifier from the PDF and resolves it on
// Semantic Scholar. DOI is preferred; the arXiv margin stamp is the
// fallback for preprints.
func lookupFromPDF(ctx context.Context, client *s2.Client, path string) (*s2.Paper, error) {
	doi, err := pdfmeta.ExtractDOI(path)
	if err != nil {
		return nil, fmt.Errorf("reading PDF: %w", err)
	}
	if doi != "" {
		return client.PaperByDOI(ctx, doi)
	}

	arxivID, err := pdfmeta.ExtractArXivID(path)
	if err != nil {
		return nil, fmt.Errorf("reading PDF: %w", err)
	}
	if arxivID != "" {
		return client.PaperByArXiv(ctx, arxivID)
	}

	return nil, fmt.Errorf("no DOI or arXiv ID found in %s", path)
}
