// Package integration exercises the full store-then-analyze pipeline
// across packages.
package integration

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/citelens/citelens/internal/export"
	"github.com/citelens/citelens/internal/metrics"
	"github.com/citelens/citelens/internal/paper"
	"github.com/citelens/citelens/internal/storage"
)

// TestPipeline simulates fetches from several platforms reporting the
// same papers under different identifiers, then checks the metrics and
// export built on top of the merged records.
func TestPipeline(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "citations.db"))
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	// ORCID reports the paper with a DOI but no abstract.
	orcidPaper := paper.Paper{
		Title:  "Variational Tree Inference",
		DOI:    "https://doi.org/10.1093/SYSBIO/syaa001",
		Year:   2021,
		Venue:  "Systematic Biology",
		Source: paper.PlatformORCID,
	}
	id1, err := db.UpsertPaper(orcidPaper)
	if err != nil {
		t.Fatalf("upserting ORCID paper: %v", err)
	}

	// Semantic Scholar reports the same paper with an abstract and an
	// arXiv ID; it must merge, not duplicate.
	s2Paper := paper.Paper{
		Title:    "Variational Tree Inference",
		DOI:      "10.1093/sysbio/syaa001",
		ArXivID:  "2101.00001",
		Abstract: "We present a variational method.",
		Authors:  paper.AuthorsFromNames([]string{"Jane Smith"}),
		Year:     2021,
		Source:   paper.PlatformSemanticScholar,
	}
	id2, err := db.UpsertPaper(s2Paper)
	if err != nil {
		t.Fatalf("upserting S2 paper: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("same DOI produced two papers: %d and %d", id1, id2)
	}

	second := paper.Paper{
		Title:  "An Overlooked Note",
		DOI:    "10.5555/note.2020",
		Year:   2020,
		Venue:  "PNAS",
		Source: paper.PlatformSemanticScholar,
	}
	noteID, err := db.UpsertPaper(second)
	if err != nil {
		t.Fatalf("upserting second paper: %v", err)
	}

	// Citation snapshots from two platforms; the max across all records
	// wins per paper, even when a later platform reports fewer.
	records := []paper.CitationRecord{
		{PaperID: id1, Platform: paper.PlatformGoogleScholar, CitationCount: 30,
			FetchedAt: time.Now().AddDate(0, 0, -400)},
		{PaperID: id1, Platform: paper.PlatformSemanticScholar, CitationCount: 18,
			FetchedAt: time.Now().AddDate(0, 0, -40)},
		{PaperID: id1, Platform: paper.PlatformSemanticScholar, CitationCount: 25},
		{PaperID: noteID, Platform: paper.PlatformSemanticScholar, CitationCount: 2},
	}
	for _, rec := range records {
		if err := db.AddCitationRecord(rec); err != nil {
			t.Fatalf("adding citation record: %v", err)
		}
	}

	calc := metrics.NewCalculator(db)

	summary, err := calc.Summary()
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if summary.TotalPapers != 2 {
		t.Errorf("TotalPapers = %d, want 2", summary.TotalPapers)
	}
	if summary.TotalCitations != 32 {
		t.Errorf("TotalCitations = %d, want 32 (30 + 2)", summary.TotalCitations)
	}
	if summary.HIndex != 2 {
		t.Errorf("HIndex = %d, want 2", summary.HIndex)
	}

	stats, err := calc.PaperStats("2101.00001")
	if err != nil {
		t.Fatalf("PaperStats() error = %v", err)
	}
	if stats.Citations != 30 {
		t.Errorf("Citations = %d, want 30 (max across platforms)", stats.Citations)
	}
	// The 30-in-window max is the fresh 25; growth is measured against it.
	if stats.Citations30d != 5 {
		t.Errorf("Citations30d = %d, want 5 (30 - 25)", stats.Citations30d)
	}

	promoted, err := calc.LowVisibilityPapers(10)
	if err != nil {
		t.Fatalf("LowVisibilityPapers() error = %v", err)
	}
	if len(promoted) != 1 || promoted[0].Title != "An Overlooked Note" {
		t.Fatalf("promotion candidates = %+v, want just the note", promoted)
	}
	if promoted[0].Potential <= 0 {
		t.Errorf("Potential = %v, want venue bonus applied", promoted[0].Potential)
	}

	// The merged record exports with the filled-in fields.
	merged, err := db.FindByIdentifier("10.1093/sysbio/syaa001")
	if err != nil {
		t.Fatalf("FindByIdentifier() error = %v", err)
	}
	bib := export.ToBibTeX(*merged)
	if !strings.Contains(bib, "eprint = {2101.00001}") {
		t.Errorf("export missing merged arXiv ID:\n%s", bib)
	}
	if !strings.Contains(bib, "journal = {Systematic Biology}") {
		t.Errorf("export missing venue:\n%s", bib)
	}
	if !strings.Contains(bib, "author = {Smith, Jane}") {
		t.Errorf("export missing merged authors:\n%s", bib)
	}
}
