package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/citelens/citelens/internal/paper"
)

// setupTestDB creates an empty test database in a temp directory.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open test DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testPaper() paper.Paper {
	return paper.Paper{
		Title:   "Machine Learning in Biology",
		DOI:     "10.1234/smith",
		ArXivID: "2301.01234",
		Year:    2023,
		Venue:   "Nature",
		Authors: []paper.Author{
			{First: "John", Last: "Smith"},
			{First: "Jane", Last: "Doe"},
		},
		URL:    "https://example.org/smith",
		Source: paper.PlatformSemanticScholar,
	}
}

func TestUpsertPaper_Insert(t *testing.T) {
	db := setupTestDB(t)

	id, err := db.UpsertPaper(testPaper())
	if err != nil {
		t.Fatal(err)
	}
	if id == 0 {
		t.Fatal("expected non-zero paper ID")
	}

	count, err := db.CountPapers()
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected 1 paper, got %d", count)
	}
}

func TestUpsertPaper_UpdateByDOI(t *testing.T) {
	db := setupTestDB(t)

	first := testPaper()
	id1, err := db.UpsertPaper(first)
	if err != nil {
		t.Fatal(err)
	}

	// Same DOI from another platform, different title casing, extra fields.
	second := paper.Paper{
		Title:    "Machine learning in biology",
		DOI:      "https://doi.org/10.1234/SMITH",
		Abstract: "An abstract from ORCID.",
		Source:   paper.PlatformORCID,
	}
	id2, err := db.UpsertPaper(second)
	if err != nil {
		t.Fatal(err)
	}
	if id1 != id2 {
		t.Fatalf("expected same paper ID, got %d and %d", id1, id2)
	}

	got, err := db.FindByIdentifier("10.1234/smith")
	if err != nil {
		t.Fatal(err)
	}
	// First platform to report a value wins; abstract was empty and gets filled.
	if got.Venue != "Nature" {
		t.Errorf("venue = %q, want Nature", got.Venue)
	}
	if got.Abstract != "An abstract from ORCID." {
		t.Errorf("abstract not filled: %q", got.Abstract)
	}

	count, _ := db.CountPapers()
	if count != 1 {
		t.Errorf("expected 1 paper after upsert, got %d", count)
	}
}

func TestUpsertPaper_UpdateByTitleFallback(t *testing.T) {
	db := setupTestDB(t)

	p := testPaper()
	p.DOI = ""
	p.ArXivID = ""
	id1, err := db.UpsertPaper(p)
	if err != nil {
		t.Fatal(err)
	}

	// Re-ingested with a DOI this time; title match must dedupe.
	p2 := testPaper()
	p2.ArXivID = ""
	id2, err := db.UpsertPaper(p2)
	if err != nil {
		t.Fatal(err)
	}
	if id1 != id2 {
		t.Errorf("title fallback failed: got IDs %d and %d", id1, id2)
	}

	got, err := db.FindByIdentifier("10.1234/smith")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != id1 {
		t.Errorf("DOI was not backfilled onto existing paper")
	}
}

func TestUpsertPaper_RejectsUntitled(t *testing.T) {
	db := setupTestDB(t)
	if _, err := db.UpsertPaper(paper.Paper{DOI: "10.1/x"}); err == nil {
		t.Fatal("expected error for paper without title")
	}
}

func TestFindByIdentifier_NotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.FindByIdentifier("10.9999/nope")
	if !errors.Is(err, ErrPaperNotFound) {
		t.Fatalf("expected ErrPaperNotFound, got %v", err)
	}
}

func TestFindByIdentifier_ByArXivID(t *testing.T) {
	db := setupTestDB(t)

	if _, err := db.UpsertPaper(testPaper()); err != nil {
		t.Fatal(err)
	}

	got, err := db.FindByIdentifier("2301.01234v2")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Machine Learning in Biology" {
		t.Errorf("unexpected paper: %s", got.Title)
	}
	if len(got.Authors) != 2 || got.Authors[0].Last != "Smith" {
		t.Errorf("authors not preserved: %+v", got.Authors)
	}
}

func TestCitations_AppendAndLatest(t *testing.T) {
	db := setupTestDB(t)

	id, err := db.UpsertPaper(testPaper())
	if err != nil {
		t.Fatal(err)
	}

	now := time.Now()
	records := []paper.CitationRecord{
		{PaperID: id, Platform: paper.PlatformSemanticScholar, CitationCount: 10, FetchedAt: now.AddDate(0, 0, -40)},
		{PaperID: id, Platform: paper.PlatformSemanticScholar, CitationCount: 12, FetchedAt: now.AddDate(0, 0, -5)},
		{PaperID: id, Platform: paper.PlatformGoogleScholar, CitationCount: 15, FetchedAt: now.AddDate(0, 0, -5)},
	}
	for _, rec := range records {
		if err := db.AddCitationRecord(rec); err != nil {
			t.Fatal(err)
		}
	}

	current, err := db.CurrentCitations(id)
	if err != nil {
		t.Fatal(err)
	}
	if current != 15 {
		t.Errorf("current citations = %d, want 15", current)
	}

	papers, err := db.PapersWithLatestCitations()
	if err != nil {
		t.Fatal(err)
	}
	if len(papers) != 1 {
		t.Fatalf("expected 1 paper, got %d", len(papers))
	}
	if papers[0].Citations != 15 {
		t.Errorf("citations = %d, want 15", papers[0].Citations)
	}
}

func TestCitationHistory_WindowAndOrder(t *testing.T) {
	db := setupTestDB(t)

	id, err := db.UpsertPaper(testPaper())
	if err != nil {
		t.Fatal(err)
	}

	now := time.Now()
	counts := map[int]int{400: 1, 20: 5, 3: 9} // daysAgo -> count
	for daysAgo, count := range counts {
		err := db.AddCitationRecord(paper.CitationRecord{
			PaperID:       id,
			Platform:      paper.PlatformSemanticScholar,
			CitationCount: count,
			FetchedAt:     now.AddDate(0, 0, -daysAgo),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	history, err := db.CitationHistory(id, 365)
	if err != nil {
		t.Fatal(err)
	}
	// The 400-day-old record falls outside the window.
	if len(history) != 2 {
		t.Fatalf("expected 2 points in window, got %d", len(history))
	}
	if history[0].CitationCount != 5 || history[1].CitationCount != 9 {
		t.Errorf("history not oldest-first: %+v", history)
	}
}

func TestPapersWithLatestCitations_NoRecords(t *testing.T) {
	db := setupTestDB(t)

	if _, err := db.UpsertPaper(testPaper()); err != nil {
		t.Fatal(err)
	}

	papers, err := db.PapersWithLatestCitations()
	if err != nil {
		t.Fatal(err)
	}
	if len(papers) != 1 || papers[0].Citations != 0 {
		t.Errorf("paper without records should report zero citations: %+v", papers)
	}
}

func TestSyncStatus_Overwrite(t *testing.T) {
	db := setupTestDB(t)

	if err := db.SetSyncStatus(paper.PlatformORCID, paper.SyncError, "timeout"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetSyncStatus(paper.PlatformORCID, paper.SyncSuccess, ""); err != nil {
		t.Fatal(err)
	}

	statuses, err := db.SyncStatuses()
	if err != nil {
		t.Fatal(err)
	}
	if len(statuses) != 1 {
		t.Fatalf("expected 1 status row, got %d", len(statuses))
	}
	if statuses[0].Status != paper.SyncSuccess {
		t.Errorf("status = %q, want success", statuses[0].Status)
	}
	if statuses[0].Message != "" {
		t.Errorf("message should be cleared, got %q", statuses[0].Message)
	}
}
