package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/citelens/citelens/internal/paper"
)

// PaperCitations pairs a paper with its current citation count estimate.
type PaperCitations struct {
	paper.Paper
	Citations int `json:"citations"`
}

// CitationPoint is one point in a paper's citation history.
type CitationPoint struct {
	FetchedAt     time.Time `json:"fetched_at"`
	CitationCount int       `json:"citation_count"`
}

// AddCitationRecord appends a citation snapshot. Records are never mutated.
func (d *DB) AddCitationRecord(rec paper.CitationRecord) error {
	fetchedAt := rec.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	_, err := d.db.Exec(`
		INSERT INTO citations (paper_id, platform, citation_count, h_index, fetched_at)
		VALUES (?, ?, ?, ?, ?)`,
		rec.PaperID, string(rec.Platform), rec.CitationCount,
		nullableInt(rec.HIndex), formatTime(fetchedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting citation record: %w", err)
	}
	return nil
}

// PapersWithLatestCitations returns every paper with its current citation
// count: the maximum count observed across platforms. Upstream counts can
// regress between fetches; the maximum is the best current estimate. Papers
// with no citation records report zero.
func (d *DB) PapersWithLatestCitations() ([]PaperCitations, error) {
	rows, err := d.db.Query(`
		SELECT ` + selectPaperFields + `, COALESCE(c.citations, 0)
		FROM papers
		LEFT JOIN (
			SELECT paper_id, MAX(citation_count) AS citations
			FROM citations
			GROUP BY paper_id
		) c ON c.paper_id = papers.id
		ORDER BY papers.id`)
	if err != nil {
		return nil, fmt.Errorf("querying papers with citations: %w", err)
	}
	defer rows.Close()

	var results []PaperCitations
	for rows.Next() {
		var pc PaperCitations
		p, count, err := scanPaperWithCount(rows)
		if err != nil {
			return nil, err
		}
		pc.Paper = *p
		pc.Citations = count
		results = append(results, pc)
	}
	return results, rows.Err()
}

// CurrentCitations returns the maximum citation count observed for a paper,
// or 0 when no snapshots exist.
func (d *DB) CurrentCitations(paperID int64) (int, error) {
	var count int
	err := d.db.QueryRow(`
		SELECT COALESCE(MAX(citation_count), 0) FROM citations WHERE paper_id = ?`,
		paperID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("querying current citations: %w", err)
	}
	return count, nil
}

// CitationHistory returns citation snapshots for a paper within the last
// `days` days, oldest first.
func (d *DB) CitationHistory(paperID int64, days int) ([]CitationPoint, error) {
	cutoff := formatTime(time.Now().AddDate(0, 0, -days))

	rows, err := d.db.Query(`
		SELECT fetched_at, citation_count
		FROM citations
		WHERE paper_id = ? AND fetched_at >= ?
		ORDER BY fetched_at`,
		paperID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("querying citation history: %w", err)
	}
	defer rows.Close()

	var history []CitationPoint
	for rows.Next() {
		var fetchedAt string
		var point CitationPoint
		if err := rows.Scan(&fetchedAt, &point.CitationCount); err != nil {
			return nil, err
		}
		point.FetchedAt = parseTime(fetchedAt)
		history = append(history, point)
	}
	return history, rows.Err()
}

// scanPaperWithCount scans a paper row with a trailing citation count column.
func scanPaperWithCount(s scanner) (*paper.Paper, int, error) {
	var p paper.Paper
	var count int
	var doi, arxivID, venue, abstract, url, authorsJSON sql.NullString
	var year sql.NullInt64
	var source, createdAt, updatedAt string

	err := s.Scan(
		&p.ID, &p.Title, &doi, &arxivID, &year, &venue, &abstract, &url,
		&authorsJSON, &source, &createdAt, &updatedAt, &count,
	)
	if err != nil {
		return nil, 0, err
	}

	p.DOI = doi.String
	p.ArXivID = arxivID.String
	p.Venue = venue.String
	p.Abstract = abstract.String
	p.URL = url.String
	p.Year = int(year.Int64)
	p.Source = paper.Platform(source)
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)

	if authorsJSON.Valid && authorsJSON.String != "" {
		if err := json.Unmarshal([]byte(authorsJSON.String), &p.Authors); err != nil {
			return nil, 0, fmt.Errorf("parsing authors JSON for paper %d: %w", p.ID, err)
		}
	}

	return &p, count, nil
}
