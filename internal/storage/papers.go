package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/citelens/citelens/internal/paper"
)

// selectPaperFields is the standard field list for paper SELECT queries.
const selectPaperFields = `id, title, doi, arxiv_id, year, venue, abstract, url,
	authors_json, source, created_at, updated_at`

// UpsertPaper inserts a paper or updates the existing row when the identity
// matches. Identity is the normalized DOI, then the arXiv ID, then a
// case-insensitive exact title match. On update, empty fields are filled from
// the incoming record and non-empty fields are left alone, so the first
// platform to report a value wins.
func (d *DB) UpsertPaper(p paper.Paper) (int64, error) {
	if p.Title == "" {
		return 0, fmt.Errorf("paper has no title")
	}

	p.DOI = paper.NormalizeDOI(p.DOI)
	p.ArXivID = paper.NormalizeArXivID(p.ArXivID)

	existing, err := d.findExisting(p)
	if err != nil {
		return 0, err
	}

	now := formatTime(time.Now())

	if existing == nil {
		authorsJSON, err := marshalAuthors(p.Authors)
		if err != nil {
			return 0, err
		}
		res, err := d.db.Exec(`
			INSERT INTO papers (title, doi, arxiv_id, year, venue, abstract, url, authors_json, source, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.Title, nullableString(p.DOI), nullableString(p.ArXivID),
			nullableInt(p.Year), nullableString(p.Venue), nullableString(p.Abstract),
			nullableString(p.URL), authorsJSON, string(p.Source), now, now,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting paper: %w", err)
		}
		return res.LastInsertId()
	}

	merged := mergePaper(*existing, p)
	authorsJSON, err := marshalAuthors(merged.Authors)
	if err != nil {
		return 0, err
	}

	_, err = d.db.Exec(`
		UPDATE papers
		SET title = ?, doi = ?, arxiv_id = ?, year = ?, venue = ?, abstract = ?, url = ?, authors_json = ?, updated_at = ?
		WHERE id = ?`,
		merged.Title, nullableString(merged.DOI), nullableString(merged.ArXivID),
		nullableInt(merged.Year), nullableString(merged.Venue), nullableString(merged.Abstract),
		nullableString(merged.URL), authorsJSON, now, existing.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("updating paper %d: %w", existing.ID, err)
	}
	return existing.ID, nil
}

// findExisting looks up a paper matching the identity of p, or nil.
func (d *DB) findExisting(p paper.Paper) (*paper.Paper, error) {
	if p.DOI != "" {
		row := d.db.QueryRow(`SELECT `+selectPaperFields+` FROM papers WHERE doi = ?`, p.DOI)
		if found, err := scanPaper(row); err != nil {
			return nil, err
		} else if found != nil {
			return found, nil
		}
	}
	if p.ArXivID != "" {
		row := d.db.QueryRow(`SELECT `+selectPaperFields+` FROM papers WHERE arxiv_id = ?`, p.ArXivID)
		if found, err := scanPaper(row); err != nil {
			return nil, err
		} else if found != nil {
			return found, nil
		}
	}
	row := d.db.QueryRow(`SELECT `+selectPaperFields+` FROM papers WHERE LOWER(title) = LOWER(?)`, p.Title)
	return scanPaper(row)
}

// mergePaper fills empty fields of existing from incoming.
func mergePaper(existing, incoming paper.Paper) paper.Paper {
	if existing.DOI == "" {
		existing.DOI = incoming.DOI
	}
	if existing.ArXivID == "" {
		existing.ArXivID = incoming.ArXivID
	}
	if existing.Year == 0 {
		existing.Year = incoming.Year
	}
	if existing.Venue == "" {
		existing.Venue = incoming.Venue
	}
	if existing.Abstract == "" {
		existing.Abstract = incoming.Abstract
	}
	if existing.URL == "" {
		existing.URL = incoming.URL
	}
	if len(existing.Authors) == 0 {
		existing.Authors = incoming.Authors
	}
	return existing
}

// FindByIdentifier looks up a paper by DOI or arXiv ID, falling back to a
// case-insensitive exact title match. Returns ErrPaperNotFound when no paper
// matches.
func (d *DB) FindByIdentifier(identifier string) (*paper.Paper, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, ErrPaperNotFound
	}

	doi := paper.NormalizeDOI(identifier)
	arxivID := paper.NormalizeArXivID(identifier)

	row := d.db.QueryRow(`SELECT `+selectPaperFields+` FROM papers WHERE doi = ? OR arxiv_id = ?`, doi, arxivID)
	p, err := scanPaper(row)
	if err != nil {
		return nil, err
	}
	if p == nil {
		row = d.db.QueryRow(`SELECT `+selectPaperFields+` FROM papers WHERE LOWER(title) = LOWER(?)`, identifier)
		if p, err = scanPaper(row); err != nil {
			return nil, err
		}
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrPaperNotFound, identifier)
	}
	return p, nil
}

// ListPapers returns all papers ordered by year descending then title,
// optionally limited.
func (d *DB) ListPapers(limit int) ([]paper.Paper, error) {
	query := `SELECT ` + selectPaperFields + ` FROM papers ORDER BY year DESC, title`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = []interface{}{limit}
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing papers: %w", err)
	}
	defer rows.Close()

	return scanPapers(rows)
}

// CountPapers returns the total number of papers.
func (d *DB) CountPapers() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM papers").Scan(&count)
	return count, err
}

func marshalAuthors(authors []paper.Author) (sql.NullString, error) {
	if len(authors) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(authors)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshaling authors: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func scanPaper(s scanner) (*paper.Paper, error) {
	var p paper.Paper
	var doi, arxivID, venue, abstract, url, authorsJSON sql.NullString
	var year sql.NullInt64
	var source, createdAt, updatedAt string

	err := s.Scan(
		&p.ID, &p.Title, &doi, &arxivID, &year, &venue, &abstract, &url,
		&authorsJSON, &source, &createdAt, &updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
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
			return nil, fmt.Errorf("parsing authors JSON for paper %d: %w", p.ID, err)
		}
	}

	return &p, nil
}

func scanPapers(rows *sql.Rows) ([]paper.Paper, error) {
	var papers []paper.Paper
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		if p != nil {
			papers = append(papers, *p)
		}
	}
	return papers, rows.Err()
}
