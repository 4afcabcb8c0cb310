// Package paper defines the core domain types for tracked publications.
package paper

import (
	"strings"
	"time"
)

// Platform identifies an external data source.
type Platform string

// Supported platforms.
const (
	PlatformORCID           Platform = "orcid"
	PlatformArXiv           Platform = "arxiv"
	PlatformSemanticScholar Platform = "semantic_scholar"
	PlatformGoogleScholar   Platform = "google_scholar"
)

// AllPlatforms lists every supported platform in fetch order.
var AllPlatforms = []Platform{
	PlatformORCID,
	PlatformArXiv,
	PlatformSemanticScholar,
	PlatformGoogleScholar,
}

// IsValidPlatform reports whether name is a known platform.
func IsValidPlatform(name string) bool {
	for _, p := range AllPlatforms {
		if string(p) == name {
			return true
		}
	}
	return false
}

// Paper represents a publication tracked across platforms.
type Paper struct {
	// Identity
	ID      int64  `json:"id"`                 // Database-assigned identifier
	DOI     string `json:"doi,omitempty"`      // Primary deduplication key
	ArXivID string `json:"arxiv_id,omitempty"` // Secondary deduplication key

	// Metadata
	Title    string   `json:"title"`
	Authors  []Author `json:"authors,omitempty"`
	Abstract string   `json:"abstract,omitempty"`
	Venue    string   `json:"venue,omitempty"` // Journal, conference, or preprint server
	Year     int      `json:"year,omitempty"`  // Publication year, 0 if unknown
	URL      string   `json:"url,omitempty"`

	// Provenance
	Source    Platform  `json:"source"` // Platform that first reported this paper
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Author represents a paper author.
type Author struct {
	First string `json:"first"` // First/given name(s)
	Last  string `json:"last"`  // Last/family name
}

// CitationRecord is one observation of a paper's citation count on a platform.
// Records are append-only; historical trend analysis depends on retaining
// every snapshot.
type CitationRecord struct {
	ID            int64     `json:"id"`
	PaperID       int64     `json:"paper_id"`
	Platform      Platform  `json:"platform"`
	CitationCount int       `json:"citation_count"`
	HIndex        int       `json:"h_index,omitempty"` // Author h-index snapshot, if the platform reports one
	FetchedAt     time.Time `json:"fetched_at"`
}

// SyncStatus records the last fetch outcome for a platform.
type SyncStatus struct {
	Platform Platform  `json:"platform"`
	Status   string    `json:"status"` // "success" or "error"
	Message  string    `json:"message,omitempty"`
	SyncedAt time.Time `json:"synced_at"`
}

// Sync status values.
const (
	SyncSuccess = "success"
	SyncError   = "error"
)

// NormalizeDOI canonicalizes a DOI for identity matching: strips common URL
// prefixes and lowercases. Returns "" for empty input.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "http://dx.doi.org/", "doi:"} {
		if strings.HasPrefix(strings.ToLower(doi), prefix) {
			doi = doi[len(prefix):]
			break
		}
	}
	return strings.ToLower(doi)
}

// NormalizeArXivID strips the version suffix (v1, v2, ...) and any abs/ URL
// prefix from an arXiv identifier.
func NormalizeArXivID(id string) string {
	id = strings.TrimSpace(id)
	if idx := strings.LastIndex(id, "/abs/"); idx >= 0 {
		id = id[idx+len("/abs/"):]
	}
	// Trim trailing version marker
	if idx := strings.LastIndexByte(id, 'v'); idx > 0 {
		allDigits := idx+1 < len(id)
		for _, r := range id[idx+1:] {
			if r < '0' || r > '9' {
				allDigits = false
				break
			}
		}
		if allDigits {
			id = id[:idx]
		}
	}
	return id
}
