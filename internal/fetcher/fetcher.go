// Package fetcher orchestrates pulling publication data from the
// configured platforms into storage.
package fetcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/citelens/citelens/internal/arxiv"
	"github.com/citelens/citelens/internal/config"
	"github.com/citelens/citelens/internal/orcid"
	"github.com/citelens/citelens/internal/paper"
	"github.com/citelens/citelens/internal/s2"
	"github.com/citelens/citelens/internal/scholar"
	"github.com/citelens/citelens/internal/storage"
)

// ErrPlatformDisabled indicates the requested platform is not enabled
// in config.
var ErrPlatformDisabled = errors.New("platform not enabled")

// Result summarizes one platform fetch.
type Result struct {
	Platform  paper.Platform `json:"platform"`
	Papers    int            `json:"papers"`
	Citations int            `json:"citations"`
	HIndex    int            `json:"h_index,omitempty"`
}

// Client interfaces abstract the platform clients so tests can swap in
// fakes.
type orcidClient interface {
	Authenticate(ctx context.Context, clientID, clientSecret string) error
	GetWorks(ctx context.Context) ([]paper.Paper, error)
}

type arxivClient interface {
	SearchByAuthor(ctx context.Context, name string) ([]paper.Paper, error)
}

type s2Client interface {
	SearchAuthor(ctx context.Context, name string) (*s2.Author, error)
	AuthorPapers(ctx context.Context, authorID string) ([]s2.Paper, error)
}

type scholarClient interface {
	FetchProfile(ctx context.Context) (*scholar.Profile, error)
}

// Fetcher pulls data from enabled platforms and stores it.
type Fetcher struct {
	cfg *config.Config
	db  *storage.DB

	newORCID   func(orcidID string) orcidClient
	newArXiv   func() arxivClient
	newS2      func(apiKey string) s2Client
	newScholar func(authorID string) scholarClient
}

// New creates a fetcher over the given config and database.
func New(cfg *config.Config, db *storage.DB) *Fetcher {
	return &Fetcher{
		cfg: cfg,
		db:  db,
		newORCID: func(orcidID string) orcidClient {
			return orcid.NewClient(orcidID)
		},
		newArXiv: func() arxivClient {
			return arxiv.NewClient(arxiv.WithMaxResults(200))
		},
		newS2: func(apiKey string) s2Client {
			return s2.NewClient(s2.WithAPIKey(apiKey))
		},
		newScholar: func(authorID string) scholarClient {
			return scholar.NewClient(authorID)
		},
	}
}

// FetchPlatform fetches a single platform and records its sync status.
func (f *Fetcher) FetchPlatform(ctx context.Context, platform paper.Platform) (*Result, error) {
	pc := f.cfg.Platform(platform)
	if !pc.Enabled {
		return nil, fmt.Errorf("%w: %s", ErrPlatformDisabled, platform)
	}

	result, err := f.dispatch(ctx, platform, pc)
	if err != nil {
		if statusErr := f.db.SetSyncStatus(platform, paper.SyncError, err.Error()); statusErr != nil {
			return nil, errors.Join(err, statusErr)
		}
		return nil, err
	}

	if err := f.db.SetSyncStatus(platform, paper.SyncSuccess, ""); err != nil {
		return nil, fmt.Errorf("recording sync status: %w", err)
	}
	return result, nil
}

func (f *Fetcher) dispatch(ctx context.Context, platform paper.Platform, pc config.PlatformConfig) (*Result, error) {
	switch platform {
	case paper.PlatformORCID:
		return f.fetchORCID(ctx, pc)
	case paper.PlatformArXiv:
		return f.fetchArXiv(ctx)
	case paper.PlatformSemanticScholar:
		return f.fetchSemanticScholar(ctx, pc)
	case paper.PlatformGoogleScholar:
		return f.fetchGoogleScholar(ctx, pc)
	default:
		return nil, fmt.Errorf("unsupported platform: %s", platform)
	}
}

// FetchAll fetches every enabled platform in order. A failing platform
// does not stop the others; its error is returned in the map alongside
// the successful results.
func (f *Fetcher) FetchAll(ctx context.Context) (map[paper.Platform]*Result, map[paper.Platform]error) {
	results := make(map[paper.Platform]*Result)
	failures := make(map[paper.Platform]error)

	for _, platform := range f.cfg.EnabledPlatforms() {
		result, err := f.FetchPlatform(ctx, platform)
		if err != nil {
			failures[platform] = err
			continue
		}
		results[platform] = result
	}
	return results, failures
}

func (f *Fetcher) fetchORCID(ctx context.Context, pc config.PlatformConfig) (*Result, error) {
	if f.cfg.User.ORCID == "" {
		return nil, fmt.Errorf("ORCID iD not configured; run citelens init")
	}

	client := f.newORCID(f.cfg.User.ORCID)
	if pc.ClientID != "" && pc.ClientSecret != "" {
		if err := client.Authenticate(ctx, pc.ClientID, pc.ClientSecret); err != nil {
			return nil, err
		}
	}

	works, err := client.GetWorks(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{Platform: paper.PlatformORCID}
	for _, work := range works {
		if work.Title == "" {
			continue
		}
		if _, err := f.db.UpsertPaper(work); err != nil {
			return nil, fmt.Errorf("storing ORCID work: %w", err)
		}
		result.Papers++
	}
	return result, nil
}

func (f *Fetcher) fetchArXiv(ctx context.Context) (*Result, error) {
	if f.cfg.User.Name == "" {
		return nil, fmt.Errorf("user name not configured; run citelens init")
	}

	client := f.newArXiv()
	papers, err := client.SearchByAuthor(ctx, f.cfg.User.Name)
	if err != nil {
		return nil, err
	}

	// arXiv carries no citation counts; only papers are stored.
	result := &Result{Platform: paper.PlatformArXiv}
	for i := range papers {
		if papers[i].Title == "" {
			continue
		}
		if _, err := f.db.UpsertPaper(papers[i]); err != nil {
			return nil, fmt.Errorf("storing arXiv paper: %w", err)
		}
		result.Papers++
	}
	return result, nil
}

func (f *Fetcher) fetchSemanticScholar(ctx context.Context, pc config.PlatformConfig) (*Result, error) {
	client := f.newS2(pc.APIKey)

	authorID := pc.AuthorID
	if authorID == "" {
		if f.cfg.User.Name == "" {
			return nil, fmt.Errorf("no Semantic Scholar author ID and no user name to search with")
		}
		author, err := client.SearchAuthor(ctx, f.cfg.User.Name)
		if err != nil {
			return nil, fmt.Errorf("resolving author: %w", err)
		}
		authorID = author.AuthorID

		// Persist the resolved ID so later fetches skip the search.
		pc.AuthorID = authorID
		f.cfg.SetPlatform(paper.PlatformSemanticScholar, pc)
		if err := f.cfg.Save(); err != nil {
			return nil, fmt.Errorf("saving resolved author ID: %w", err)
		}
	}

	s2Papers, err := client.AuthorPapers(ctx, authorID)
	if err != nil {
		return nil, err
	}

	result := &Result{Platform: paper.PlatformSemanticScholar}
	for _, sp := range s2Papers {
		mapped := s2.MapPaper(sp)
		if mapped.Title == "" {
			continue
		}
		id, err := f.db.UpsertPaper(mapped)
		if err != nil {
			return nil, fmt.Errorf("storing Semantic Scholar paper: %w", err)
		}
		record := paper.CitationRecord{
			PaperID:       id,
			Platform:      paper.PlatformSemanticScholar,
			CitationCount: sp.CitationCount,
		}
		if err := f.db.AddCitationRecord(record); err != nil {
			return nil, fmt.Errorf("storing citation record: %w", err)
		}
		result.Papers++
		result.Citations += sp.CitationCount
	}
	return result, nil
}

func (f *Fetcher) fetchGoogleScholar(ctx context.Context, pc config.PlatformConfig) (*Result, error) {
	if pc.AuthorID == "" {
		return nil, fmt.Errorf("no Google Scholar profile ID configured")
	}

	client := f.newScholar(pc.AuthorID)
	profile, err := client.FetchProfile(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Platform:  paper.PlatformGoogleScholar,
		Citations: profile.TotalCitations,
		HIndex:    profile.HIndex,
	}
	for _, pub := range profile.Publications {
		p := pub.Paper
		if p.Title == "" {
			continue
		}
		id, err := f.db.UpsertPaper(p)
		if err != nil {
			return nil, fmt.Errorf("storing Scholar publication: %w", err)
		}
		record := paper.CitationRecord{
			PaperID:       id,
			Platform:      paper.PlatformGoogleScholar,
			CitationCount: pub.Citations,
			HIndex:        profile.HIndex,
		}
		if err := f.db.AddCitationRecord(record); err != nil {
			return nil, fmt.Errorf("storing citation record: %w", err)
		}
		result.Papers++
	}
	return result, nil
}
