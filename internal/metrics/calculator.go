// Package metrics computes bibliometric statistics over stored citation data.
package metrics

import (
	"sort"
	"strings"
	"time"

	"github.com/citelens/citelens/internal/storage"
)

// Growth lookback horizons in days.
const (
	horizonWeek  = 7
	horizonMonth = 30
	horizonYear  = 365
)

// Venue keyword tiers for the promotion-potential heuristic.
var (
	highTierVenues = []string{"nature", "science", "cell", "lancet", "pnas"}
	midTierVenues  = []string{"ieee", "acm", "springer"}
)

// Potential score weights.
const (
	highTierBonus    = 10.0
	midTierBonus     = 5.0
	recencyPerYear   = 2.0
	recencyMaxAge    = 3
	citationWeight   = 0.5
	citationBonusCap = 10
)

// Calculator computes metrics over the storage layer. All operations are
// stateless queries; the calculator holds no mutable state.
type Calculator struct {
	db *storage.DB
}

// NewCalculator creates a metrics calculator backed by db.
func NewCalculator(db *storage.DB) *Calculator {
	return &Calculator{db: db}
}

// HIndex computes the h-index of a set of citation counts: the largest h such
// that h publications have at least h citations each. Returns 0 for empty
// input.
func HIndex(counts []int) int {
	if len(counts) == 0 {
		return 0
	}

	sorted := make([]int, len(counts))
	copy(sorted, counts)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	h := 0
	for i, citations := range sorted {
		if citations >= i+1 {
			h = i + 1
		} else {
			break
		}
	}
	return h
}

// Summary holds aggregate statistics over all tracked papers.
type Summary struct {
	TotalPapers    int     `json:"total_papers"`
	TotalCitations int     `json:"total_citations"`
	HIndex         int     `json:"h_index"`
	AvgCitations   float64 `json:"avg_citations"`

	// Change fields compare against a historical baseline. The citation log
	// retains the snapshots, but baseline selection is not implemented yet,
	// so these are always zero.
	PapersChange    int `json:"papers_change"`
	CitationsChange int `json:"citations_change"`
	HIndexChange    int `json:"h_index_change"`
}

// Summary computes aggregate statistics over all papers. An empty store
// yields a zero-valued summary, not an error.
func (c *Calculator) Summary() (*Summary, error) {
	papers, err := c.db.PapersWithLatestCitations()
	if err != nil {
		return nil, err
	}

	s := &Summary{TotalPapers: len(papers)}
	counts := make([]int, len(papers))
	for i, p := range papers {
		s.TotalCitations += p.Citations
		counts[i] = p.Citations
	}
	s.HIndex = HIndex(counts)
	if s.TotalPapers > 0 {
		s.AvgCitations = float64(s.TotalCitations) / float64(s.TotalPapers)
	}

	return s, nil
}

// TopPaper is one entry in the top-cited ranking.
type TopPaper struct {
	Title     string `json:"title"`
	Citations int    `json:"citations"`
	Year      int    `json:"year,omitempty"`
	DOI       string `json:"doi,omitempty"`
	Venue     string `json:"venue,omitempty"`
}

// TopPapers returns up to limit papers ranked by citation count descending.
// The sort is stable, so equal counts keep their storage order.
func (c *Calculator) TopPapers(limit int) ([]TopPaper, error) {
	papers, err := c.db.PapersWithLatestCitations()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(papers, func(i, j int) bool {
		return papers[i].Citations > papers[j].Citations
	})

	if limit > 0 && len(papers) > limit {
		papers = papers[:limit]
	}

	top := make([]TopPaper, len(papers))
	for i, p := range papers {
		top[i] = TopPaper{
			Title:     p.Title,
			Citations: p.Citations,
			Year:      p.Year,
			DOI:       p.DOI,
			Venue:     p.Venue,
		}
	}
	return top, nil
}

// PaperStats holds per-paper citation statistics and growth figures.
type PaperStats struct {
	Title     string `json:"title"`
	DOI       string `json:"doi,omitempty"`
	ArXivID   string `json:"arxiv_id,omitempty"`
	Year      int    `json:"year,omitempty"`
	Venue     string `json:"venue,omitempty"`
	Citations int    `json:"citations"`

	// Citation growth since each lookback horizon, clamped at zero.
	Citations7d  int `json:"citations_7d"`
	Citations30d int `json:"citations_30d"`
	Citations1y  int `json:"citations_1y"`
}

// PaperStats computes detailed statistics for one paper, identified by DOI,
// arXiv ID or exact title. Returns storage.ErrPaperNotFound (wrapped) when
// the identifier does not resolve.
func (c *Calculator) PaperStats(identifier string) (*PaperStats, error) {
	p, err := c.db.FindByIdentifier(identifier)
	if err != nil {
		return nil, err
	}

	history, err := c.db.CitationHistory(p.ID, horizonYear)
	if err != nil {
		return nil, err
	}

	current, err := c.db.CurrentCitations(p.ID)
	if err != nil {
		return nil, err
	}

	// For each horizon, find the maximum count observed inside it. Growth is
	// current minus that maximum, clamped at zero: upstream counts sometimes
	// regress (corrections, deduplication) and a negative delta is noise, not
	// lost citations.
	var max7, max30, max1y int
	now := time.Now()
	for _, point := range history {
		daysAgo := int(now.Sub(point.FetchedAt).Hours() / 24)
		if daysAgo <= horizonWeek && point.CitationCount > max7 {
			max7 = point.CitationCount
		}
		if daysAgo <= horizonMonth && point.CitationCount > max30 {
			max30 = point.CitationCount
		}
		if daysAgo <= horizonYear && point.CitationCount > max1y {
			max1y = point.CitationCount
		}
	}

	return &PaperStats{
		Title:        p.Title,
		DOI:          p.DOI,
		ArXivID:      p.ArXivID,
		Year:         p.Year,
		Venue:        p.Venue,
		Citations:    current,
		Citations7d:  growthSince(current, max7),
		Citations30d: growthSince(current, max30),
		Citations1y:  growthSince(current, max1y),
	}, nil
}

// growthSince reports current minus the historical baseline, clamped at zero.
// A zero baseline means no snapshot inside the horizon, which also reports
// zero growth rather than the full current count.
func growthSince(current, baseline int) int {
	if baseline == 0 {
		return 0
	}
	if current < baseline {
		return 0
	}
	return current - baseline
}

// YearTrend aggregates papers published in one year.
type YearTrend struct {
	Papers    int `json:"papers"`
	Citations int `json:"citations"`
}

// Trends holds citation totals grouped by publication year.
type Trends struct {
	ByYear         map[int]YearTrend `json:"by_year"`
	TotalPapers    int               `json:"total_papers"`
	TotalCitations int               `json:"total_citations"`
}

// CitationTrends groups papers by publication year. Papers without a year are
// counted in the totals but excluded from the per-year buckets.
func (c *Calculator) CitationTrends() (*Trends, error) {
	papers, err := c.db.PapersWithLatestCitations()
	if err != nil {
		return nil, err
	}

	trends := &Trends{ByYear: make(map[int]YearTrend)}
	for _, p := range papers {
		trends.TotalPapers++
		trends.TotalCitations += p.Citations
		if p.Year == 0 {
			continue
		}
		yt := trends.ByYear[p.Year]
		yt.Papers++
		yt.Citations += p.Citations
		trends.ByYear[p.Year] = yt
	}
	return trends, nil
}

// LowVisibilityPaper is an older, under-cited paper flagged as a promotion
// candidate.
type LowVisibilityPaper struct {
	Title     string  `json:"title"`
	Year      int     `json:"year"`
	Citations int     `json:"citations"`
	Age       int     `json:"age"` // Years since publication
	DOI       string  `json:"doi,omitempty"`
	Potential float64 `json:"potential"`
}

// LowVisibilityPapers flags papers at least one year old with citations below
// threshold, ranked by a promotion-potential heuristic. Papers without a year
// are skipped (age is undefined).
func (c *Calculator) LowVisibilityPapers(threshold int) ([]LowVisibilityPaper, error) {
	papers, err := c.db.PapersWithLatestCitations()
	if err != nil {
		return nil, err
	}

	currentYear := time.Now().Year()

	var flagged []LowVisibilityPaper
	for _, p := range papers {
		if p.Year == 0 {
			continue
		}
		age := currentYear - p.Year
		if age < 1 || p.Citations >= threshold {
			continue
		}
		flagged = append(flagged, LowVisibilityPaper{
			Title:     p.Title,
			Year:      p.Year,
			Citations: p.Citations,
			Age:       age,
			DOI:       p.DOI,
			Potential: estimatePotential(p.Venue, age, p.Citations),
		})
	}

	sort.SliceStable(flagged, func(i, j int) bool {
		return flagged[i].Potential > flagged[j].Potential
	})
	return flagged, nil
}

// estimatePotential scores a paper's promotion potential: a venue-tier bonus,
// a recency bonus decaying linearly over three years, and a capped
// citation-count bonus. Venue-list-driven with no claim of statistical rigor.
func estimatePotential(venue string, age, citations int) float64 {
	score := 0.0

	lowerVenue := strings.ToLower(venue)
	if containsAny(lowerVenue, highTierVenues) {
		score += highTierBonus
	} else if containsAny(lowerVenue, midTierVenues) {
		score += midTierBonus
	}

	if age < recencyMaxAge {
		score += float64(recencyMaxAge-age) * recencyPerYear
	}

	if citations > 0 {
		bonus := citations
		if bonus > citationBonusCap {
			bonus = citationBonusCap
		}
		score += float64(bonus) * citationWeight
	}

	return score
}

// containsAny reports whether s contains any of the given substrings.
func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
