// Package arxiv provides a client for the arXiv Atom API.
package arxiv

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/citelens/citelens/internal/paper"
)

const (
	// BaseURL is the arXiv API query endpoint.
	BaseURL = "http://export.arxiv.org/api/query"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit honors arXiv's one request per three seconds guideline.
	RateLimit = 1.0 / 3.0

	// DefaultMaxResults is the default number of results per author search.
	DefaultMaxResults = 100
)

// Common errors returned by the arXiv client.
var (
	// ErrNotFound indicates no matching paper was found.
	ErrNotFound = errors.New("arXiv paper not found")

	// ErrAPIError indicates a general API error.
	ErrAPIError = errors.New("arXiv API error")
)

// Client is a rate-limited client for the arXiv API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	maxResults int
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithMaxResults sets the max results per author search.
func WithMaxResults(n int) ClientOption {
	return func(c *Client) {
		c.maxResults = n
	}
}

// NewClient creates an arXiv API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
		maxResults: DefaultMaxResults,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// feed mirrors the Atom response. Only consumed fields are declared.
type feed struct {
	XMLName xml.Name `xml:"feed"`
	Entries []entry  `xml:"entry"`
}

type entry struct {
	ID        string    `xml:"id"`
	Title     string    `xml:"title"`
	Summary   string    `xml:"summary"`
	Published string    `xml:"published"`
	Authors   []author  `xml:"author"`
	DOI       string    `xml:"doi"`
	Journal   string    `xml:"journal_ref"`
	Category  *category `xml:"primary_category"`
}

type author struct {
	Name string `xml:"name"`
}

type category struct {
	Term string `xml:"term,attr"`
}

// query runs a single API request and returns the parsed feed entries.
func (c *Client) query(ctx context.Context, params url.Values) ([]entry, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting arXiv: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
	}

	var f feed
	if err := xml.NewDecoder(resp.Body).Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing arXiv feed: %w", err)
	}
	return f.Entries, nil
}

// SearchByAuthor searches arXiv for papers by author name, newest first.
func (c *Client) SearchByAuthor(ctx context.Context, name string) ([]paper.Paper, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: author name required", ErrAPIError)
	}

	params := url.Values{}
	params.Set("search_query", fmt.Sprintf("au:%q", name))
	params.Set("max_results", fmt.Sprintf("%d", c.maxResults))
	params.Set("sortBy", "submittedDate")
	params.Set("sortOrder", "descending")

	entries, err := c.query(ctx, params)
	if err != nil {
		return nil, err
	}

	papers := make([]paper.Paper, 0, len(entries))
	for _, e := range entries {
		papers = append(papers, mapEntry(e))
	}
	return papers, nil
}

// PaperByID fetches a single paper by arXiv ID.
func (c *Client) PaperByID(ctx context.Context, arxivID string) (*paper.Paper, error) {
	params := url.Values{}
	params.Set("id_list", paper.NormalizeArXivID(arxivID))

	entries, err := c.query(ctx, params)
	if err != nil {
		return nil, err
	}
	// An unknown ID still yields a 200 with an empty or ID-less entry.
	if len(entries) == 0 || entries[0].Title == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, arxivID)
	}

	p := mapEntry(entries[0])
	return &p, nil
}

// mapEntry converts an Atom entry to a domain paper.
func mapEntry(e entry) paper.Paper {
	names := make([]string, 0, len(e.Authors))
	for _, a := range e.Authors {
		names = append(names, a.Name)
	}

	p := paper.Paper{
		Title:    cleanText(e.Title),
		DOI:      paper.NormalizeDOI(e.DOI),
		ArXivID:  paper.NormalizeArXivID(e.ID),
		Abstract: cleanText(e.Summary),
		Venue:    e.Journal,
		Authors:  paper.AuthorsFromNames(names),
		URL:      e.ID,
		Source:   paper.PlatformArXiv,
	}

	if t, err := time.Parse(time.RFC3339, e.Published); err == nil {
		p.Year = t.Year()
	}
	return p
}

// cleanText collapses the newline-wrapped whitespace arXiv embeds in
// titles and abstracts.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
