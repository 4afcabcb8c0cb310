// Package s2 provides a client for the Semantic Scholar Graph API.
package s2

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the Semantic Scholar Graph API base URL.
	BaseURL = "https://api.semanticscholar.org/graph/v1"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit is 1 request per second, the unauthenticated allowance.
	RateLimit = 1.0

	// paperFields are the fields requested for paper lookups.
	paperFields = "paperId,title,year,citationCount,referenceCount,publicationDate,venue,externalIds,abstract,authors,url"

	// authorFields are the fields requested for author search.
	authorFields = "authorId,name,paperCount,citationCount,hIndex"

	// pageSize is the batch size for paginated author-paper listings.
	pageSize = 100

	// maxOffset is the API's hard pagination limit.
	maxOffset = 1000
)

// Client is a rate-limited HTTP client for the Semantic Scholar Graph API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the API key for authenticated requests.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

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

// NewClient creates a new Semantic Scholar client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Fall back to the environment when no key was configured
	if c.apiKey == "" {
		c.apiKey = os.Getenv("S2_API_KEY")
	}

	return c
}

// Author holds author-level metrics from Semantic Scholar.
type Author struct {
	AuthorID      string `json:"authorId"`
	Name          string `json:"name"`
	PaperCount    int    `json:"paperCount"`
	CitationCount int    `json:"citationCount"`
	HIndex        int    `json:"hIndex"`
}

// Paper is a paper as returned by the Graph API.
type Paper struct {
	PaperID         string      `json:"paperId"`
	Title           string      `json:"title"`
	Year            int         `json:"year"`
	CitationCount   int         `json:"citationCount"`
	ReferenceCount  int         `json:"referenceCount"`
	PublicationDate string      `json:"publicationDate"`
	Venue           string      `json:"venue"`
	Abstract        string      `json:"abstract"`
	URL             string      `json:"url"`
	ExternalIDs     ExternalIDs `json:"externalIds"`
	Authors         []struct {
		AuthorID string `json:"authorId"`
		Name     string `json:"name"`
	} `json:"authors"`
}

// ExternalIDs holds a paper's identifiers on other platforms.
type ExternalIDs struct {
	DOI   string `json:"DOI"`
	ArXiv string `json:"ArXiv"`
}

// get performs a rate-limited GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrAuthError, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode >= 400:
		return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// SearchAuthor searches for an author by name and returns the best match,
// or ErrNotFound when the search yields nothing.
func (c *Client) SearchAuthor(ctx context.Context, name string) (*Author, error) {
	params := url.Values{}
	params.Set("query", name)
	params.Set("fields", authorFields)
	params.Set("limit", "1")

	var result struct {
		Data []Author `json:"data"`
	}
	if err := c.get(ctx, "/author/search", params, &result); err != nil {
		return nil, err
	}
	if len(result.Data) == 0 {
		return nil, fmt.Errorf("%w: author %q", ErrNotFound, name)
	}
	return &result.Data[0], nil
}

// AuthorPapers fetches all papers for an author, paginating until the API is
// exhausted or the hard offset limit is reached.
func (c *Client) AuthorPapers(ctx context.Context, authorID string) ([]Paper, error) {
	if authorID == "" {
		return nil, fmt.Errorf("author ID required")
	}

	var papers []Paper
	offset := 0

	for {
		params := url.Values{}
		params.Set("fields", paperFields)
		params.Set("limit", strconv.Itoa(pageSize))
		params.Set("offset", strconv.Itoa(offset))

		var result struct {
			Data []Paper `json:"data"`
		}
		err := c.get(ctx, "/author/"+url.PathEscape(authorID)+"/papers", params, &result)
		if err != nil {
			return nil, err
		}

		if len(result.Data) == 0 {
			break
		}
		papers = append(papers, result.Data...)
		offset += len(result.Data)

		if len(result.Data) < pageSize || offset >= maxOffset {
			break
		}
	}

	return papers, nil
}

// PaperByDOI fetches a single paper by DOI.
func (c *Client) PaperByDOI(ctx context.Context, doi string) (*Paper, error) {
	if doi == "" {
		return nil, fmt.Errorf("DOI required")
	}

	params := url.Values{}
	params.Set("fields", paperFields)

	var p Paper
	if err := c.get(ctx, "/paper/DOI:"+url.PathEscape(doi), params, &p); err != nil {
		return nil, err
	}
	if p.PaperID == "" {
		return nil, fmt.Errorf("%w: DOI %s", ErrNotFound, doi)
	}
	return &p, nil
}

// PaperByArXiv fetches a single paper by arXiv ID.
func (c *Client) PaperByArXiv(ctx context.Context, arxivID string) (*Paper, error) {
	if arxivID == "" {
		return nil, fmt.Errorf("arXiv ID required")
	}

	params := url.Values{}
	params.Set("fields", paperFields)

	var p Paper
	if err := c.get(ctx, "/paper/ARXIV:"+url.PathEscape(arxivID), params, &p); err != nil {
		return nil, err
	}
	if p.PaperID == "" {
		return nil, fmt.Errorf("%w: arXiv %s", ErrNotFound, arxivID)
	}
	return &p, nil
}
