// Package scholar scrapes Google Scholar profile pages.
//
// Google Scholar has no public API. This client fetches the public
// profile page and parses the publication table. Scraping is fragile
// and aggressively rate limited, so the platform is disabled by
// default in config.
package scholar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/citelens/citelens/internal/paper"
)

const (
	// BaseURL is the Google Scholar citations endpoint.
	BaseURL = "https://scholar.google.com/citations"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit is deliberately slow to avoid the scraper block page.
	RateLimit = 0.2

	// pageSize is the number of publication rows per page.
	pageSize = 100

	// userAgent mimics a desktop browser; Scholar serves a different
	// markup to unknown agents.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Common errors returned by the scholar client.
var (
	// ErrNotFound indicates the profile was not found.
	ErrNotFound = errors.New("Google Scholar profile not found")

	// ErrBlocked indicates Scholar is refusing automated requests.
	ErrBlocked = errors.New("Google Scholar blocked the request")

	// ErrAPIError indicates any other fetch failure.
	ErrAPIError = errors.New("Google Scholar error")
)

// Publication is one row of the profile's publication table.
type Publication struct {
	Paper     paper.Paper
	Citations int
}

// Profile is a parsed Google Scholar author profile.
type Profile struct {
	Name           string
	TotalCitations int
	HIndex         int
	I10Index       int
	Publications   []Publication
}

// Client fetches Google Scholar profiles.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	authorID   string
	baseURL    string
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

// NewClient creates a client for the given Scholar profile ID.
func NewClient(authorID string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		authorID:   authorID,
		baseURL:    BaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchProfile fetches and parses the full profile, paging through the
// publication table.
func (c *Client) FetchProfile(ctx context.Context) (*Profile, error) {
	if c.authorID == "" {
		return nil, fmt.Errorf("%w: profile ID required", ErrAPIError)
	}

	var profile *Profile
	for start := 0; ; start += pageSize {
		page, err := c.fetchPage(ctx, start)
		if err != nil {
			return nil, err
		}

		if profile == nil {
			profile = page
		} else {
			profile.Publications = append(profile.Publications, page.Publications...)
		}
		if len(page.Publications) < pageSize {
			break
		}
	}
	return profile, nil
}

func (c *Client) fetchPage(ctx context.Context, start int) (*Profile, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("user", c.authorID)
	params.Set("hl", "en")
	params.Set("cstart", fmt.Sprintf("%d", start))
	params.Set("pagesize", fmt.Sprintf("%d", pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting Scholar: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, c.authorID)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", ErrBlocked, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
	}

	return parseProfile(resp.Body)
}
