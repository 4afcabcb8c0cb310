// Package orcid provides a client for the ORCID public API v3.
package orcid

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/citelens/citelens/internal/paper"
)

const (
	// BaseURL is the ORCID public API base URL.
	BaseURL = "https://pub.orcid.org/v3.0"

	// TokenURL is the OAuth token endpoint for client-credentials auth.
	TokenURL = "https://orcid.org/oauth/token"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit keeps well under ORCID's 24 req/s public allowance.
	RateLimit = 8.0
)

// Common errors returned by the ORCID client.
var (
	// ErrNotFound indicates the ORCID record was not found.
	ErrNotFound = errors.New("ORCID record not found")

	// ErrAuthError indicates an authentication failure.
	ErrAuthError = errors.New("ORCID authentication error")

	// ErrRateLimited indicates the rate limit has been exceeded.
	ErrRateLimited = errors.New("ORCID rate limit exceeded")

	// ErrAPIError indicates a general API error.
	ErrAPIError = errors.New("ORCID API error")
)

// Client is a rate-limited client for the ORCID public API.
type Client struct {
	httpClient  *http.Client
	limiter     *rate.Limiter
	orcidID     string
	accessToken string
	baseURL     string
	tokenURL    string
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

// WithTokenURL sets a custom OAuth token URL (for testing).
func WithTokenURL(u string) ClientOption {
	return func(c *Client) {
		c.tokenURL = u
	}
}

// NewClient creates a client for the given ORCID iD.
func NewClient(orcidID string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		orcidID:    orcidID,
		baseURL:    BaseURL,
		tokenURL:   TokenURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Authenticate obtains a client-credentials bearer token for /read-public.
// Public records work without it; the token lifts rate limits.
func (c *Client) Authenticate(ctx context.Context, clientID, clientSecret string) error {
	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("%w: client credentials required", ErrAuthError)
	}

	form := url.Values{}
	form.Set("client_id", clientID)
	form.Set("client_secret", clientSecret)
	form.Set("grant_type", "client_credentials")
	form.Set("scope", "/read-public")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("requesting token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: token endpoint returned %d", ErrAuthError, resp.StatusCode)
	}

	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return fmt.Errorf("parsing token response: %w", err)
	}
	c.accessToken = token.AccessToken
	return nil
}

// get performs a rate-limited GET against the public API.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("requesting ORCID: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, c.orcidID)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrAuthError, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing ORCID response: %w", err)
	}
	return nil
}

// worksResponse mirrors the /works endpoint structure. ORCID nests values
// aggressively; only the fields we consume are declared.
type worksResponse struct {
	Group []struct {
		WorkSummary []workSummary `json:"work-summary"`
	} `json:"group"`
}

type workSummary struct {
	PutCode int64 `json:"put-code"`
	Title   struct {
		Title struct {
			Value string `json:"value"`
		} `json:"title"`
	} `json:"title"`
	ExternalIDs struct {
		ExternalID []struct {
			Type  string `json:"external-id-type"`
			Value string `json:"external-id-value"`
		} `json:"external-id"`
	} `json:"external-ids"`
	PublicationDate *struct {
		Year *struct {
			Value string `json:"value"`
		} `json:"year"`
	} `json:"publication-date"`
	JournalTitle *struct {
		Value string `json:"value"`
	} `json:"journal-title"`
	URL *struct {
		Value string `json:"value"`
	} `json:"url"`
	Type string `json:"type"`
}

// GetWorks fetches all works on the ORCID profile. Each work group may carry
// several platform-specific summaries; the first summary represents the group
// (the preferred source, per ORCID's ordering).
func (c *Client) GetWorks(ctx context.Context) ([]paper.Paper, error) {
	var resp worksResponse
	if err := c.get(ctx, "/"+c.orcidID+"/works", &resp); err != nil {
		return nil, err
	}

	var papers []paper.Paper
	for _, group := range resp.Group {
		if len(group.WorkSummary) == 0 {
			continue
		}
		summary := group.WorkSummary[0]

		p := paper.Paper{
			Title:  summary.Title.Title.Value,
			Source: paper.PlatformORCID,
		}

		for _, extID := range summary.ExternalIDs.ExternalID {
			switch extID.Type {
			case "doi":
				if p.DOI == "" {
					p.DOI = paper.NormalizeDOI(extID.Value)
				}
			case "arxiv":
				if p.ArXivID == "" {
					p.ArXivID = paper.NormalizeArXivID(extID.Value)
				}
			}
		}

		if summary.PublicationDate != nil && summary.PublicationDate.Year != nil {
			if year, err := strconv.Atoi(summary.PublicationDate.Year.Value); err == nil {
				p.Year = year
			}
		}
		if summary.JournalTitle != nil {
			p.Venue = summary.JournalTitle.Value
		}
		if summary.URL != nil {
			p.URL = summary.URL.Value
		}

		papers = append(papers, p)
	}

	return papers, nil
}

// Person holds the name fields of an ORCID record.
type Person struct {
	Name       string `json:"name"`
	GivenNames string `json:"given_names"`
	FamilyName string `json:"family_name"`
	ORCID      string `json:"orcid"`
}

// GetPerson fetches the person section of the ORCID record.
func (c *Client) GetPerson(ctx context.Context) (*Person, error) {
	var resp struct {
		Name struct {
			GivenNames struct {
				Value string `json:"value"`
			} `json:"given-names"`
			FamilyName struct {
				Value string `json:"value"`
			} `json:"family-name"`
		} `json:"name"`
	}
	if err := c.get(ctx, "/"+c.orcidID+"/person", &resp); err != nil {
		return nil, err
	}

	given := resp.Name.GivenNames.Value
	family := resp.Name.FamilyName.Value
	return &Person{
		Name:       strings.TrimSpace(given + " " + family),
		GivenNames: given,
		FamilyName: family,
		ORCID:      c.orcidID,
	}, nil
}
