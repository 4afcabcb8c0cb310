package s2

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"golang.org/x/time/rate"
)

// newTestClient returns a client pointed at a test server, with the rate
// limiter effectively disabled.
func newTestClient(serverURL string) *Client {
	c := NewClient(WithBaseURL(serverURL), WithAPIKey(""))
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	return c
}

func TestSearchAuthor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/author/search" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("query"); got != "Jane Researcher" {
			t.Errorf("query = %q", got)
		}
		fmt.Fprint(w, `{"data":[{"authorId":"12345","name":"Jane Researcher","paperCount":42,"citationCount":900,"hIndex":17}]}`)
	}))
	defer server.Close()

	author, err := newTestClient(server.URL).SearchAuthor(context.Background(), "Jane Researcher")
	if err != nil {
		t.Fatal(err)
	}
	if author.AuthorID != "12345" {
		t.Errorf("author ID = %s", author.AuthorID)
	}
	if author.HIndex != 17 {
		t.Errorf("h-index = %d", author.HIndex)
	}
}

func TestSearchAuthor_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[]}`)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).SearchAuthor(context.Background(), "Nobody")
	if !IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestAuthorPapers_Pagination(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

		// First page full, second page partial.
		count := pageSize
		if offset >= pageSize {
			count = 3
		}
		fmt.Fprint(w, `{"data":[`)
		for i := 0; i < count; i++ {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, `{"paperId":"p%d","title":"Paper %d","citationCount":%d}`, offset+i, offset+i, i)
		}
		fmt.Fprint(w, `]}`)
	}))
	defer server.Close()

	papers, err := newTestClient(server.URL).AuthorPapers(context.Background(), "12345")
	if err != nil {
		t.Fatal(err)
	}
	if len(papers) != pageSize+3 {
		t.Errorf("expected %d papers, got %d", pageSize+3, len(papers))
	}
	if requests != 2 {
		t.Errorf("expected 2 requests, got %d", requests)
	}
}

func TestPaperByDOI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"paperId":"abc","title":"Found","year":2021,"citationCount":7,"externalIds":{"DOI":"10.1/abc","ArXiv":"2101.00001"}}`)
	}))
	defer server.Close()

	p, err := newTestClient(server.URL).PaperByDOI(context.Background(), "10.1/abc")
	if err != nil {
		t.Fatal(err)
	}
	if p.Title != "Found" || p.CitationCount != 7 {
		t.Errorf("unexpected paper: %+v", p)
	}
	if p.ExternalIDs.ArXiv != "2101.00001" {
		t.Errorf("external IDs not parsed: %+v", p.ExternalIDs)
	}
}

func TestPaperByArXiv(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/paper/ARXIV:2101.00001" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"paperId":"abc","title":"Preprint","citationCount":3}`)
	}))
	defer server.Close()

	p, err := newTestClient(server.URL).PaperByArXiv(context.Background(), "2101.00001")
	if err != nil {
		t.Fatal(err)
	}
	if p.Title != "Preprint" || p.CitationCount != 3 {
		t.Errorf("unexpected paper: %+v", p)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		check  func(error) bool
		name   string
	}{
		{http.StatusNotFound, IsNotFound, "not found"},
		{http.StatusTooManyRequests, IsRateLimited, "rate limited"},
		{http.StatusUnauthorized, func(err error) bool { return errors.Is(err, ErrAuthError) }, "auth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).PaperByDOI(context.Background(), "10.1/x")
			if err == nil || !tt.check(err) {
				t.Errorf("status %d: wrong error classification: %v", tt.status, err)
			}
		})
	}
}

func TestAPIKeyHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "secret" {
			t.Errorf("x-api-key = %q, want secret", got)
		}
		fmt.Fprint(w, `{"paperId":"abc","title":"T"}`)
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL), WithAPIKey("secret"))
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	if _, err := c.PaperByDOI(context.Background(), "10.1/x"); err != nil {
		t.Fatal(err)
	}
}
