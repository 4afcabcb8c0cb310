package orcid

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/time/rate"
)

const testORCID = "0000-0002-1825-0097"

func newTestClient(serverURL string) *Client {
	c := NewClient(testORCID, WithBaseURL(serverURL), WithTokenURL(serverURL+"/oauth/token"))
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	return c
}

const worksJSON = `{
	"group": [
		{
			"work-summary": [
				{
					"put-code": 1001,
					"title": {"title": {"value": "Deep Learning for Phylogenetics"}},
					"external-ids": {"external-id": [
						{"external-id-type": "doi", "external-id-value": "https://doi.org/10.1234/ABC.123"},
						{"external-id-type": "arxiv", "external-id-value": "2101.00001v2"}
					]},
					"publication-date": {"year": {"value": "2021"}},
					"journal-title": {"value": "Nature Methods"},
					"url": {"value": "https://example.org/paper1"},
					"type": "journal-article"
				}
			]
		},
		{
			"work-summary": [
				{
					"put-code": 1002,
					"title": {"title": {"value": "An Untracked Preprint"}},
					"external-ids": {"external-id": []}
				}
			]
		},
		{
			"work-summary": []
		}
	]
}`

func TestGetWorks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/"+testORCID+"/works" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q, want application/json", got)
		}
		fmt.Fprint(w, worksJSON)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	papers, err := client.GetWorks(context.Background())
	if err != nil {
		t.Fatalf("GetWorks() error = %v", err)
	}

	if len(papers) != 2 {
		t.Fatalf("got %d papers, want 2", len(papers))
	}

	first := papers[0]
	if first.Title != "Deep Learning for Phylogenetics" {
		t.Errorf("Title = %q", first.Title)
	}
	if first.DOI != "10.1234/abc.123" {
		t.Errorf("DOI = %q, want normalized 10.1234/abc.123", first.DOI)
	}
	if first.ArXivID != "2101.00001" {
		t.Errorf("ArXivID = %q, want 2101.00001", first.ArXivID)
	}
	if first.Year != 2021 {
		t.Errorf("Year = %d, want 2021", first.Year)
	}
	if first.Venue != "Nature Methods" {
		t.Errorf("Venue = %q", first.Venue)
	}
	if first.Source != "orcid" {
		t.Errorf("Source = %q, want orcid", first.Source)
	}

	second := papers[1]
	if second.Title != "An Untracked Preprint" {
		t.Errorf("Title = %q", second.Title)
	}
	if second.DOI != "" || second.Year != 0 {
		t.Errorf("expected empty DOI and zero year, got DOI=%q year=%d", second.DOI, second.Year)
	}
}

func TestGetWorksNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetWorks(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestGetWorksErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrAuthError},
		{"forbidden", http.StatusForbidden, ErrAuthError},
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"server error", http.StatusInternalServerError, ErrAPIError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := newTestClient(server.URL)
			_, err := client.GetWorks(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetPerson(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/"+testORCID+"/person" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"name": {"given-names": {"value": "Josiah"}, "family-name": {"value": "Carberry"}}}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	person, err := client.GetPerson(context.Background())
	if err != nil {
		t.Fatalf("GetPerson() error = %v", err)
	}
	if person.Name != "Josiah Carberry" {
		t.Errorf("Name = %q, want Josiah Carberry", person.Name)
	}
	if person.ORCID != testORCID {
		t.Errorf("ORCID = %q, want %s", person.ORCID, testORCID)
	}
}

func TestAuthenticate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oauth/token" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parsing form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "client_credentials" {
			t.Errorf("grant_type = %q", got)
		}
		if got := r.PostForm.Get("scope"); got != "/read-public" {
			t.Errorf("scope = %q", got)
		}
		fmt.Fprint(w, `{"access_token": "test-token-abc", "token_type": "bearer"}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if err := client.Authenticate(context.Background(), "my-id", "my-secret"); err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if client.accessToken != "test-token-abc" {
		t.Errorf("accessToken = %q", client.accessToken)
	}
}

func TestAuthenticateMissingCredentials(t *testing.T) {
	client := NewClient(testORCID)
	err := client.Authenticate(context.Background(), "", "")
	if !errors.Is(err, ErrAuthError) {
		t.Errorf("error = %v, want ErrAuthError", err)
	}
}

func TestBearerTokenSent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q, want Bearer tok", got)
		}
		fmt.Fprint(w, `{"group": []}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	client.accessToken = "tok"
	if _, err := client.GetWorks(context.Background()); err != nil {
		t.Fatalf("GetWorks() error = %v", err)
	}
}
