package scholar

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/citelens/citelens/internal/paper"
)

// parseProfile extracts the author stats and publication rows from a
// profile page.
func parseProfile(r io.Reader) (*Profile, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing profile HTML: %w", err)
	}

	profile := &Profile{
		Name: strings.TrimSpace(doc.Find("#gsc_prf_in").Text()),
	}

	// The stats table holds citations, h-index and i10-index, each as
	// an all-time and a recent column. We take the all-time values.
	var stats []int
	doc.Find("#gsc_rsb_st td.gsc_rsb_std").Each(func(i int, s *goquery.Selection) {
		if i%2 != 0 {
			return
		}
		stats = append(stats, parseCount(s.Text()))
	})
	if len(stats) >= 3 {
		profile.TotalCitations = stats[0]
		profile.HIndex = stats[1]
		profile.I10Index = stats[2]
	}

	doc.Find("tr.gsc_a_tr").Each(func(_ int, row *goquery.Selection) {
		pub := parseRow(row)
		if pub.Paper.Title == "" {
			return
		}
		profile.Publications = append(profile.Publications, pub)
	})

	return profile, nil
}

// parseRow extracts one publication row. The second gray line carries
// the venue, often with a trailing volume and year we keep as-is.
func parseRow(row *goquery.Selection) Publication {
	titleLink := row.Find("td.gsc_a_t a.gsc_a_at")

	p := paper.Paper{
		Title:  strings.TrimSpace(titleLink.Text()),
		Source: paper.PlatformGoogleScholar,
	}
	if href, ok := titleLink.Attr("href"); ok && href != "" {
		p.URL = "https://scholar.google.com" + href
	}

	gray := row.Find("td.gsc_a_t div.gs_gray")
	if gray.Length() > 0 {
		p.Authors = paper.AuthorsFromNames(splitAuthorList(gray.First().Text()))
	}
	if gray.Length() > 1 {
		p.Venue = strings.TrimSpace(gray.Eq(1).Text())
	}

	if year := parseCount(row.Find("td.gsc_a_y span").Text()); year > 0 {
		p.Year = year
	}

	return Publication{
		Paper:     p,
		Citations: parseCount(row.Find("td.gsc_a_c a").Text()),
	}
}

// splitAuthorList splits Scholar's comma-separated, possibly truncated
// author line. A trailing "..." marker means the list was cut off.
func splitAuthorList(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ",") {
		name := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(part), "..."))
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// parseCount parses an integer cell, tolerating empty cells and the
// asterisk Scholar appends to merged citation counts.
func parseCount(s string) int {
	s = strings.TrimSuffix(strings.TrimSpace(s), "*")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
