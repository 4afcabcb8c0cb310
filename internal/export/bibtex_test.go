package export

import (
	"strings"
	"testing"

	"github.com/citelens/citelens/internal/paper"
)

func TestToBibTeX_BasicArticle(t *testing.T) {
	p := paper.Paper{
		DOI:   "10.1234/test",
		Title: "Variational Tree Inference",
		Authors: []paper.Author{
			{First: "John", Last: "Smith"},
			{First: "Jane", Last: "Doe"},
		},
		Venue: "Nature",
		Year:  2021,
	}

	got := ToBibTeX(p)

	if !strings.HasPrefix(got, "@article{smith2021variational,") {
		t.Errorf("ToBibTeX() should start with @article{smith2021variational, got:\n%s", got)
	}

	if !strings.Contains(got, `author = {Smith, John and Doe, Jane}`) {
		t.Errorf("ToBibTeX() should contain properly formatted authors, got:\n%s", got)
	}

	if !strings.Contains(got, `title = {Variational Tree Inference}`) {
		t.Errorf("ToBibTeX() should contain title, got:\n%s", got)
	}

	if !strings.Contains(got, `journal = {Nature}`) {
		t.Errorf("ToBibTeX() should contain journal, got:\n%s", got)
	}

	if !strings.Contains(got, `year = {2021}`) {
		t.Errorf("ToBibTeX() should contain year, got:\n%s", got)
	}

	if !strings.Contains(got, `doi = {10.1234/test}`) {
		t.Errorf("ToBibTeX() should contain DOI, got:\n%s", got)
	}

	if !strings.HasSuffix(strings.TrimSpace(got), "}") {
		t.Errorf("ToBibTeX() should end with }, got:\n%s", got)
	}
}

func TestToBibTeX_Inproceedings(t *testing.T) {
	p := paper.Paper{
		Title: "A Conference Paper",
		Authors: []paper.Author{
			{First: "Alice", Last: "Brown"},
		},
		Venue: "Proceedings of ICML 2021",
		Year:  2021,
	}

	got := ToBibTeX(p)

	if !strings.HasPrefix(got, "@inproceedings{") {
		t.Errorf("ToBibTeX() should use @inproceedings for proceedings venue, got:\n%s", got)
	}
	if !strings.Contains(got, `booktitle = {Proceedings of ICML 2021}`) {
		t.Errorf("ToBibTeX() should use booktitle field, got:\n%s", got)
	}
}

func TestToBibTeX_ArXivPreprint(t *testing.T) {
	p := paper.Paper{
		Title:   "A Preprint",
		ArXivID: "2101.00001",
		Authors: []paper.Author{{First: "Bob", Last: "Gray"}},
		Year:    2021,
	}

	got := ToBibTeX(p)

	if !strings.Contains(got, `eprint = {2101.00001}`) {
		t.Errorf("ToBibTeX() should carry the arXiv eprint, got:\n%s", got)
	}
	if !strings.Contains(got, `archivePrefix = {arXiv}`) {
		t.Errorf("ToBibTeX() should carry archivePrefix, got:\n%s", got)
	}
}

func TestToBibTeX_EscapesLatex(t *testing.T) {
	p := paper.Paper{
		Title: "Proteins & Pathways: 100% of _cases_",
		Year:  2020,
	}

	got := ToBibTeX(p)

	if !strings.Contains(got, `Proteins \& Pathways: 100\% of \_cases\_`) {
		t.Errorf("ToBibTeX() should escape LaTeX characters, got:\n%s", got)
	}
}

func TestCitationKey(t *testing.T) {
	tests := []struct {
		name string
		p    paper.Paper
		want string
	}{
		{
			"full key",
			paper.Paper{
				Title:   "The Variational Method",
				Year:    2021,
				Authors: []paper.Author{{First: "J", Last: "Smith"}},
			},
			"smith2021variational",
		},
		{
			"no author",
			paper.Paper{Title: "On Trees", Year: 2020},
			"2020trees",
		},
		{
			"unicode author",
			paper.Paper{
				Title:   "Data",
				Year:    2019,
				Authors: []paper.Author{{First: "Anna", Last: "Müller"}},
			},
			"müller2019data",
		},
		{
			"empty paper",
			paper.Paper{},
			"untitled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := citationKey(tt.p); got != tt.want {
				t.Errorf("citationKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToBibTeXList(t *testing.T) {
	papers := []paper.Paper{
		{Title: "First", Year: 2020},
		{Title: "Second", Year: 2021},
	}

	got := ToBibTeXList(papers)

	if strings.Count(got, "@article{") != 2 {
		t.Errorf("ToBibTeXList() should contain two entries, got:\n%s", got)
	}
}
